package translate

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// translates one batch with a single API request
type batchFunc func(ctx context.Context, items []Item) ([]Result, error)

func splitBatches(items []Item, size int) [][]Item {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var batches [][]Item
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}

// runSequential translates batches one after another.
func runSequential(ctx context.Context, items []Item, size int, fn batchFunc) ([]Result, error) {
	if len(items) == 0 {
		return []Result{}, nil
	}

	var all []Result
	for n, batch := range splitBatches(items, size) {
		results, err := fn(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d failed: %w", n, err)
		}
		all = append(all, results...)
	}

	sortResults(all)
	return all, nil
}

// runConcurrent hands batches to up to concurrency workers pulling from a
// shared queue. The first failing batch cancels the rest.
func runConcurrent(
	ctx context.Context,
	items []Item,
	size int,
	concurrency int,
	fn batchFunc,
) ([]Result, error) {
	if len(items) == 0 {
		return []Result{}, nil
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	batches := splitBatches(items, size)
	if len(batches) == 1 {
		return fn(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		index   int
		results []Result
		err     error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					results, err := fn(ctx, batches[idx])
					if err != nil {
						cancel()
					}
					resultChan <- batchResult{index: idx, results: results, err: err}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var all []Result
	var firstErr error
	for r := range resultChan {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d failed: %w", r.index, r.err)
				cancel()
			}
			continue
		}
		all = append(all, r.results...)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	// a parent cancellation can stop workers before every batch ran
	if err := ctx.Err(); err != nil && len(all) < len(items) {
		return nil, fmt.Errorf("translation cancelled: %w", err)
	}

	sortResults(all)
	return all, nil
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
}
