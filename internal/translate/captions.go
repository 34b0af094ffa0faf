package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/cueline/internal/caption"
)

// Captions translates caption text and returns a new sequence with the same
// timing. Translators that support it run with the given concurrency. A
// missing or blank translation for any caption fails the whole call.
func Captions(
	ctx context.Context,
	t Translator,
	captions []caption.Caption,
	concurrency int,
) ([]caption.Caption, error) {
	if len(captions) == 0 {
		return []caption.Caption{}, nil
	}

	items := make([]Item, len(captions))
	for i, c := range captions {
		items[i] = Item{Index: i, Text: c.Text}
	}

	var (
		results []Result
		err     error
	)
	if ct, ok := t.(ConcurrentTranslator); ok && concurrency > 1 {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = t.Translate(ctx, items)
	}
	if err != nil {
		return nil, err
	}

	byIndex := make(map[int]string, len(results))
	for _, r := range results {
		byIndex[r.Index] = r.Text
	}

	out := make([]caption.Caption, len(captions))
	for i, c := range captions {
		text, ok := byIndex[i]
		if !ok || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("missing translation for caption %d", i)
		}
		out[i] = caption.Caption{Start: c.Start, End: c.End, Text: text}
	}
	return out, nil
}

// Overlay stacks each translation above its original text for bilingual
// captions. Both sequences must line up one to one.
func Overlay(original, translated []caption.Caption) ([]caption.Caption, error) {
	if len(original) != len(translated) {
		return nil, fmt.Errorf("overlay needs matching sequences, got %d and %d", len(original), len(translated))
	}
	out := make([]caption.Caption, len(original))
	for i, c := range original {
		out[i] = caption.Caption{
			Start: c.Start,
			End:   c.End,
			Text:  translated[i].Text + "\n" + c.Text,
		}
	}
	return out, nil
}
