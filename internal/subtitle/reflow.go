package subtitle

import (
	"strings"
	"unicode/utf8"

	"github.com/mgpai22/cueline/internal/caption"
)

// Reflow reshapes captions for display: long captions are split across
// several entries and each entry is wrapped onto at most two lines.
type Reflow struct {
	MaxCharsPerLine int
	MaxLinesPerSub  int
	// seconds
	MaxDuration float64
}

func NewReflow() *Reflow {
	return &Reflow{
		MaxCharsPerLine: 42, // standard subtitle line length
		MaxLinesPerSub:  2,  // most players support 2 lines
		MaxDuration:     7,
	}
}

// Apply returns a new caption sequence; the input is not modified.
// Captions whose end precedes their start are passed through untouched.
func (g *Reflow) Apply(captions []caption.Caption) []caption.Caption {
	out := make([]caption.Caption, 0, len(captions))

	for _, c := range captions {
		text := strings.TrimSpace(c.Text)
		if text == "" || c.End <= c.Start {
			out = append(out, c)
			continue
		}

		if g.needsSplit(text, c.End-c.Start) {
			out = append(out, g.split(c)...)
		} else {
			out = append(out, caption.Caption{
				Start: c.Start,
				End:   c.End,
				Text:  g.wrap(text),
			})
		}
	}

	return out
}

func (g *Reflow) needsSplit(text string, duration float64) bool {
	// if text is too long, split
	if utf8.RuneCountInString(text) > g.MaxCharsPerLine*g.MaxLinesPerSub {
		return true
	}

	// if duration is too long, split
	return g.MaxDuration > 0 && duration > g.MaxDuration
}

// distributes words evenly over the caption's time span
func (g *Reflow) split(c caption.Caption) []caption.Caption {
	text := strings.TrimSpace(c.Text)
	words := strings.Fields(text)
	total := c.End - c.Start

	maxChars := g.MaxCharsPerLine * g.MaxLinesPerSub
	totalChars := utf8.RuneCountInString(text)

	numSplits := (totalChars + maxChars - 1) / maxChars
	if numSplits < 1 {
		numSplits = 1
	}
	if g.MaxDuration > 0 {
		if byDuration := int(total/g.MaxDuration) + 1; byDuration > numSplits {
			numSplits = byDuration
		}
	}
	if numSplits > len(words) {
		numSplits = len(words)
	}

	wordsPerSplit := (len(words) + numSplits - 1) / numSplits
	step := total / float64(numSplits)

	var out []caption.Caption
	start := c.Start

	for i := 0; i < numSplits && len(words) > 0; i++ {
		endIdx := min(wordsPerSplit, len(words))
		chunk := words[:endIdx]
		words = words[endIdx:]

		end := start + step
		// last piece keeps the original end time
		if len(words) == 0 {
			end = c.End
		}

		out = append(out, caption.Caption{
			Start: start,
			End:   end,
			Text:  g.wrap(strings.Join(chunk, " ")),
		})
		start = end
	}

	return out
}

// breaks text into two lines at the word boundary closest to the middle
func (g *Reflow) wrap(text string) string {
	text = strings.TrimSpace(text)
	runeCount := utf8.RuneCountInString(text)

	if runeCount <= g.MaxCharsPerLine {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := abs(currentLen - middle)
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit > 0 && bestSplit < len(words) {
		return strings.Join(words[:bestSplit], " ") + "\n" +
			strings.Join(words[bestSplit:], " ")
	}

	return text
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
