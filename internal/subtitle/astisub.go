package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/asticode/go-astisub"

	"github.com/mgpai22/cueline/internal/caption"
)

// Timed Text Markup Language, read and written through astisub
type TTMLCodec struct{}

func (TTMLCodec) Encode(captions []caption.Caption) ([]byte, error) {
	if len(captions) == 0 {
		return nil, ErrEmptyInput
	}

	var buf bytes.Buffer
	if err := toAstisub(captions).WriteToTTML(&buf); err != nil {
		return nil, fmt.Errorf("failed to write TTML: %w", err)
	}
	return buf.Bytes(), nil
}

func (TTMLCodec) Decode(r io.Reader) ([]caption.Caption, error) {
	subs, err := astisub.ReadFromTTML(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}
	return fromAstisub(subs), nil
}

func decodeSSA(r io.Reader) ([]caption.Caption, error) {
	subs, err := astisub.ReadFromSSA(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}
	return fromAstisub(subs), nil
}

func toAstisub(captions []caption.Caption) *astisub.Subtitles {
	subs := astisub.NewSubtitles()
	for _, c := range captions {
		item := &astisub.Item{
			StartAt: secondsToDuration(c.Start),
			EndAt:   secondsToDuration(c.End),
		}
		for _, line := range strings.Split(c.Text, "\n") {
			item.Lines = append(item.Lines, astisub.Line{
				Items: []astisub.LineItem{{Text: line}},
			})
		}
		subs.Items = append(subs.Items, item)
	}
	return subs
}

// items whose text is blank after flattening are dropped
func fromAstisub(subs *astisub.Subtitles) []caption.Caption {
	captions := make([]caption.Caption, 0, len(subs.Items))
	for _, item := range subs.Items {
		lines := make([]string, 0, len(item.Lines))
		for _, line := range item.Lines {
			var sb strings.Builder
			for _, li := range line.Items {
				sb.WriteString(li.Text)
			}
			lines = append(lines, sb.String())
		}
		text := strings.Join(lines, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		captions = append(captions, caption.Caption{
			Start: durationToSeconds(item.StartAt),
			End:   durationToSeconds(item.EndAt),
			Text:  text,
		})
	}
	return captions
}
