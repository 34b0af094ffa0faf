package subtitle

import (
	"fmt"
	"io"
	"strings"

	"github.com/mgpai22/cueline/internal/caption"
)

// Advanced SubStation Alpha format
type ASSCodec struct {
	Title    string
	FontName string
	FontSize int
}

func NewASSCodec() *ASSCodec {
	return &ASSCodec{
		Title:    "Cueline Subtitles",
		FontName: "Arial",
		FontSize: 20,
	}
}

func (w *ASSCodec) Encode(captions []caption.Caption) ([]byte, error) {
	if len(captions) == 0 {
		return nil, ErrEmptyInput
	}

	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", w.Title))
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize))

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, c := range captions {
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			FormatASSTime(c.Start),
			FormatASSTime(c.End),
			escapeASSText(c.Text)))
	}

	return []byte(sb.String()), nil
}

// parsing is delegated to astisub
func (w *ASSCodec) Decode(r io.Reader) ([]caption.Caption, error) {
	return decodeSSA(r)
}

// H:MM:SS.cc
func FormatASSTime(seconds float64) string {
	h, m, s, ms := splitTime(seconds)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, ms/10)
}

func escapeASSText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\n", "\\N")
}
