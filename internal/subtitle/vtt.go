package subtitle

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mgpai22/cueline/internal/caption"
)

// WebVTT format
type VTTCodec struct{}

func (VTTCodec) Encode(captions []caption.Caption) ([]byte, error) {
	if len(captions) == 0 {
		return nil, ErrEmptyInput
	}

	var sb strings.Builder

	// VTT header
	sb.WriteString("WEBVTT\n\n")

	for i, c := range captions {
		// optional cue identifier
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(FormatVTTTime(c.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatVTTTime(c.End))
		sb.WriteByte('\n')

		sb.WriteString(c.Text)
		sb.WriteString("\n\n")
	}
	return []byte(sb.String()), nil
}

func (VTTCodec) Decode(r io.Reader) ([]caption.Caption, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading VTT: %w", err)
	}
	return DecodeVTT(string(data))
}

func FormatVTTTime(seconds float64) string {
	h, m, s, ms := splitTime(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

var (
	vttTimeRegex      = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})\.(\d{3})$`)
	vttShortTimeRegex = regexp.MustCompile(`^(\d{2}):(\d{2})\.(\d{3})$`)
)

// ParseVTTTime accepts both HH:MM:SS.mmm and the short MM:SS.mmm form.
func ParseVTTTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if m := vttTimeRegex.FindStringSubmatch(s); m != nil {
		ms, err := timecodeMillis(m[1], m[2], m[3], m[4])
		if err != nil {
			return 0, fmt.Errorf("invalid time-code %q: %w", s, err)
		}
		return millisToSeconds(ms), nil
	}
	if m := vttShortTimeRegex.FindStringSubmatch(s); m != nil {
		ms, err := timecodeMillis("0", m[1], m[2], m[3])
		if err != nil {
			return 0, fmt.Errorf("invalid time-code %q: %w", s, err)
		}
		return millisToSeconds(ms), nil
	}
	return 0, fmt.Errorf("invalid time-code %q", s)
}

// DecodeVTT parses WebVTT text. The header, NOTE, STYLE and REGION blocks
// are skipped and cue identifiers are optional.
func DecodeVTT(text string) ([]caption.Caption, error) {
	blocks := splitBlocks(text)
	var captions []caption.Caption

	for n, blk := range blocks {
		first := strings.TrimSpace(blk[0])
		if n == 0 && strings.HasPrefix(first, "WEBVTT") {
			continue
		}
		if isVTTMetaBlock(first) {
			continue
		}

		lines := blk
		if !strings.Contains(lines[0], "-->") {
			// cue identifier
			lines = lines[1:]
		}
		if len(lines) == 0 || !strings.Contains(lines[0], "-->") {
			return nil, fmt.Errorf("%w: block %d: missing timing line", ErrMalformedBlock, n+1)
		}

		start, end, err := parseTimingLine(lines[0], ParseVTTTime)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %v", ErrMalformedBlock, n+1, err)
		}
		if len(lines) < 2 {
			return nil, fmt.Errorf("%w: block %d: missing caption text", ErrMalformedBlock, n+1)
		}

		captions = append(captions, caption.Caption{
			Start: start,
			End:   end,
			Text:  strings.Join(lines[1:], "\n"),
		})
	}

	if captions == nil {
		captions = []caption.Caption{}
	}
	return captions, nil
}

func isVTTMetaBlock(first string) bool {
	for _, kw := range []string{"NOTE", "STYLE", "REGION"} {
		if first == kw || strings.HasPrefix(first, kw+" ") || strings.HasPrefix(first, kw+"\t") {
			return true
		}
	}
	return false
}
