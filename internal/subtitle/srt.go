package subtitle

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mgpai22/cueline/internal/caption"
)

// SubRip format
type SRTCodec struct{}

func (SRTCodec) Encode(captions []caption.Caption) ([]byte, error) {
	text, err := EncodeSRT(captions)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func (SRTCodec) Decode(r io.Reader) ([]caption.Caption, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading SRT: %w", err)
	}
	return DecodeSRT(string(data))
}

// EncodeSRT renders captions as SubRip text in the order given. Entries are
// numbered from 1 and each one is followed by a blank line. SubRip cannot
// carry blank lines inside a caption, so they are dropped from the text
// along with trailing newlines.
func EncodeSRT(captions []caption.Caption) (string, error) {
	if len(captions) == 0 {
		return "", ErrEmptyInput
	}

	var sb strings.Builder
	for i, c := range captions {
		// index (1-based)
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(FormatSRTTime(c.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatSRTTime(c.End))
		sb.WriteByte('\n')

		sb.WriteString(srtText(c.Text))
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// drops blank lines, which would otherwise end the block early
func srtText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// FormatSRTTime renders seconds as HH:MM:SS,mmm. The hour field widens past
// 99. Milliseconds are floored after a 1e-6 ms nudge, so a time less than a
// nanosecond short of a millisecond boundary rounds up to it (0.9999999995
// renders as 00:00:01,000). Times above caption.MaxTime render as MaxTime.
func FormatSRTTime(seconds float64) string {
	h, m, s, ms := splitTime(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// hours may exceed two digits; a period is tolerated in place of the comma
var srtTimeRegex = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})[,.](\d{3})$`)

// ParseSRTTime is the inverse of FormatSRTTime.
func ParseSRTTime(s string) (float64, error) {
	matches := srtTimeRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return 0, fmt.Errorf("invalid time-code %q", s)
	}
	ms, err := timecodeMillis(matches[1], matches[2], matches[3], matches[4])
	if err != nil {
		return 0, fmt.Errorf("invalid time-code %q: %w", s, err)
	}
	return millisToSeconds(ms), nil
}

func timecodeMillis(hours, minutes, seconds, millis string) (int64, error) {
	h, err := strconv.ParseInt(hours, 10, 64)
	if err != nil {
		return 0, err
	}
	m, err := strconv.ParseInt(minutes, 10, 64)
	if err != nil {
		return 0, err
	}
	if m > 59 {
		return 0, fmt.Errorf("minutes out of range: %d", m)
	}
	s, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return 0, err
	}
	if s > 59 {
		return 0, fmt.Errorf("seconds out of range: %d", s)
	}
	ms, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return 0, err
	}
	return h*3_600_000 + m*60_000 + s*1000 + ms, nil
}

// DecodeSRT parses SubRip text. Blank lines separate blocks; a UTF-8 BOM and
// CRLF line endings are accepted. Empty input yields no captions.
func DecodeSRT(text string) ([]caption.Caption, error) {
	blocks := splitBlocks(text)
	captions := make([]caption.Caption, 0, len(blocks))

	for n, blk := range blocks {
		c, err := parseSRTBlock(blk)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %v", ErrMalformedBlock, n+1, err)
		}
		captions = append(captions, c)
	}
	return captions, nil
}

func parseSRTBlock(lines []string) (caption.Caption, error) {
	if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil {
		return caption.Caption{}, fmt.Errorf("invalid index %q", lines[0])
	}
	if len(lines) < 2 {
		return caption.Caption{}, fmt.Errorf("missing timing line")
	}

	start, end, err := parseTimingLine(lines[1], ParseSRTTime)
	if err != nil {
		return caption.Caption{}, err
	}

	if len(lines) < 3 {
		return caption.Caption{}, fmt.Errorf("missing caption text")
	}
	return caption.Caption{
		Start: start,
		End:   end,
		Text:  strings.Join(lines[2:], "\n"),
	}, nil
}

// parses "<start> --> <end> [settings]" with the given time-code parser
func parseTimingLine(
	line string,
	parse func(string) (float64, error),
) (float64, float64, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("missing --> separator in %q", line)
	}

	start, err := parse(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}

	// cue settings may follow the end time
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("missing end time in %q", line)
	}
	end, err := parse(endFields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

// splitBlocks normalizes line endings and groups non-blank lines into blocks
func splitBlocks(text string) [][]string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var blocks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}
