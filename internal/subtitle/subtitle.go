package subtitle

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mgpai22/cueline/internal/caption"
)

var (
	ErrEmptyInput        = errors.New("no captions")
	ErrMalformedBlock    = errors.New("malformed subtitle block")
	ErrUnsupportedFormat = errors.New("unsupported subtitle format")
)

// represents supported subtitle formats
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatASS  Format = "ass"
	FormatTTML Format = "ttml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case FormatSRT, FormatVTT, FormatASS, FormatTTML:
		return f, nil
	case "ssa":
		return FormatASS, nil
	case "xml", "dfxp":
		return FormatTTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// interface for serializing a caption sequence
type Writer interface {
	Encode(captions []caption.Caption) ([]byte, error)
}

// interface for parsing a caption sequence
type Reader interface {
	Decode(r io.Reader) ([]caption.Caption, error)
}

// absorbs binary representation error so that a time decoded from a
// time-code re-encodes to the same time-code
const timeEpsilon = 1e-6

// splits seconds into time-code components, truncating to whole
// milliseconds. Times beyond caption.MaxTime are clamped to it.
func splitTime(seconds float64) (hours, minutes, secs, millis int64) {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, 0, 0, 0
	}
	seconds = math.Min(seconds, caption.MaxTime)
	total := int64(math.Floor(seconds*1000 + timeEpsilon))
	hours = total / 3_600_000
	minutes = total / 60_000 % 60
	secs = total / 1000 % 60
	millis = total % 1000
	return hours, minutes, secs, millis
}

func millisToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}

// saturates at the largest time.Duration
func secondsToDuration(seconds float64) time.Duration {
	if seconds >= float64(math.MaxInt64/int64(time.Second)) {
		return time.Duration(math.MaxInt64).Truncate(time.Millisecond)
	}
	h, m, s, ms := splitTime(seconds)
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
}

func durationToSeconds(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return millisToSeconds(d.Milliseconds())
}

// MIME type used when a subtitle document is downloaded
func ContentType(format Format) string {
	switch format {
	case FormatVTT:
		return "text/vtt; charset=utf-8"
	case FormatASS:
		return "text/x-ssa; charset=utf-8"
	case FormatTTML:
		return "application/ttml+xml; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// download name offered when no explicit filename is configured
func DefaultFilename(format Format) string {
	return "subtitles" + GetExtensionForFormat(format)
}
