package caption

import (
	"errors"
	"math"
	"strings"
)

// caption length used when only a start time is known
const DefaultDuration = 5.0

var (
	ErrEmptyText       = errors.New("caption text is empty")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrIndexOutOfRange = errors.New("caption index out of range")
	ErrUnknownField    = errors.New("unknown caption field")
	ErrInvalidRange    = errors.New("caption end must be after start")
)

// one timed caption, times in seconds from the start of the media
type Caption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// reports whether t falls inside [Start, End)
func (c Caption) Contains(t float64) bool {
	return t >= c.Start && t < c.End
}

func (c Caption) Duration() float64 {
	return c.End - c.Start
}

// editable caption attribute
type Field string

const (
	FieldStart Field = "start"
	FieldEnd   Field = "end"
	FieldText  Field = "text"
)

func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldStart, FieldEnd, FieldText:
		return f, nil
	default:
		return "", ErrUnknownField
	}
}

// largest accepted time in seconds; time-codes past it no longer fit in
// int64 milliseconds
const MaxTime = 1e15

func validTime(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0) && t >= 0 && t <= MaxTime
}

// checks a complete record. end <= start only fails when strict is set,
// matching the per-field edit rules.
func Validate(c Caption, strict bool) error {
	if !validTime(c.Start) || !validTime(c.End) {
		return ErrInvalidNumber
	}
	if strict && c.End <= c.Start {
		return ErrInvalidRange
	}
	if strings.TrimSpace(c.Text) == "" {
		return ErrEmptyText
	}
	return nil
}
