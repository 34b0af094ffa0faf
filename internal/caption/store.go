package caption

import (
	"fmt"
	"strconv"
	"strings"
)

// kind of mutation reported to subscribers
type EventKind string

const (
	EventAdded    EventKind = "added"
	EventEdited   EventKind = "edited"
	EventDeleted  EventKind = "deleted"
	EventCleared  EventKind = "cleared"
	EventReplaced EventKind = "replaced"
)

// Index is -1 for whole-sequence events (clear, replace)
type Event struct {
	Kind     EventKind
	Index    int
	Revision uint64
}

type Option func(*Store)

// sets the length given to captions added with only a start time.
// Non-positive values are ignored.
func WithDefaultDuration(seconds float64) Option {
	return func(s *Store) {
		if validTime(seconds) && seconds > 0 {
			s.defaultDuration = seconds
		}
	}
}

// rejects start/end edits that leave end <= start
func WithStrictTiming(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

// Store holds the captions of one editing session in insertion order.
// Edits are index-addressed and never reorder the sequence, so the order is
// not guaranteed to follow start times.
//
// A Store is not safe for concurrent use; the owner serializes access.
type Store struct {
	captions        []Caption
	defaultDuration float64
	strict          bool
	revision        uint64
	subscribers     []func(Event)
}

func NewStore(opts ...Option) *Store {
	s := &Store{defaultDuration: DefaultDuration}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) DefaultDuration() float64 {
	return s.defaultDuration
}

// registers fn to be called after every successful mutation
func (s *Store) Subscribe(fn func(Event)) {
	s.subscribers = append(s.subscribers, fn)
}

// Add appends a caption starting at currentTime and lasting the default
// duration. The text is trimmed and must not be empty.
func (s *Store) Add(currentTime float64, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return -1, ErrEmptyText
	}
	if !validTime(currentTime) || !validTime(currentTime+s.defaultDuration) {
		return -1, fmt.Errorf("%w: start %v", ErrInvalidNumber, currentTime)
	}

	s.captions = append(s.captions, Caption{
		Start: currentTime,
		End:   currentTime + s.defaultDuration,
		Text:  text,
	})
	index := len(s.captions) - 1
	s.notify(EventAdded, index)
	return index, nil
}

// Edit changes one field of the caption at index. Times must be finite,
// non-negative numbers; text is stored as given but must not be blank.
func (s *Store) Edit(index int, field Field, value string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	updated := s.captions[index]
	switch field {
	case FieldStart, FieldEnd:
		t, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || !validTime(t) {
			return fmt.Errorf("%w: %s %q", ErrInvalidNumber, field, value)
		}
		if field == FieldStart {
			updated.Start = t
		} else {
			updated.End = t
		}
		if s.strict && updated.End <= updated.Start {
			return fmt.Errorf(
				"%w: start %v, end %v",
				ErrInvalidRange,
				updated.Start,
				updated.End,
			)
		}
	case FieldText:
		if strings.TrimSpace(value) == "" {
			return ErrEmptyText
		}
		updated.Text = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	s.captions[index] = updated
	s.notify(EventEdited, index)
	return nil
}

// Delete removes the caption at index; later captions shift down by one.
func (s *Store) Delete(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.captions = append(s.captions[:index], s.captions[index+1:]...)
	s.notify(EventDeleted, index)
	return nil
}

func (s *Store) Clear() {
	s.captions = nil
	s.notify(EventCleared, -1)
}

// Replace swaps the whole sequence, typically after an import. Nothing
// changes if any record is invalid.
func (s *Store) Replace(captions []Caption) error {
	for i, c := range captions {
		if err := Validate(c, s.strict); err != nil {
			return fmt.Errorf("caption %d: %w", i+1, err)
		}
	}
	s.captions = append([]Caption(nil), captions...)
	s.notify(EventReplaced, -1)
	return nil
}

// Snapshot returns a copy of the sequence that callers may keep or modify.
func (s *Store) Snapshot() []Caption {
	out := make([]Caption, len(s.captions))
	copy(out, s.captions)
	return out
}

func (s *Store) Len() int {
	return len(s.captions)
}

func (s *Store) At(index int) (Caption, error) {
	if err := s.checkIndex(index); err != nil {
		return Caption{}, err
	}
	return s.captions[index], nil
}

// increases by one on every successful mutation
func (s *Store) Revision() uint64 {
	return s.revision
}

// indices of the captions visible at playback time t
func (s *Store) ActiveAt(t float64) []int {
	var active []int
	for i, c := range s.captions {
		if c.Contains(t) {
			active = append(active, i)
		}
	}
	return active
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.captions) {
		return fmt.Errorf(
			"%w: %d (have %d captions)",
			ErrIndexOutOfRange,
			index,
			len(s.captions),
		)
	}
	return nil
}

func (s *Store) notify(kind EventKind, index int) {
	s.revision++
	ev := Event{Kind: kind, Index: index, Revision: s.revision}
	for _, fn := range s.subscribers {
		fn(ev)
	}
}
