package caption

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUsesDefaultDuration(t *testing.T) {
	s := NewStore()

	idx, err := s.Add(1.5, "  Hello there  ")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	got := s.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, Caption{Start: 1.5, End: 1.5 + DefaultDuration, Text: "Hello there"}, got[0])
}

func TestAddWithConfiguredDuration(t *testing.T) {
	s := NewStore(WithDefaultDuration(2))

	_, err := s.Add(10, "x")
	require.NoError(t, err)
	assert.Equal(t, 12.0, s.Snapshot()[0].End)

	ignored := NewStore(WithDefaultDuration(-1))
	assert.Equal(t, DefaultDuration, ignored.DefaultDuration())
}

func TestAddCountsOnlySuccessfulAdds(t *testing.T) {
	s := NewStore()
	inputs := []string{"one", "   ", "two", "", "\t\n", "three"}

	added := 0
	for i, text := range inputs {
		idx, err := s.Add(float64(i), text)
		if err != nil {
			assert.ErrorIs(t, err, ErrEmptyText)
			assert.Equal(t, -1, idx)
			continue
		}
		assert.Equal(t, added, idx)
		added++
	}

	assert.Equal(t, 3, added)
	assert.Len(t, s.Snapshot(), added)
}

func TestAddWhitespaceOnlyLeavesStoreUnchanged(t *testing.T) {
	s := NewStore()
	_, err := s.Add(3, "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(0), s.Revision())
}

func TestAddRejectsInvalidTime(t *testing.T) {
	s := NewStore()
	for _, v := range []float64{-1, math.NaN(), math.Inf(1), MaxTime + 1, MaxTime} {
		_, err := s.Add(v, "text")
		assert.ErrorIs(t, err, ErrInvalidNumber)
	}
	assert.Equal(t, 0, s.Len())
}

func TestEditAcceptsMaxTime(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(1, "a")
	require.NoError(t, s.Edit(0, FieldStart, "1e15"))
	assert.Equal(t, MaxTime, s.Snapshot()[0].Start)
}

func TestAddBeyondMediaEndIsAccepted(t *testing.T) {
	s := NewStore()
	_, err := s.Add(1e6, "late")
	assert.NoError(t, err)
}

func TestEditTimes(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(1, "a")

	require.NoError(t, s.Edit(0, FieldStart, "2.25"))
	require.NoError(t, s.Edit(0, FieldEnd, " 4.5 "))

	c, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, 2.25, c.Start)
	assert.Equal(t, 4.5, c.End)
}

func TestEditInvalidNumberLeavesCaptionUnchanged(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(1, "a")
	before := s.Snapshot()
	rev := s.Revision()

	for _, value := range []string{"abc", "", "-1", "NaN", "Inf", "1.5abc", "1e17", "1e300"} {
		err := s.Edit(0, FieldStart, value)
		assert.ErrorIs(t, err, ErrInvalidNumber, "value %q", value)
	}

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, rev, s.Revision())
}

func TestEditTextIsStoredVerbatim(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(0, "a")

	require.NoError(t, s.Edit(0, FieldText, "  padded  "))
	assert.Equal(t, "  padded  ", s.Snapshot()[0].Text)

	assert.ErrorIs(t, s.Edit(0, FieldText, "   "), ErrEmptyText)
	assert.Equal(t, "  padded  ", s.Snapshot()[0].Text)
}

func TestEditAllowsEndBeforeStartByDefault(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(10, "a")

	assert.NoError(t, s.Edit(0, FieldEnd, "5"))
	assert.Equal(t, 5.0, s.Snapshot()[0].End)
}

func TestEditStrictTiming(t *testing.T) {
	s := NewStore(WithStrictTiming(true))
	_, _ = s.Add(10, "a")

	assert.ErrorIs(t, s.Edit(0, FieldEnd, "10"), ErrInvalidRange)
	assert.ErrorIs(t, s.Edit(0, FieldStart, "20"), ErrInvalidRange)
	assert.Equal(t, Caption{Start: 10, End: 15, Text: "a"}, s.Snapshot()[0])
}

func TestEditErrors(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(0, "a")

	assert.ErrorIs(t, s.Edit(1, FieldText, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Edit(-1, FieldText, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Edit(0, Field("speaker"), "x"), ErrUnknownField)
}

func TestDeleteShiftsLaterCaptions(t *testing.T) {
	s := NewStore()
	for i, text := range []string{"a", "b", "c", "d"} {
		_, _ = s.Add(float64(i), text)
	}
	before := s.Snapshot()

	require.NoError(t, s.Delete(1))

	after := s.Snapshot()
	require.Len(t, after, 3)
	assert.NotContains(t, after, before[1])
	assert.Equal(t, before[0], after[0])
	for i := 1; i < len(after); i++ {
		assert.Equal(t, before[i+1], after[i])
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(0, "a")

	assert.ErrorIs(t, s.Delete(1), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Delete(-1), ErrIndexOutOfRange)
	assert.Equal(t, 1, s.Len())
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Clear()
	assert.Equal(t, 0, s.Len())

	_, _ = s.Add(0, "a")
	_, _ = s.Add(1, "b")
	s.Clear()
	assert.Empty(t, s.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(0, "a")

	snap := s.Snapshot()
	snap[0].Text = "mutated"

	assert.Equal(t, "a", s.Snapshot()[0].Text)
	assert.Equal(t, 1, s.Len())
}

func TestReplace(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(0, "old")

	in := []Caption{{Start: 1, End: 2, Text: "x"}, {Start: 0, End: 1, Text: "y"}}
	require.NoError(t, s.Replace(in))
	in[0].Text = "changed after replace"
	assert.Equal(t, []Caption{{Start: 1, End: 2, Text: "x"}, {Start: 0, End: 1, Text: "y"}}, s.Snapshot())

	err := s.Replace([]Caption{{Start: 0, End: 1, Text: "ok"}, {Start: 0, End: 1, Text: " "}})
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Len(t, s.Snapshot(), 2)

	assert.ErrorIs(t, s.Replace([]Caption{{Start: -1, End: 1, Text: "a"}}), ErrInvalidNumber)
}

func TestActiveAt(t *testing.T) {
	s := NewStore()
	_, _ = s.Add(0, "a")  // [0,5)
	_, _ = s.Add(3, "b")  // [3,8)
	_, _ = s.Add(10, "c") // [10,15)

	assert.Equal(t, []int{0}, s.ActiveAt(1))
	assert.Equal(t, []int{0, 1}, s.ActiveAt(4))
	assert.Equal(t, []int{1}, s.ActiveAt(5))
	assert.Nil(t, s.ActiveAt(9))
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	s := NewStore()
	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	_, _ = s.Add(0, "a")
	_, _ = s.Add(1, "   ")
	_ = s.Edit(0, FieldText, "b")
	_ = s.Delete(5)
	_ = s.Delete(0)
	s.Clear()

	require.Len(t, events, 4)
	assert.Equal(t, Event{Kind: EventAdded, Index: 0, Revision: 1}, events[0])
	assert.Equal(t, Event{Kind: EventEdited, Index: 0, Revision: 2}, events[1])
	assert.Equal(t, Event{Kind: EventDeleted, Index: 0, Revision: 3}, events[2])
	assert.Equal(t, Event{Kind: EventCleared, Index: -1, Revision: 4}, events[3])
}

func TestParseField(t *testing.T) {
	f, err := ParseField(" Start ")
	require.NoError(t, err)
	assert.Equal(t, FieldStart, f)

	_, err = ParseField("duration")
	assert.ErrorIs(t, err, ErrUnknownField)
}
