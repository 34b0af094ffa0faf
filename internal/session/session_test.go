package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/cueline/internal/caption"
	"github.com/mgpai22/cueline/internal/logging"
	"github.com/mgpai22/cueline/internal/media"
	"github.com/mgpai22/cueline/internal/playback"
	"github.com/mgpai22/cueline/internal/subtitle"
)

type fakeProber struct {
	info *media.Info
	err  error
}

func (f *fakeProber) Probe(_ context.Context, path string) (*media.Info, error) {
	if f.err != nil {
		return nil, f.err
	}
	info := *f.info
	info.Path = path
	return &info, nil
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	prober := &fakeProber{info: &media.Info{Duration: 90 * time.Second, HasAudio: true}}
	return New(opts, playback.NewMirror(), prober, logging.NewNop())
}

func floatPtr(v float64) *float64 { return &v }

func TestAddAtPlayerPosition(t *testing.T) {
	s := newTestSession(t, Options{})
	_, err := s.LoadMedia(context.Background(), "talk.mp3")
	require.NoError(t, err)
	require.NoError(t, s.Player().Report(12.5))

	idx, err := s.Add("Hello", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = s.Add("Explicit", floatPtr(3))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	assert.Equal(t, []caption.Caption{
		{Start: 12.5, End: 17.5, Text: "Hello"},
		{Start: 3, End: 8, Text: "Explicit"},
	}, s.Snapshot())
}

func TestAddUsesConfiguredDuration(t *testing.T) {
	s := newTestSession(t, Options{DefaultDuration: 2})
	_, err := s.Add("short", floatPtr(1))
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.Snapshot()[0].End)
}

func TestAddEmptyText(t *testing.T) {
	s := newTestSession(t, Options{})
	idx, err := s.Add("   ", nil)
	assert.ErrorIs(t, err, caption.ErrEmptyText)
	assert.Equal(t, -1, idx)
	assert.Empty(t, s.Snapshot())
}

func TestEditDeleteClear(t *testing.T) {
	s := newTestSession(t, Options{})
	_, _ = s.Add("a", floatPtr(0))
	_, _ = s.Add("b", floatPtr(1))

	require.NoError(t, s.Edit(1, "start", "1.25"))
	require.NoError(t, s.Edit(1, "TEXT", "bee"))
	assert.Equal(t, caption.Caption{Start: 1.25, End: 6, Text: "bee"}, s.Snapshot()[1])

	assert.ErrorIs(t, s.Edit(0, "start", "abc"), caption.ErrInvalidNumber)
	assert.ErrorIs(t, s.Edit(0, "color", "red"), caption.ErrUnknownField)
	assert.ErrorIs(t, s.Edit(5, "text", "x"), caption.ErrIndexOutOfRange)

	require.NoError(t, s.Delete(0))
	assert.Equal(t, "bee", s.Snapshot()[0].Text)
	assert.ErrorIs(t, s.Delete(3), caption.ErrIndexOutOfRange)

	s.Clear()
	assert.Empty(t, s.Snapshot())
}

func TestViewLabelsAndActive(t *testing.T) {
	s := newTestSession(t, Options{})
	_, err := s.LoadMedia(context.Background(), "talk.mp3")
	require.NoError(t, err)

	_, _ = s.Add("first", floatPtr(0))
	_, _ = s.Add("second", floatPtr(65.5))
	require.NoError(t, s.Player().Report(66))

	v := s.View()
	assert.Equal(t, uint64(2), v.Revision)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "00:00.000 - first", v.Items[0].Label)
	assert.Equal(t, "01:05.500 - second", v.Items[1].Label)
	assert.False(t, v.Items[0].Active)
	assert.True(t, v.Items[1].Active)

	st := s.PlaybackState()
	assert.Equal(t, []int{1}, st.Active)
	assert.Equal(t, "01:06.000 / 01:30.000", st.Timer)
}

func TestListView(t *testing.T) {
	v := ListView([]caption.Caption{{Start: 10, End: 5, Text: "inverted"}})
	require.Len(t, v.Items, 1)
	assert.Equal(t, "00:10.000 - inverted", v.Items[0].Label)
	assert.False(t, v.Items[0].Active)
}

func TestExport(t *testing.T) {
	s := newTestSession(t, Options{})

	_, err := s.Export("")
	assert.ErrorIs(t, err, subtitle.ErrEmptyInput)

	_, _ = s.Add("Hi", floatPtr(0))
	out, err := s.Export("")
	require.NoError(t, err)
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:05,000\nHi\n\n", string(out.Data))
	assert.Equal(t, "subtitles.srt", out.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", out.ContentType)

	out, err = s.Export(subtitle.FormatVTT)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out.Data), "WEBVTT"))
	assert.Equal(t, "subtitles.vtt", out.Filename)
}

func TestExportConfiguredFilename(t *testing.T) {
	s := newTestSession(t, Options{ExportFilename: "My Talk: Final.srt", ExportFormat: subtitle.FormatVTT})
	_, _ = s.Add("Hi", floatPtr(0))

	out, err := s.Export("")
	require.NoError(t, err)
	assert.Equal(t, subtitle.FormatVTT, out.Format)
	assert.Equal(t, "My Talk Final.vtt", out.Filename)
}

func TestImport(t *testing.T) {
	s := newTestSession(t, Options{})
	_, _ = s.Add("old", floatPtr(0))

	n, err := s.Import(strings.NewReader("1\n00:00:01,000 --> 00:00:02,000\nnew\n"), subtitle.FormatSRT)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []caption.Caption{{Start: 1, End: 2, Text: "new"}}, s.Snapshot())

	_, err = s.Import(strings.NewReader("1\nbroken\n"), subtitle.FormatSRT)
	assert.ErrorIs(t, err, subtitle.ErrMalformedBlock)
	assert.Equal(t, "new", s.Snapshot()[0].Text)
}

func TestImportEmptyDocumentKeepsCaptions(t *testing.T) {
	s := newTestSession(t, Options{})
	_, _ = s.Add("keep", floatPtr(0))

	for _, doc := range []string{"", "  \n\n "} {
		n, err := s.Import(strings.NewReader(doc), subtitle.FormatSRT)
		assert.ErrorIs(t, err, subtitle.ErrEmptyInput)
		assert.Equal(t, 0, n)
	}
	require.Len(t, s.Snapshot(), 1)
	assert.Equal(t, "keep", s.Snapshot()[0].Text)
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.vtt")
	require.NoError(t, os.WriteFile(path, []byte("WEBVTT\n\n00:01.000 --> 00:02.000\nhey\n"), 0o644))

	s := newTestSession(t, Options{})
	n, err := s.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "hey", s.Snapshot()[0].Text)
}

func TestLoadMediaRejected(t *testing.T) {
	prober := &fakeProber{err: media.ErrUnsupportedFileType}
	s := New(Options{}, playback.NewMirror(), prober, logging.NewNop())

	_, err := s.LoadMedia(context.Background(), "notes.txt")
	assert.True(t, errors.Is(err, media.ErrUnsupportedFileType))
	assert.Empty(t, s.MediaPath())
}

func TestLoadMedia(t *testing.T) {
	s := newTestSession(t, Options{})
	info, err := s.LoadMedia(context.Background(), "talk.mp3")
	require.NoError(t, err)
	assert.Equal(t, "talk.mp3", info.Path)
	assert.Equal(t, "talk.mp3", s.MediaPath())
	assert.Equal(t, 90.0, s.Player().Duration())
}
