package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mgpai22/cueline/internal/caption"
	"github.com/mgpai22/cueline/internal/fsutil"
	"github.com/mgpai22/cueline/internal/logging"
	"github.com/mgpai22/cueline/internal/media"
	"github.com/mgpai22/cueline/internal/metrics"
	"github.com/mgpai22/cueline/internal/playback"
	"github.com/mgpai22/cueline/internal/subtitle"
)

// resolves media information for a file about to be loaded
type Prober interface {
	Probe(ctx context.Context, path string) (*media.Info, error)
}

// settings for one editing session
type Options struct {
	DefaultDuration float64
	StrictTiming    bool
	ExportFormat    subtitle.Format
	// download name; empty means subtitles.<ext>
	ExportFilename string
}

// Session is one editing session: a caption store, the mirrored player and
// the loaded media. Every method is safe for concurrent use; calls are
// serialized so the store only ever sees one mutator at a time.
type Session struct {
	mu     sync.Mutex
	store  *caption.Store
	player *playback.Mirror
	prober Prober
	opts   Options
	logger *logging.Logger

	media *media.Info
}

func New(opts Options, player *playback.Mirror, prober Prober, logger *logging.Logger) *Session {
	if opts.ExportFormat == "" {
		opts.ExportFormat = subtitle.FormatSRT
	}
	if player == nil {
		player = playback.NewMirror()
	}

	s := &Session{
		store: caption.NewStore(
			caption.WithDefaultDuration(opts.DefaultDuration),
			caption.WithStrictTiming(opts.StrictTiming),
		),
		player: player,
		prober: prober,
		opts:   opts,
		logger: logger.Named("session"),
	}
	s.store.Subscribe(func(ev caption.Event) {
		s.logger.Debugw("captions changed",
			"kind", ev.Kind,
			"index", ev.Index,
			"revision", ev.Revision,
		)
	})
	return s
}

func (s *Session) Player() *playback.Mirror {
	return s.player
}

// Add creates a caption at time at, or at the player's current position
// when at is nil.
func (s *Session) Add(text string, at *float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.player.CurrentTime()
	if at != nil {
		t = *at
	}

	idx, err := s.store.Add(t, text)
	metrics.RecordCaptionOperation("add", err)
	if err != nil {
		return -1, fmt.Errorf("failed to add caption: %w", err)
	}
	s.logger.Infow("caption added", "index", idx, "start", t)
	return idx, nil
}

func (s *Session) Edit(index int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := caption.ParseField(field)
	if err == nil {
		err = s.store.Edit(index, f, value)
	}
	metrics.RecordCaptionOperation("edit", err)
	if err != nil {
		return fmt.Errorf("failed to edit caption %d %s: %w", index, field, err)
	}
	s.logger.Infow("caption edited", "index", index, "field", f)
	return nil
}

func (s *Session) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Delete(index)
	metrics.RecordCaptionOperation("delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete caption: %w", err)
	}
	s.logger.Infow("caption deleted", "index", index)
	return nil
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear()
	metrics.RecordCaptionOperation("clear", nil)
	s.logger.Infow("captions cleared")
}

func (s *Session) Snapshot() []caption.Caption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Replace swaps in a complete caption sequence.
func (s *Session) Replace(captions []caption.Caption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Replace(captions)
	metrics.RecordCaptionOperation("replace", err)
	if err != nil {
		return fmt.Errorf("failed to replace captions: %w", err)
	}
	return nil
}

// Import parses a subtitle document and replaces the current captions with
// it. A document without captions is refused. On any error the session is
// left as it was.
func (s *Session) Import(r io.Reader, format subtitle.Format) (int, error) {
	captions, err := subtitle.Read(r, format)
	if err != nil {
		metrics.RecordCaptionOperation("import", err)
		return 0, fmt.Errorf("failed to import %s: %w", format, err)
	}
	if len(captions) == 0 {
		metrics.RecordCaptionOperation("import", subtitle.ErrEmptyInput)
		return 0, fmt.Errorf("failed to import %s: document has no captions: %w", format, subtitle.ErrEmptyInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.store.Replace(captions)
	metrics.RecordCaptionOperation("import", err)
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", format, err)
	}
	s.logger.Infow("captions imported", "format", format, "count", len(captions))
	return len(captions), nil
}

// ImportFile loads a caption file, choosing the format by extension.
func (s *Session) ImportFile(path string) (int, error) {
	captions, format, err := subtitle.Open(path)
	if err != nil {
		return 0, err
	}
	if err := s.Replace(captions); err != nil {
		return 0, err
	}
	s.logger.Infow("captions loaded", "path", path, "format", format, "count", len(captions))
	return len(captions), nil
}

// a rendered subtitle document ready for download
type Export struct {
	Data        []byte
	Filename    string
	ContentType string
	Format      subtitle.Format
}

// Export renders the current captions. An empty format uses the configured
// default. Exporting with no captions fails with subtitle.ErrEmptyInput.
func (s *Session) Export(format subtitle.Format) (*Export, error) {
	if format == "" {
		format = s.opts.ExportFormat
	}

	s.mu.Lock()
	captions := s.store.Snapshot()
	s.mu.Unlock()

	data, err := subtitle.Encode(captions, format)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", format, err)
	}
	metrics.RecordExport(string(format))

	out := &Export{
		Data:        data,
		Filename:    s.exportFilename(format),
		ContentType: subtitle.ContentType(format),
		Format:      format,
	}
	s.logger.Infow("captions exported",
		"format", format,
		"count", len(captions),
		"bytes", len(data),
	)
	return out, nil
}

func (s *Session) exportFilename(format subtitle.Format) string {
	if s.opts.ExportFilename == "" {
		return subtitle.DefaultFilename(format)
	}
	name := fsutil.SanitizeFilename(s.opts.ExportFilename)
	ext := subtitle.GetExtensionForFormat(format)
	if !strings.EqualFold(filepath.Ext(name), ext) {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
	}
	return name
}

// LoadMedia applies the audio/video gate, probes the file and points the
// player mirror at it.
func (s *Session) LoadMedia(ctx context.Context, path string) (*media.Info, error) {
	if s.prober == nil {
		return nil, fmt.Errorf("media probing is not configured")
	}

	info, err := s.prober.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.player.Load(path, info.Seconds()); err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}
	s.media = info
	s.logger.Infow("media loaded",
		"path", path,
		"duration", info.Duration,
		"video", info.HasVideo,
	)
	return info, nil
}

// MediaPath is empty until LoadMedia succeeds.
func (s *Session) MediaPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media == nil {
		return ""
	}
	return s.media.Path
}

// Media returns a copy of the loaded media information, or nil.
func (s *Session) Media() *media.Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media == nil {
		return nil
	}
	info := *s.media
	return &info
}
