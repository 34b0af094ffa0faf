package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cueline/internal/caption"
	ffmpegbin "github.com/mgpai22/cueline/internal/ffmpeg"
	"github.com/mgpai22/cueline/internal/fsutil"
	"github.com/mgpai22/cueline/internal/session"
	"github.com/mgpai22/cueline/internal/subtitle"
)

func newSession() *session.Session {
	return session.New(session.Options{
		DefaultDuration: cfg.Caption.DefaultDuration,
		StrictTiming:    cfg.Caption.StrictTiming,
		ExportFormat:    cfg.ExportFormat(),
		ExportFilename:  cfg.Export.Filename,
	}, nil, nil, logger)
}

func newResolver() *ffmpegbin.Resolver {
	return ffmpegbin.NewResolver(cfg.Media.FFmpegPath, cfg.Media.FFprobePath)
}

// openCaptionFile loads path into a fresh session. A missing file starts
// empty when allowMissing is set.
func openCaptionFile(path string, allowMissing bool) (*session.Session, subtitle.Format, error) {
	format, err := subtitle.FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}

	s := newSession()
	if _, err := s.ImportFile(path); err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return s, format, nil
		}
		return nil, "", err
	}
	return s, format, nil
}

// outputTarget is --output when given, otherwise the input file. The
// format follows the target's extension.
func outputTarget(cmd *cobra.Command, inputPath string, inputFormat subtitle.Format) (string, subtitle.Format, error) {
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return inputPath, inputFormat, nil
	}
	format, err := subtitle.FormatFromPath(out)
	if err != nil {
		return "", "", err
	}
	return out, format, nil
}

// saveCaptions writes captions atomically. An empty sequence leaves an
// empty file, since no writer renders zero captions.
func saveCaptions(captions []caption.Caption, format subtitle.Format, path string) error {
	if len(captions) == 0 {
		if err := fsutil.WriteFileAtomic(path, nil, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}
	if err := subtitle.WriteFile(captions, format, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
