package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/cueline/internal/caption"
	"github.com/mgpai22/cueline/internal/fsutil"
)

// reads and writes one subtitle format
type Codec interface {
	Writer
	Reader
}

func NewCodec(format Format) (Codec, error) {
	switch format {
	case FormatSRT:
		return SRTCodec{}, nil
	case FormatVTT:
		return VTTCodec{}, nil
	case FormatASS:
		return NewASSCodec(), nil
	case FormatTTML:
		return TTMLCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func NewWriter(format Format) (Writer, error) {
	return NewCodec(format)
}

func NewReader(format Format) (Reader, error) {
	return NewCodec(format)
}

// Encode serializes captions in the given format.
func Encode(captions []caption.Caption, format Format) ([]byte, error) {
	w, err := NewWriter(format)
	if err != nil {
		return nil, err
	}
	return w.Encode(captions)
}

// Read parses a subtitle document of the given format.
func Read(r io.Reader, format Format) ([]caption.Caption, error) {
	reader, err := NewReader(format)
	if err != nil {
		return nil, err
	}
	return reader.Decode(r)
}

// Open reads a subtitle file, choosing the parser by extension.
func Open(path string) ([]caption.Caption, Format, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open subtitle file: %w", err)
	}

	captions, err := Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return captions, format, nil
}

// WriteFile encodes captions and atomically replaces path.
func WriteFile(captions []caption.Caption, format Format, path string) error {
	data, err := Encode(captions, format)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// FormatFromPath is the strict form of GetFormatFromExtension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// subtitle format based on file extension, SRT when unknown
func GetFormatFromExtension(path string) Format {
	format, err := FormatFromPath(path)
	if err != nil {
		return FormatSRT
	}
	return format
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	case FormatTTML:
		return ".ttml"
	default:
		return ".srt"
	}
}
