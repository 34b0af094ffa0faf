package media

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFileType = errors.New("only audio and video files are supported")

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
	}
	return videoExts[ext]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".oga":  true,
		".opus": true,
		".m4a":  true,
		".wma":  true,
		".aiff": true,
	}
	return audioExts[ext]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}

// IsMediaType reports whether a MIME type names audio or video content.
func IsMediaType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.HasPrefix(mediaType, "audio/") || strings.HasPrefix(mediaType, "video/")
}

// ContentType guesses the MIME type from the extension. When the extension
// does not name audio or video the first 512 bytes in head are sniffed.
func ContentType(path string, head []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	byExt := mime.TypeByExtension(ext)
	if IsMediaType(byExt) {
		return byExt
	}
	switch {
	case IsVideoFile(path):
		return "video/" + strings.TrimPrefix(ext, ".")
	case IsAudioFile(path):
		return "audio/" + strings.TrimPrefix(ext, ".")
	}
	if len(head) > 0 {
		return http.DetectContentType(head)
	}
	if byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// CheckFile applies the audio/video gate to a file on disk and returns its
// MIME type.
func CheckFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open media file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat media file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrUnsupportedFileType, path)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read media file: %w", err)
	}

	ct := ContentType(path, head[:n])
	if !IsMediaType(ct) {
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedFileType, filepath.Base(path), ct)
	}
	return ct, nil
}
