package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var ErrUnavailable = errors.New("clipboard unavailable")

// Available is false on headless systems without xclip, xsel or wl-copy.
func Available() bool {
	return !clipboard.Unsupported
}

// WriteAll copies text to the system clipboard.
func WriteAll(text string) error {
	if text == "" {
		return errors.New("nothing to copy")
	}
	if !Available() {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// ReadAll returns the clipboard text.
func ReadAll() (string, error) {
	if !Available() {
		return "", ErrUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}
