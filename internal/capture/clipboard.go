// Package capture manages context captured from the clipboard and files
// before it is attached to an outgoing message.
package capture

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard abstracts the system clipboard for testing.
type Clipboard interface {
	// Read returns the current clipboard text.
	Read() (string, error)

	// Write replaces the clipboard text.
	Write(text string) error
}

// SystemClipboard reads and writes the OS clipboard.
type SystemClipboard struct{}

// NewSystemClipboard creates a clipboard backed by the OS.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// Read returns the current clipboard text.
func (c *SystemClipboard) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return text, nil
}

// Write replaces the clipboard text.
func (c *SystemClipboard) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}
