//go:build windows

package stderr

import (
	"os"

	"github.com/charmbracelet/log"
)

// Capture is a no-op on Windows, where the audio backend does not write
// to stderr.
type Capture struct{}

// Start returns a no-op capture.
func Start(_ *log.Logger) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Close does nothing.
func (c *Capture) Close() error { return nil }
