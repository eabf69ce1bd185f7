// Package logging builds the structured loggers shared by the engine.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

const appName = "musicwave"

// New creates a logger writing to w with timestamps enabled.
// w defaults to os.Stderr; level is parsed with log.ParseLevel and falls
// back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// OpenFile opens path for appending, creating parent directories.
// An empty path selects musicwave/musicwave.log under the XDG state dir.
func OpenFile(path string) (*os.File, error) {
	if path == "" {
		p, err := xdg.StateFile(filepath.Join(appName, appName+".log"))
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
