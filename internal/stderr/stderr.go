//go:build !windows

// Package stderr redirects file descriptor 2 so that audio libraries
// writing to it directly (ALSA, minimp3) do not corrupt the TUI. Captured
// lines go to a logger instead.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/wenslauce/Music-Wave/internal/logging"
)

// Capture holds a redirected stderr. Close restores the original.
type Capture struct {
	orig      int
	pipeRead  *os.File
	pipeWrite *os.File
	done      chan struct{}
	closeOnce sync.Once
}

// Start redirects stderr and forwards every non-empty line to logger at
// warn level. Call it before the audio output is initialized. On error
// stderr is left untouched.
func Start(logger *log.Logger) (*Capture, error) {
	logger = logging.OrDiscard(logger).With("source", "stderr")

	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, pipeRead: r, pipeWrite: w, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				logger.Warn(line)
			}
		}
	}()
	return c, nil
}

// WriteOriginal writes to the terminal's stderr, bypassing capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Close restores the original stderr and waits for pending lines to be
// logged.
func (c *Capture) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = syscall.Close(c.orig)
		c.pipeWrite.Close()
		<-c.done
		c.pipeRead.Close()
	})
	return err
}
