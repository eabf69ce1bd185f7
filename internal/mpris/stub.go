//go:build !linux

package mpris

import "github.com/wenslauce/Music-Wave/internal/playback"

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ Controller) (*Adapter, error) {
	return &Adapter{}, nil
}

// SetNowPlaying is a no-op on non-Linux platforms.
func (a *Adapter) SetNowPlaying(_ playback.NowPlaying) {}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
