// Package mpris exposes the playback session to desktop media controls.
package mpris

import (
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
)

// Controller is the part of the playback session driven by media keys.
// *playback.Session implements it.
type Controller interface {
	Play() error
	Pause() error
	TogglePause() error
	Stop() error
	Next() error
	Previous() error
	SeekPercent(percent float64) error
	SetVolume(level float64) error
	SetRepeatMode(mode playlist.RepeatMode) error
	SetShuffle(enabled bool) error
	Snapshot() (playback.Snapshot, error)
}

var _ Controller = (*playback.Session)(nil)
