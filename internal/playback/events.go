package playback

import (
	"time"

	"github.com/wenslauce/Music-Wave/internal/errmsg"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/resolver"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted on every track activation, including re-activating
// the same track through Retry. It is not emitted for repeat-one restarts,
// which replay the loaded stream.
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
}

// SourceChange is emitted when the stream behind the current track is
// chosen, and again if it falls back to the preview.
type SourceChange struct {
	Source Source
}

// QueueChange is emitted when the queue is replaced.
type QueueChange struct {
	Tracks []playlist.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode playlist.RepeatMode
	Shuffle    bool
}

// PositionChange is emitted on transport progress and after a seek.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
	Percent  float64 // 0 to 100
}

// ErrorEvent is emitted when the current track cannot be played.
// The queue is left as it was; Retry or JumpTo recovers.
type ErrorEvent struct {
	Op      errmsg.Op
	Track   *playlist.Track
	Err     error
	Message string
}

// Source describes the stream playing for the current track.
type Source struct {
	Kind    resolver.Kind
	URL     string
	Quality string
}

// IsPreview returns true if the stream is the short preview clip.
func (s Source) IsPreview() bool {
	return s.Kind == resolver.FellBackToPreview
}
