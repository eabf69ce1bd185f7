// Package transport plays a single audio stream from a URL and reports
// progress through an event channel.
package transport

import (
	"context"
	"time"
)

// EventKind identifies a transport event.
type EventKind int

const (
	// TimeUpdate reports the playback position, a few times per second.
	TimeUpdate EventKind = iota
	// MetadataLoaded reports the stream duration once it is known.
	MetadataLoaded
	// Ended fires when the stream plays to its end.
	Ended
	// Error fires when the stream fails while playing.
	Error
)

// String returns the event kind name for logs.
func (k EventKind) String() string {
	switch k {
	case TimeUpdate:
		return "TimeUpdate"
	case MetadataLoaded:
		return "MetadataLoaded"
	case Ended:
		return "Ended"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is emitted on the channel returned by Transport.Events.
type Event struct {
	Kind     EventKind
	Position time.Duration
	Duration time.Duration
	Err      error  // set for Error
	URL      string // stream the event belongs to, set for MetadataLoaded
}

// Transport is the audio output contract the playback session drives.
//
// Load replaces whatever was loaded before and leaves the stream paused at
// the start. Play returns an error when the stream cannot be started.
type Transport interface {
	Load(ctx context.Context, url string) error
	Play() error
	Pause()
	Seek(pos time.Duration) error
	SetVolume(level float64)
	SetMuted(muted bool)
	Position() time.Duration
	Duration() time.Duration
	Events() <-chan Event
	Close() error
}

// State is the transport state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a stream is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
