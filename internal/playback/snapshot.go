package playback

import (
	"time"

	"github.com/wenslauce/Music-Wave/internal/playlist"
)

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	State       State
	Track       *playlist.Track // nil when nothing is current
	Index       int             // -1 when the queue is empty
	QueueLen    int
	Source      Source
	Position    time.Duration
	Duration    time.Duration
	Progress    float64 // 0 to 100
	RepeatMode  playlist.RepeatMode
	Shuffle     bool
	HasNext     bool
	HasPrevious bool
	Volume      float64
	Muted       bool
	Err         *ErrorEvent // last playback error, cleared on activation
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.do(func() error {
		snap = Snapshot{
			State:       s.state,
			Index:       s.queue.CurrentIndex(),
			QueueLen:    s.queue.Len(),
			Source:      s.source,
			Position:    s.position,
			Duration:    s.duration,
			Progress:    percent(s.position, s.duration),
			RepeatMode:  s.queue.RepeatMode(),
			Shuffle:     s.queue.Shuffle(),
			HasNext:     s.queue.HasNext(),
			HasPrevious: s.queue.HasPrevious(),
			Volume:      s.volume,
			Muted:       s.muted,
		}
		if s.current != nil {
			t := *s.current
			snap.Track = &t
		}
		if s.lastErr != nil {
			e := *s.lastErr
			snap.Err = &e
		}
		return nil
	})
	return snap, err
}

// Queue returns a copy of the queued tracks in insertion order.
func (s *Session) Queue() ([]playlist.Track, error) {
	var tracks []playlist.Track
	err := s.do(func() error {
		tracks = s.queue.Tracks()
		return nil
	})
	return tracks, err
}
