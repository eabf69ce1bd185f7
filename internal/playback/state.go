// internal/playback/state.go
package playback

// State represents the session playback state.
//
//	Stopped ──activate──▶ Loading ──loaded──▶ Playing ◀──▶ Paused
//	   ▲                     │                   │
//	   └──── error/stop ─────┴───── end of queue ┘
//
// Loading covers resolution and the transport load. A pause requested
// while loading is honored once the stream is ready.
type State int

const (
	StateStopped State = iota
	StateLoading
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a stream is loaded (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}
