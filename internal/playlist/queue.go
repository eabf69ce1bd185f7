package playlist

import (
	"errors"
	"math/rand/v2"
)

// ErrEmptyQueue is returned by Load when no valid track remains.
var ErrEmptyQueue = errors.New("queue is empty")

// RepeatMode defines what happens at the end of the queue.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// Next returns the mode that follows m in the Off → All → One cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// PlayingQueue wraps a Playlist with playback order and modes.
//
// Invariants: currentIndex is -1 exactly when the playlist is empty, and
// order is always a permutation of [0, Len()).
type PlayingQueue struct {
	playlist     *Playlist
	currentIndex int // -1 if empty
	order        []int
	shuffle      bool
	repeatMode   RepeatMode
	rng          *rand.Rand
}

// Option configures a PlayingQueue.
type Option func(*PlayingQueue)

// WithRand sets the random source used for shuffle permutations.
func WithRand(r *rand.Rand) Option {
	return func(q *PlayingQueue) {
		q.rng = r
	}
}

// NewQueue creates a new empty playing queue.
func NewQueue(opts ...Option) *PlayingQueue {
	q := &PlayingQueue{
		playlist:     &Playlist{},
		currentIndex: -1,
		order:        []int{},
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // shuffle order is not security sensitive
	}
	return q
}

// Load replaces the whole queue with the valid tracks from items.
// The current track is the one with startID if present, else the first.
// If nothing valid remains the queue ends up empty and ErrEmptyQueue is
// returned.
func (q *PlayingQueue) Load(items []Track, startID string) (*Track, error) {
	pl, _ := NewPlaylist(items)
	q.playlist = pl
	q.currentIndex = -1
	q.regenerateOrder()

	if pl.Len() == 0 {
		return nil, ErrEmptyQueue
	}

	q.currentIndex = 0
	if startID != "" {
		if i := pl.IndexOf(startID); i >= 0 {
			q.currentIndex = i
		}
	}
	return q.Current(), nil
}

// Current returns the current track, or nil if the queue is empty.
func (q *PlayingQueue) Current() *Track {
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the index of the current track (-1 if empty).
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// JumpTo makes the track at index current. Out of range is a no-op and
// returns nil.
func (q *PlayingQueue) JumpTo(index int) *Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Next advances one step in play order and returns the new current track.
// Past the end, RepeatAll wraps to the first position; otherwise nil is
// returned, the index is left unchanged and playback should stop.
// RepeatOne is not special-cased: replaying the same track is the
// caller's job.
func (q *PlayingQueue) Next() *Track {
	if q.IsEmpty() {
		return nil
	}
	pos := q.position() + 1
	if pos >= len(q.order) {
		if q.repeatMode != RepeatAll {
			return nil
		}
		pos = 0
	}
	q.currentIndex = q.order[pos]
	return q.Current()
}

// Previous steps back one position in play order.
// At the first position RepeatAll wraps to the last one; otherwise it is a
// no-op and returns nil.
func (q *PlayingQueue) Previous() *Track {
	if q.IsEmpty() {
		return nil
	}
	pos := q.position() - 1
	if pos < 0 {
		if q.repeatMode != RepeatAll {
			return nil
		}
		pos = len(q.order) - 1
	}
	q.currentIndex = q.order[pos]
	return q.Current()
}

// HasNext returns true if Next would move to a track.
func (q *PlayingQueue) HasNext() bool {
	if q.IsEmpty() {
		return false
	}
	return q.repeatMode == RepeatAll || q.position() < len(q.order)-1
}

// HasPrevious returns true if Previous would move to a track.
func (q *PlayingQueue) HasPrevious() bool {
	if q.IsEmpty() {
		return false
	}
	return q.repeatMode == RepeatAll || q.position() > 0
}

// position returns where currentIndex sits in play order.
func (q *PlayingQueue) position() int {
	for pos, idx := range q.order {
		if idx == q.currentIndex {
			return pos
		}
	}
	return -1
}

// ToggleShuffle flips shuffle and returns the new state.
// Enabling draws a fresh permutation of every index; the current track is
// not moved to the front. Disabling restores insertion order.
func (q *PlayingQueue) ToggleShuffle() bool {
	q.shuffle = !q.shuffle
	q.regenerateOrder()
	return q.shuffle
}

// SetShuffle enables or disables shuffle. Setting the current value is a
// no-op and keeps the existing permutation.
func (q *PlayingQueue) SetShuffle(enabled bool) {
	if q.shuffle == enabled {
		return
	}
	q.ToggleShuffle()
}

// Shuffle returns whether shuffle is enabled.
func (q *PlayingQueue) Shuffle() bool {
	return q.shuffle
}

// ShuffleOrder returns a copy of the current play order.
func (q *PlayingQueue) ShuffleOrder() []int {
	result := make([]int, len(q.order))
	copy(result, q.order)
	return result
}

func (q *PlayingQueue) regenerateOrder() {
	if q.shuffle {
		q.order = Permutation(q.playlist.Len(), q.rng)
		return
	}
	q.order = Identity(q.playlist.Len())
}

// CycleRepeat moves to the next repeat mode and returns it.
func (q *PlayingQueue) CycleRepeat() RepeatMode {
	q.repeatMode = q.repeatMode.Next()
	return q.repeatMode
}

// SetRepeatMode sets the repeat mode.
func (q *PlayingQueue) SetRepeatMode(mode RepeatMode) {
	q.repeatMode = mode
}

// RepeatMode returns the current repeat mode.
func (q *PlayingQueue) RepeatMode() RepeatMode {
	return q.repeatMode
}

// Tracks returns all tracks in the queue.
func (q *PlayingQueue) Tracks() []Track {
	return q.playlist.Tracks()
}

// Len returns the number of tracks in the queue.
func (q *PlayingQueue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return q.playlist.Len() == 0
}
