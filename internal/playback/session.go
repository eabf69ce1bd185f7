// Package playback binds the playing queue to an audio transport. It
// resolves each track to a stream when it becomes current and owns the
// retry and fallback policy.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wenslauce/Music-Wave/internal/errmsg"
	"github.com/wenslauce/Music-Wave/internal/logging"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/resolver"
	"github.com/wenslauce/Music-Wave/internal/transport"
)

var (
	// ErrUnresolvable means neither a full stream nor a preview exists.
	ErrUnresolvable = errors.New("no playable stream for track")
	// ErrTransportStart means the stream could not be loaded or started.
	ErrTransportStart = errors.New("stream failed to start")
	// ErrTransportRuntime means the stream failed while playing.
	ErrTransportRuntime = errors.New("stream failed during playback")
	// ErrClosed is returned by calls made after the session stopped.
	ErrClosed = errors.New("playback session closed")
)

// Resolver turns a track into a stream URL.
type Resolver interface {
	Resolve(ctx context.Context, t playlist.Track) resolver.Result
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = logging.OrDiscard(l) }
}

// WithSurface registers now-playing surfaces.
func WithSurface(surfaces ...Surface) Option {
	return func(s *Session) { s.surfaces = append(s.surfaces, surfaces...) }
}

// WithVolume sets the initial volume (0.0 to 1.0).
func WithVolume(level float64) Option {
	return func(s *Session) { s.volume = clamp(level, 0, 1) }
}

type resolution struct {
	gen    uint64
	result resolver.Result
}

type loadResult struct {
	gen uint64
	url string
	err error
}

// Session plays the queue through a transport.
//
// All state is owned by the goroutine running Run. Public methods post a
// closure to it and wait, so they block until Run is started. Resolution
// and stream loading run on their own goroutines and post back tagged with
// the activation generation; results for an older generation are dropped.
type Session struct {
	queue     *playlist.PlayingQueue
	transport transport.Transport
	resolver  Resolver
	logger    *log.Logger
	surfaces  []Surface

	cmds      chan func()
	results   chan resolution
	loads     chan loadResult
	done      chan struct{}
	stopped   chan struct{}
	running   atomic.Bool
	closeOnce sync.Once
	loadMu    sync.Mutex

	subsMu sync.Mutex
	subs   []*Subscription

	// Owned by Run.
	ctx       context.Context
	cancel    context.CancelFunc
	actx      context.Context
	gen       uint64
	state     State
	current   *playlist.Track
	index     int
	source    Source
	retried   bool
	holdPause bool
	position  time.Duration
	duration  time.Duration
	volume    float64
	muted     bool
	lastErr   *ErrorEvent
}

// New creates a session. Call Run to start it.
func New(q *playlist.PlayingQueue, t transport.Transport, r Resolver, opts ...Option) *Session {
	s := &Session{
		queue:     q,
		transport: t,
		resolver:  r,
		logger:    logging.Discard(),
		cmds:      make(chan func()),
		results:   make(chan resolution),
		loads:     make(chan loadResult),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		index:     -1,
		volume:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes commands and transport events until ctx is cancelled or
// Close is called. On return the transport is closed and every
// subscription is done.
func (s *Session) Run(ctx context.Context) error {
	s.running.Store(true)
	s.ctx = ctx
	defer s.shutdown()

	s.transport.SetVolume(s.volume)
	events := s.transport.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case fn := <-s.cmds:
			fn()
		case r := <-s.results:
			s.onResolved(r)
		case r := <-s.loads:
			s.onLoaded(r)
		case ev := <-events:
			s.onTransportEvent(ev)
		}
	}
}

// Close stops the session and waits for Run to return.
func (s *Session) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	if s.running.Load() {
		<-s.stopped
	}
	return nil
}

func (s *Session) shutdown() {
	s.cancelActivation()
	if err := s.transport.Close(); err != nil {
		s.logger.Warn("close transport", "err", err)
	}

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	close(s.stopped)
}

// do runs fn on the session goroutine and returns its error.
func (s *Session) do(fn func() error) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	var err error
	finished := make(chan struct{})
	cmd := func() {
		err = fn()
		close(finished)
	}

	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrClosed
	case <-s.stopped:
		return ErrClosed
	}
	select {
	case <-finished:
		return err
	case <-s.stopped:
		return ErrClosed
	}
}

// Subscribe creates a new event subscription.
func (s *Session) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

func (s *Session) broadcast(fn func(*Subscription)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		fn(sub)
	}
}

// PlayList replaces the queue with items and plays the track with startID,
// or the first one. Invalid items are dropped; ErrEmptyQueue is returned
// and playback stops when none remain.
func (s *Session) PlayList(items []playlist.Track, startID string) error {
	return s.do(func() error {
		t, err := s.queue.Load(items, startID)
		if rejected := len(items) - s.queue.Len(); rejected > 0 {
			s.logger.Warn("dropped invalid tracks", "count", rejected)
		}
		s.broadcastQueue()
		if err != nil {
			s.halt()
			s.current = nil
			s.index = -1
			s.source = Source{}
			return err
		}
		s.activate(t)
		return nil
	})
}

// JumpTo plays the queue item at index. Out of range is a no-op.
func (s *Session) JumpTo(index int) error {
	return s.do(func() error {
		if t := s.queue.JumpTo(index); t != nil {
			s.activate(t)
		}
		return nil
	})
}

// Next plays the next track in play order. At the end of the queue
// playback stops unless repeat-all wraps.
func (s *Session) Next() error {
	return s.do(func() error {
		s.advance()
		return nil
	})
}

// Previous plays the previous track. At the start it is a no-op unless
// repeat-all wraps.
func (s *Session) Previous() error {
	return s.do(func() error {
		if t := s.queue.Previous(); t != nil {
			s.activate(t)
		}
		return nil
	})
}

// Play resumes a paused stream, or re-activates the current track when
// stopped.
func (s *Session) Play() error {
	return s.do(func() error {
		switch s.state {
		case StatePaused:
			s.resume()
		case StateLoading:
			s.holdPause = false
		case StateStopped:
			if s.current != nil {
				s.activate(s.current)
			}
		case StatePlaying:
		}
		return nil
	})
}

// Pause pauses playback. A pause while loading applies once the stream is
// ready.
func (s *Session) Pause() error {
	return s.do(func() error {
		switch s.state {
		case StatePlaying:
			s.pause()
		case StateLoading:
			s.holdPause = true
		case StatePaused, StateStopped:
		}
		return nil
	})
}

// TogglePause switches between playing and paused.
func (s *Session) TogglePause() error {
	return s.do(func() error {
		switch s.state {
		case StatePlaying:
			s.pause()
		case StatePaused:
			s.resume()
		case StateLoading:
			s.holdPause = !s.holdPause
		case StateStopped:
			if s.current != nil {
				s.activate(s.current)
			}
		}
		return nil
	})
}

// Stop stops playback and drops any pending resolution. The queue position
// is kept.
func (s *Session) Stop() error {
	return s.do(func() error {
		s.halt()
		_ = s.transport.Seek(0)
		s.position = 0
		s.broadcastPosition()
		return nil
	})
}

// Retry re-activates the current track, typically after an error.
func (s *Session) Retry() error {
	return s.do(func() error {
		if s.current != nil {
			s.activate(s.current)
		}
		return nil
	})
}

// ClearError forgets the last playback error.
func (s *Session) ClearError() error {
	return s.do(func() error {
		s.lastErr = nil
		return nil
	})
}

// ToggleShuffle flips shuffle and returns the new state.
func (s *Session) ToggleShuffle() (bool, error) {
	var enabled bool
	err := s.do(func() error {
		enabled = s.queue.ToggleShuffle()
		s.broadcastMode()
		return nil
	})
	return enabled, err
}

// SetShuffle enables or disables shuffle.
func (s *Session) SetShuffle(enabled bool) error {
	return s.do(func() error {
		s.queue.SetShuffle(enabled)
		s.broadcastMode()
		return nil
	})
}

// CycleRepeat moves Off -> All -> One -> Off and returns the new mode.
func (s *Session) CycleRepeat() (playlist.RepeatMode, error) {
	var mode playlist.RepeatMode
	err := s.do(func() error {
		mode = s.queue.CycleRepeat()
		s.broadcastMode()
		return nil
	})
	return mode, err
}

// SetRepeatMode sets the repeat mode.
func (s *Session) SetRepeatMode(mode playlist.RepeatMode) error {
	return s.do(func() error {
		s.queue.SetRepeatMode(mode)
		s.broadcastMode()
		return nil
	})
}

// SeekPercent moves to percent (0 to 100) of the transport's current
// duration. It is a no-op until a stream with a known duration is loaded.
func (s *Session) SeekPercent(percent float64) error {
	return s.do(func() error {
		if !s.state.IsActive() {
			return nil
		}
		dur := s.transport.Duration()
		if dur <= 0 {
			return nil
		}
		pos := time.Duration(float64(dur) * clamp(percent, 0, 100) / 100)
		if err := s.transport.Seek(pos); err != nil {
			s.logger.Warn("seek failed", "err", err)
			return fmt.Errorf("seek: %w", err)
		}
		s.position = pos
		s.duration = dur
		s.broadcastPosition()
		return nil
	})
}

// SetVolume sets the output volume (0.0 to 1.0).
func (s *Session) SetVolume(level float64) error {
	return s.do(func() error {
		s.volume = clamp(level, 0, 1)
		s.transport.SetVolume(s.volume)
		return nil
	})
}

// ToggleMute flips mute and returns the new state.
func (s *Session) ToggleMute() (bool, error) {
	var muted bool
	err := s.do(func() error {
		s.muted = !s.muted
		s.transport.SetMuted(s.muted)
		muted = s.muted
		return nil
	})
	return muted, err
}

// AddSurface registers a now-playing surface and shows the current track
// on it.
func (s *Session) AddSurface(sf Surface) error {
	return s.do(func() error {
		s.surfaces = append(s.surfaces, sf)
		if s.current != nil {
			sf.SetNowPlaying(s.nowPlaying())
		}
		return nil
	})
}

// activate makes t the playing track: any outstanding resolution is
// cancelled and a new one starts.
func (s *Session) activate(t *playlist.Track) {
	s.cancelActivation()
	s.gen++

	prev, prevIndex := s.current, s.index
	track := *t
	s.current = &track
	s.index = s.queue.CurrentIndex()
	s.source = Source{}
	s.retried = false
	s.holdPause = false
	s.lastErr = nil
	s.position, s.duration = 0, 0

	s.transport.Pause()
	s.setState(StateLoading)
	s.logger.Info("activating track", "index", s.index, "title", track.Title, "artist", track.Artist.Name)

	cur := track
	s.broadcast(func(sub *Subscription) {
		sub.sendTrack(TrackChange{Previous: prev, Current: &cur, PreviousIndex: prevIndex, Index: s.index})
	})
	s.pushNowPlaying()

	ctx, cancel := context.WithCancel(s.ctx)
	s.actx, s.cancel = ctx, cancel
	gen := s.gen
	go func() {
		res := s.resolver.Resolve(ctx, track)
		select {
		case s.results <- resolution{gen: gen, result: res}:
		case <-ctx.Done():
		}
	}()
}

func (s *Session) cancelActivation() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// halt stops playback without touching the queue.
func (s *Session) halt() {
	s.cancelActivation()
	s.gen++
	s.holdPause = false
	s.transport.Pause()
	s.setState(StateStopped)
}

func (s *Session) onResolved(r resolution) {
	if r.gen != s.gen {
		s.logger.Debug("discarding stale resolution", "kind", r.result.Kind)
		return
	}
	if !r.result.Playable() {
		s.fail(errmsg.OpResolve, ErrUnresolvable)
		return
	}
	s.setSource(Source{Kind: r.result.Kind, URL: r.result.URL, Quality: r.result.Quality})
	s.load(r.result.URL)
}

// load fetches url into the transport off the session goroutine. Loads are
// serialized so a superseded load never lands after a newer one.
func (s *Session) load(url string) {
	ctx, gen := s.actx, s.gen
	go func() {
		s.loadMu.Lock()
		defer s.loadMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		err := s.transport.Load(ctx, url)
		select {
		case s.loads <- loadResult{gen: gen, url: url, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *Session) onLoaded(r loadResult) {
	if r.gen != s.gen {
		return
	}
	if r.err != nil {
		s.fallBack(errmsg.OpPlaybackStart, ErrTransportStart, r.err)
		return
	}
	if d := s.transport.Duration(); d > 0 {
		s.duration = d
	}
	if s.holdPause {
		s.holdPause = false
		s.setState(StatePaused)
		return
	}
	if err := s.transport.Play(); err != nil {
		s.fallBack(errmsg.OpPlaybackStart, ErrTransportStart, err)
		return
	}
	s.setState(StatePlaying)
}

// fallBack retries once with the preview clip unless the failed stream
// already was the preview; otherwise the failure is surfaced.
func (s *Session) fallBack(op errmsg.Op, kind, cause error) {
	t := s.current
	if t != nil && !s.retried && t.HasPreview() && s.source.URL != t.PreviewURL {
		s.retried = true
		s.logger.Warn("stream failed, retrying with preview", "title", t.Title, "err", cause)
		s.setState(StateLoading)
		s.setSource(Source{Kind: resolver.FellBackToPreview, URL: t.PreviewURL})
		s.load(t.PreviewURL)
		return
	}
	s.fail(op, fmt.Errorf("%w: %w", kind, cause))
}

// fail stops playback and surfaces err. The queue is left untouched.
func (s *Session) fail(op errmsg.Op, err error) {
	s.halt()

	ev := ErrorEvent{Op: op, Err: err, Message: errmsg.Format(op, err)}
	if s.current != nil {
		t := *s.current
		ev.Track = &t
		ev.Message = errmsg.FormatWith(op, t.Title, err)
	}
	s.lastErr = &ev
	s.logger.Error("playback failed", "op", op, "err", err)
	s.broadcast(func(sub *Subscription) { sub.sendError(ev) })
}

func (s *Session) onTransportEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.MetadataLoaded:
		// A superseded load can still report after the next activation.
		if s.current == nil || ev.Duration <= 0 || ev.URL != s.source.URL {
			s.logger.Debug("ignoring stream metadata", "url", ev.URL)
			return
		}
		if s.state == StateLoading || s.state.IsActive() {
			s.duration = ev.Duration
		}
	case transport.TimeUpdate:
		if !s.state.IsActive() {
			return
		}
		s.position = ev.Position
		if ev.Duration > 0 {
			s.duration = ev.Duration
		}
		s.broadcastPosition()
	case transport.Ended:
		if s.state != StatePlaying {
			return
		}
		s.onEnded()
	case transport.Error:
		if !s.state.IsActive() {
			return
		}
		err := ev.Err
		if err == nil {
			err = errors.New("unknown transport error")
		}
		s.fallBack(errmsg.OpPlayback, ErrTransportRuntime, err)
	}
}

func (s *Session) onEnded() {
	if s.queue.RepeatMode() == playlist.RepeatOne {
		s.position = 0
		if err := s.transport.Seek(0); err != nil {
			s.fallBack(errmsg.OpPlayback, ErrTransportRuntime, err)
			return
		}
		if err := s.transport.Play(); err != nil {
			s.fallBack(errmsg.OpPlayback, ErrTransportRuntime, err)
			return
		}
		s.broadcastPosition()
		return
	}
	s.advance()
}

// advance moves to the next track, stopping at the end of the queue.
func (s *Session) advance() {
	if s.queue.IsEmpty() {
		return
	}
	if t := s.queue.Next(); t != nil {
		s.activate(t)
		return
	}
	s.logger.Info("end of queue")
	s.halt()
}

func (s *Session) pause() {
	s.transport.Pause()
	s.setState(StatePaused)
}

func (s *Session) resume() {
	if err := s.transport.Play(); err != nil {
		s.fallBack(errmsg.OpPlaybackStart, ErrTransportStart, err)
		return
	}
	s.setState(StatePlaying)
}

func (s *Session) setState(state State) {
	if s.state == state {
		return
	}
	prev := s.state
	s.state = state
	s.broadcast(func(sub *Subscription) { sub.sendState(StateChange{Previous: prev, Current: state}) })
}

func (s *Session) setSource(src Source) {
	s.source = src
	if src.IsPreview() {
		s.logger.Info("playing preview", "url", src.URL)
	} else {
		s.logger.Info("playing stream", "quality", src.Quality)
	}
	s.broadcast(func(sub *Subscription) { sub.sendSource(SourceChange{Source: src}) })
}

func (s *Session) broadcastPosition() {
	e := PositionChange{Position: s.position, Duration: s.duration, Percent: percent(s.position, s.duration)}
	s.broadcast(func(sub *Subscription) { sub.sendPosition(e) })
}

func (s *Session) broadcastQueue() {
	e := QueueChange{Tracks: s.queue.Tracks(), Index: s.queue.CurrentIndex()}
	s.broadcast(func(sub *Subscription) { sub.sendQueue(e) })
}

func (s *Session) broadcastMode() {
	e := ModeChange{RepeatMode: s.queue.RepeatMode(), Shuffle: s.queue.Shuffle()}
	s.broadcast(func(sub *Subscription) { sub.sendMode(e) })
}

// percent maps a position to 0..100 of duration.
func percent(pos, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	return clamp(float64(pos)/float64(dur)*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
