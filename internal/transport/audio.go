package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/wenslauce/Music-Wave/internal/logging"
)

// ErrNotLoaded is returned by Play and Seek before a successful Load.
var ErrNotLoaded = errors.New("no stream loaded")

const (
	// DefaultTickInterval is how often TimeUpdate fires while playing.
	DefaultTickInterval = 250 * time.Millisecond
	maxStreamBytes      = 256 << 20
	userAgent           = "musicwave/1.0 (https://github.com/wenslauce/Music-Wave)"
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

func initSpeaker(sr beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return speakerSampleRate, nil
	}
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return 0, fmt.Errorf("init speaker: %w", err)
	}
	speakerSampleRate = sr
	speakerInitialized = true
	return sr, nil
}

// Audio plays remote streams through the system audio device.
//
// Lock order is a.mu before the speaker lock. Callbacks running on the
// speaker goroutine never take a.mu directly.
type Audio struct {
	mu         sync.Mutex
	httpClient *http.Client
	logger     *log.Logger
	tick       time.Duration
	events     chan Event
	done       chan struct{}
	closed     bool

	state    State
	gen      uint64
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	queued   bool
	ticker   chan struct{}

	level float64
	muted bool
}

// NewAudio creates an audio transport. A nil client selects
// http.DefaultClient; the Load context bounds each download.
func NewAudio(hc *http.Client, logger *log.Logger) *Audio {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Audio{
		httpClient: hc,
		logger:     logging.OrDiscard(logger),
		tick:       DefaultTickInterval,
		events:     make(chan Event, 32),
		done:       make(chan struct{}),
		level:      1,
	}
}

// Load downloads rawURL, decodes it and leaves it paused at the start.
func (a *Audio) Load(ctx context.Context, rawURL string) error {
	data, err := a.fetch(ctx, rawURL)
	if err != nil {
		return err
	}

	streamer, format, kind, err := decode(data, rawURL)
	if err != nil {
		return err
	}
	outRate, err := initSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		return err
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		streamer.Close()
		return errors.New("transport closed")
	}
	a.release()

	var s beep.Streamer = streamer
	if format.SampleRate != outRate {
		s = beep.Resample(4, format.SampleRate, outRate, streamer)
	}
	a.streamer = streamer
	a.format = format
	a.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	a.volume = &effects.Volume{Streamer: a.ctrl, Base: 2, Volume: levelToVolume(a.level), Silent: a.muted}
	a.state = Paused
	dur := format.SampleRate.D(streamer.Len())
	a.mu.Unlock()

	a.logger.Info("stream loaded",
		"format", kind,
		"size", humanize.IBytes(uint64(len(data))),
		"duration", dur.Round(time.Second),
		"sample_rate", int(format.SampleRate))
	a.send(Event{Kind: MetadataLoaded, Duration: dur, URL: rawURL})
	return nil
}

func (a *Audio) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxStreamBytes))
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return data, nil
}

// Play starts or resumes the loaded stream. After the stream ended it
// plays again from the current position, so Seek(0) then Play restarts it.
func (a *Audio) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.streamer == nil {
		return ErrNotLoaded
	}
	if !a.queued {
		gen := a.gen
		speaker.Play(beep.Seq(a.volume, beep.Callback(func() {
			go a.finished(gen)
		})))
		a.queued = true
	}

	speaker.Lock()
	a.ctrl.Paused = false
	speaker.Unlock()
	a.state = Playing
	a.startTicker()
	return nil
}

// Pause pauses playback.
func (a *Audio) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != Playing || a.ctrl == nil {
		return
	}
	speaker.Lock()
	a.ctrl.Paused = true
	speaker.Unlock()
	a.state = Paused
	a.stopTicker()
}

// Seek moves to an absolute position.
func (a *Audio) Seek(pos time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.streamer == nil {
		return ErrNotLoaded
	}
	speaker.Lock()
	err := a.streamer.Seek(a.format.SampleRate.N(max(pos, 0)))
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// SetVolume sets the volume level (0.0 to 1.0). While muted only the
// level is stored.
func (a *Audio) SetVolume(level float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.level = clampLevel(level)
	if !a.muted && a.volume != nil {
		speaker.Lock()
		a.volume.Volume = levelToVolume(a.level)
		speaker.Unlock()
	}
}

// SetMuted silences output without losing the volume level.
func (a *Audio) SetMuted(muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.muted = muted
	if a.volume != nil {
		speaker.Lock()
		a.volume.Silent = muted
		if !muted {
			a.volume.Volume = levelToVolume(a.level)
		}
		speaker.Unlock()
	}
}

// Position returns the current playback position.
func (a *Audio) Position() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := a.streamer.Position()
	speaker.Unlock()
	return a.format.SampleRate.D(pos)
}

// Duration returns the length of the loaded stream.
func (a *Audio) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.streamer == nil {
		return 0
	}
	return a.format.SampleRate.D(a.streamer.Len())
}

// Events returns the event channel. It is never closed.
func (a *Audio) Events() <-chan Event { return a.events }

// Close stops playback and releases the stream.
func (a *Audio) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.release()
	a.closed = true
	close(a.done)
	return nil
}

// release must be called with a.mu held.
func (a *Audio) release() {
	a.stopTicker()
	a.gen++
	if a.streamer == nil {
		return
	}
	speaker.Clear()
	if err := a.streamer.Close(); err != nil {
		a.logger.Debug("close stream", "err", err)
	}
	a.streamer = nil
	a.ctrl = nil
	a.volume = nil
	a.queued = false
	a.state = Stopped
}

func (a *Audio) finished(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.streamer == nil {
		a.mu.Unlock()
		return
	}
	a.queued = false
	a.state = Stopped
	a.stopTicker()
	ev := Event{Kind: Ended, Duration: a.format.SampleRate.D(a.streamer.Len())}
	if err := a.streamer.Err(); err != nil {
		ev = Event{Kind: Error, Err: err}
	}
	a.mu.Unlock()

	a.logger.Debug("stream finished", "event", ev.Kind)
	a.send(ev)
}

// startTicker must be called with a.mu held.
func (a *Audio) startTicker() {
	if a.ticker != nil {
		return
	}
	stop := make(chan struct{})
	a.ticker = stop
	go func() {
		t := time.NewTicker(a.tick)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				ev := Event{Kind: TimeUpdate, Position: a.Position(), Duration: a.Duration()}
				select {
				case a.events <- ev:
				default:
				}
			}
		}
	}()
}

// stopTicker must be called with a.mu held.
func (a *Audio) stopTicker() {
	if a.ticker != nil {
		close(a.ticker)
		a.ticker = nil
	}
}

// send delivers lifecycle events. It must not be called with a.mu held.
func (a *Audio) send(ev Event) {
	select {
	case a.events <- ev:
	case <-a.done:
	}
}

// Verify Audio implements Transport at compile time.
var _ Transport = (*Audio)(nil)
