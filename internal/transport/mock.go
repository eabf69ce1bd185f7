package transport

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Transport. Events are injected with Emit.
type Mock struct {
	mu        sync.Mutex
	state     State
	url       string
	position  time.Duration
	duration  time.Duration
	volume    float64
	muted     bool
	loadErr   map[string]error
	playErr   map[string]error
	loadCalls []string
	playCalls int
	seekCalls []time.Duration
	events    chan Event
	closed    bool
}

// NewMock creates a mock transport with a buffered event channel.
func NewMock() *Mock {
	return &Mock{
		state:   Stopped,
		volume:  1,
		loadErr: make(map[string]error),
		playErr: make(map[string]error),
		events:  make(chan Event, 64),
	}
}

func (m *Mock) Load(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, url)
	if err := m.loadErr[url]; err != nil {
		m.url = ""
		m.state = Stopped
		return err
	}
	m.url = url
	m.position = 0
	m.state = Paused
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if err := m.playErr[m.url]; err != nil {
		return err
	}
	if m.url != "" {
		m.state = Playing
	}
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	return nil
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	m.volume = clampLevel(level)
	m.mu.Unlock()
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.state = Stopped
	return nil
}

// Test helpers

// SetLoadError makes Load fail for url.
func (m *Mock) SetLoadError(url string, err error) {
	m.mu.Lock()
	m.loadErr[url] = err
	m.mu.Unlock()
}

// SetPlayError makes Play fail while url is loaded.
func (m *Mock) SetPlayError(url string, err error) {
	m.mu.Lock()
	m.playErr[url] = err
	m.mu.Unlock()
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	m.position = d
	m.mu.Unlock()
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// URL returns the currently loaded URL.
func (m *Mock) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Emit delivers an event as if the stream had produced it.
func (m *Mock) Emit(ev Event) {
	m.events <- ev
}

// SimulateEnded emits Ended and stops the mock.
func (m *Mock) SimulateEnded() {
	m.mu.Lock()
	m.state = Stopped
	m.mu.Unlock()
	m.Emit(Event{Kind: Ended})
}

// Verify Mock implements Transport at compile time.
var _ Transport = (*Mock)(nil)
