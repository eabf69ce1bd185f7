// Package queuepanel shows the playing queue and lets the user jump within it.
package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/ui"
	"github.com/wenslauce/Music-Wave/internal/ui/cursor"
)

// JumpToTrackMsg is sent when the user selects a queue entry.
type JumpToTrackMsg struct {
	Index int
}

// Model is the queue panel. It renders a copy of the session's queue, kept
// current through SetQueue and SetPlaying.
type Model struct {
	ui.Base
	tracks  []playlist.Track
	playing int
	shuffle bool
	repeat  playlist.RepeatMode
	cursor  cursor.Cursor
}

// New creates an empty queue panel.
func New() Model {
	return Model{
		playing: -1,
		cursor:  cursor.New(ui.ScrollMargin),
	}
}

// SetQueue replaces the displayed queue.
func (m *Model) SetQueue(tracks []playlist.Track, playing int) {
	m.tracks = tracks
	m.playing = playing
	m.cursor.Clamp(len(m.tracks), m.ListHeight())
	m.SyncCursor()
}

// SetPlaying marks the entry at index as the current track.
func (m *Model) SetPlaying(index int) {
	m.playing = index
	if !m.IsFocused() {
		m.SyncCursor()
	}
}

// SetModes updates the shuffle and repeat indicators.
func (m *Model) SetModes(shuffle bool, repeat playlist.RepeatMode) {
	m.shuffle = shuffle
	m.repeat = repeat
}

// SetSize sets the panel dimensions and keeps the cursor in view.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.cursor.Clamp(len(m.tracks), m.ListHeight())
}

// Len returns the number of queued tracks.
func (m Model) Len() int {
	return len(m.tracks)
}

// Playing returns the index of the current track, or -1.
func (m Model) Playing() int {
	return m.playing
}

// Cursor returns the selected index.
func (m Model) Cursor() int {
	return m.cursor.Pos()
}

// SyncCursor moves the cursor to the current track.
func (m *Model) SyncCursor() {
	if m.playing >= 0 && m.playing < len(m.tracks) {
		m.cursor.Jump(m.playing, len(m.tracks), m.ListHeight())
	}
}

// Update handles keys while the panel is focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return m, nil
	}

	key := keyMsg.String()
	if m.cursor.HandleKey(key, len(m.tracks), m.ListHeight()) {
		return m, nil
	}

	switch key {
	case "enter":
		if len(m.tracks) == 0 {
			return m, nil
		}
		idx := m.cursor.Pos()
		return m, func() tea.Msg { return JumpToTrackMsg{Index: idx} }
	case ".":
		m.SyncCursor()
	}
	return m, nil
}
