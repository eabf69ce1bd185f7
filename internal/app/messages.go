// Package app is the terminal front-end: catalog search and browse, the
// queue and the player bar, driving a playback session.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wenslauce/Music-Wave/internal/errmsg"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/ui/results"
)

// Message category interfaces for routing in Update. Messages from other
// packages cannot implement them and are matched directly.

// PlaybackMessage is implemented by messages from the playback session.
type PlaybackMessage interface {
	tea.Msg
	playbackMessage()
}

// CatalogMessage is implemented by catalog request results.
type CatalogMessage interface {
	tea.Msg
	catalogMessage()
}

// SnapshotMsg carries a fresh session snapshot.
type SnapshotMsg playback.Snapshot

func (SnapshotMsg) playbackMessage() {}

// PositionMsg carries transport progress.
type PositionMsg playback.PositionChange

func (PositionMsg) playbackMessage() {}

// QueueMsg carries a replaced queue.
type QueueMsg playback.QueueChange

func (QueueMsg) playbackMessage() {}

// TrackMsg is sent when a track becomes current.
type TrackMsg playback.TrackChange

func (TrackMsg) playbackMessage() {}

// ModeMsg carries the repeat and shuffle modes.
type ModeMsg playback.ModeChange

func (ModeMsg) playbackMessage() {}

// SessionEventMsg signals a state, source or error event; the view is
// refreshed from a new snapshot.
type SessionEventMsg struct{}

func (SessionEventMsg) playbackMessage() {}

// SessionClosedMsg is sent when the session has stopped.
type SessionClosedMsg struct{}

func (SessionClosedMsg) playbackMessage() {}

// CommandErrorMsg reports a failed session call.
type CommandErrorMsg struct {
	Err error
}

func (CommandErrorMsg) playbackMessage() {}

// PageMsg carries a catalog page to show. Push opens it above the current
// page instead of replacing the stack.
type PageMsg struct {
	Title string
	Items []results.Item
	Push  bool
	// Seq ties the result to the request that started it; stale pages
	// are dropped.
	Seq int
}

func (PageMsg) catalogMessage() {}

// CatalogErrorMsg reports a failed catalog request.
type CatalogErrorMsg struct {
	Op      errmsg.Op
	Subject string
	Err     error
	Seq     int
}

func (CatalogErrorMsg) catalogMessage() {}

// StatusClearMsg hides the status line if it still shows the message
// with the given sequence number.
type StatusClearMsg struct {
	Seq int
}
