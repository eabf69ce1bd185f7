package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wenslauce/Music-Wave/internal/errmsg"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/ui/playerbar"
	"github.com/wenslauce/Music-Wave/internal/ui/queuepanel"
	"github.com/wenslauce/Music-Wave/internal/ui/results"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case PlaybackMessage:
		return m.handlePlaybackMsg(msg)
	case CatalogMessage:
		return m.handleCatalogMsg(msg)
	case results.SelectMsg:
		return m.handleSelect(msg)
	case queuepanel.JumpToTrackMsg:
		idx := msg.Index
		return m, m.sessionCmd(func(p Player) error { return p.JumpTo(idx) })
	case StatusClearMsg:
		if msg.Seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

// busy reports whether a spinner should be animating.
func (m Model) busy() bool {
	return m.loading || m.snapshot.State == playback.StateLoading
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == FocusSearch {
		return m.handleSearchKey(msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Search):
		m.setFocus(FocusSearch)
		return m, m.search.Focus()
	case key.Matches(msg, k.Focus):
		if m.focus == FocusResults {
			m.setFocus(FocusQueue)
		} else {
			m.setFocus(FocusResults)
		}
		return m, nil
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	case key.Matches(msg, k.Display):
		if m.displayMode == playerbar.ModeCompact {
			m.displayMode = playerbar.ModeExpanded
		} else {
			m.displayMode = playerbar.ModeCompact
		}
		m.resize()
		return m, nil
	case key.Matches(msg, k.PlayPause):
		return m, m.sessionCmd(Player.TogglePause)
	case key.Matches(msg, k.Stop):
		return m, m.sessionCmd(Player.Stop)
	case key.Matches(msg, k.Next):
		return m, m.sessionCmd(Player.Next)
	case key.Matches(msg, k.Previous):
		return m, m.sessionCmd(Player.Previous)
	case key.Matches(msg, k.SeekBack):
		return m, m.seekCmd(-seekStep)
	case key.Matches(msg, k.SeekForward):
		return m, m.seekCmd(seekStep)
	case key.Matches(msg, k.VolumeUp):
		return m, m.volumeCmd(volumeStep)
	case key.Matches(msg, k.VolumeDown):
		return m, m.volumeCmd(-volumeStep)
	case key.Matches(msg, k.Mute):
		return m, m.sessionCmd(func(p Player) error { _, err := p.ToggleMute(); return err })
	case key.Matches(msg, k.Shuffle):
		return m, m.sessionCmd(func(p Player) error { _, err := p.ToggleShuffle(); return err })
	case key.Matches(msg, k.Repeat):
		return m, m.sessionCmd(func(p Player) error { _, err := p.CycleRepeat(); return err })
	case key.Matches(msg, k.Retry):
		if m.snapshot.Err == nil {
			return m, nil
		}
		return m, m.sessionCmd(Player.Retry)
	case key.Matches(msg, k.Dismiss):
		return m, m.sessionCmd(Player.ClearError)
	}

	var cmd tea.Cmd
	if m.focus == FocusQueue {
		m.queue, cmd = m.queue.Update(msg)
	} else {
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.setFocus(FocusResults)
		return m, nil
	case "enter":
		m.setFocus(FocusResults)
		query := m.search.Value()
		if query == "" {
			return m, nil
		}
		m.seq++
		m.loading = true
		return m, tea.Batch(m.searchCmd(query, m.seq), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f FocusTarget) {
	m.focus = f
	m.results.SetFocused(f == FocusResults)
	m.queue.SetFocused(f == FocusQueue)
	if f != FocusSearch {
		m.search.Blur()
	}
}

func (m Model) handleSelect(msg results.SelectMsg) (tea.Model, tea.Cmd) {
	it := msg.Item
	if it.Kind == results.KindTrack {
		if it.Track == nil {
			return m, nil
		}
		return m, m.playTracksCmd(msg.Tracks, it.Track.ID)
	}
	m.seq++
	m.loading = true
	return m, tea.Batch(m.openCmd(it, m.seq), m.spinner.Tick)
}

func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		wasBusy := m.busy()
		m.applySnapshot(playback.Snapshot(msg))
		if !wasBusy && m.busy() {
			return m, m.spinner.Tick
		}
		return m, nil
	case CommandErrorMsg:
		if errors.Is(msg.Err, playback.ErrClosed) {
			return m, tea.Quit
		}
		if errors.Is(msg.Err, playlist.ErrEmptyQueue) {
			return m.setStatus("Nothing playable in this list", true)
		}
		m.logger.Error("playback command failed", "err", msg.Err)
		return m.setStatus(msg.Err.Error(), true)
	case PositionMsg:
		m.snapshot.Position = msg.Position
		m.snapshot.Duration = msg.Duration
		m.snapshot.Progress = msg.Percent
		return m, m.watchSession()
	case QueueMsg:
		m.queue.SetQueue(msg.Tracks, msg.Index)
		m.snapshot.QueueLen = len(msg.Tracks)
		return m, m.watchSession()
	case TrackMsg:
		m.queue.SetPlaying(msg.Index)
		return m, tea.Batch(m.watchSession(), m.snapshotCmd())
	case ModeMsg:
		m.snapshot.RepeatMode = msg.RepeatMode
		m.snapshot.Shuffle = msg.Shuffle
		m.queue.SetModes(msg.Shuffle, msg.RepeatMode)
		return m, m.watchSession()
	case SessionEventMsg:
		return m, tea.Batch(m.watchSession(), m.snapshotCmd())
	case SessionClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) applySnapshot(snap playback.Snapshot) {
	visibleBefore := m.playerBarVisible()
	m.snapshot = snap
	m.queue.SetPlaying(snap.Index)
	m.queue.SetModes(snap.Shuffle, snap.RepeatMode)
	if m.playerBarVisible() != visibleBefore {
		m.resize()
	}
}

func (m Model) handleCatalogMsg(msg CatalogMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PageMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.Push {
			m.results.Push(msg.Title, msg.Items)
		} else {
			m.results.Show(msg.Title, msg.Items)
		}
		m.resize()
		return m, nil
	case CatalogErrorMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.logger.Warn("catalog request failed", "op", msg.Op, "subject", msg.Subject, "err", msg.Err)
		return m.setStatus(errmsg.FormatWith(msg.Op, msg.Subject, msg.Err), true)
	}
	return m, nil
}

// setStatus shows a transient message in the status line.
func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusSeq++
	m.status = text
	m.statusIsErr = isErr
	return m, statusClearCmd(m.statusSeq)
}
