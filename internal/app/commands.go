package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wenslauce/Music-Wave/internal/playlist"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05
	statusTTL  = 4 * time.Second
)

// watchSession waits for the next session event and converts it to a
// message. It is re-armed after every session message.
func (m Model) watchSession() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.PositionChanged:
			return PositionMsg(e)
		case e := <-sub.QueueChanged:
			return QueueMsg(e)
		case e := <-sub.TrackChanged:
			return TrackMsg(e)
		case e := <-sub.ModeChanged:
			return ModeMsg(e)
		case <-sub.StateChanged:
			return SessionEventMsg{}
		case <-sub.SourceChanged:
			return SessionEventMsg{}
		case <-sub.Error:
			return SessionEventMsg{}
		case <-sub.Done:
			return SessionClosedMsg{}
		}
	}
}

// snapshotCmd fetches the session state.
func (m Model) snapshotCmd() tea.Cmd {
	player := m.player
	return func() tea.Msg {
		snap, err := player.Snapshot()
		if err != nil {
			return CommandErrorMsg{Err: err}
		}
		return SnapshotMsg(snap)
	}
}

// sessionCmd runs a session call off the UI goroutine and refreshes the
// snapshot afterwards.
func (m Model) sessionCmd(fn func(Player) error) tea.Cmd {
	player := m.player
	return func() tea.Msg {
		if err := fn(player); err != nil {
			return CommandErrorMsg{Err: err}
		}
		snap, err := player.Snapshot()
		if err != nil {
			return CommandErrorMsg{Err: err}
		}
		return SnapshotMsg(snap)
	}
}

func (m Model) playTracksCmd(tracks []playlist.Track, startID string) tea.Cmd {
	return m.sessionCmd(func(p Player) error { return p.PlayList(tracks, startID) })
}

// seekCmd moves the position by delta, expressed as a percentage of the
// known duration.
func (m Model) seekCmd(delta time.Duration) tea.Cmd {
	dur := m.snapshot.Duration
	if dur <= 0 || !m.snapshot.State.IsActive() {
		return nil
	}
	target := min(max(m.snapshot.Position+delta, 0), dur)
	pct := float64(target) / float64(dur) * 100
	return m.sessionCmd(func(p Player) error { return p.SeekPercent(pct) })
}

func (m Model) volumeCmd(delta float64) tea.Cmd {
	level := min(max(m.snapshot.Volume+delta, 0), 1)
	return m.sessionCmd(func(p Player) error { return p.SetVolume(level) })
}

func statusClearCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return StatusClearMsg{Seq: seq}
	})
}
