package queuepanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wenslauce/Music-Wave/internal/icons"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/ui/render"
	"github.com/wenslauce/Music-Wave/internal/ui/styles"
)

const playingSymbol = "▶"

// View renders the queue panel.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	innerWidth := m.InnerWidth()
	content := m.renderHeader(innerWidth) + "\n" +
		styles.T().S().Subtle.Render(render.Separator(innerWidth)) + "\n" +
		m.renderTrackList(innerWidth, m.ListHeight())

	return styles.T().PanelStyle(m.IsFocused()).Width(innerWidth).Render(content)
}

func (m Model) renderHeader(width int) string {
	st := styles.T().S()
	title := fmt.Sprintf("Queue (%d/%d)", m.playing+1, len(m.tracks))
	if m.playing < 0 {
		title = fmt.Sprintf("Queue (%d)", len(m.tracks))
	}

	modes := m.modeIcons()
	left := st.Title.Render(render.Truncate(title, max(width-lipgloss.Width(modes)-1, 0)))
	if modes == "" {
		return left
	}
	return render.Row(left, st.Playing.Render(modes), width)
}

func (m Model) modeIcons() string {
	var parts []string
	if m.shuffle {
		parts = append(parts, icons.Shuffle())
	}
	switch m.repeat {
	case playlist.RepeatAll:
		parts = append(parts, icons.RepeatAll())
	case playlist.RepeatOne:
		parts = append(parts, icons.RepeatOne())
	case playlist.RepeatOff:
	}
	return strings.Join(parts, " ")
}

func (m Model) renderTrackList(width, height int) string {
	lines := make([]string, 0, height)
	start, end := m.cursor.Visible(len(m.tracks), height)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderTrackLine(i, width))
	}
	for len(lines) < height {
		lines = append(lines, render.EmptyLine(width))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine lays out "▶ title  artist  3:20" in exactly width cells.
func (m Model) renderTrackLine(idx, width int) string {
	t := m.tracks[idx]

	prefix := "  "
	if idx == m.playing {
		prefix = playingSymbol + " "
	}

	dur := ""
	if t.Duration > 0 {
		dur = " " + render.Duration(t.Duration)
	}
	contentWidth := max(width-2-lipgloss.Width(dur), 0)
	titleWidth := contentWidth * 3 / 5
	artistWidth := contentWidth - titleWidth

	line := prefix +
		render.TruncateAndPad(t.Title, titleWidth) +
		render.TruncateAndPad(t.Artist.Name, artistWidth) +
		dur

	return m.lineStyle(idx).Render(line)
}

// lineStyle highlights the cursor, the current track and tracks already
// played in queue order.
func (m Model) lineStyle(idx int) lipgloss.Style {
	st := styles.T().S()
	isCursor := idx == m.cursor.Pos() && m.IsFocused()
	isPlaying := idx == m.playing
	isPlayed := m.playing >= 0 && idx < m.playing

	switch {
	case isCursor && isPlaying:
		return st.Cursor.Inherit(st.Playing)
	case isCursor && isPlayed:
		return st.Cursor.Inherit(st.Subtle)
	case isCursor:
		return st.Cursor
	case isPlaying:
		return st.Playing
	case isPlayed:
		return st.Subtle
	default:
		return st.Base
	}
}
