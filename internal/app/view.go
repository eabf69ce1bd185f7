package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wenslauce/Music-Wave/internal/ui"
	"github.com/wenslauce/Music-Wave/internal/ui/playerbar"
	"github.com/wenslauce/Music-Wave/internal/ui/render"
	"github.com/wenslauce/Music-Wave/internal/ui/styles"
)

const headerHeight = 1

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	parts := []string{m.renderHeader(), m.renderBody()}
	if bar := m.renderPlayerBar(); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.help.View(m.keys))
	return strings.Join(parts, "\n")
}

func (m Model) renderHeader() string {
	st := styles.T().S()
	left := styles.T().Brand("Music Wave") + "  " + m.search.View()

	right := ""
	if m.status != "" {
		style := st.Muted
		if m.statusIsErr {
			style = st.Error
		}
		right = style.Render(render.Truncate(m.status, max(m.width/2, 0)))
	}
	return render.TruncateStyled(render.Row(left, right, m.width), m.width)
}

func (m Model) renderBody() string {
	placeholder := "No results"
	switch {
	case m.loading:
		placeholder = m.spinner.View() + " Loading…"
	case m.search.Value() == "" && m.results.Depth() == 0:
		placeholder = "Press / to search"
	}

	left := m.results.View(placeholder)
	right := m.queue.View()
	if m.sideBySide() {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, left, right)
}

func (m Model) renderPlayerBar() string {
	s := playerbar.NewState(m.snapshot, m.displayMode, m.spinner.View())
	return playerbar.Render(s, m.width)
}

func (m Model) playerBarVisible() bool {
	return m.snapshot.Track != nil || m.snapshot.Err != nil
}

func (m Model) sideBySide() bool {
	return m.width >= ui.MinSideBySideWidth
}

// resize lays out the panels for the current window size.
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.help.Width = m.width
	m.search.Width = max(m.width/2, 10)

	body := m.height - headerHeight - lipgloss.Height(m.help.View(m.keys))
	if m.playerBarVisible() {
		body -= playerbar.Height(m.displayMode)
	}
	body = max(body, 0)

	if m.sideBySide() {
		queueWidth := m.width / ui.QueueWidthDivisor
		m.results.SetSize(m.width-queueWidth, body)
		m.queue.SetSize(queueWidth, body)
		return
	}
	resultsHeight := body * 3 / 5
	m.results.SetSize(m.width, resultsHeight)
	m.queue.SetSize(m.width, body-resultsHeight)
}
