package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wenslauce/Music-Wave/internal/icons"
	"github.com/wenslauce/Music-Wave/internal/ui/render"
	"github.com/wenslauce/Music-Wave/internal/ui/styles"
)

// View renders the results panel. Placeholder is shown when there are no
// items, e.g. a loading spinner or a hint.
func (m Model) View(placeholder string) string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	st := styles.T().S()
	width, height := m.InnerWidth(), m.ListHeight()

	title := m.Title()
	if title == "" {
		title = "Results"
	}
	if m.Depth() > 1 {
		title = "‹ " + title
	}
	count := ""
	if n := len(m.Items()); n > 0 {
		count = st.Muted.Render(fmt.Sprintf("%d", n))
	}
	header := render.Row(st.Title.Render(render.Truncate(title, max(width-lipgloss.Width(count)-1, 0))), count, width)

	var body string
	if len(m.Items()) == 0 {
		body = renderPlaceholder(placeholder, width, height)
	} else {
		body = m.renderItems(width, height)
	}

	content := header + "\n" + st.Subtle.Render(render.Separator(width)) + "\n" + body
	return styles.T().PanelStyle(m.IsFocused()).Width(width).Render(content)
}

func renderPlaceholder(text string, width, height int) string {
	lines := make([]string, height)
	for i := range lines {
		lines[i] = render.EmptyLine(width)
	}
	if height > 0 && text != "" {
		lines[0] = styles.T().S().Muted.Render(render.TruncateAndPad(" "+text, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderItems(width, height int) string {
	p := m.top()
	start, end := p.cursor.Visible(len(p.items), height)
	lines := make([]string, 0, height)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderItem(p.items[i], i == p.cursor.Pos(), width))
	}
	for len(lines) < height {
		lines = append(lines, render.EmptyLine(width))
	}
	return strings.Join(lines, "\n")
}

// renderItem lays out "icon title  subtitle  3:20" in exactly width cells.
func (m Model) renderItem(it Item, selected bool, width int) string {
	st := styles.T().S()

	dur := ""
	if it.Duration > 0 {
		dur = " " + render.Duration(it.Duration)
	}
	contentWidth := max(width-1-lipgloss.Width(dur), 0)
	titleWidth := contentWidth
	subWidth := 0
	if it.Subtitle != "" {
		titleWidth = contentWidth * 3 / 5
		subWidth = contentWidth - titleWidth
	}

	line := " " + render.TruncateAndPad(formatTitle(it), titleWidth) +
		render.TruncateAndPad(it.Subtitle, subWidth) + dur

	if selected && m.IsFocused() {
		return st.Cursor.Render(line)
	}
	return st.Base.Render(line)
}

func formatTitle(it Item) string {
	switch it.Kind {
	case KindAlbum:
		return icons.FormatAlbum(it.Title)
	case KindArtist:
		return icons.FormatArtist(it.Title)
	case KindPlaylist:
		return icons.FormatPlaylist(it.Title)
	default:
		return icons.FormatTrack(it.Title)
	}
}
