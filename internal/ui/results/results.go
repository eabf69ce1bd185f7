// Package results shows catalog search and browse results as a navigable
// list with a back stack.
package results

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/ui"
	"github.com/wenslauce/Music-Wave/internal/ui/cursor"
)

// Kind is the catalog entity behind an item.
type Kind int

const (
	KindTrack Kind = iota
	KindAlbum
	KindArtist
	KindPlaylist
)

// Item is one row of a result list.
type Item struct {
	Kind     Kind
	ID       int64
	Title    string
	Subtitle string
	Duration time.Duration
	Track    *playlist.Track // set for KindTrack
}

// SelectMsg is sent when the user activates an item.
type SelectMsg struct {
	Item Item
	// Tracks holds every playable track of the page, for queueing the page
	// from the selected one.
	Tracks []playlist.Track
}

// page is one level of the back stack.
type page struct {
	title  string
	items  []Item
	cursor cursor.Cursor
}

// Model is the results panel.
type Model struct {
	ui.Base
	pages []page
}

// New creates an empty results panel.
func New() Model {
	return Model{}
}

// Show replaces the whole stack with a single page.
func (m *Model) Show(title string, items []Item) {
	m.pages = []page{newPage(title, items)}
}

// Push opens a page on top of the current one.
func (m *Model) Push(title string, items []Item) {
	m.pages = append(m.pages, newPage(title, items))
}

// Back returns to the previous page. It reports false at the root.
func (m *Model) Back() bool {
	if len(m.pages) <= 1 {
		return false
	}
	m.pages = m.pages[:len(m.pages)-1]
	return true
}

// Depth returns the number of pages on the stack.
func (m Model) Depth() int {
	return len(m.pages)
}

// Title returns the current page title.
func (m Model) Title() string {
	if p := m.top(); p != nil {
		return p.title
	}
	return ""
}

// Items returns the current page items.
func (m Model) Items() []Item {
	if p := m.top(); p != nil {
		return p.items
	}
	return nil
}

// Selected returns the item under the cursor.
func (m Model) Selected() (Item, bool) {
	p := m.top()
	if p == nil || len(p.items) == 0 {
		return Item{}, false
	}
	return p.items[p.cursor.Pos()], true
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	if p := m.top(); p != nil {
		p.cursor.Clamp(len(p.items), m.ListHeight())
	}
}

// Update handles keys while the panel is focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.IsFocused() {
		return m, nil
	}
	p := m.top()
	if p == nil {
		return m, nil
	}

	key := keyMsg.String()
	if p.cursor.HandleKey(key, len(p.items), m.ListHeight()) {
		return m, nil
	}

	switch key {
	case "enter":
		item, ok := m.Selected()
		if !ok {
			return m, nil
		}
		sel := SelectMsg{Item: item, Tracks: m.tracks()}
		return m, func() tea.Msg { return sel }
	case "backspace", "h", "left":
		m.Back()
	}
	return m, nil
}

func (m *Model) top() *page {
	if len(m.pages) == 0 {
		return nil
	}
	return &m.pages[len(m.pages)-1]
}

func (m Model) tracks() []playlist.Track {
	var out []playlist.Track
	for _, it := range m.Items() {
		if it.Kind == KindTrack && it.Track != nil {
			out = append(out, *it.Track)
		}
	}
	return out
}

func newPage(title string, items []Item) page {
	return page{title: title, items: items, cursor: cursor.New(ui.ScrollMargin)}
}
