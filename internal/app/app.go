package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/wenslauce/Music-Wave/internal/logging"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/ui/playerbar"
	"github.com/wenslauce/Music-Wave/internal/ui/queuepanel"
	"github.com/wenslauce/Music-Wave/internal/ui/results"
	"github.com/wenslauce/Music-Wave/internal/ui/styles"
)

// FocusTarget is the panel receiving navigation keys.
type FocusTarget int

const (
	FocusResults FocusTarget = iota
	FocusQueue
	FocusSearch
)

// Model is the root application model.
type Model struct {
	catalog Catalog
	player  Player
	sub     *playback.Subscription
	logger  *log.Logger

	keys    KeyMap
	help    help.Model
	search  textinput.Model
	spinner spinner.Model

	results results.Model
	queue   queuepanel.Model

	snapshot    playback.Snapshot
	displayMode playerbar.DisplayMode
	focus       FocusTarget

	// Catalog requests in flight are tagged with seq; only the latest
	// one may update the results panel.
	seq     int
	loading bool

	status      string
	statusIsErr bool
	statusSeq   int

	width  int
	height int
}

// Options configures New.
type Options struct {
	Logger *log.Logger
	// InitialQuery runs a search on start instead of loading the charts.
	InitialQuery string
	// PlayerMode is the initial player bar layout.
	PlayerMode playerbar.DisplayMode
}

// New creates the application model. sub may be nil, in which case the
// view only refreshes after its own commands.
func New(catalog Catalog, player Player, sub *playback.Subscription, opts Options) Model {
	search := textinput.New()
	search.Placeholder = "Search tracks, artists, albums…"
	search.Prompt = "/ "
	search.CharLimit = 200
	search.SetValue(opts.InitialQuery)

	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(styles.T().S().Playing),
	)

	m := Model{
		catalog:     catalog,
		player:      player,
		sub:         sub,
		logger:      logging.OrDiscard(opts.Logger),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		search:      search,
		spinner:     sp,
		results:     results.New(),
		queue:       queuepanel.New(),
		snapshot:    playback.Snapshot{Index: -1, Volume: 1},
		displayMode: opts.PlayerMode,
		focus:       FocusResults,
		seq:         1,
		loading:     true,
	}
	m.results.SetFocused(true)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	first := m.chartsCmd(m.seq)
	if q := m.search.Value(); q != "" {
		first = m.searchCmd(q, m.seq)
	}
	return tea.Batch(first, m.spinner.Tick, m.watchSession(), m.snapshotCmd())
}
