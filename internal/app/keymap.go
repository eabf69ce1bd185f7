package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global key bindings. Navigation inside panels is
// handled by the panels themselves.
type KeyMap struct {
	Search      key.Binding
	Focus       key.Binding
	Back        key.Binding
	PlayPause   key.Binding
	Stop        key.Binding
	Next        key.Binding
	Previous    key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Mute        key.Binding
	Shuffle     key.Binding
	Repeat      key.Binding
	Retry       key.Binding
	Dismiss     key.Binding
	Display     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
		Back:        key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "back")),
		PlayPause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Stop:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Next:        key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next")),
		Previous:    key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "previous")),
		SeekBack:    key.NewBinding(key.WithKeys("shift+left", ","), key.WithHelp(",", "seek -5s")),
		SeekForward: key.NewBinding(key.WithKeys("shift+right", ";"), key.WithHelp(";", "seek +5s")),
		VolumeUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Mute:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Shuffle:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "shuffle")),
		Repeat:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "repeat")),
		Retry:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Dismiss:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "dismiss error")),
		Display:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "player view")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.PlayPause, k.Next, k.Previous, k.Shuffle, k.Repeat, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Focus, k.Back, k.Display},
		{k.PlayPause, k.Stop, k.Next, k.Previous},
		{k.SeekBack, k.SeekForward, k.VolumeUp, k.VolumeDown, k.Mute},
		{k.Shuffle, k.Repeat, k.Retry, k.Dismiss},
		{k.Help, k.Quit},
	}
}
