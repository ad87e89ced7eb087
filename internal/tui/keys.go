package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the monitor's key bindings.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// Surface requests. Tab and split use the selected surface as parent.
	NewWindow key.Binding
	NewTab    key.Binding
	NewSplit  key.Binding
	Close     key.Binding
	Present   key.Binding
	Bell      key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NewWindow: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "new window"),
	),
	NewTab: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "new tab"),
	),
	NewSplit: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "split"),
	),
	Close: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "close"),
	),
	Present: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "focus"),
	),
	Bell: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "bell"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NewWindow, k.NewTab, k.NewSplit, k.Close, k.Present, k.Bell, k.Quit}
}

// FullHelp returns the bindings grouped for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NewWindow, k.NewTab, k.NewSplit},
		{k.Close, k.Present, k.Bell},
		{k.Quit},
	}
}
