package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard bindings for the explorer
type KeyMap struct {
	// Navigation
	Quit key.Binding
	Help key.Binding

	// Legend
	ToggleSeries key.Binding
	ShowAll      key.Binding

	// Chart
	Smooth     key.Binding
	NextWindow key.Binding
	PrevWindow key.Binding
	Refresh    key.Binding
}

// DefaultKeyMap returns the default keyboard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "help"),
		),

		// Legend
		ToggleSeries: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "toggle series"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "show all"),
		),

		// Chart
		Smooth: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "smoothing"),
		),
		NextWindow: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "wider window"),
		),
		PrevWindow: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "narrower window"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleSeries, k.ShowAll, k.Smooth, k.PrevWindow, k.NextWindow, k.Refresh, k.Quit}
}
