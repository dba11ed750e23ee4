package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the app-level keyboard bindings. Page views own their own
// keys; these only apply when the active view is not capturing text input.
type KeyMap struct {
	Dashboard key.Binding
	Campaigns key.Binding
	Contacts  key.Binding
	Templates key.Binding
	Settings  key.Binding
	Logout    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Campaigns: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "campaigns"),
		),
		Contacts: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "contacts"),
		),
		Templates: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "templates"),
		),
		Settings: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "settings"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "sign out"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
