package tui

import "charm.land/bubbles/v2/key"

// KeyMap defines the global key bindings handled by the root model.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default global key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
