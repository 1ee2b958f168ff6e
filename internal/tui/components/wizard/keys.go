package wizard

// Key strings shared by the wizard steps. Every step handles the same
// navigation set so the flow feels uniform.
const (
	keyEnter = "enter"
	keyTab   = "tab"
	keyEsc   = "esc"

	// List navigation, arrows plus vim keys.
	keyUp   = "up"
	keyDown = "down"
	keyK    = "k"
	keyJ    = "j"
)
