package styles

import "sync"

// Manager holds the active theme behind a lock so background
// goroutines can read it while the program swaps themes.
type Manager struct {
	mu    sync.RWMutex
	theme *Theme
}

var defaultManager = &Manager{theme: NewDefaultTheme()}

// NewManager resets the global manager to the default theme and
// returns it. Called once at program startup.
func NewManager() *Manager {
	defaultManager.SetTheme(NewDefaultTheme())
	return defaultManager
}

// SetTheme replaces the active theme.
func (m *Manager) SetTheme(t *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = t
}

// Theme returns the active theme.
func (m *Manager) Theme() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// CurrentTheme returns the globally active theme.
func CurrentTheme() *Theme {
	return defaultManager.Theme()
}
