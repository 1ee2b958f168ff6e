// Package welcome provides the welcome/splash screen for yoda.
package welcome

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/tui/components/logo"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// StartWizardMsg is sent when the user wants to start the wizard.
type StartWizardMsg struct{}

// Welcome is the splash screen shown on first run, before any
// provider has been configured.
type Welcome struct {
	width  int
	height int
}

// New creates a new welcome screen.
func New() *Welcome {
	return &Welcome{}
}

// Init initializes the welcome screen.
func (w *Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w *Welcome) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}

	switch keyMsg.String() {
	case "enter", " ":
		return w, util.CmdHandler(StartWizardMsg{})
	case "q", "ctrl+c":
		return w, tea.Quit
	default:
		return w, nil
	}
}

// View renders the logo, tagline, and setup prompt centered in the
// available space.
func (w *Welcome) View() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		logo.Render(),
		"",
		"",
		w.tagline(),
		"",
		"",
		styles.CurrentTheme().S().Muted.Render("Press Enter to begin setup • q to quit"),
	)

	return lipgloss.Place(
		w.width, w.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

func (w *Welcome) tagline() string {
	t := styles.CurrentTheme()
	return lipgloss.JoinVertical(lipgloss.Center,
		t.S().Text.Render("Chat with any OpenAI-compatible model"),
		"",
		t.S().Muted.Render("Sessions · MCP tools · Clipboard capture"),
		"",
		t.S().Subtitle.Render("Let's configure your AI assistant."),
	)
}

// SetSize sets the welcome screen size.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}
