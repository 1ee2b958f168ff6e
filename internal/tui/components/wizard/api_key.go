package wizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// APIKeyEnteredMsg is sent when the user submits an API key.
type APIKeyEnteredMsg struct {
	APIKey string
}

// APIKeyInput prompts for a provider API key.
type APIKeyInput struct {
	input        textinput.Model
	providerName string
	width        int
	allowEmpty   bool
}

// NewAPIKeyInput creates a new API key input for the given provider.
func NewAPIKeyInput(providerName string) *APIKeyInput {
	t := styles.CurrentTheme()

	input := textinput.New()
	input.Placeholder = "sk-... or $ENV_VAR"
	input.Prompt = "> "
	input.SetStyles(t.S().TextInput)
	input.EchoMode = textinput.EchoPassword
	input.CharLimit = 2000 // JWT tokens can be very long
	input.Focus()

	return &APIKeyInput{
		input:        input,
		providerName: providerName,
	}
}

// AllowEmpty permits submitting without a key. Local servers like
// Ollama accept any key or none at all.
func (a *APIKeyInput) AllowEmpty() {
	a.allowEmpty = true
	a.input.Placeholder = "leave empty if not required"
}

// Init initializes the component.
func (a *APIKeyInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (a *APIKeyInput) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == keyEnter {
		key := strings.TrimSpace(a.input.Value())
		if key == "" && !a.allowEmpty {
			return a, util.ReportWarn("API key is required")
		}
		return a, util.CmdHandler(APIKeyEnteredMsg{APIKey: key})
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View renders the API key input.
func (a *APIKeyInput) View() string {
	t := styles.CurrentTheme()

	title := t.S().Title.Render(fmt.Sprintf("Enter your %s API key", a.providerName))
	tip := t.S().Subtle.Render("Tip: Use $ENV_VAR to reference environment variables")
	help := t.S().Muted.Render("Enter to continue")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		a.input.View(),
		"",
		tip,
		help,
	)
}

// SetWidth sets the component width.
func (a *APIKeyInput) SetWidth(width int) {
	a.width = width
	a.input.SetWidth(min(width-8, 60))
}

// Reset clears the entered key.
func (a *APIKeyInput) Reset() {
	a.input.Reset()
	a.input.Focus()
}

// Cursor returns the cursor position.
func (a *APIKeyInput) Cursor() *tea.Cursor {
	return a.input.Cursor()
}
