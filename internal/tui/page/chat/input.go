package chat

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/tui/styles"
)

// maxCommandHints caps how many slash-command suggestions show above the input.
const maxCommandHints = 5

// Input is the chat input component.
type Input struct {
	textInput textinput.Model
	commands  []Command
	width     int
	enabled   bool
}

// NewInput creates a new input component.
func NewInput() *Input {
	t := styles.CurrentTheme()

	ti := textinput.New()
	ti.Placeholder = "Type a message, or / for commands..."
	ti.CharLimit = 4096
	ti.SetStyles(t.S().TextInput)
	ti.Focus()

	return &Input{
		textInput: ti,
		enabled:   true,
	}
}

// Init initializes the input.
func (i *Input) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input events.
func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	if !i.enabled {
		return i, nil
	}

	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

// View renders the input.
func (i *Input) View() string {
	t := styles.CurrentTheme()

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(i.width - 4)

	if !i.enabled {
		inputStyle = inputStyle.BorderForeground(t.Border)
	}

	box := inputStyle.Render(i.textInput.View())

	hints := i.matchingCommands()
	if len(hints) == 0 {
		return box
	}

	nameWidth := 0
	for _, c := range hints {
		if len(c.Name)+1 > nameWidth {
			nameWidth = len(c.Name) + 1
		}
	}

	var b strings.Builder
	for _, c := range hints {
		name := fmt.Sprintf("/%-*s", nameWidth, c.Name)
		b.WriteString("  ")
		b.WriteString(t.S().Primary.Render(name))
		b.WriteString("  ")
		b.WriteString(t.S().Muted.Render(c.Description))
		b.WriteString("\n")
	}
	return b.String() + box
}

// Height returns the number of terminal rows the input occupies,
// including any visible command hints.
func (i *Input) Height() int {
	return 3 + len(i.matchingCommands())
}

// SetCommands sets the slash commands used for hint completion.
func (i *Input) SetCommands(commands []Command) {
	i.commands = commands
}

// matchingCommands returns commands matching the partially typed
// slash command, or nil when the input is not a command prefix.
func (i *Input) matchingCommands() []Command {
	value := i.textInput.Value()
	if !i.enabled || !strings.HasPrefix(value, "/") || strings.ContainsRune(value, ' ') {
		return nil
	}

	prefix := strings.ToLower(strings.TrimPrefix(value, "/"))
	var matches []Command
	for _, c := range i.commands {
		if strings.HasPrefix(c.Name, prefix) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 1 && matches[0].Name == prefix {
		return nil // Fully typed, no hint needed
	}
	if len(matches) > maxCommandHints {
		matches = matches[:maxCommandHints]
	}
	return matches
}

// SetWidth sets the input width.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.textInput.SetWidth(width - 8) // Account for border and padding
}

// Value returns the current input value.
func (i *Input) Value() string {
	return i.textInput.Value()
}

// SetValue sets the input value.
func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

// Clear clears the input.
func (i *Input) Clear() {
	i.textInput.SetValue("")
}

// Enable enables the input.
func (i *Input) Enable() {
	i.enabled = true
	i.textInput.Focus()
}

// Disable disables the input.
func (i *Input) Disable() {
	i.enabled = false
	i.textInput.Blur()
}

// IsEnabled returns whether the input is enabled.
func (i *Input) IsEnabled() bool {
	return i.enabled
}

// Focus focuses the input.
func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

// Blur removes focus from the input.
func (i *Input) Blur() {
	i.textInput.Blur()
}

// Cursor returns the cursor for the input.
func (i *Input) Cursor() *tea.Cursor {
	return i.textInput.Cursor()
}
