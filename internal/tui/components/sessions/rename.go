package sessions

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/yodaai/yoda/internal/tui/styles"
)

// newThemedInput builds a single-line text input styled for the
// current theme.
func newThemedInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.SetStyles(styles.CurrentTheme().S().TextInput)
	return ti
}

// RenameInput collects a new title for an existing session.
type RenameInput struct {
	input textinput.Model
	width int
}

// NewRenameInput creates a new rename input.
func NewRenameInput() *RenameInput {
	return &RenameInput{input: newThemedInput("Enter session name...")}
}

// SetWidth sets the input width.
func (r *RenameInput) SetWidth(width int) {
	r.width = width
}

// SetValue pre-fills the input and moves the cursor to the end.
func (r *RenameInput) SetValue(value string) {
	r.input.SetValue(value)
	r.input.CursorEnd()
}

// Value returns the current input value.
func (r *RenameInput) Value() string {
	return r.input.Value()
}

// Focus focuses the input.
func (r *RenameInput) Focus() tea.Cmd {
	return r.input.Focus()
}

// Reset clears the input.
func (r *RenameInput) Reset() {
	r.input.SetValue("")
	r.input.Blur()
}

// Update handles messages.
func (r *RenameInput) Update(msg tea.Msg) (*RenameInput, tea.Cmd) {
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

// View renders the input.
func (r *RenameInput) View() string {
	t := styles.CurrentTheme()
	return t.S().Text.Render("New name: ") + "\n\n" + r.input.View()
}

// Cursor returns the cursor position.
func (r *RenameInput) Cursor() *tea.Cursor {
	return r.input.Cursor()
}
