// Package wizard provides custom provider wizard components.
package wizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// ProviderImportMethod represents the import method choice.
type ProviderImportMethod int

// ProviderImportMethod constants.
const (
	ProviderImportMethodManual ProviderImportMethod = iota
	ProviderImportMethodTemplate
)

// importMethods lists the selectable methods in display order.
var importMethods = []struct {
	label string
	desc  string
}{
	{"Manual Definition", "Enter provider details manually"},
	{"From Template", "Start from a template (Ollama, LM Studio, ...)"},
}

// CustomProviderMethodSelectedMsg is sent when a method is selected.
type CustomProviderMethodSelectedMsg struct {
	Method ProviderImportMethod
}

// CustomProviderMethod lets the user choose how to add a custom provider.
type CustomProviderMethod struct {
	width    int
	selected ProviderImportMethod
}

// NewCustomProviderMethod creates a new custom provider method chooser.
func NewCustomProviderMethod() *CustomProviderMethod {
	return &CustomProviderMethod{selected: ProviderImportMethodManual}
}

// Init initializes the component.
func (c *CustomProviderMethod) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (c *CustomProviderMethod) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.String() {
	case keyUp, keyK:
		if c.selected > 0 {
			c.selected--
		}
	case keyDown, keyJ:
		if int(c.selected) < len(importMethods)-1 {
			c.selected++
		}
	case keyEnter:
		return c, util.CmdHandler(CustomProviderMethodSelectedMsg{Method: c.selected})
	}
	return c, nil
}

// View renders the method chooser.
func (c *CustomProviderMethod) View() string {
	t := styles.CurrentTheme()

	var list strings.Builder
	for i, m := range importMethods {
		cursor := "  "
		labelStyle := t.S().Text
		descStyle := t.S().Muted
		if i == int(c.selected) {
			cursor = t.S().Success.Render(styles.Selected + " ")
			labelStyle = t.S().Text.Bold(true)
			descStyle = t.S().Subtle
		}
		list.WriteString(cursor + labelStyle.Render(m.label) + "\n    " + descStyle.Render(m.desc) + "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.S().Title.Render("How would you like to add a custom provider?"),
		"",
		list.String(),
		"",
		t.S().Muted.Render("Use ↑/↓ to navigate, Enter to select"),
	)
}

// SetWidth sets the component width.
func (c *CustomProviderMethod) SetWidth(width int) {
	c.width = width
}
