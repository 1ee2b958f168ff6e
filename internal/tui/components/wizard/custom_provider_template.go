// Package wizard provides custom provider wizard components.
package wizard

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// CustomProviderTemplateSelectedMsg is sent when a template is chosen.
type CustomProviderTemplateSelectedMsg struct {
	Provider config.CustomProvider
}

// CustomProviderTemplate lets the user pick a pre-built provider
// template (Ollama, LM Studio, and friends) instead of defining the
// provider by hand.
type CustomProviderTemplate struct {
	names     []string
	templates map[string]config.ProviderTemplate
	cursor    int
	width     int
}

// NewCustomProviderTemplate creates a new template picker.
func NewCustomProviderTemplate() *CustomProviderTemplate {
	return &CustomProviderTemplate{
		names:     config.ListTemplateNames(),
		templates: config.ProviderTemplates(),
	}
}

// Init initializes the component.
func (c *CustomProviderTemplate) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (c *CustomProviderTemplate) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.String() {
	case keyUp, keyK:
		if c.cursor > 0 {
			c.cursor--
		}
	case keyDown, keyJ:
		if c.cursor < len(c.names)-1 {
			c.cursor++
		}
	case keyEnter:
		if c.cursor >= 0 && c.cursor < len(c.names) {
			tmpl := c.templates[c.names[c.cursor]]
			// Defaults only; endpoint and headers can be edited later
			// via the models modal or config file.
			provider := tmpl.ToCustomProvider(nil, "", "")
			return c, util.CmdHandler(CustomProviderTemplateSelectedMsg{Provider: provider})
		}
	}

	return c, nil
}

// View renders the template list.
func (c *CustomProviderTemplate) View() string {
	t := styles.CurrentTheme()

	title := t.S().Title.Render("Choose a provider template")
	help := t.S().Muted.Render("Use ↑/↓ to navigate, Enter to select")

	items := make([]string, 0, len(c.names))
	for i, name := range c.names {
		tmpl := c.templates[name]

		cursor := "  "
		style := t.S().Text
		descStyle := t.S().Muted
		if i == c.cursor {
			cursor = t.S().Success.Render(styles.Selected + " ")
			style = t.S().Text.Bold(true)
			descStyle = t.S().Subtle
		}

		items = append(items, cursor+style.Render(tmpl.Name)+"\n    "+descStyle.Render(tmpl.Description))
	}

	list := ""
	for _, item := range items {
		list += item + "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		list,
		"",
		help,
	)
}

// SetWidth sets the component width.
func (c *CustomProviderTemplate) SetWidth(width int) {
	c.width = width
}
