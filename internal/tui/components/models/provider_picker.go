//nolint:goconst // Key strings are standard keyboard identifiers.
package models

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// Custom provider type constants.
const (
	CustomProviderOpenAI    = "custom-openai"
	CustomProviderAnthropic = "custom-anthropic"
)

// ProviderOption represents a selectable provider option.
type ProviderOption struct {
	ID       string
	Name     string
	Type     string
	IsCustom bool
}

// label is the display string for the option.
func (o ProviderOption) label() string {
	if o.IsCustom {
		return o.Name
	}
	return o.Name + " (" + o.Type + ")"
}

// ProviderPicker displays a list of providers to choose from. The
// catalog entries are followed by two "bring your own endpoint"
// options.
type ProviderPicker struct {
	providers []catwalk.Provider
	options   []ProviderOption
	cursor    int
	width     int
	height    int
}

// NewProviderPicker creates a new ProviderPicker.
func NewProviderPicker(providers []catwalk.Provider) *ProviderPicker {
	options := make([]ProviderOption, 0, len(providers)+2)
	for i := range providers {
		options = append(options, ProviderOption{
			ID:   string(providers[i].ID),
			Name: providers[i].Name,
			Type: string(providers[i].Type),
		})
	}
	options = append(options,
		ProviderOption{
			ID:       CustomProviderOpenAI,
			Name:     "Custom (OpenAI-compatible)",
			Type:     "openai-compat",
			IsCustom: true,
		},
		ProviderOption{
			ID:       CustomProviderAnthropic,
			Name:     "Custom (Anthropic-compatible)",
			Type:     "anthropic",
			IsCustom: true,
		},
	)

	return &ProviderPicker{
		providers: providers,
		options:   options,
	}
}

// Reset resets the cursor to the beginning.
func (p *ProviderPicker) Reset() {
	p.cursor = 0
}

// SetSize sets the component size.
func (p *ProviderPicker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Update handles messages.
func (p *ProviderPicker) Update(msg tea.Msg) (*ProviderPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case keyDown, "j":
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}
	case keyEnter:
		if p.cursor < 0 || p.cursor >= len(p.options) {
			break
		}
		opt := p.options[p.cursor]
		return p, util.CmdHandler(ProviderSelectedMsg{
			ProviderID:   opt.ID,
			ProviderName: opt.Name,
			ProviderType: opt.Type,
			IsCustom:     opt.IsCustom,
		})
	}
	return p, nil
}

// View renders the provider list.
func (p *ProviderPicker) View() string {
	t := styles.CurrentTheme()

	if len(p.options) == 0 {
		return t.S().Muted.Render("No providers available.")
	}

	var sb strings.Builder
	sb.WriteString(t.S().Muted.Render("Select a provider:"))
	sb.WriteString("\n\n")

	for i, opt := range p.options {
		if i == p.cursor {
			sb.WriteString("> ")
			sb.WriteString(t.S().Primary.Bold(true).Render(opt.label()))
		} else {
			sb.WriteString("  ")
			sb.WriteString(t.S().Muted.Render(opt.label()))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(t.S().Muted.Render("[enter] select  [esc] cancel"))
	return sb.String()
}

// Selected returns the currently selected catalog provider, or nil
// when a custom option is highlighted.
func (p *ProviderPicker) Selected() *catwalk.Provider {
	if p.cursor >= 0 && p.cursor < len(p.providers) {
		return &p.providers[p.cursor]
	}
	return nil
}
