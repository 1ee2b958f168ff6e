package models

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// ModelPicker lists the models of one provider for selection.
type ModelPicker struct {
	cfg          *config.Config
	providerID   string
	providerName string
	models       []catwalk.Model
	cursor       int
	width        int
	height       int
}

// NewModelPicker creates a new ModelPicker.
func NewModelPicker(cfg *config.Config) *ModelPicker {
	return &ModelPicker{cfg: cfg}
}

// SetProvider loads the model list for the given provider. User-configured
// models win over the catwalk catalog.
func (p *ModelPicker) SetProvider(providerID string) {
	p.providerID = providerID
	p.providerName = providerID
	p.cursor = 0
	p.models = nil

	if provider, ok := p.cfg.Providers[providerID]; ok {
		if provider.Name != "" {
			p.providerName = provider.Name
		}
		if len(provider.Models) > 0 {
			p.models = provider.Models
			return
		}
	}

	for _, known := range p.cfg.KnownProviders() {
		if string(known.ID) != providerID {
			continue
		}
		p.models = known.Models
		if known.Name != "" {
			p.providerName = known.Name
		}
		return
	}
}

// SetSize sets the component size.
func (p *ModelPicker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Update handles messages.
func (p *ModelPicker) Update(msg tea.Msg) (*ModelPicker, tea.Cmd) {
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
		if p.cursor < len(p.models)-1 {
			p.cursor++
		}
	case keyEnter:
		if selected := p.Selected(); selected != nil && p.providerID != "" {
			return p, util.CmdHandler(ModelSelectedMsg{
				ProviderID: p.providerID,
				ModelID:    selected.ID,
			})
		}
	}
	return p, nil
}

// View renders the model list.
func (p *ModelPicker) View() string {
	t := styles.CurrentTheme()

	if p.providerID == "" {
		return t.S().Muted.Render("No provider selected.")
	}
	if len(p.models) == 0 {
		return t.S().Muted.Render("No models available for this provider.")
	}

	lines := []string{
		t.S().Muted.Render("Provider: ") + t.S().Primary.Render(p.providerName),
		"",
		t.S().Muted.Render("Select a model:"),
		"",
	}

	for i, model := range p.models {
		label := modelLabel(model)
		if i == p.cursor {
			lines = append(lines, "> "+t.S().Primary.Bold(true).Render(label))
		} else {
			lines = append(lines, "  "+t.S().Muted.Render(label))
		}
	}

	lines = append(lines, "", t.S().Muted.Render("[enter] select  [esc] back"))
	return strings.Join(lines, "\n")
}

// modelLabel shows the display name with the ID appended when they differ.
func modelLabel(m catwalk.Model) string {
	switch {
	case m.Name == "":
		return m.ID
	case m.Name != m.ID:
		return m.Name + " (" + m.ID + ")"
	default:
		return m.Name
	}
}

// Selected returns the currently selected model.
func (p *ModelPicker) Selected() *catwalk.Model {
	if p.cursor >= 0 && p.cursor < len(p.models) {
		return &p.models[p.cursor]
	}
	return nil
}
