package models

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// ModalStep represents the current step in the modal flow.
type ModalStep int

const (
	// StepList shows the configured providers.
	StepList ModalStep = iota
	// StepAddProvider shows the catalog picker for a new provider.
	StepAddProvider
	// StepAddForm shows the add provider form.
	StepAddForm
	// StepEdit shows the edit provider form.
	StepEdit
	// StepDeleteConfirm shows delete confirmation.
	StepDeleteConfirm
	// StepSelectProvider shows provider selection for a model tier.
	StepSelectProvider
	// StepSelectModel shows model selection for a provider.
	StepSelectModel
)

// Modal is the provider/model management modal.
type Modal struct {
	cfg            *config.Config
	providerList   *ProviderList
	providerPicker *ProviderPicker
	providerForm   *ProviderForm
	modelPicker    *ModelPicker
	step           ModalStep
	visible        bool
	width          int
	height         int
	selectedTier   config.SelectedModelType
	deleteTargetID string
	editTargetID   string
}

// New creates a new Modal.
func New(cfg *config.Config, providers []catwalk.Provider) *Modal {
	// Ensure providers are set on config so model picker can access them.
	if len(cfg.KnownProviders()) == 0 && len(providers) > 0 {
		cfg.SetKnownProviders(providers)
	}

	m := &Modal{
		cfg:     cfg,
		step:    StepList,
		visible: false,
	}

	// Initialize sub-components.
	m.providerList = NewProviderList(cfg)
	m.providerPicker = NewProviderPicker(providers)
	m.providerForm = NewProviderForm()
	m.modelPicker = NewModelPicker(cfg)

	return m
}

// Init initializes the modal.
func (m *Modal) Init() tea.Cmd {
	m.step = StepList
	m.providerList.Refresh()
	return nil
}

// Show makes the modal visible.
func (m *Modal) Show() {
	m.visible = true
	m.step = StepList
	m.providerList.Refresh()
}

// Hide hides the modal.
func (m *Modal) Hide() {
	m.visible = false
	// Reset form to prevent any lingering state
	m.providerForm.Reset()
}

// IsVisible returns whether the modal is visible.
func (m *Modal) IsVisible() bool {
	return m.visible
}

// SetSize sets the modal size.
func (m *Modal) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Update sub-component sizes.
	innerWidth := min(width-10, 60)
	innerHeight := height - 10

	m.providerList.SetSize(innerWidth, innerHeight)
	m.providerPicker.SetSize(innerWidth, innerHeight)
	m.providerForm.SetSize(innerWidth, innerHeight)
	m.modelPicker.SetSize(innerWidth, innerHeight)
}

// Update handles messages.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	// Handle key events first for Escape.
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" {
			return m.handleEscape()
		}
	}

	// Route to current step handler.
	switch m.step {
	case StepList:
		return m.updateList(msg)
	case StepAddProvider:
		return m.updateAddProvider(msg)
	case StepAddForm:
		return m.updateAddForm(msg)
	case StepEdit:
		return m.updateEdit(msg)
	case StepDeleteConfirm:
		return m.updateDeleteConfirm(msg)
	case StepSelectProvider:
		return m.updateSelectProvider(msg)
	case StepSelectModel:
		return m.updateSelectModel(msg)
	}

	return m, nil
}

func (m *Modal) handleEscape() (*Modal, tea.Cmd) {
	switch m.step {
	case StepList:
		// Close modal.
		m.Hide()
		return m, util.CmdHandler(ModalClosedMsg{})
	case StepAddProvider, StepAddForm, StepEdit, StepDeleteConfirm:
		// Go back to list.
		m.step = StepList
		m.providerList.Refresh()
		return m, nil
	case StepSelectProvider:
		// Go back to list.
		m.step = StepList
		return m, nil
	case StepSelectModel:
		// Go back to provider selection.
		m.step = StepSelectProvider
		return m, nil
	}
	return m, nil
}

func (m *Modal) updateList(msg tea.Msg) (*Modal, tea.Cmd) {
	// Handle list-specific messages.
	switch msg := msg.(type) {
	case StartAddProviderMsg:
		m.step = StepAddProvider
		m.providerPicker.Reset()
		return m, nil

	case EditProviderMsg:
		m.editTargetID = msg.ID
		if p, ok := m.cfg.Providers[msg.ID]; ok {
			m.providerForm.SetProviderConfig(p)
			m.step = StepEdit
		}
		return m, nil

	case DeleteProviderMsg:
		m.deleteTargetID = msg.ID
		m.step = StepDeleteConfirm
		return m, nil

	case SelectLargeModelMsg:
		m.selectedTier = config.SelectedModelTypeLarge
		m.step = StepSelectProvider
		return m, nil

	case SelectSmallModelMsg:
		m.selectedTier = config.SelectedModelTypeSmall
		m.step = StepSelectProvider
		return m, nil

	case ProviderChosenMsg:
		// Quick switch - use as large model.
		m.selectedTier = config.SelectedModelTypeLarge
		m.modelPicker.SetProvider(msg.ID)
		m.step = StepSelectModel
		return m, nil
	}

	// Update list component.
	var cmd tea.Cmd
	m.providerList, cmd = m.providerList.Update(msg)
	return m, cmd
}

func (m *Modal) updateAddProvider(msg tea.Msg) (*Modal, tea.Cmd) {
	if psm, ok := msg.(ProviderSelectedMsg); ok {
		m.providerForm.Reset()
		m.providerForm.SetProvider(psm.ProviderID, psm.ProviderName, psm.ProviderType, psm.IsCustom)
		m.step = StepAddForm
		return m, m.providerForm.Focus()
	}

	var cmd tea.Cmd
	m.providerPicker, cmd = m.providerPicker.Update(msg)
	return m, cmd
}

func (m *Modal) updateAddForm(msg tea.Msg) (*Modal, tea.Cmd) {
	switch msg := msg.(type) {
	case FormSubmitMsg:
		return m, m.addProvider(msg)

	case FormCancelMsg:
		m.step = StepList
		return m, nil
	}

	var cmd tea.Cmd
	m.providerForm, cmd = m.providerForm.Update(msg)
	return m, cmd
}

// addProvider persists a new provider from the form submission.
func (m *Modal) addProvider(msg FormSubmitMsg) tea.Cmd {
	providerID := m.providerForm.providerID

	if msg.IsCustom {
		// Custom providers live in the custom provider store so their
		// models and endpoint survive config rewrites.
		cp := config.CustomProvider{
			Name:        msg.Name,
			ID:          generateProviderID(msg.Name),
			Type:        catwalk.Type(m.providerForm.providerType),
			APIEndpoint: msg.BaseURL,
			Models: []catwalk.Model{
				{ID: msg.ModelID, Name: msg.ModelID},
			},
		}
		loader := config.NewProviderLoader("")
		if err := loader.GetCustomProviderManager().Add(cp); err != nil {
			return util.ReportError(err)
		}

		providerID = cp.ID
		m.cfg.Providers[providerID] = &config.ProviderConfig{
			ID:      providerID,
			Name:    msg.Name,
			Type:    cp.Type,
			BaseURL: msg.BaseURL,
			APIKey:  msg.APIKey,
			Models:  cp.Models,
		}
	} else {
		p, ok := m.cfg.Providers[providerID]
		if !ok {
			p = &config.ProviderConfig{ID: providerID, Name: msg.Name}
			m.cfg.Providers[providerID] = p
		}
		p.APIKey = msg.APIKey
	}

	if err := config.Save(m.cfg); err != nil {
		return util.ReportError(err)
	}

	m.step = StepList
	m.providerList.Refresh()
	return util.ReportSuccess("Provider added successfully")
}

func (m *Modal) updateEdit(msg tea.Msg) (*Modal, tea.Cmd) {
	switch msg := msg.(type) {
	case FormSubmitMsg:
		p, ok := m.cfg.Providers[m.editTargetID]
		if !ok {
			m.step = StepList
			return m, util.ReportWarn("Provider not found")
		}
		p.Name = msg.Name
		p.APIKey = msg.APIKey
		if msg.BaseURL != "" {
			p.BaseURL = msg.BaseURL
		}
		if err := config.Save(m.cfg); err != nil {
			return m, util.ReportError(err)
		}
		m.step = StepList
		m.providerList.Refresh()
		return m, util.ReportSuccess("Provider updated successfully")

	case FormCancelMsg:
		m.step = StepList
		return m, nil
	}

	var cmd tea.Cmd
	m.providerForm, cmd = m.providerForm.Update(msg)
	return m, cmd
}

func (m *Modal) updateDeleteConfirm(msg tea.Msg) (*Modal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "Y", keyEnter:
			delete(m.cfg.Providers, m.deleteTargetID)
			// Drop tier selections that pointed at the removed provider.
			for tier, sel := range m.cfg.Models {
				if sel.Provider == m.deleteTargetID {
					delete(m.cfg.Models, tier)
				}
			}
			if err := config.Save(m.cfg); err != nil {
				return m, util.ReportError(err)
			}
			m.step = StepList
			m.providerList.Refresh()
			return m, util.ReportSuccess("Provider removed")
		case "n", "N":
			// Cancel.
			m.step = StepList
			return m, nil
		}
	}
	return m, nil
}

func (m *Modal) updateSelectProvider(msg tea.Msg) (*Modal, tea.Cmd) {
	if pcm, ok := msg.(ProviderChosenMsg); ok {
		m.modelPicker.SetProvider(pcm.ID)
		m.step = StepSelectModel
		return m, nil
	}

	var cmd tea.Cmd
	m.providerList, cmd = m.providerList.Update(msg)
	return m, cmd
}

func (m *Modal) updateSelectModel(msg tea.Msg) (*Modal, tea.Cmd) {
	if msm, ok := msg.(ModelSelectedMsg); ok {
		// Set the active model in config.
		m.cfg.Models[m.selectedTier] = config.SelectedModel{
			Provider: msm.ProviderID,
			Model:    msm.ModelID,
		}
		if err := config.Save(m.cfg); err != nil {
			return m, util.ReportError(err)
		}

		// Get model name for display.
		modelName := msm.ModelID
		if selected := m.modelPicker.Selected(); selected != nil && selected.Name != "" {
			modelName = selected.Name
		}

		// Close modal properly (resets form state) and notify parent to switch the model.
		m.Hide()
		return m, tea.Batch(
			util.CmdHandler(ModalClosedMsg{}),
			util.CmdHandler(ModelSwitchedMsg{
				Tier:       m.selectedTier,
				ProviderID: msm.ProviderID,
				ModelID:    msm.ModelID,
				ModelName:  modelName,
			}),
		)
	}

	var cmd tea.Cmd
	m.modelPicker, cmd = m.modelPicker.Update(msg)
	return m, cmd
}

// View renders the modal.
func (m *Modal) View() string {
	if !m.visible {
		return ""
	}

	t := styles.CurrentTheme()

	// Render current step content.
	var content string
	var title string

	switch m.step {
	case StepList:
		title = "Providers"
		content = m.providerList.View()
	case StepAddProvider:
		title = "Add Provider - Select Provider"
		content = m.providerPicker.View()
	case StepAddForm:
		title = "Add Provider"
		content = m.providerForm.View()
	case StepEdit:
		title = "Edit Provider"
		content = m.providerForm.View()
	case StepDeleteConfirm:
		title = "Delete Provider"
		name := "this provider"
		if p, ok := m.cfg.Providers[m.deleteTargetID]; ok && p.Name != "" {
			name = p.Name
		} else if ok {
			name = p.ID
		}
		content = m.renderDeleteConfirm(name)
	case StepSelectProvider:
		tierName := "Large"
		if m.selectedTier == config.SelectedModelTypeSmall {
			tierName = "Small"
		}
		title = "Select Provider for " + tierName + " Model"
		content = m.providerList.View()
	case StepSelectModel:
		title = "Select Model"
		content = m.modelPicker.View()
	}

	// Build modal box.
	boxWidth := min(m.width-4, 60)
	contentWidth := boxWidth - 6 // Account for border and padding

	titleStyle := t.S().Title.
		Width(contentWidth).
		Align(lipgloss.Center).
		MarginBottom(1)

	contentStyle := lipgloss.NewStyle().
		Width(contentWidth).
		Align(lipgloss.Left)

	innerContent := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		contentStyle.Render(content),
	)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(1, 2).
		Width(boxWidth)

	box := boxStyle.Render(innerContent)

	// Center on screen.
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

func (m *Modal) renderDeleteConfirm(name string) string {
	t := styles.CurrentTheme()

	var sb strings.Builder
	sb.WriteString(t.S().Text.Render("Are you sure you want to delete "))
	sb.WriteString(t.S().Primary.Bold(true).Render(name))
	sb.WriteString(t.S().Text.Render("?\n\n"))
	sb.WriteString(t.S().Muted.Render("[y] Yes  [n] No  [esc] Cancel"))

	return sb.String()
}

// Cursor returns the cursor position.
func (m *Modal) Cursor() *tea.Cursor {
	if m.step == StepAddForm || m.step == StepEdit {
		return m.providerForm.Cursor()
	}
	return nil
}

// generateProviderID derives a stable provider ID from a display name.
func generateProviderID(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.ReplaceAll(id, " ", "-")
	id = strings.ReplaceAll(id, "_", "-")
	return id
}
