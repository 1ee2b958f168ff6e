// Package wizard implements the first-run setup wizard for yoda.
//
//nolint:goconst // Key strings are standard keyboard identifiers.
package wizard

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// Step represents the current step in the wizard.
type Step int

// Wizard steps.
const (
	StepProvider Step = iota
	StepCustomProviderMethod
	StepCustomProviderTemplate
	StepCustomProviderDefine
	StepCustomProviderModels
	StepAPIKey
	StepLargeModel
	StepSmallModel
	StepComplete
)

// progressLabels are the stations shown in the progress line. Custom
// provider sub-steps all map onto the first station.
var progressLabels = []string{"Provider", "API Key", "Large Model", "Small Model"}

// CompleteMsg is sent when the wizard is complete.
type CompleteMsg struct {
	ProviderID   string
	APIKey       string
	LargeModelID string
	SmallModelID string
}

// Wizard walks the user from provider selection through model choice
// and saves the result to the global config.
type Wizard struct {
	step   Step
	width  int
	height int

	providers []catwalk.Provider

	// Step components, created lazily as the user advances.
	providerList   *ProviderList
	methodPicker   *CustomProviderMethod
	templatePicker *CustomProviderTemplate
	defineForm     *CustomProviderDefine
	modelsForm     *CustomProviderModels
	apiKeyInput    *APIKeyInput
	largeModel     *ModelList
	smallModel     *ModelList

	chosenProvider *catwalk.Provider
	chosenCustom   *config.CustomProvider
	chosenLarge    *catwalk.Model
	chosenSmall    *catwalk.Model
	apiKey         string
}

// NewWizard creates a new wizard instance.
func NewWizard(providers []catwalk.Provider) *Wizard {
	withCustom := AddCustomProviderOption(providers)
	return &Wizard{
		step:         StepProvider,
		providers:    withCustom,
		providerList: NewProviderList(withCustom),
	}
}

// Init initializes the wizard.
func (w *Wizard) Init() tea.Cmd {
	return w.providerList.Init()
}

// Update handles messages.
func (w *Wizard) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		w.goBack()
		return w, nil
	}

	switch w.step {
	case StepProvider:
		return w.updateProvider(msg)
	case StepCustomProviderMethod:
		return w.updateMethodPicker(msg)
	case StepCustomProviderTemplate:
		return w.updateTemplatePicker(msg)
	case StepCustomProviderDefine:
		return w.updateDefineForm(msg)
	case StepCustomProviderModels:
		return w.updateModelsForm(msg)
	case StepAPIKey:
		return w.updateAPIKey(msg)
	case StepLargeModel:
		return w.updateLargeModel(msg)
	case StepSmallModel:
		return w.updateSmallModel(msg)
	case StepComplete:
		return w, nil
	}

	return w, nil
}

func (w *Wizard) updateProvider(msg tea.Msg) (util.Model, tea.Cmd) {
	if m, ok := msg.(ProviderSelectedMsg); ok {
		if m.Provider.ID == customProviderID {
			w.methodPicker = NewCustomProviderMethod()
			w.methodPicker.SetWidth(w.width)
			w.step = StepCustomProviderMethod
			return w, w.methodPicker.Init()
		}
		return w, w.startAPIKeyStep(m.Provider, false)
	}

	_, cmd := w.providerList.Update(msg)
	return w, cmd
}

func (w *Wizard) updateMethodPicker(msg tea.Msg) (util.Model, tea.Cmd) {
	if m, ok := msg.(CustomProviderMethodSelectedMsg); ok {
		switch m.Method {
		case ProviderImportMethodManual:
			w.defineForm = NewCustomProviderDefine()
			w.defineForm.SetWidth(w.width)
			w.step = StepCustomProviderDefine
			return w, w.defineForm.Init()
		case ProviderImportMethodTemplate:
			w.templatePicker = NewCustomProviderTemplate()
			w.templatePicker.SetWidth(w.width)
			w.step = StepCustomProviderTemplate
			return w, w.templatePicker.Init()
		}
	}

	_, cmd := w.methodPicker.Update(msg)
	return w, cmd
}

func (w *Wizard) updateTemplatePicker(msg tea.Msg) (util.Model, tea.Cmd) {
	if m, ok := msg.(CustomProviderTemplateSelectedMsg); ok {
		// Templates ship with models, so skip model definition.
		return w, w.acceptCustomProvider(m.Provider)
	}

	_, cmd := w.templatePicker.Update(msg)
	return w, cmd
}

func (w *Wizard) updateDefineForm(msg tea.Msg) (util.Model, tea.Cmd) {
	if m, ok := msg.(CustomProviderDefinedMsg); ok {
		w.chosenCustom = &m.Provider
		w.modelsForm = NewCustomProviderModels(m.Provider)
		w.modelsForm.SetSize(w.width, w.height)
		w.step = StepCustomProviderModels
		return w, w.modelsForm.Init()
	}

	_, cmd := w.defineForm.Update(msg)
	return w, cmd
}

func (w *Wizard) updateModelsForm(msg tea.Msg) (util.Model, tea.Cmd) {
	if m, ok := msg.(CustomProviderModelsCompleteMsg); ok {
		return w, w.acceptCustomProvider(m.Provider)
	}

	_, cmd := w.modelsForm.Update(msg)
	return w, cmd
}

// acceptCustomProvider persists the custom provider and advances to
// the API key step.
func (w *Wizard) acceptCustomProvider(cp config.CustomProvider) tea.Cmd {
	w.chosenCustom = &cp

	manager := config.NewProviderLoader("").GetCustomProviderManager()
	_ = manager.Add(cp) //nolint:errcheck // Best-effort save, continue with wizard regardless

	return w.startAPIKeyStep(cp.ToCatwalkProvider(), true)
}

// startAPIKeyStep records the chosen provider and moves to API key
// entry. Custom providers may leave the key empty.
func (w *Wizard) startAPIKeyStep(provider catwalk.Provider, allowEmpty bool) tea.Cmd {
	w.chosenProvider = &provider

	w.apiKeyInput = NewAPIKeyInput(provider.Name)
	if allowEmpty {
		w.apiKeyInput.AllowEmpty()
	}
	w.apiKeyInput.SetWidth(w.width)
	w.step = StepAPIKey
	return w.apiKeyInput.Init()
}

func (w *Wizard) updateAPIKey(msg tea.Msg) (util.Model, tea.Cmd) {
	if m, ok := msg.(APIKeyEnteredMsg); ok {
		w.apiKey = m.APIKey
		return w, w.startModelSelection()
	}

	_, cmd := w.apiKeyInput.Update(msg)
	return w, cmd
}

// startModelSelection builds both model lists from the chosen
// provider, pre-selecting its default models.
func (w *Wizard) startModelSelection() tea.Cmd {
	p := w.chosenProvider

	w.largeModel = NewModelList(p.Models, "large", p.Name)
	w.smallModel = NewModelList(p.Models, "small", p.Name)
	w.largeModel.SetSize(w.width, w.height)
	w.smallModel.SetSize(w.width, w.height)

	if p.DefaultLargeModelID != "" {
		w.largeModel.SetCursorToModel(p.DefaultLargeModelID)
	}
	if p.DefaultSmallModelID != "" {
		w.smallModel.SetCursorToModel(p.DefaultSmallModelID)
	}

	w.step = StepLargeModel
	return w.largeModel.Init()
}

func (w *Wizard) updateLargeModel(msg tea.Msg) (util.Model, tea.Cmd) {
	if m, ok := msg.(ModelSelectedMsg); ok {
		w.chosenLarge = &m.Model
		w.step = StepSmallModel
		return w, w.smallModel.Init()
	}

	_, cmd := w.largeModel.Update(msg)
	return w, cmd
}

func (w *Wizard) updateSmallModel(msg tea.Msg) (util.Model, tea.Cmd) {
	if m, ok := msg.(ModelSelectedMsg); ok {
		w.chosenSmall = &m.Model
		w.step = StepComplete
		return w, w.saveConfig()
	}

	_, cmd := w.smallModel.Update(msg)
	return w, cmd
}

func (w *Wizard) goBack() {
	switch w.step {
	case StepCustomProviderMethod:
		w.step = StepProvider
		w.methodPicker = nil
	case StepCustomProviderTemplate:
		w.step = StepCustomProviderMethod
		w.templatePicker = nil
	case StepCustomProviderDefine:
		w.step = StepCustomProviderMethod
		w.defineForm = nil
	case StepCustomProviderModels:
		w.step = StepCustomProviderDefine
		w.modelsForm = nil
	case StepAPIKey:
		w.step = StepProvider
		w.apiKeyInput = nil
		w.chosenCustom = nil
	case StepLargeModel:
		w.step = StepAPIKey
		if w.apiKeyInput != nil {
			w.apiKeyInput.Reset()
		}
	case StepSmallModel:
		w.step = StepLargeModel
	case StepProvider, StepComplete:
		// Nowhere to go back to.
	}
}

func (w *Wizard) saveConfig() tea.Cmd {
	return func() tea.Msg {
		err := config.SaveWizardResult(
			string(w.chosenProvider.ID),
			w.apiKey,
			w.chosenLarge.ID,
			w.chosenSmall.ID,
		)
		if err != nil {
			return util.InfoMsg{
				Type: util.InfoTypeError,
				Msg:  fmt.Sprintf("Failed to save config: %v", err),
			}
		}
		return CompleteMsg{
			ProviderID:   string(w.chosenProvider.ID),
			APIKey:       w.apiKey,
			LargeModelID: w.chosenLarge.ID,
			SmallModelID: w.chosenSmall.ID,
		}
	}
}

// View renders the current wizard step inside a centered bordered box
// with a progress line on top.
func (w *Wizard) View() string {
	t := styles.CurrentTheme()

	backHint := ""
	if w.step > StepProvider && w.step < StepComplete {
		backHint = t.S().Subtle.Render("Press Esc to go back")
	}

	inner := lipgloss.JoinVertical(lipgloss.Center,
		w.renderProgress(),
		"",
		w.stepView(),
		"",
		backHint,
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 3).
		Width(min(w.width-4, 70)).
		Align(lipgloss.Center).
		Render(inner)

	return lipgloss.Place(
		w.width, w.height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

func (w *Wizard) stepView() string {
	switch w.step {
	case StepProvider:
		return w.providerList.View()
	case StepCustomProviderMethod:
		return w.methodPicker.View()
	case StepCustomProviderTemplate:
		return w.templatePicker.View()
	case StepCustomProviderDefine:
		return w.defineForm.View()
	case StepCustomProviderModels:
		return w.modelsForm.View()
	case StepAPIKey:
		return w.apiKeyInput.View()
	case StepLargeModel:
		return w.largeModel.View()
	case StepSmallModel:
		return w.smallModel.View()
	case StepComplete:
		return w.renderComplete()
	}
	return ""
}

func (w *Wizard) renderProgress() string {
	t := styles.CurrentTheme()
	current := w.stepIndex()

	parts := make([]string, 0, len(progressLabels)*2-1)
	for i, label := range progressLabels {
		style := t.S().Subtle
		switch {
		case i == current:
			style = t.S().Success.Bold(true)
		case i < current:
			style = t.S().Muted
		}
		parts = append(parts, style.Render(label))
		if i < len(progressLabels)-1 {
			parts = append(parts, t.S().Subtle.Render(" → "))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (w *Wizard) renderComplete() string {
	t := styles.CurrentTheme()

	summary := lipgloss.JoinVertical(lipgloss.Left,
		t.S().Text.Render(fmt.Sprintf("Provider: %s", w.chosenProvider.Name)),
		t.S().Text.Render(fmt.Sprintf("Large Model: %s", w.chosenLarge.Name)),
		t.S().Text.Render(fmt.Sprintf("Small Model: %s", w.chosenSmall.Name)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		t.S().Success.Bold(true).Render("Setup Complete!"),
		"",
		summary,
		"",
		t.S().Muted.Render(fmt.Sprintf("Configuration saved to: %s", config.GlobalConfigPath())),
		"",
		t.S().Info.Render("Press any key to continue..."),
	)
}

// SetSize sets the wizard size and propagates it to whichever step
// components exist.
func (w *Wizard) SetSize(width, height int) {
	w.width = width
	w.height = height

	if w.providerList != nil {
		w.providerList.SetSize(width, height)
	}
	if w.methodPicker != nil {
		w.methodPicker.SetWidth(width)
	}
	if w.templatePicker != nil {
		w.templatePicker.SetWidth(width)
	}
	if w.defineForm != nil {
		w.defineForm.SetWidth(width)
	}
	if w.modelsForm != nil {
		w.modelsForm.SetSize(width, height)
	}
	if w.apiKeyInput != nil {
		w.apiKeyInput.SetWidth(width)
	}
	if w.largeModel != nil {
		w.largeModel.SetSize(width, height)
	}
	if w.smallModel != nil {
		w.smallModel.SetSize(width, height)
	}
}

// IsComplete returns true if the wizard is complete.
func (w *Wizard) IsComplete() bool {
	return w.step == StepComplete
}

// SelectedLargeModel returns the selected large model, or nil if not yet selected.
func (w *Wizard) SelectedLargeModel() *catwalk.Model {
	return w.chosenLarge
}

// Cursor returns the cursor position for the current step.
func (w *Wizard) Cursor() *tea.Cursor {
	switch {
	case w.step == StepAPIKey && w.apiKeyInput != nil:
		return w.apiKeyInput.Cursor()
	case w.step == StepCustomProviderDefine && w.defineForm != nil:
		return w.defineForm.Cursor()
	case w.step == StepCustomProviderModels && w.modelsForm != nil:
		return w.modelsForm.Cursor()
	default:
		return nil
	}
}

// stepIndex maps the current step onto a progress station.
func (w *Wizard) stepIndex() int {
	switch w.step {
	case StepAPIKey:
		return 1
	case StepLargeModel:
		return 2
	case StepSmallModel:
		return 3
	case StepComplete:
		return 4
	default:
		return 0
	}
}
