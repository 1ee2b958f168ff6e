// Package wizard provides custom provider wizard components.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// CustomProviderModelsCompleteMsg is sent when custom provider models are complete.
type CustomProviderModelsCompleteMsg struct {
	Provider config.CustomProvider
}

// Steps of the model form. The input fields come first so the step
// index doubles as an index into the fields slice.
const (
	modelStepName = iota
	modelStepID
	modelStepContext
	modelStepCostIn
	modelStepCostOut
	modelStepMaxTokens
	modelStepConfirm
	modelStepFinish
)

type modelField struct {
	label string
	help  string
	input textinput.Model
}

// CustomProviderModels collects model definitions for a custom provider,
// one form pass per model.
type CustomProviderModels struct {
	provider config.CustomProvider
	fields   []modelField
	models   []catwalk.Model
	step     int
	width    int
}

// NewCustomProviderModels creates a new custom provider models component.
func NewCustomProviderModels(provider config.CustomProvider) *CustomProviderModels {
	t := styles.CurrentTheme()

	newInput := func(placeholder, initial string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Prompt = "> "
		in.SetStyles(t.S().TextInput)
		if initial != "" {
			in.SetValue(initial)
		}
		return in
	}

	fields := []modelField{
		{label: "Model Name", help: "A friendly name for this model", input: newInput("My Model", "")},
		{label: "Model ID", help: "Unique identifier (e.g., gpt-4)", input: newInput("my-model", "")},
		{label: "Context Window", help: "Maximum context size in tokens (default: 128000)", input: newInput("128000", "128000")},
		{label: "Cost per 1M Input", help: "Cost per 1M input tokens (optional)", input: newInput("0.01", "")},
		{label: "Cost per 1M Output", help: "Cost per 1M output tokens (optional)", input: newInput("0.03", "")},
		{label: "Default Max Tokens", help: "Default max tokens for responses (default: 4096)", input: newInput("4096", "4096")},
	}
	fields[modelStepName].input.Focus()

	return &CustomProviderModels{
		provider: provider,
		fields:   fields,
		models:   []catwalk.Model{},
		step:     modelStepName,
		width:    70,
	}
}

// Init initializes the component.
func (c *CustomProviderModels) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (c *CustomProviderModels) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.String() {
	case keyEnter:
		return c.handleEnter()
	case "tab":
		return c.handleTab()
	case "esc":
		return c.finishEarly()
	}

	if c.step < len(c.fields) {
		var cmd tea.Cmd
		c.fields[c.step].input, cmd = c.fields[c.step].input.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c *CustomProviderModels) value(step int) string {
	return strings.TrimSpace(c.fields[step].input.Value())
}

// advance blurs the current field and focuses the next one.
func (c *CustomProviderModels) advance() {
	c.fields[c.step].input.Blur()
	c.step++
	if c.step < len(c.fields) {
		c.fields[c.step].input.Focus()
	}
}

func (c *CustomProviderModels) handleEnter() (util.Model, tea.Cmd) {
	switch c.step {
	case modelStepName:
		if c.value(modelStepName) == "" {
			return c, nil
		}
		// Suggest an ID derived from the name.
		if c.value(modelStepID) == "" {
			id := strings.ToLower(c.value(modelStepName))
			id = strings.ReplaceAll(id, " ", "-")
			id = strings.ReplaceAll(id, "_", "-")
			c.fields[modelStepID].input.SetValue(id)
		}
		c.advance()
	case modelStepID:
		if c.value(modelStepID) != "" {
			c.advance()
		}
	case modelStepContext, modelStepCostIn, modelStepCostOut, modelStepMaxTokens:
		c.advance()
	case modelStepConfirm:
		c.models = append(c.models, c.buildModel())
		c.resetForm()
	case modelStepFinish:
		c.provider.Models = c.models
		return c, util.CmdHandler(CustomProviderModelsCompleteMsg{Provider: c.provider})
	}
	return c, nil
}

func (c *CustomProviderModels) handleTab() (util.Model, tea.Cmd) {
	switch c.step {
	case modelStepConfirm:
		if len(c.models) > 0 {
			c.step = modelStepFinish
		}
	case modelStepFinish:
		c.step = modelStepConfirm
	}
	return c, nil
}

// finishEarly completes the wizard with the models collected so far.
// With nothing collected yet there is nothing to save, so esc is a no-op.
func (c *CustomProviderModels) finishEarly() (util.Model, tea.Cmd) {
	if (c.step == modelStepConfirm || c.step == modelStepFinish) && len(c.models) > 0 {
		c.provider.Models = c.models
		return c, util.CmdHandler(CustomProviderModelsCompleteMsg{Provider: c.provider})
	}
	return c, nil
}

func (c *CustomProviderModels) buildModel() catwalk.Model {
	parseInt := func(s string, fallback int64) int64 {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		return fallback
	}
	parseFloat := func(s string) float64 {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}

	costIn := parseFloat(c.value(modelStepCostIn))
	costOut := parseFloat(c.value(modelStepCostOut))

	return catwalk.Model{
		ID:                 c.value(modelStepID),
		Name:               c.value(modelStepName),
		ContextWindow:      parseInt(c.value(modelStepContext), 128000),
		CostPer1MIn:        costIn,
		CostPer1MOut:       costOut,
		CostPer1MInCached:  costIn * 0.1, // cached input billed at 10%
		CostPer1MOutCached: costOut,
		DefaultMaxTokens:   parseInt(c.value(modelStepMaxTokens), 4096),
	}
}

func (c *CustomProviderModels) resetForm() {
	c.fields[modelStepName].input.Reset()
	c.fields[modelStepID].input.Reset()
	c.fields[modelStepContext].input.SetValue("128000")
	c.fields[modelStepCostIn].input.Reset()
	c.fields[modelStepCostOut].input.Reset()
	c.fields[modelStepMaxTokens].input.SetValue("4096")
	c.step = modelStepName
	c.fields[modelStepName].input.Focus()
}

// View renders the models configuration.
func (c *CustomProviderModels) View() string {
	t := styles.CurrentTheme()

	var body []string
	if len(c.models) > 0 {
		body = append(body, c.renderModelList(), "")
	}
	body = append(body, c.renderCurrentStep(), "", c.helpText())

	return lipgloss.JoinVertical(lipgloss.Left,
		t.S().Title.Render(fmt.Sprintf("Define Models for %s", c.provider.Name)),
		"",
		strings.Join(body, "\n"),
	)
}

func (c *CustomProviderModels) renderModelList() string {
	t := styles.CurrentTheme()

	lines := []string{t.S().Text.Render("Configured Models:")}
	for i := range c.models {
		entry := fmt.Sprintf("  %d. %s (%s)", i+1, c.models[i].Name, c.models[i].ID)
		lines = append(lines, t.S().Subtle.Render(entry))
	}
	return strings.Join(lines, "\n")
}

func (c *CustomProviderModels) renderCurrentStep() string {
	if c.step < len(c.fields) {
		t := styles.CurrentTheme()
		f := c.fields[c.step]
		return t.S().Success.Bold(true).Render(f.label+":") + "\n" +
			f.input.View() + "\n" +
			t.S().Subtle.Render(f.help)
	}
	if c.step == modelStepConfirm {
		return c.renderConfirmStep()
	}
	return c.renderFinishStep()
}

func (c *CustomProviderModels) renderConfirmStep() string {
	t := styles.CurrentTheme()

	lines := []string{
		t.S().Title.Render("Model Summary"),
		"",
		t.S().Text.Render(fmt.Sprintf("Name: %s", c.value(modelStepName))),
		t.S().Text.Render(fmt.Sprintf("ID: %s", c.value(modelStepID))),
		t.S().Text.Render(fmt.Sprintf("Context: %s tokens", c.value(modelStepContext))),
	}
	if v := c.value(modelStepCostIn); v != "" {
		lines = append(lines, t.S().Text.Render(fmt.Sprintf("Cost In: $%s / 1M tokens", v)))
	}
	if v := c.value(modelStepCostOut); v != "" {
		lines = append(lines, t.S().Text.Render(fmt.Sprintf("Cost Out: $%s / 1M tokens", v)))
	}
	if v := c.value(modelStepMaxTokens); v != "" {
		lines = append(lines, t.S().Text.Render(fmt.Sprintf("Max Tokens: %s", v)))
	}
	lines = append(lines,
		"",
		t.S().Success.Render("Press Enter to add this model"),
		t.S().Muted.Render("Press Tab to finish (skip adding more models)"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1)
	return box.Render(strings.Join(lines, "\n"))
}

func (c *CustomProviderModels) renderFinishStep() string {
	t := styles.CurrentTheme()

	lines := []string{
		t.S().Success.Bold(true).Render(fmt.Sprintf("Configured %d model(s)", len(c.models))),
		"",
	}
	for i, m := range c.models {
		lines = append(lines, t.S().Text.Render(fmt.Sprintf("%d. %s", i+1, m.Name)))
	}
	lines = append(lines,
		"",
		t.S().Success.Render("Press Enter to save and continue"),
		t.S().Muted.Render("Press Tab to add more models"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Success).
		Padding(1)
	return box.Render(strings.Join(lines, "\n"))
}

func (c *CustomProviderModels) helpText() string {
	t := styles.CurrentTheme()

	switch c.step {
	case modelStepConfirm:
		return t.S().Muted.Render("Enter to add model • Tab to finish")
	case modelStepFinish:
		return t.S().Muted.Render("Enter to save • Tab to add more models")
	default:
		return t.S().Muted.Render("Enter to continue • Tab to skip optional fields")
	}
}

// SetSize sets the component width.
func (c *CustomProviderModels) SetSize(width, height int) {
	c.width = width
	for i := range c.fields {
		c.fields[i].input.SetWidth(width - 4)
	}
}

// Cursor returns the cursor position of the focused input, if any.
func (c *CustomProviderModels) Cursor() *tea.Cursor {
	if c.step < len(c.fields) {
		return c.fields[c.step].input.Cursor()
	}
	return nil
}
