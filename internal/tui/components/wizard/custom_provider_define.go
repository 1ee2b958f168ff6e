// Package wizard provides custom provider wizard components.
package wizard

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// CustomProviderDefinedMsg is sent when custom provider definition is complete.
type CustomProviderDefinedMsg struct {
	Provider config.CustomProvider
}

const (
	defineStepName = iota
	defineStepID
	defineStepType
	defineStepEndpoint
	defineStepHeaders
	defineStepConfirm
)

// selectableTypes lists the provider types offered in the type picker,
// in display order.
var selectableTypes = []catwalk.Type{
	catwalk.TypeOpenAICompat,
	catwalk.TypeOpenAI,
	catwalk.TypeAnthropic,
	catwalk.TypeGoogle,
	catwalk.TypeAzure,
	catwalk.TypeBedrock,
	catwalk.TypeVertexAI,
	catwalk.TypeOpenRouter,
}

// CustomProviderDefine walks the user through defining a provider by
// hand: name, ID, type, endpoint, optional headers, then a review step.
type CustomProviderDefine struct {
	nameInput     textinput.Model
	idInput       textinput.Model
	typeInput     textinput.Model
	endpointInput textinput.Model

	typeIndex int

	headers       map[string]string
	headerKey     textinput.Model
	headerVal     textinput.Model
	editingHeader bool
	onHeaderValue bool // key entered, now typing the value

	width int
	step  int
}

// NewCustomProviderDefine creates a new custom provider definition component.
func NewCustomProviderDefine() *CustomProviderDefine {
	t := styles.CurrentTheme()

	newInput := func(placeholder string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Prompt = "> "
		in.SetStyles(t.S().TextInput)
		return in
	}

	c := &CustomProviderDefine{
		nameInput:     newInput("My Custom Provider"),
		idInput:       newInput("my-custom-provider"),
		typeInput:     newInput(""),
		endpointInput: newInput("https://api.example.com/v1"),
		headerKey:     newInput("Header name"),
		headerVal:     newInput("Header value"),
		headers:       make(map[string]string),
		width:         60,
		step:          defineStepName,
	}
	c.idInput.CharLimit = 50
	c.typeInput.CharLimit = 20
	c.typeInput.SetValue(string(selectableTypes[0]))
	c.nameInput.Focus()
	return c
}

// Init initializes the component.
func (c *CustomProviderDefine) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (c *CustomProviderDefine) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.String() {
	case keyEnter:
		return c.handleEnter()
	case "tab":
		return c.handleTab()
	case keyUp:
		c.cycleType(-1)
	case keyDown:
		c.cycleType(1)
	case "esc":
		return c, nil
	}

	var cmd tea.Cmd
	switch c.step {
	case defineStepName:
		c.nameInput, cmd = c.nameInput.Update(msg)
	case defineStepID:
		c.idInput, cmd = c.idInput.Update(msg)
	case defineStepType:
		c.typeInput, cmd = c.typeInput.Update(msg)
	case defineStepEndpoint:
		c.endpointInput, cmd = c.endpointInput.Update(msg)
	case defineStepHeaders:
		if !c.editingHeader {
			break
		}
		if c.onHeaderValue {
			c.headerVal, cmd = c.headerVal.Update(msg)
		} else {
			c.headerKey, cmd = c.headerKey.Update(msg)
		}
	}
	return c, cmd
}

func (c *CustomProviderDefine) cycleType(delta int) {
	if c.step != defineStepType {
		return
	}
	next := c.typeIndex + delta
	if next >= 0 && next < len(selectableTypes) {
		c.typeIndex = next
		c.typeInput.SetValue(string(selectableTypes[c.typeIndex]))
	}
}

func (c *CustomProviderDefine) handleEnter() (util.Model, tea.Cmd) {
	switch c.step {
	case defineStepName:
		name := strings.TrimSpace(c.nameInput.Value())
		if name == "" {
			return c, nil
		}
		if c.idInput.Value() == "" {
			id := strings.ToLower(name)
			id = strings.ReplaceAll(id, " ", "-")
			id = strings.ReplaceAll(id, "_", "-")
			c.idInput.SetValue(id)
		}
		c.nameInput.Blur()
		c.idInput.Focus()
		c.step = defineStepID
	case defineStepID:
		if strings.TrimSpace(c.idInput.Value()) == "" {
			return c, nil
		}
		c.idInput.Blur()
		c.typeInput.Focus()
		c.step = defineStepType
	case defineStepType:
		c.typeInput.Blur()
		c.endpointInput.Focus()
		c.step = defineStepEndpoint
	case defineStepEndpoint:
		c.endpointInput.Blur()
		c.editingHeader = true
		c.onHeaderValue = false
		c.headerKey.Focus()
		c.step = defineStepHeaders
	case defineStepHeaders:
		c.commitHeaderInput()
	case defineStepConfirm:
		return c, util.CmdHandler(CustomProviderDefinedMsg{Provider: c.buildProvider()})
	}
	return c, nil
}

// commitHeaderInput advances the two-phase header entry: first enter
// moves from key to value, second enter stores the pair and resets.
func (c *CustomProviderDefine) commitHeaderInput() {
	if !c.editingHeader {
		return
	}
	if !c.onHeaderValue {
		if strings.TrimSpace(c.headerKey.Value()) == "" {
			return
		}
		c.onHeaderValue = true
		c.headerKey.Blur()
		c.headerVal.Focus()
		return
	}

	key := strings.TrimSpace(c.headerKey.Value())
	if key != "" {
		c.headers[key] = strings.TrimSpace(c.headerVal.Value())
	}
	c.headerKey.SetValue("")
	c.headerVal.SetValue("")
	c.onHeaderValue = false
	c.headerVal.Blur()
	c.headerKey.Focus()
}

func (c *CustomProviderDefine) handleTab() (util.Model, tea.Cmd) {
	switch {
	case c.step == defineStepHeaders && c.editingHeader:
		c.editingHeader = false
		c.headerKey.Blur()
		c.headerVal.Blur()
		c.step = defineStepConfirm
	case c.step == defineStepConfirm:
		c.step = defineStepHeaders
		c.editingHeader = true
		c.onHeaderValue = false
		c.headerKey.Focus()
	}
	return c, nil
}

func (c *CustomProviderDefine) buildProvider() config.CustomProvider {
	return config.CustomProvider{
		Name:           strings.TrimSpace(c.nameInput.Value()),
		ID:             strings.TrimSpace(c.idInput.Value()),
		Type:           catwalk.Type(c.typeInput.Value()),
		APIEndpoint:    strings.TrimSpace(c.endpointInput.Value()),
		DefaultHeaders: c.headers,
		Models:         []catwalk.Model{}, // collected by the next wizard step
	}
}

// sortedHeaders returns the configured headers as "key: value" lines in
// stable order.
func (c *CustomProviderDefine) sortedHeaders() []string {
	keys := make([]string, 0, len(c.headers))
	for k := range c.headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %s", k, c.headers[k]))
	}
	return lines
}

// View renders the custom provider definition.
func (c *CustomProviderDefine) View() string {
	t := styles.CurrentTheme()

	fields := []string{
		c.renderField("Provider Name", c.nameInput, c.step == defineStepName,
			"A friendly name for this provider"),
		c.renderField("Provider ID", c.idInput, c.step == defineStepID,
			"Unique identifier (e.g., my-custom-provider)"),
	}

	typeHelp := "Use ↑/↓ to select from: openai-compat, openai, anthropic, google, azure, bedrock, vertexai, openrouter"
	if c.step == defineStepType {
		typeHelp = t.S().Success.Render("↑/↓ to change type | Enter to continue")
	}
	fields = append(fields,
		c.renderField("Provider Type", c.typeInput, c.step == defineStepType, typeHelp),
		c.renderField("API Endpoint", c.endpointInput, c.step == defineStepEndpoint,
			"Base URL for the API (e.g., https://api.example.com/v1)"),
	)

	if c.step == defineStepHeaders {
		fields = append(fields, c.renderHeaderEntry())
	} else {
		summary := "optional"
		if n := len(c.headers); n > 0 {
			summary = fmt.Sprintf("%d configured", n)
		}
		fields = append(fields, c.renderStaticField("Default Headers", summary))
	}

	if c.step == defineStepConfirm {
		fields = append(fields, c.renderSummary())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.S().Title.Render("Define Custom Provider"),
		"",
		strings.Join(fields, "\n\n"),
		"",
		c.helpText(),
	)
}

func (c *CustomProviderDefine) renderField(label string, input textinput.Model, focused bool, help string) string {
	t := styles.CurrentTheme()

	labelStyle := t.S().Text
	if focused {
		labelStyle = t.S().Success.Bold(true)
	}
	return labelStyle.Render(label+":") + "\n" +
		input.View() + "\n" +
		t.S().Subtle.Render(help)
}

func (c *CustomProviderDefine) renderStaticField(label, value string) string {
	t := styles.CurrentTheme()
	return t.S().Text.Render(label+":") + "\n" + t.S().Muted.Render(value)
}

func (c *CustomProviderDefine) renderHeaderEntry() string {
	t := styles.CurrentTheme()

	var lines []string
	if len(c.headers) > 0 {
		lines = append(lines, "", t.S().Muted.Render("Configured headers:"))
		for _, h := range c.sortedHeaders() {
			lines = append(lines, t.S().Subtle.Render(h))
		}
		lines = append(lines, "")
	}

	label := t.S().Success.Bold(true)
	lines = append(lines,
		label.Render("Header Key:"),
		c.headerKey.View(),
		label.Render("Header Value:"),
		c.headerVal.View(),
	)
	return strings.Join(lines, "\n")
}

func (c *CustomProviderDefine) renderSummary() string {
	t := styles.CurrentTheme()

	lines := []string{
		t.S().Title.Render("Review Configuration"),
		"",
		t.S().Text.Render(fmt.Sprintf("Name: %s", c.nameInput.Value())),
		t.S().Text.Render(fmt.Sprintf("ID: %s", c.idInput.Value())),
		t.S().Text.Render(fmt.Sprintf("Type: %s", c.typeInput.Value())),
		t.S().Text.Render(fmt.Sprintf("API Endpoint: %s", c.endpointInput.Value())),
	}
	if len(c.headers) > 0 {
		lines = append(lines, "", t.S().Text.Render("Headers:"))
		for _, h := range c.sortedHeaders() {
			lines = append(lines, t.S().Subtle.Render(h))
		}
	}
	lines = append(lines,
		"",
		t.S().Success.Render("Press Enter to continue to model configuration"),
		t.S().Muted.Render("Press Tab to add more headers"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1)
	return box.Render(strings.Join(lines, "\n"))
}

func (c *CustomProviderDefine) helpText() string {
	t := styles.CurrentTheme()

	switch c.step {
	case defineStepHeaders:
		if c.editingHeader {
			return t.S().Muted.Render("Enter to add header • Tab to finish headers")
		}
		return t.S().Muted.Render("Tab to finish headers")
	case defineStepConfirm:
		return t.S().Muted.Render("Enter to confirm • Esc to cancel")
	default:
		return t.S().Muted.Render("Enter to continue • Tab to skip")
	}
}

// SetWidth sets the component width.
func (c *CustomProviderDefine) SetWidth(width int) {
	c.width = width
	inner := width - 4
	c.nameInput.SetWidth(inner)
	c.idInput.SetWidth(inner)
	c.typeInput.SetWidth(inner)
	c.endpointInput.SetWidth(inner)
	c.headerKey.SetWidth(inner / 2)
	c.headerVal.SetWidth(inner / 2)
}

// Cursor returns the cursor position of the focused input, if any.
func (c *CustomProviderDefine) Cursor() *tea.Cursor {
	switch c.step {
	case defineStepName:
		return c.nameInput.Cursor()
	case defineStepID:
		return c.idInput.Cursor()
	case defineStepType:
		return c.typeInput.Cursor()
	case defineStepEndpoint:
		return c.endpointInput.Cursor()
	case defineStepHeaders:
		if c.onHeaderValue {
			return c.headerVal.Cursor()
		}
		return c.headerKey.Cursor()
	}
	return nil
}
