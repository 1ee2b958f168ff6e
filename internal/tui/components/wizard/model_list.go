package wizard

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// ModelSelectedMsg is sent when a model is selected.
type ModelSelectedMsg struct {
	Model catwalk.Model
}

// ModelList lets the user pick a model for a tier (large or small).
type ModelList struct {
	models       []catwalk.Model
	tier         string
	providerName string
	cursor       int
	offset       int
	width        int
	height       int
}

// NewModelList creates a model list for the given tier.
func NewModelList(models []catwalk.Model, tier, providerName string) *ModelList {
	return &ModelList{
		models:       models,
		tier:         tier,
		providerName: providerName,
	}
}

// Init initializes the component.
func (m *ModelList) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m *ModelList) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyUp, keyK:
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureVisible()
	case keyDown, keyJ:
		if m.cursor < len(m.models)-1 {
			m.cursor++
		}
		m.ensureVisible()
	case keyEnter:
		if m.cursor >= 0 && m.cursor < len(m.models) {
			return m, util.CmdHandler(ModelSelectedMsg{Model: m.models[m.cursor]})
		}
	}
	return m, nil
}

// SetCursorToModel moves the cursor to the model with the given ID, if
// present. Used to pre-select provider defaults.
func (m *ModelList) SetCursorToModel(modelID string) {
	for i := range m.models {
		if m.models[i].ID == modelID {
			m.cursor = i
			m.ensureVisible()
			return
		}
	}
}

func (m *ModelList) visibleRows() int {
	rows := 10
	if len(m.models) < rows {
		rows = len(m.models)
	}
	return rows
}

func (m *ModelList) ensureVisible() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// View renders the model list.
func (m *ModelList) View() string {
	t := styles.CurrentTheme()

	title := t.S().Title.Render(fmt.Sprintf("Select %s model", m.tier))

	subtitle := "Used for chat and complex tasks"
	if m.tier == "small" {
		subtitle = "Used for quick tasks like session titles"
	}

	if len(m.models) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			t.S().Muted.Render(fmt.Sprintf("No models available for %s.", m.providerName)),
		)
	}

	rows := m.visibleRows()
	end := m.offset + rows
	if end > len(m.models) {
		end = len(m.models)
	}

	items := make([]string, 0, rows+2)
	if m.offset > 0 {
		items = append(items, t.S().Subtle.Render("  ↑ more"))
	}
	for i := m.offset; i < end; i++ {
		name := m.models[i].Name
		if name == "" {
			name = m.models[i].ID
		}
		meta := t.S().Subtle.Render(" " + formatContextWindow(m.models[i].ContextWindow))

		if i == m.cursor {
			cursor := t.S().Success.Render(styles.Selected + " ")
			items = append(items, cursor+t.S().Text.Bold(true).Render(name)+meta)
		} else {
			items = append(items, "  "+t.S().Text.Render(name)+meta)
		}
	}
	if end < len(m.models) {
		items = append(items, t.S().Subtle.Render("  ↓ more"))
	}

	list := ""
	for _, item := range items {
		list += item + "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		t.S().Subtitle.Render(subtitle),
		"",
		list,
		t.S().Muted.Render("Use ↑/↓ to navigate, Enter to select"),
	)
}

// SetSize sets the component size.
func (m *ModelList) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func formatContextWindow(ctx int64) string {
	if ctx <= 0 {
		return ""
	}
	if ctx >= 1000 {
		return fmt.Sprintf("%dk ctx", ctx/1000)
	}
	return fmt.Sprintf("%d ctx", ctx)
}
