package wizard

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// customProviderID marks the synthetic "Add Custom Provider" entry.
const customProviderID = catwalk.InferenceProvider("custom")

// ProviderSelectedMsg is sent when a provider is selected.
type ProviderSelectedMsg struct {
	Provider catwalk.Provider
}

// AddCustomProviderOption appends the "Add Custom Provider" entry to
// the provider list.
func AddCustomProviderOption(providers []catwalk.Provider) []catwalk.Provider {
	out := make([]catwalk.Provider, 0, len(providers)+1)
	out = append(out, providers...)
	out = append(out, catwalk.Provider{
		ID:   customProviderID,
		Name: "Add Custom Provider",
	})
	return out
}

// ProviderList lets the user pick an inference provider.
type ProviderList struct {
	providers []catwalk.Provider
	cursor    int
	offset    int
	width     int
	height    int
}

// NewProviderList creates a new provider list.
func NewProviderList(providers []catwalk.Provider) *ProviderList {
	return &ProviderList{providers: providers}
}

// Init initializes the component.
func (p *ProviderList) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (p *ProviderList) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case keyUp, keyK:
		if p.cursor > 0 {
			p.cursor--
		}
		p.ensureVisible()
	case keyDown, keyJ:
		if p.cursor < len(p.providers)-1 {
			p.cursor++
		}
		p.ensureVisible()
	case keyEnter:
		if p.cursor >= 0 && p.cursor < len(p.providers) {
			return p, util.CmdHandler(ProviderSelectedMsg{Provider: p.providers[p.cursor]})
		}
	}
	return p, nil
}

func (p *ProviderList) visibleRows() int {
	rows := 10
	if len(p.providers) < rows {
		rows = len(p.providers)
	}
	return rows
}

func (p *ProviderList) ensureVisible() {
	rows := p.visibleRows()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
}

// View renders the provider list.
func (p *ProviderList) View() string {
	t := styles.CurrentTheme()

	title := t.S().Title.Render("Select your provider")
	help := t.S().Muted.Render("Use ↑/↓ to navigate, Enter to select")

	rows := p.visibleRows()
	end := p.offset + rows
	if end > len(p.providers) {
		end = len(p.providers)
	}

	items := make([]string, 0, rows+2)
	if p.offset > 0 {
		items = append(items, t.S().Subtle.Render("  ↑ more"))
	}
	for i := p.offset; i < end; i++ {
		name := p.providers[i].Name
		if name == "" {
			name = string(p.providers[i].ID)
		}

		if i == p.cursor {
			cursor := t.S().Success.Render(styles.Selected + " ")
			items = append(items, cursor+t.S().Text.Bold(true).Render(name))
		} else {
			items = append(items, "  "+t.S().Text.Render(name))
		}
	}
	if end < len(p.providers) {
		items = append(items, t.S().Subtle.Render("  ↓ more"))
	}

	list := ""
	for _, item := range items {
		list += item + "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		list,
		help,
	)
}

// SetSize sets the component size.
func (p *ProviderList) SetSize(width, height int) {
	p.width = width
	p.height = height
}
