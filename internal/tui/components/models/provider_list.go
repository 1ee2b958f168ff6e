package models

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// ProviderList displays the configured providers.
type ProviderList struct {
	cfg         *config.Config
	providers   []*config.ProviderConfig
	cursor      int
	width       int
	height      int
	activeLarge string // Provider ID for large model
	activeSmall string // Provider ID for small model
}

// NewProviderList creates a new ProviderList.
func NewProviderList(cfg *config.Config) *ProviderList {
	return &ProviderList{
		cfg:    cfg,
		cursor: 0,
	}
}

// Refresh reloads the providers from the config.
func (l *ProviderList) Refresh() {
	l.providers = l.providers[:0]
	for _, p := range l.cfg.Providers {
		l.providers = append(l.providers, p)
	}
	sort.Slice(l.providers, func(i, j int) bool {
		return l.providers[i].ID < l.providers[j].ID
	})
	if l.cursor >= len(l.providers) {
		l.cursor = max(0, len(l.providers)-1)
	}

	// Track which providers back the selected tiers.
	l.activeLarge = l.cfg.Models[config.SelectedModelTypeLarge].Provider
	l.activeSmall = l.cfg.Models[config.SelectedModelTypeSmall].Provider
}

// SetSize sets the component size.
func (l *ProviderList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Update handles messages.
func (l *ProviderList) Update(msg tea.Msg) (*ProviderList, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "k":
			if l.cursor > 0 {
				l.cursor--
			}
			return l, nil

		case keyDown, "j":
			if l.cursor < len(l.providers)-1 {
				l.cursor++
			}
			return l, nil

		case "a":
			return l, util.CmdHandler(StartAddProviderMsg{})

		case "e":
			if len(l.providers) > 0 {
				return l, util.CmdHandler(EditProviderMsg{ID: l.providers[l.cursor].ID})
			}
			return l, nil

		case "d":
			if len(l.providers) > 0 {
				return l, util.CmdHandler(DeleteProviderMsg{ID: l.providers[l.cursor].ID})
			}
			return l, nil

		case "l":
			return l, util.CmdHandler(SelectLargeModelMsg{})

		case "s":
			return l, util.CmdHandler(SelectSmallModelMsg{})

		case keyEnter:
			if len(l.providers) > 0 {
				return l, util.CmdHandler(ProviderChosenMsg{ID: l.providers[l.cursor].ID})
			}
			return l, nil
		}
	}

	return l, nil
}

// View renders the provider list.
func (l *ProviderList) View() string {
	t := styles.CurrentTheme()

	if len(l.providers) == 0 {
		emptyMsg := t.S().Muted.Render("No providers configured.\n\n")
		hint := t.S().Muted.Render("Press [a] to add a provider.")
		return emptyMsg + hint
	}

	var sb strings.Builder

	for i := range l.providers {
		p := l.providers[i]

		// Cursor indicator.
		cursor := "  "
		style := t.S().Text
		if i == l.cursor {
			cursor = t.S().Success.Render("> ")
			style = t.S().Text.Bold(true)
		}

		name := p.Name
		if name == "" {
			name = p.ID
		}

		// Type info in muted.
		typeInfo := ""
		if p.Type != "" {
			typeInfo = t.S().Muted.Render(fmt.Sprintf(" (%s)", p.Type))
		}

		// Active model indicators.
		var indicators []string
		if p.ID == l.activeLarge {
			indicators = append(indicators, t.S().Primary.Render("[L]"))
		}
		if p.ID == l.activeSmall {
			indicators = append(indicators, t.S().Subtitle.Render("[S]"))
		}
		if p.Disable {
			indicators = append(indicators, t.S().Error.Render("[disabled]"))
		}
		indicatorStr := ""
		if len(indicators) > 0 {
			indicatorStr = " " + strings.Join(indicators, " ")
		}

		sb.WriteString(cursor)
		sb.WriteString(style.Render(name))
		sb.WriteString(typeInfo)
		sb.WriteString(indicatorStr)
		sb.WriteString("\n")
	}

	// Actions section.
	sb.WriteString("\n")
	sb.WriteString(t.S().Subtitle.Render("Actions"))
	sb.WriteString("\n")
	sb.WriteString(t.S().Muted.Render("  [a] add provider"))
	sb.WriteString("\n")
	sb.WriteString(t.S().Muted.Render("  [e] edit selected"))
	sb.WriteString("\n")
	sb.WriteString(t.S().Muted.Render("  [d] delete selected"))
	sb.WriteString("\n")
	sb.WriteString(t.S().Muted.Render("  [l] pick large model"))
	sb.WriteString("\n")
	sb.WriteString(t.S().Muted.Render("  [s] pick small model"))
	sb.WriteString("\n")
	sb.WriteString(t.S().Muted.Render("  [enter] quick select"))
	sb.WriteString("\n")
	sb.WriteString(t.S().Muted.Render("  [esc] close"))

	return sb.String()
}

// Selected returns the currently selected provider.
func (l *ProviderList) Selected() *config.ProviderConfig {
	if l.cursor >= 0 && l.cursor < len(l.providers) {
		return l.providers[l.cursor]
	}
	return nil
}
