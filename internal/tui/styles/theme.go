// Package styles provides the theme and shared lipgloss styles for the TUI.
package styles

import (
	"image/color"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	styles *Styles
}

// Styles is the pre-built style set for a theme.
type Styles struct {
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Primary  lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	TextInput textinput.Styles
}

// S returns the style set for this theme, building it on first use.
// Views run on the program goroutine, so no locking is needed here.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	text := lipgloss.NewStyle().Foreground(t.FgBase)
	muted := lipgloss.NewStyle().Foreground(t.FgMuted)
	subtle := lipgloss.NewStyle().Foreground(t.FgSubtle)

	return &Styles{
		Text:     text,
		Muted:    muted,
		Subtle:   subtle,
		Primary:  lipgloss.NewStyle().Foreground(t.Primary),
		Title:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(t.Secondary),
		Success:  lipgloss.NewStyle().Foreground(t.Success),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
		Warning:  lipgloss.NewStyle().Foreground(t.Warning),
		Info:     lipgloss.NewStyle().Foreground(t.Info),
		TextInput: textinput.Styles{
			Focused: textinput.StyleState{
				Text:        text,
				Placeholder: subtle,
				Prompt:      lipgloss.NewStyle().Foreground(t.Primary),
				Suggestion:  muted,
			},
			Blurred: textinput.StyleState{
				Text:        muted,
				Placeholder: subtle,
				Prompt:      muted,
				Suggestion:  muted,
			},
			Cursor: textinput.CursorStyle{
				Color: t.Secondary,
				Shape: tea.CursorBar,
				Blink: true,
			},
		},
	}
}
