package sessions

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/yodaai/yoda/internal/tui/styles"
)

// BorderedPanel renders content inside a rounded box with the title
// embedded in the top border.
type BorderedPanel struct {
	title   string
	content string
	width   int
	height  int
	focused bool
}

// NewBorderedPanel creates a new bordered panel.
func NewBorderedPanel() *BorderedPanel {
	return &BorderedPanel{}
}

// SetTitle sets the title to display in the top border.
func (p *BorderedPanel) SetTitle(title string) {
	p.title = title
}

// SetContent sets the content to render inside the panel.
func (p *BorderedPanel) SetContent(content string) {
	p.content = content
}

// SetSize sets the panel dimensions.
func (p *BorderedPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether the panel has focus (affects border color).
func (p *BorderedPanel) SetFocused(focused bool) {
	p.focused = focused
}

// View renders the bordered panel.
func (p *BorderedPanel) View() string {
	t := styles.CurrentTheme()

	borderColor := t.Border
	if p.focused {
		borderColor = t.BorderFocus
	}
	border := lipgloss.NewStyle().Foreground(borderColor)

	// Inner width between the two vertical border runes, with one
	// space of padding on each side of the content.
	innerWidth := max(p.width-2, 4)
	contentWidth := innerWidth - 2

	lines := []string{p.renderTopBorder(border, innerWidth)}
	for _, body := range p.bodyLines(contentWidth) {
		lines = append(lines, border.Render("│ ")+body+border.Render(" │"))
	}
	lines = append(lines, border.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))

	return strings.Join(lines, "\n")
}

// renderTopBorder centers the styled title inside the top border run.
func (p *BorderedPanel) renderTopBorder(border lipgloss.Style, innerWidth int) string {
	t := styles.CurrentTheme()

	title := p.title
	if maxLen := innerWidth - 4; len(title) > maxLen && maxLen > 3 {
		title = title[:maxLen-3] + "..."
	}
	styled := t.S().Primary.Bold(true).Render(title)

	gap := max(innerWidth-lipgloss.Width(styled), 0)
	left := gap / 2
	right := gap - left

	return border.Render("╭"+strings.Repeat("─", left)) +
		styled +
		border.Render(strings.Repeat("─", right)+"╮")
}

// bodyLines pads or truncates each content line to exactly contentWidth
// and fills the panel height with blank lines.
func (p *BorderedPanel) bodyLines(contentWidth int) []string {
	src := strings.Split(p.content, "\n")
	rows := max(p.height-2, 1)

	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		line := ""
		if i < len(src) {
			line = src[i]
		}
		if lipgloss.Width(line) > contentWidth {
			line = ansi.Truncate(line, contentWidth, "...")
		}
		if w := lipgloss.Width(line); w < contentWidth {
			line += strings.Repeat(" ", contentWidth-w)
		}
		out = append(out, line)
	}
	return out
}
