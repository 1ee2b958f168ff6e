package sessions

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/yodaai/yoda/internal/session"
	"github.com/yodaai/yoda/internal/tui/styles"
)

// Preview displays detailed information about a selected session.
type Preview struct {
	session *session.SessionWithPreview
	panel   *BorderedPanel
	width   int
	height  int
}

// NewPreview creates a new session preview panel.
func NewPreview() *Preview {
	return &Preview{panel: NewBorderedPanel()}
}

// SetSession sets the session to preview.
func (p *Preview) SetSession(sess *session.SessionWithPreview) {
	p.session = sess
}

// SetSize sets the preview panel dimensions.
func (p *Preview) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.panel.SetSize(width, height)
}

// Title returns the title for the preview panel. Untitled sessions get
// a truncated ID so the user can still tell them apart.
func (p *Preview) Title() string {
	if p.session == nil {
		return "Preview"
	}
	if t := p.session.Title; t != "" && t != "New Session" {
		return t
	}
	return fmt.Sprintf("Session %s", p.session.ID[:12])
}

// View renders the preview panel.
func (p *Preview) View() string {
	p.panel.SetTitle(p.Title())
	p.panel.SetFocused(false)

	if p.session == nil {
		t := styles.CurrentTheme()
		p.panel.SetContent(t.S().Muted.Render("Select a session to preview"))
	} else {
		p.panel.SetContent(p.renderDetails())
	}
	return p.panel.View()
}

// renderDetails builds the metadata block followed by a wrapped excerpt
// of the first message.
func (p *Preview) renderDetails() string {
	t := styles.CurrentTheme()
	sess := p.session

	meta := t.S().Muted
	parts := []string{
		meta.Render(fmt.Sprintf("ID: %s", sess.ID[:8])),
		meta.Render(fmt.Sprintf("Created: %s", formatDateTime(sess.CreatedAt))),
		meta.Render(fmt.Sprintf("Updated: %s", formatRelativeTime(sess.UpdatedAt))),
		meta.Render(fmt.Sprintf("Messages: %d", sess.MessageCount)),
		"",
	}

	if sess.FirstMessage == "" {
		parts = append(parts, t.S().Muted.Italic(true).Render("No messages yet"))
		return strings.Join(parts, "\n")
	}

	// Borders and padding eat 4 columns of the panel width.
	contentWidth := max(p.width-4, 10)

	excerpt := strings.ReplaceAll(sess.FirstMessage, "\n", " ")
	if maxLen := contentWidth * 3; len(excerpt) > maxLen {
		excerpt = excerpt[:maxLen-3] + "..."
	}

	parts = append(parts,
		t.S().Text.Bold(true).Render("First message:"),
		"",
		t.S().Text.Render(ansi.Wordwrap(excerpt, contentWidth-2, "")),
	)
	return strings.Join(parts, "\n")
}

// formatDateTime renders an absolute timestamp, dropping the year for
// dates in the current year.
func formatDateTime(t time.Time) string {
	if t.Year() == time.Now().Year() {
		return t.Format("Jan 2, 3:04 PM")
	}
	return t.Format("Jan 2, 2006")
}
