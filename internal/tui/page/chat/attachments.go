package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/attachment"
	"github.com/yodaai/yoda/internal/tui/styles"
)

// Capture source icons.
const (
	captureIconClipboard = "⧉"
	captureIconFile      = "≡"
	captureIconManual    = "✎"
)

// AttachmentsPanel lists captured context waiting to ride along with
// the next message.
type AttachmentsPanel struct {
	items     []attachment.Attachment
	spinner   int  // Current spinner frame index (shared with activity panel)
	attaching bool // True while captures are being folded into a message
	width     int
}

// NewAttachmentsPanel creates a new attachments panel.
func NewAttachmentsPanel() *AttachmentsPanel {
	return &AttachmentsPanel{}
}

// SetItems updates the displayed pending captures.
func (p *AttachmentsPanel) SetItems(items []attachment.Attachment) {
	p.items = items
}

// Clear removes all pending captures from the panel.
func (p *AttachmentsPanel) Clear() {
	p.items = nil
	p.spinner = 0
	p.attaching = false
}

// SetWidth sets the panel width.
func (p *AttachmentsPanel) SetWidth(width int) {
	p.width = width
}

// SetSpinner updates the spinner frame (called from activity panel tick).
func (p *AttachmentsPanel) SetSpinner(frame int) {
	p.spinner = frame
}

// SetAttaching marks the panel as attaching, shown while a message
// that consumes the pending captures is in flight.
func (p *AttachmentsPanel) SetAttaching(attaching bool) {
	p.attaching = attaching
}

// Height returns the current height of the panel (0 when empty).
func (p *AttachmentsPanel) Height() int {
	if len(p.items) == 0 {
		return 0
	}
	// Header + items + bottom border
	return len(p.items) + 2
}

// IsActive returns true if the panel has content to show.
func (p *AttachmentsPanel) IsActive() bool {
	return len(p.items) > 0
}

// Count returns the number of pending captures.
func (p *AttachmentsPanel) Count() int {
	return len(p.items)
}

// TotalSize returns the combined size of all pending captures in bytes.
func (p *AttachmentsPanel) TotalSize() int {
	total := 0
	for _, item := range p.items {
		total += item.Size()
	}
	return total
}

// View renders the attachments panel.
func (p *AttachmentsPanel) View() string {
	if !p.IsActive() {
		return ""
	}

	t := styles.CurrentTheme()
	lines := make([]string, 0, len(p.items)+2)

	// Header
	headerStyle := t.S().Muted.Bold(true)
	header := fmt.Sprintf("─ Captured context (%d) ", len(p.items))
	if p.attaching {
		header = "─ " + spinnerFrames[p.spinner] + " Attaching context "
	}
	lines = append(lines, headerStyle.Render(header))

	// Capture items
	for _, item := range p.items {
		lines = append(lines, p.renderItem(t, item))
	}

	// Bottom border
	lines = append(lines, t.S().Muted.Render(strings.Repeat("─", 10)))

	content := strings.Join(lines, "\n")

	// Apply padding
	return lipgloss.NewStyle().
		Padding(0, 1).
		Width(p.width).
		Render(content)
}

// renderItem renders a single pending capture with its source icon.
func (p *AttachmentsPanel) renderItem(t *styles.Theme, item attachment.Attachment) string {
	var icon string
	var iconStyle lipgloss.Style

	switch item.Source {
	case attachment.SourceClipboard:
		icon = captureIconClipboard
		iconStyle = t.S().Info
	case attachment.SourceFile:
		icon = captureIconFile
		iconStyle = t.S().Primary
	case attachment.SourceManual:
		icon = captureIconManual
		iconStyle = t.S().Subtitle
	default:
		icon = styles.Bullet
		iconStyle = t.S().Muted
	}

	size := t.S().Muted.Render("(" + formatSize(item.Size()) + ")")
	name := t.S().Text.Render(p.truncateName(item.Name))

	// Format: "  icon name (size)"
	return "  " + iconStyle.Render(icon) + " " + name + " " + size
}

// truncateName truncates a capture name to fit the available width.
func (p *AttachmentsPanel) truncateName(name string) string {
	// Reserve space for icon, size, padding, and some margin
	maxLen := p.width - 18
	if maxLen < 20 {
		maxLen = 20
	}
	return truncate(name, maxLen)
}

// formatSize renders a byte count in human-readable form.
func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
