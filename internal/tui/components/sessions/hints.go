package sessions

import (
	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/tui/styles"
)

// HintMode represents the current mode for hint display.
type HintMode int

const (
	// HintModeNormal shows hints for normal browsing mode.
	HintModeNormal HintMode = iota
	// HintModeSearch shows hints for search mode.
	HintModeSearch
	// HintModeRename shows hints for rename mode.
	HintModeRename
	// HintModeDelete shows hints for delete confirmation mode.
	HintModeDelete
	// HintModeExport shows hints for export mode.
	HintModeExport
)

// hintLines maps each mode to its keyboard hint string.
var hintLines = map[HintMode]string{
	HintModeNormal: "[/] search  [n] new  [enter] open  [r] rename  [t] title  [d] delete  [e] export  [esc] close",
	HintModeSearch: "[enter] done  [esc] clear  [↑↓] navigate",
	HintModeRename: "[enter] save  [esc] cancel",
	HintModeDelete: "[y] yes  [n] no  [esc] cancel",
	HintModeExport: "[m] markdown  [esc] cancel",
}

// HintBar displays context-sensitive keyboard hints.
type HintBar struct {
	mode  HintMode
	width int
}

// NewHintBar creates a new hint bar.
func NewHintBar() *HintBar {
	return &HintBar{mode: HintModeNormal}
}

// SetMode sets the current hint mode.
func (h *HintBar) SetMode(mode HintMode) {
	h.mode = mode
}

// SetWidth sets the hint bar width.
func (h *HintBar) SetWidth(width int) {
	h.width = width
}

// View renders the hint bar centered across the configured width.
func (h *HintBar) View() string {
	t := styles.CurrentTheme()

	return t.S().Muted.
		Width(h.width).
		Align(lipgloss.Center).
		Render(hintLines[h.mode])
}
