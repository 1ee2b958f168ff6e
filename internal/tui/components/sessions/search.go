package sessions

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/tui/styles"
)

// SearchBox is a bordered search input with a filtered/total counter
// on the right edge.
type SearchBox struct {
	input   textinput.Model
	frame   *BorderedPanel
	width   int
	matched int
	total   int
	visible bool
}

// NewSearchBox creates a new search box.
func NewSearchBox() *SearchBox {
	frame := NewBorderedPanel()
	frame.SetTitle("Search")
	frame.SetFocused(true)

	return &SearchBox{input: newThemedInput("Type to search..."), frame: frame}
}

// SetWidth sets the search box width.
func (s *SearchBox) SetWidth(width int) {
	s.width = width
}

// SetCounts sets the filtered and total counts.
func (s *SearchBox) SetCounts(filtered, total int) {
	s.matched = filtered
	s.total = total
}

// Show makes the search box visible and focuses the input.
func (s *SearchBox) Show() tea.Cmd {
	s.visible = true
	s.input.SetValue("")
	return s.input.Focus()
}

// Hide hides the search box and clears the input.
func (s *SearchBox) Hide() {
	s.visible = false
	s.input.SetValue("")
	s.input.Blur()
}

// IsVisible returns whether the search box is visible.
func (s *SearchBox) IsVisible() bool {
	return s.visible
}

// Value returns the current search text.
func (s *SearchBox) Value() string {
	return s.input.Value()
}

// Update handles messages for the search input.
func (s *SearchBox) Update(msg tea.Msg) (*SearchBox, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View renders the search box: a single bordered row with the input
// on the left and the match counter on the right.
func (s *SearchBox) View() string {
	if !s.visible {
		return ""
	}

	t := styles.CurrentTheme()

	contentWidth := max(s.width-4, 8)
	inputView := s.input.View()
	counter := t.S().Muted.Render(fmt.Sprintf("%d / %d", s.matched, s.total))

	gap := max(contentWidth-lipgloss.Width(inputView)-lipgloss.Width(counter), 1)

	s.frame.SetSize(s.width, 3)
	s.frame.SetContent(inputView + strings.Repeat(" ", gap) + counter)
	return s.frame.View()
}

// Cursor returns the cursor for the text input.
func (s *SearchBox) Cursor() *tea.Cursor {
	if !s.visible {
		return nil
	}
	return s.input.Cursor()
}

// IsFocused returns whether the input is focused.
func (s *SearchBox) IsFocused() bool {
	return s.input.Focused()
}
