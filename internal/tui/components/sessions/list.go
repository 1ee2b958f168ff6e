package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/yodaai/yoda/internal/debug"
	"github.com/yodaai/yoda/internal/session"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// rowHeight is how many terminal lines one session entry occupies
// (title + preview + spacing).
const rowHeight = 3

// SessionList displays a scrollable list of sessions with keyboard
// navigation. Entries come from the session service, optionally
// filtered by a search keyword.
type SessionList struct {
	svc    *session.Service
	items  []*session.SessionWithPreview
	total  int // count before filtering
	filter string

	cursor int
	top    int // index of the first visible row
	width  int
	height int
}

// NewSessionList creates a new session list.
func NewSessionList(svc *session.Service) *SessionList {
	return &SessionList{svc: svc}
}

// Refresh reloads the session list from the database.
func (l *SessionList) Refresh() {
	if l.svc == nil {
		l.items = nil
		l.total = 0
		return
	}
	items, err := l.svc.ListWithPreview(context.Background())
	if err != nil {
		debug.Log("SessionList.Refresh: error loading sessions: %v", err)
		l.items = nil
		l.total = 0
		return
	}
	l.items = items
	l.total = len(items)
	if l.cursor >= len(l.items) {
		l.cursor = max(0, len(l.items)-1)
	}
}

// Search filters sessions by keyword.
func (l *SessionList) Search(keyword string) {
	l.filter = keyword
	if keyword == "" {
		l.Refresh()
		return
	}

	items, err := l.svc.SearchWithPreview(context.Background(), keyword)
	if err != nil {
		l.items = nil
		return
	}
	l.items = items
	l.cursor = 0
	l.top = 0
}

// Counts returns the filtered and total session counts.
func (l *SessionList) Counts() (filtered, total int) {
	return len(l.items), l.total
}

// SetSize sets the list dimensions.
func (l *SessionList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Selected returns the currently selected session.
func (l *SessionList) Selected() *session.SessionWithPreview {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return nil
	}
	return l.items[l.cursor]
}

// Update handles messages.
func (l *SessionList) Update(msg tea.Msg) (*SessionList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		l.moveCursor(-1)
	case "down", "j":
		l.moveCursor(1)
	case "home", "g":
		l.cursor = 0
		l.top = 0
	case "end", "G":
		l.cursor = max(0, len(l.items)-1)
		l.scrollToCursor()
	case "enter":
		return l, l.selectedCmd(func(s *session.SessionWithPreview) tea.Msg {
			return SessionSelectedMsg{SessionID: s.ID}
		})
	case "n":
		return l, util.CmdHandler(NewSessionMsg{})
	case "r":
		return l, l.selectedCmd(func(s *session.SessionWithPreview) tea.Msg {
			return RenameSessionMsg{SessionID: s.ID, CurrentTitle: s.Title}
		})
	case "d":
		return l, l.selectedCmd(func(s *session.SessionWithPreview) tea.Msg {
			return DeleteSessionMsg{SessionID: s.ID}
		})
	case "e":
		return l, l.selectedCmd(func(s *session.SessionWithPreview) tea.Msg {
			return ExportSessionMsg{SessionID: s.ID}
		})
	case "t":
		return l, l.selectedCmd(func(s *session.SessionWithPreview) tea.Msg {
			return GenerateTitleMsg{SessionID: s.ID}
		})
	}

	return l, nil
}

// selectedCmd builds a command from the selected session, or nil when
// nothing is selected.
func (l *SessionList) selectedCmd(fn func(*session.SessionWithPreview) tea.Msg) tea.Cmd {
	sel := l.Selected()
	if sel == nil {
		return nil
	}
	return util.CmdHandler(fn(sel))
}

func (l *SessionList) moveCursor(delta int) {
	next := l.cursor + delta
	if next < 0 || next >= len(l.items) {
		return
	}
	l.cursor = next
	l.scrollToCursor()
}

func (l *SessionList) scrollToCursor() {
	rows := l.visibleRows()
	if l.cursor < l.top {
		l.top = l.cursor
	} else if l.cursor >= l.top+rows {
		l.top = l.cursor - rows + 1
	}
}

func (l *SessionList) visibleRows() int {
	return max(1, (l.height-2)/rowHeight)
}

// View renders the session list.
func (l *SessionList) View() string {
	t := styles.CurrentTheme()

	if len(l.items) == 0 {
		empty := "No sessions yet. Press [n] to create one."
		if l.filter != "" {
			empty = "No sessions match your search."
		}
		return t.S().Muted.
			Width(l.width).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render(empty)
	}

	end := min(l.top+l.visibleRows(), len(l.items))

	var rows []string
	if l.top > 0 {
		rows = append(rows, t.S().Muted.Render(fmt.Sprintf("  ↑ %d more above", l.top)))
	}
	for i := l.top; i < end; i++ {
		rows = append(rows, l.renderRow(l.items[i], i == l.cursor))
	}
	if below := len(l.items) - end; below > 0 {
		rows = append(rows, t.S().Muted.Render(fmt.Sprintf("  ↓ %d more below", below)))
	}

	return strings.Join(rows, "\n")
}

func (l *SessionList) renderRow(sess *session.SessionWithPreview, selected bool) string {
	t := styles.CurrentTheme()

	title := sess.Title
	if title == "" || title == "New Session" {
		title = fmt.Sprintf("Session %s...", sess.ID[:8])
	}
	title = ansi.Truncate(title, max(4, l.width-20), "...")

	meta := fmt.Sprintf("%d msgs · %s", sess.MessageCount, formatRelativeTime(sess.UpdatedAt))

	preview := strings.ReplaceAll(sess.FirstMessage, "\n", " ")
	if preview == "" {
		preview = "(no messages)"
	}
	preview = ansi.Truncate(preview, max(4, l.width-6), "...")

	titleStyle := t.S().Text
	marker := "  "
	previewStyle := t.S().Muted
	if selected {
		titleStyle = t.S().Primary.Bold(true)
		marker = titleStyle.Render("> ")
		previewStyle = t.S().Text
	}

	return marker + titleStyle.Render(title) + "  " + t.S().Muted.Render(meta) +
		"\n" + previewStyle.Render("  "+preview)
}

// formatRelativeTime formats a time as a relative string.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralAgo(int(diff.Minutes()), "min", "mins")
	case diff < 24*time.Hour:
		return pluralAgo(int(diff.Hours()), "hour", "hours")
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func pluralAgo(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular + " ago"
	}
	return fmt.Sprintf("%d %s ago", n, plural)
}
