package sessions

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/debug"
	"github.com/yodaai/yoda/internal/session"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// stage is the modal's current screen.
type stage int

const (
	stageList stage = iota
	stageRename
	stageDelete
	stageExport
)

const maxModalWidth = 80

// Modal is the session management overlay: a searchable list with a
// preview panel, plus rename, delete and export flows layered on top.
type Modal struct {
	svc          *session.Service
	list         *SessionList
	rename       *RenameInput
	search       *SearchBox
	hints        *HintBar
	preview      *Preview
	stage        stage
	visible      bool
	width        int
	height       int
	listWidth    int
	previewWidth int // 0 hides the preview panel
	deleteID     string
	renameID     string
}

// New creates a new sessions Modal.
func New(svc *session.Service) *Modal {
	return &Modal{
		svc:     svc,
		list:    NewSessionList(svc),
		rename:  NewRenameInput(),
		search:  NewSearchBox(),
		hints:   NewHintBar(),
		preview: NewPreview(),
	}
}

// Init initializes the modal.
func (m *Modal) Init() tea.Cmd {
	m.stage = stageList
	m.list.Refresh()
	return nil
}

// Show makes the modal visible.
func (m *Modal) Show() {
	debug.Log("sessions.Modal.Show: refreshing list")
	m.visible = true
	m.stage = stageList
	m.list.Refresh()
}

// Hide hides the modal.
func (m *Modal) Hide() {
	m.visible = false
	m.rename.Reset()
	m.search.Hide()
}

// IsVisible returns whether the modal is visible.
func (m *Modal) IsVisible() bool {
	return m.visible
}

// SetSize sets the modal size.
func (m *Modal) SetSize(width, height int) {
	m.width = width
	m.height = height

	innerWidth := min(width-10, maxModalWidth)
	innerHeight := height - 12

	// The preview panel appears beside the list when there is room.
	m.previewWidth = 0
	m.listWidth = innerWidth
	if innerWidth >= 70 {
		m.previewWidth = innerWidth * 2 / 5
		m.listWidth = innerWidth - m.previewWidth - 1
	}

	m.list.SetSize(m.listWidth, innerHeight)
	m.preview.SetSize(m.previewWidth, innerHeight)
	m.search.SetWidth(m.listWidth)
	m.rename.SetWidth(innerWidth - 4)

	boxWidth := min(width-4, maxModalWidth)
	m.hints.SetWidth(boxWidth - 6)
}

// Update handles messages.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m.handleEscape()
	}

	switch m.stage {
	case stageList:
		return m.updateList(msg)
	case stageRename:
		return m.updateRename(msg)
	case stageDelete:
		return m.updateDelete(msg)
	case stageExport:
		return m.updateExport(msg)
	}
	return m, nil
}

// handleEscape unwinds one level: an open search clears first, a
// sub-stage falls back to the list, and the list closes the modal.
func (m *Modal) handleEscape() (*Modal, tea.Cmd) {
	if m.stage != stageList {
		m.stage = stageList
		m.rename.Reset()
		return m, nil
	}
	if m.search.IsVisible() {
		m.search.Hide()
		m.list.Search("")
		return m, nil
	}
	m.Hide()
	return m, util.CmdHandler(ModalClosedMsg{})
}

// closeAndSwitch dismisses the modal and activates the given session.
func (m *Modal) closeAndSwitch(sessionID string) tea.Cmd {
	m.Hide()
	return tea.Batch(
		util.CmdHandler(ModalClosedMsg{}),
		util.CmdHandler(SwitchSessionMsg{SessionID: sessionID}),
	)
}

func (m *Modal) updateList(msg tea.Msg) (*Modal, tea.Cmd) {
	if m.search.IsVisible() {
		return m.updateSearch(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "/" {
		m.search.SetCounts(m.list.Counts())
		return m, m.search.Show()
	}

	switch msg := msg.(type) {
	case SessionSelectedMsg:
		return m, m.closeAndSwitch(msg.SessionID)

	case RenameSessionMsg:
		m.renameID = msg.SessionID
		m.rename.SetValue(msg.CurrentTitle)
		m.rename.Focus()
		m.stage = stageRename
		return m, nil

	case DeleteSessionMsg:
		m.deleteID = msg.SessionID
		m.stage = stageDelete
		return m, nil

	case ExportSessionMsg:
		m.stage = stageExport
		return m, nil

	case NewSessionMsg:
		sess, err := m.svc.Create(context.Background(), "New Session")
		if err != nil {
			return m, util.ReportError(err)
		}
		return m, m.closeAndSwitch(sess.ID)

	case GenerateTitleMsg:
		return m, util.CmdHandler(RequestTitleGenerationMsg{SessionID: msg.SessionID})

	case TitleGeneratedMsg:
		m.list.Refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateSearch routes input while the search box is open. Navigation
// and accept keys fall through to the list; everything else filters.
func (m *Modal) updateSearch(msg tea.Msg) (*Modal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			// Keep the filter, return focus to the list.
			m.search.Hide()
			return m, nil
		case "up", "down":
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.list.Search(m.search.Value())
	m.search.SetCounts(m.list.Counts())
	return m, cmd
}

func (m *Modal) updateRename(msg tea.Msg) (*Modal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		if title := m.rename.Value(); title != "" {
			if err := m.svc.UpdateTitle(context.Background(), m.renameID, title); err != nil {
				return m, util.ReportError(err)
			}
			m.list.Refresh()
		}
		m.stage = stageList
		m.rename.Reset()
		return m, util.ReportSuccess("Session renamed")
	}

	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m *Modal) updateDelete(msg tea.Msg) (*Modal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		if err := m.svc.Delete(context.Background(), m.deleteID); err != nil {
			return m, util.ReportError(err)
		}
		m.stage = stageList
		m.list.Refresh()
		return m, util.ReportSuccess("Session deleted")
	case "n", "N":
		m.stage = stageList
	}
	return m, nil
}

func (m *Modal) updateExport(msg tea.Msg) (*Modal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || (keyMsg.String() != "enter" && keyMsg.String() != "m") {
		return m, nil
	}

	selected := m.list.Selected()
	if selected == nil {
		return m, nil
	}
	m.Hide()
	return m, tea.Batch(
		util.CmdHandler(ModalClosedMsg{}),
		util.CmdHandler(ExportMarkdownMsg{SessionID: selected.ID}),
	)
}

// View renders the modal centered on screen.
func (m *Modal) View() string {
	if !m.visible {
		return ""
	}

	t := styles.CurrentTheme()
	title, content := m.stageContent()

	boxWidth := min(m.width-4, maxModalWidth)
	contentWidth := boxWidth - 6

	inner := lipgloss.JoinVertical(lipgloss.Left,
		t.S().Title.
			Width(contentWidth).
			Align(lipgloss.Center).
			MarginBottom(1).
			Render(title),
		lipgloss.NewStyle().
			Width(contentWidth).
			Render(content),
		lipgloss.NewStyle().
			Width(contentWidth).
			Align(lipgloss.Center).
			MarginTop(1).
			Render(m.hints.View()),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(1, 2).
		Width(boxWidth).
		Render(inner)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// stageContent returns the title and body for the current stage, and
// points the hint bar at the matching key legend.
func (m *Modal) stageContent() (string, string) {
	switch m.stage {
	case stageRename:
		m.hints.SetMode(HintModeRename)
		return "Rename Session", m.rename.View()
	case stageDelete:
		m.hints.SetMode(HintModeDelete)
		return "Delete Session", m.renderDeleteConfirm()
	case stageExport:
		m.hints.SetMode(HintModeExport)
		return "Export Session", m.renderExportOptions()
	default:
		if m.search.IsVisible() {
			m.hints.SetMode(HintModeSearch)
		} else {
			m.hints.SetMode(HintModeNormal)
		}
		return "Sessions", m.renderList()
	}
}

// renderList renders the session list with the optional search box above
// and preview panel beside it.
func (m *Modal) renderList() string {
	left := lipgloss.NewStyle().Width(m.listWidth).Render(m.list.View())
	if m.search.IsVisible() {
		left = lipgloss.JoinVertical(lipgloss.Left, m.search.View(), left)
	}

	if m.previewWidth <= 0 {
		return left
	}

	m.preview.SetSession(m.list.Selected())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.preview.View())
}

func (m *Modal) renderDeleteConfirm() string {
	t := styles.CurrentTheme()

	name := "this session"
	if selected := m.list.Selected(); selected != nil {
		name = selected.Title
		if name == "" || name == "New Session" {
			name = fmt.Sprintf("Session %s...", selected.ID[:8])
		}
	}

	return strings.Join([]string{
		t.S().Text.Render("Are you sure you want to delete ") +
			t.S().Primary.Bold(true).Render(name) +
			t.S().Text.Render("?"),
		"",
		t.S().Warning.Render("This will permanently delete all messages in this session."),
	}, "\n")
}

func (m *Modal) renderExportOptions() string {
	t := styles.CurrentTheme()

	return strings.Join([]string{
		t.S().Text.Render("Export session to:"),
		"",
		t.S().Primary.Render("  [m] Markdown (.md)"),
		"",
		t.S().Muted.Render("File will be saved to current directory."),
	}, "\n")
}

// Cursor returns the cursor position for whichever input is active.
func (m *Modal) Cursor() *tea.Cursor {
	switch {
	case m.stage == stageRename:
		return m.rename.Cursor()
	case m.stage == stageList && m.search.IsVisible():
		return m.search.Cursor()
	}
	return nil
}
