package chat

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/yodaai/yoda/internal/agent"
	"github.com/yodaai/yoda/internal/segment"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// Chip marker glyphs for collapsible tool detail.
const (
	chipCollapsedMarker = "▸"
	chipExpandedMarker  = "▾"
)

// maxChipDetailLines caps how many lines of tool arguments or results
// an expanded chip shows before eliding the rest.
const maxChipDetailLines = 12

// SelectionCopiedMsg is sent after a mouse selection was copied to the
// clipboard.
type SelectionCopiedMsg struct {
	Text string
}

// MessageList displays the conversation messages in a scrollable
// viewport. Assistant content is parsed into segments: text renders as
// markdown, embedded tool calls and results render as collapsible
// chips addressed by their running index.
type MessageList struct { //nolint:govet // fieldalignment: preserving logical field order
	messages []agent.Message
	parser   *segment.Parser
	md       *MarkdownRenderer

	width  int
	height int
	offset int // Lines scrolled up from the bottom

	// Render state from the last View call, used to map screen
	// coordinates back to content.
	lines     []string
	chipLines map[int]int // Absolute line index -> chip index
	chipCount int
	lastStart int

	// Chip expansion: expandAll is the default, expanded holds
	// per-chip overrides.
	expandAll bool
	expanded  map[int]bool

	// Mouse selection in absolute line coordinates.
	selecting    bool
	hasSelection bool
	selStartX    int
	selStartY    int
	selEndX      int
	selEndY      int
}

// NewMessageList creates a new message list component.
func NewMessageList() *MessageList {
	return &MessageList{
		messages: []agent.Message{},
		parser:   segment.NewParser(),
		md:       NewMarkdownRenderer(),
	}
}

// SetMessages sets the messages to display.
func (m *MessageList) SetMessages(messages []agent.Message) {
	m.messages = messages
}

// Messages returns the currently displayed messages.
func (m *MessageList) Messages() []agent.Message {
	return m.messages
}

// AppendMessage adds a message to the list.
func (m *MessageList) AppendMessage(msg agent.Message) {
	m.messages = append(m.messages, msg)
}

// UpdateLast updates the last message (for streaming).
func (m *MessageList) UpdateLast(content string) {
	if len(m.messages) == 0 {
		return
	}
	m.messages[len(m.messages)-1].Content = content
}

// LastAssistantText returns the text of the most recent assistant
// message with tool markup stripped, or "" when there is none.
func (m *MessageList) LastAssistantText() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.Role != agent.RoleAssistant || msg.Content == "" {
			continue
		}

		var parts []string
		for _, seg := range m.parser.Parse(msg.Content) {
			if seg.Kind == segment.KindText && !seg.IsBlank() {
				parts = append(parts, strings.TrimSpace(seg.Text))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n\n")
		}
	}
	return ""
}

// SetSize sets the component size.
func (m *MessageList) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ScrollUp scrolls the message list up one line.
func (m *MessageList) ScrollUp() {
	m.offset++ // Clamped against content height in View
}

// ScrollDown scrolls the message list down one line.
func (m *MessageList) ScrollDown() {
	if m.offset > 0 {
		m.offset--
	}
}

// ScrollToBottom scrolls to the bottom of the list.
func (m *MessageList) ScrollToBottom() {
	m.offset = 0
}

// ToggleDetails flips the default expansion of tool chips and drops
// any per-chip overrides.
func (m *MessageList) ToggleDetails() {
	m.expandAll = !m.expandAll
	m.expanded = nil
}

// ClickAt toggles the chip under the given screen coordinates.
// Returns true when a chip was hit.
func (m *MessageList) ClickAt(_, y int) bool {
	line := m.lastStart + y
	chip, ok := m.chipLines[line]
	if !ok {
		return false
	}
	if m.expanded == nil {
		m.expanded = make(map[int]bool)
	}
	m.expanded[chip] = !m.chipExpanded(chip)
	return true
}

func (m *MessageList) chipExpanded(i int) bool {
	if v, ok := m.expanded[i]; ok {
		return v
	}
	return m.expandAll
}

// Update handles scroll events for the viewport.
func (m *MessageList) Update(msg tea.Msg) (*MessageList, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.offset += 3
		case tea.MouseWheelDown:
			m.offset -= 3
			if m.offset < 0 {
				m.offset = 0
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.ScrollUp()
		case "down", "j":
			m.ScrollDown()
		case "pgup":
			m.offset += m.height
		case "pgdown":
			m.offset -= m.height
			if m.offset < 0 {
				m.offset = 0
			}
		case "home", "g":
			m.offset = len(m.lines) // Clamped in View
		case "end", "G":
			m.ScrollToBottom()
		}
	}

	return m, nil
}

// StartSelection begins a mouse selection at screen coordinates.
func (m *MessageList) StartSelection(x, y int) {
	m.selecting = true
	m.hasSelection = false
	m.selStartX, m.selStartY = x, m.lastStart+y
	m.selEndX, m.selEndY = m.selStartX, m.selStartY
}

// EndSelection moves the selection end to the given screen coordinates.
func (m *MessageList) EndSelection(x, y int) {
	if !m.selecting {
		return
	}
	m.selEndX, m.selEndY = x, m.lastStart+y
	m.hasSelection = m.selEndX != m.selStartX || m.selEndY != m.selStartY
}

// SelectionStop ends the selection drag, keeping the selected range.
func (m *MessageList) SelectionStop() {
	m.selecting = false
}

// IsSelecting returns true while a selection drag is in progress.
func (m *MessageList) IsSelecting() bool {
	return m.selecting
}

// HasSelection returns true when a non-empty selection exists.
func (m *MessageList) HasSelection() bool {
	return m.hasSelection
}

// CopySelection copies the selected text to the system clipboard.
func (m *MessageList) CopySelection() tea.Cmd {
	text := m.selectionText()
	m.hasSelection = false
	if text == "" {
		return nil
	}

	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return util.InfoMsg{Type: util.InfoTypeError, Msg: "Copy failed: " + err.Error()}
		}
		return SelectionCopiedMsg{Text: text}
	}
}

// selectionText extracts the plain text covered by the selection from
// the last rendered frame.
func (m *MessageList) selectionText() string {
	startX, startY := m.selStartX, m.selStartY
	endX, endY := m.selEndX, m.selEndY
	if startY > endY || (startY == endY && startX > endX) {
		startX, startY, endX, endY = endX, endY, startX, startY
	}

	var out []string
	for line := startY; line <= endY; line++ {
		if line < 0 || line >= len(m.lines) {
			continue
		}
		plain := ansi.Strip(m.lines[line])

		from := 0
		to := uniseg.StringWidth(plain)
		if line == startY {
			from = startX - 1 // Account for left padding
		}
		if line == endY {
			to = endX
		}
		if from < 0 {
			from = 0
		}

		out = append(out, strings.TrimRight(sliceWidth(plain, from, to), " "))
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// sliceWidth returns the part of s covering cells [from, to), cutting
// on grapheme boundaries.
func sliceWidth(s string, from, to int) string {
	if to <= from {
		return ""
	}

	var b strings.Builder
	w := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if w >= to {
			break
		}
		if w >= from {
			b.WriteString(string(gr.Runes()))
		}
		w += gr.Width()
	}
	return b.String()
}

// View renders the visible window of the message list.
func (m *MessageList) View() string {
	t := styles.CurrentTheme()

	if len(m.messages) == 0 {
		empty := t.S().Muted.Render("No messages yet. Type something to start chatting.")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, empty)
	}

	lines := m.renderLines()

	maxOffset := len(lines) - m.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}

	start := len(lines) - m.height - m.offset
	if start < 0 {
		start = 0
	}
	end := start + m.height
	if end > len(lines) {
		end = len(lines)
	}
	m.lastStart = start

	content := strings.Join(lines[start:end], "\n")

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(0, 1)

	return containerStyle.Render(content)
}

// renderLines renders every message into a flat line slice and records
// which lines are chip headers.
func (m *MessageList) renderLines() []string {
	m.lines = nil
	m.chipLines = make(map[int]int)
	m.chipCount = 0

	for i, msg := range m.messages {
		if i > 0 {
			m.lines = append(m.lines, "")
		}
		m.renderMessage(msg)
	}
	return m.lines
}

func (m *MessageList) renderMessage(msg agent.Message) {
	t := styles.CurrentTheme()

	contentWidth := m.width - 4 // Account for padding

	switch msg.Role {
	case agent.RoleUser:
		m.renderUserMessage(msg, contentWidth)
	case agent.RoleAssistant:
		m.renderAssistantMessage(msg, contentWidth)
	case agent.RoleTool:
		m.renderToolMessage(msg, contentWidth)
	default:
		m.appendBlock(t.S().Muted.Render(msg.Content))
	}
}

// appendBlock splits a rendered block into lines and appends them.
func (m *MessageList) appendBlock(block string) {
	m.lines = append(m.lines, strings.Split(block, "\n")...)
}

func (m *MessageList) renderUserMessage(msg agent.Message, width int) {
	t := styles.CurrentTheme()

	m.appendBlock(t.S().Text.Bold(true).Render("You"))
	m.appendBlock(t.S().Text.Width(width).Render(msg.Content))
}

func (m *MessageList) renderAssistantMessage(msg agent.Message, width int) {
	t := styles.CurrentTheme()

	m.appendBlock(t.S().Primary.Bold(true).Render("Assistant"))

	for _, seg := range m.parser.Parse(msg.Content) {
		switch seg.Kind {
		case segment.KindText:
			if seg.IsBlank() {
				continue
			}
			rendered, err := m.md.Render(seg.Text, width)
			if err != nil {
				rendered = t.S().Text.Width(width).Render(seg.Text)
			}
			m.appendBlock(strings.TrimRight(rendered, "\n"))

		case segment.KindToolCall:
			m.appendToolCallChip(t, seg.ToolCall.Name, seg.ToolCall.Arguments, width)

		case segment.KindToolResult:
			m.appendToolResultChip(t, seg.ToolResult.Name, seg.ToolResult.Result, false, width)
		}
	}

	// Structured tool calls arrive outside the content markup.
	for _, tc := range msg.ToolCalls {
		m.appendToolCallChip(t, tc.Name, tc.Input, width)
	}
}

func (m *MessageList) renderToolMessage(msg agent.Message, width int) {
	t := styles.CurrentTheme()

	for _, tr := range msg.ToolResults {
		m.appendToolResultChip(t, tr.Name, tr.Content, tr.IsError, width)
	}
}

// appendToolCallChip renders a tool invocation as a collapsible chip.
func (m *MessageList) appendToolCallChip(t *styles.Theme, name, args string, width int) {
	chip := m.chipCount
	m.chipCount++

	marker := chipCollapsedMarker
	if m.chipExpanded(chip) {
		marker = chipExpandedMarker
	}

	header := t.S().Muted.Render("  "+marker+" ") +
		t.S().Warning.Render("⚙ "+name)
	m.chipLines[len(m.lines)] = chip
	m.appendBlock(header)

	if m.chipExpanded(chip) && strings.TrimSpace(args) != "" {
		m.appendChipDetail(t.S().Subtle, args, width)
	}
}

// appendToolResultChip renders a tool result as a collapsible chip.
func (m *MessageList) appendToolResultChip(t *styles.Theme, name, result string, isError bool, width int) {
	chip := m.chipCount
	m.chipCount++

	marker := chipCollapsedMarker
	if m.chipExpanded(chip) {
		marker = chipExpandedMarker
	}

	icon := styles.Check
	iconStyle := t.S().Success
	detailStyle := t.S().Subtle
	if isError {
		icon = styles.Cross
		iconStyle = t.S().Error
		detailStyle = t.S().Error
	}

	header := t.S().Muted.Render("  "+marker+" ") +
		iconStyle.Render(icon+" "+name)
	m.chipLines[len(m.lines)] = chip
	m.appendBlock(header)

	if m.chipExpanded(chip) && strings.TrimSpace(result) != "" {
		m.appendChipDetail(detailStyle, result, width)
	}
}

// appendChipDetail renders expanded chip content, eliding past the
// line cap.
func (m *MessageList) appendChipDetail(style lipgloss.Style, content string, width int) {
	t := styles.CurrentTheme()

	content = strings.TrimRight(content, "\n")
	detailLines := strings.Split(content, "\n")
	elided := 0
	if len(detailLines) > maxChipDetailLines {
		elided = len(detailLines) - maxChipDetailLines
		detailLines = detailLines[:maxChipDetailLines]
	}

	detail := style.PaddingLeft(6).Width(width).Render(strings.Join(detailLines, "\n"))
	m.appendBlock(detail)

	if elided > 0 {
		m.appendBlock(t.S().Muted.PaddingLeft(6).Render(fmt.Sprintf("… %d more lines", elided)))
	}
}
