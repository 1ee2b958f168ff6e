// Package chat provides the main chat page for yoda.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/agent"
	"github.com/yodaai/yoda/internal/bridge"
	"github.com/yodaai/yoda/internal/capture"
	"github.com/yodaai/yoda/internal/debug"
	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/mcp"
	"github.com/yodaai/yoda/internal/pubsub"
	"github.com/yodaai/yoda/internal/tui/styles"
	"github.com/yodaai/yoda/internal/tui/util"
)

// StreamErrorMsg is sent when dispatching a message to the agent fails.
// Streaming progress itself arrives through the pub/sub bridge.
type StreamErrorMsg struct {
	Error error
}

// flashDuration is how long a status notice stays visible.
const flashDuration = 4 * time.Second

// flashClearMsg expires a status notice. The id guards against an old
// timer clearing a newer notice.
type flashClearMsg struct {
	id int
}

// Model is the chat page model.
type Model struct {
	agent           *agent.DefaultAgent
	capture         *capture.Service
	mcp             *mcp.Manager
	commandRegistry *CommandRegistry
	messages        *MessageList
	activity        *ActivityPanel
	attachments     *AttachmentsPanel
	input           *Input
	status          *StatusBar
	sessionID       string
	isStreaming     bool
	flashID         int
	width           int
	height          int
}

// New creates a new chat page model.
func New(ag *agent.DefaultAgent, captureSvc *capture.Service, mcpManager *mcp.Manager) *Model {
	m := &Model{
		agent:           ag,
		capture:         captureSvc,
		mcp:             mcpManager,
		commandRegistry: NewCommandRegistry(),
		messages:        NewMessageList(),
		activity:        NewActivityPanel(),
		attachments:     NewAttachmentsPanel(),
		input:           NewInput(),
		status:          NewStatusBar(),
	}
	m.input.SetCommands(m.commandRegistry.GetCommands())
	return m
}

// SetModelName sets the model name to display in the status bar.
func (m *Model) SetModelName(name string) {
	m.status.SetModelName(name)
}

// SessionID returns the session the chat page is bound to.
func (m *Model) SessionID() string {
	return m.sessionID
}

// SwitchSession points the chat page at a different session.
func (m *Model) SwitchSession(sessionID string) tea.Cmd {
	if m.isStreaming {
		m.agent.Cancel(m.sessionID)
	}

	m.sessionID = sessionID
	m.agent.Sessions().SetCurrent(sessionID)
	m.messages.SetMessages(m.agent.Sessions().GetMessages(sessionID))
	m.messages.ScrollToBottom()
	m.activity.Clear()
	m.hydrateCaptures()
	m.refreshAttachments()
	m.attachments.SetAttaching(false)
	m.isStreaming = false
	m.status.SetStatus(StatusReady)
	m.input.Enable()
	return m.input.Focus()
}

// Init initializes the chat page.
func (m *Model) Init() tea.Cmd {
	// Get or create a session
	session := m.agent.Sessions().Current()
	m.sessionID = session.ID
	m.messages.SetMessages(session.Messages)
	m.hydrateCaptures()
	m.refreshAttachments()

	return m.input.Init()
}

// Update handles messages.
//
//nolint:gocyclo // Complex due to handling many message types including mouse events
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		debug.Event("chat", "KeyMsg", fmt.Sprintf("key=%q", msg.String()))
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		// Route mouse wheel events to the viewport
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		return m, cmd

	case tea.MouseClickMsg:
		// Only handle clicks in the messages area
		messagesHeight := m.messagesAreaHeight()
		if msg.Y < messagesHeight && msg.Button == tea.MouseLeft {
			// A click on a tool chip toggles its detail instead of
			// starting a selection.
			if m.messages.ClickAt(msg.X, msg.Y) {
				return m, nil
			}
			m.messages.StartSelection(msg.X, msg.Y)
		}
		return m, nil

	case tea.MouseMotionMsg:
		// Handle selection drag with auto-scroll at edges
		messagesHeight := m.messagesAreaHeight()
		if msg.Button == tea.MouseLeft && m.messages.IsSelecting() {
			x, y := msg.X, msg.Y

			// Auto-scroll when dragging near edges
			if y < 0 {
				m.messages.Update(tea.MouseWheelMsg{Button: tea.MouseWheelUp})
				y = 0
			} else if y >= messagesHeight {
				m.messages.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
				y = messagesHeight - 1
			}

			// Clamp x to valid range
			if x < 0 {
				x = 0
			} else if x >= m.width {
				x = m.width - 1
			}

			m.messages.EndSelection(x, y)
		}
		return m, nil

	case tea.MouseReleaseMsg:
		if msg.Button == tea.MouseLeft && m.messages.IsSelecting() {
			m.messages.SelectionStop()

			// Copy selection to clipboard if there's a selection
			if m.messages.HasSelection() {
				if cmd := m.messages.CopySelection(); cmd != nil {
					return m, cmd
				}
			}
		}
		return m, nil

	case SelectionCopiedMsg:
		debug.Event("chat", "SelectionCopied", fmt.Sprintf("copied %d chars", len(msg.Text)))
		return m, util.ReportInfo(fmt.Sprintf("Copied %d characters", len(msg.Text)))

	case util.InfoMsg:
		m.flashID++
		m.status.Flash(msg.Msg, msg.Type)
		id := m.flashID
		return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
			return flashClearMsg{id: id}
		})

	case flashClearMsg:
		if msg.id == m.flashID {
			m.status.ClearFlash()
		}
		return m, nil

	case StreamErrorMsg:
		m.isStreaming = false
		m.activity.Clear()
		m.attachments.SetAttaching(false)
		m.status.SetError(msg.Error.Error())
		m.input.Enable()
		return m, m.input.Focus()

	case SpinnerTickMsg:
		var cmd tea.Cmd
		m.activity, cmd = m.activity.Update(msg)
		// Sync spinner frame with the attachments panel
		m.attachments.SetSpinner(m.activity.frame)
		return m, cmd

	// Slash command messages
	case ClearConversationMsg:
		m.agent.Clear(m.sessionID)
		m.messages.SetMessages(nil)
		m.messages.ScrollToBottom()
		return m, util.ReportSuccess("Conversation cleared")

	case CaptureClipboardMsg:
		return m.handleCaptureClipboard()

	case InsertReplyMsg:
		return m.handleInsertReply()

	case ShowMCPStatusMsg:
		return m, util.ReportInfo(m.mcpSummary())

	case ShowHelpMsg:
		m.messages.AppendMessage(agent.Message{
			Role:    agent.RoleAssistant,
			Content: m.helpText(),
		})
		m.messages.ScrollToBottom()
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case UnknownCommandMsg:
		return m, util.ReportWarn(fmt.Sprintf("Unknown command: /%s", msg.Command))

	// Bridge messages from the pub/sub system
	case bridge.AgentEventMsg:
		return m.handleAgentEvent(msg.Event)

	case bridge.ToolEventMsg:
		return m.handleToolEvent(msg.Event)

	case bridge.CaptureEventMsg:
		return m.handleCaptureEvent(msg.Event)

	case bridge.MCPEventMsg:
		return m.handleMCPEvent(msg.Event)

	case bridge.MessageEventMsg:
		return m.handleMessageEvent(msg.Event)
	}

	// Update messages (for viewport scrolling)
	var msgCmd tea.Cmd
	m.messages, msgCmd = m.messages.Update(msg)
	if msgCmd != nil {
		cmds = append(cmds, msgCmd)
	}

	// Update input
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.isStreaming {
			return m, nil
		}

		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}

		// Slash commands never reach the model.
		if cmd := m.parseCommand(value); cmd != nil {
			m.input.Clear()
			return m, cmd
		}

		// Clear input and start streaming
		m.input.Clear()
		m.input.Disable()
		m.isStreaming = true
		m.status.SetStatus(StatusThinking)
		if m.attachments.Count() > 0 {
			m.attachments.SetAttaching(true)
		}

		// Start activity panel with spinner
		spinnerCmd := m.activity.SetThinking(true)

		// Add placeholder for assistant response
		m.messages.AppendMessage(agent.Message{
			Role:    agent.RoleUser,
			Content: value,
		})
		m.messages.AppendMessage(agent.Message{
			Role:    agent.RoleAssistant,
			Content: "",
		})
		m.messages.ScrollToBottom()

		// Send to agent
		sendCmd := m.sendMessage(value)
		return m, tea.Batch(spinnerCmd, sendCmd)

	case "ctrl+c":
		if m.isStreaming {
			m.agent.Cancel(m.sessionID)
			m.activity.Clear()
			return m, nil
		}
		return m, tea.Quit

	case "esc":
		if m.isStreaming {
			m.agent.Cancel(m.sessionID)
			m.activity.Clear()
			return m, nil
		}

	case "ctrl+g":
		return m.handleCaptureClipboard()

	case "ctrl+y":
		return m.handleInsertReply()

	case "ctrl+o":
		m.messages.ToggleDetails()
		return m, nil

	case "ctrl+x":
		return m.handleClearCaptures()
	}

	var cmds []tea.Cmd

	// Only pass key events to viewport when input is disabled (streaming mode).
	// This prevents vim-style scroll keys (j/k) from interfering with typing.
	if !m.input.IsEnabled() {
		var msgCmd tea.Cmd
		m.messages, msgCmd = m.messages.Update(msg)
		if msgCmd != nil {
			cmds = append(cmds, msgCmd)
		}
	}

	// Input handles typing when enabled
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	return m, tea.Batch(cmds...)
}

// handleCaptureClipboard captures the clipboard into pending context.
// The resulting capture event carries the user feedback.
func (m *Model) handleCaptureClipboard() (util.Model, tea.Cmd) {
	if m.capture == nil {
		return m, nil
	}
	if _, err := m.capture.CaptureClipboard(m.sessionID); err != nil {
		return m, util.ReportError(err)
	}
	m.refreshAttachments()
	return m, nil
}

// handleInsertReply copies the last assistant reply to the clipboard.
func (m *Model) handleInsertReply() (util.Model, tea.Cmd) {
	if m.capture == nil {
		return m, nil
	}
	text := m.messages.LastAssistantText()
	if text == "" {
		return m, util.ReportWarn("No reply to copy yet")
	}
	if err := m.capture.InsertReply(m.sessionID, text); err != nil {
		return m, util.ReportError(err)
	}
	return m, nil
}

// handleClearCaptures drops all pending captures for the session.
func (m *Model) handleClearCaptures() (util.Model, tea.Cmd) {
	if m.capture == nil || m.capture.Clear(m.sessionID) == 0 {
		return m, nil
	}
	m.refreshAttachments()
	return m, nil
}

func (m *Model) refreshAttachments() {
	if m.capture == nil {
		return
	}
	m.attachments.SetItems(m.capture.Pending(m.sessionID))
}

// hydrateCaptures pulls captures persisted by the CLI into the pending
// store when the page enters a session.
func (m *Model) hydrateCaptures() {
	if m.capture == nil || m.sessionID == "" {
		return
	}
	if _, err := m.capture.LoadPersisted(context.Background(), m.sessionID); err != nil {
		debug.Error("chat", err, "loading persisted captures")
	}
}

// mcpSummary builds a one-line summary of MCP server status.
func (m *Model) mcpSummary() string {
	if m.mcp == nil {
		return "MCP: no servers configured"
	}

	statuses := m.mcp.Status()
	if len(statuses) == 0 {
		return "MCP: no servers configured"
	}

	connected, toolCount := 0, 0
	for _, s := range statuses {
		if s.Connected {
			connected++
			toolCount += s.ToolCount
		}
	}
	return fmt.Sprintf("MCP: %d/%d servers connected, %d tools", connected, len(statuses), toolCount)
}

// helpText builds the /help transcript entry from the command registry.
func (m *Model) helpText() string {
	var b strings.Builder
	b.WriteString("## Commands\n\n")
	for _, c := range m.commandRegistry.GetCommands() {
		b.WriteString(fmt.Sprintf("- `/%s` %s\n", c.Name, c.Description))
	}
	b.WriteString("\n## Keys\n\n")
	b.WriteString("- `ctrl+g` capture clipboard into pending context\n")
	b.WriteString("- `ctrl+y` copy the last reply to the clipboard\n")
	b.WriteString("- `ctrl+x` clear pending captures\n")
	b.WriteString("- `ctrl+o` expand or collapse tool detail\n")
	b.WriteString("- `esc` cancel a streaming response\n")
	b.WriteString("- `ctrl+c` quit\n")
	return b.String()
}

// sendMessage dispatches the prompt to the agent. Streaming progress
// arrives through the pub/sub bridge; the returned command only
// surfaces dispatch failures.
func (m *Model) sendMessage(prompt string) tea.Cmd {
	return func() tea.Msg {
		debug.Event("chat", "SendStart", fmt.Sprintf("prompt length=%d", len(prompt)))

		opts := agent.SendOptions{
			SessionID: m.sessionID,
		}
		if err := m.agent.Send(context.Background(), prompt, opts, agent.StreamCallbacks{}); err != nil {
			// A cancelled stream already finalized through the
			// cancelled event; no error banner for it.
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return StreamErrorMsg{Error: err}
		}
		return nil
	}
}

// View renders the chat page.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	// Set component sizes (messages height adjusts dynamically based on
	// input, activity, and pending captures)
	m.messages.SetSize(m.width, m.messagesAreaHeight())
	m.attachments.SetWidth(m.width)
	m.activity.SetWidth(m.width)
	m.input.SetWidth(m.width)
	m.status.SetWidth(m.width)

	// Render components
	messagesView := m.messages.View()
	attachmentsView := m.attachments.View()
	activityView := m.activity.View()
	inputView := m.input.View()
	statusView := m.status.View()

	// Separator
	separator := lipgloss.NewStyle().
		Width(m.width).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Render("")

	// Build layout - include panels only if they have content
	var parts []string
	parts = append(parts, messagesView)

	// Pending captures appear above the activity panel
	if m.attachments.IsActive() {
		parts = append(parts, separator, attachmentsView)
	}

	if m.activity.IsActive() {
		parts = append(parts, separator, activityView)
	}

	parts = append(parts, separator, inputView, statusView)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetSize sets the chat page size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// messagesAreaHeight calculates the current height of the messages area.
func (m *Model) messagesAreaHeight() int {
	statusHeight := 1
	inputHeight := m.input.Height()
	separatorHeight := 1

	// Account for the attachments panel if active (height + separator)
	attachmentsHeight := m.attachments.Height()
	if attachmentsHeight > 0 {
		attachmentsHeight++ // Add separator height
	}

	// Account for activity panel if active (height + separator)
	activityHeight := m.activity.Height()
	if activityHeight > 0 {
		activityHeight++ // Add separator height
	}

	h := m.height - statusHeight - inputHeight - separatorHeight - attachmentsHeight - activityHeight
	if h < 1 {
		h = 1
	}
	return h
}

// Cursor returns the cursor position.
func (m *Model) Cursor() *tea.Cursor {
	if !m.isStreaming {
		return m.input.Cursor()
	}
	return nil
}

// handleAgentEvent processes agent events from the pub/sub bridge.
func (m *Model) handleAgentEvent(event pubsub.Event[events.AgentEvent]) (util.Model, tea.Cmd) {
	// Only handle events for our session
	if event.Payload.SessionID != m.sessionID {
		return m, nil
	}

	switch event.Payload.Type {
	case events.AgentEventTextDelta:
		// Update the last message (assistant response) with new text
		if len(m.messages.messages) > 0 {
			lastMsg := m.messages.messages[len(m.messages.messages)-1]
			m.messages.UpdateLast(lastMsg.Content + event.Payload.TextDelta)
		}

	case events.AgentEventToolCall:
		if event.Payload.ToolCall != nil {
			m.activity.AddTool(event.Payload.ToolCall.Name, event.Payload.ToolCall.Input)
		}

	case events.AgentEventToolResult:
		if event.Payload.ToolResult != nil {
			if event.Payload.ToolResult.IsError {
				m.activity.MarkToolError(event.Payload.ToolResult.Name)
			} else {
				m.activity.MarkToolDone(event.Payload.ToolResult.Name)
			}
		}

	case events.AgentEventComplete, events.AgentEventCancelled:
		m.isStreaming = false
		m.activity.Clear()
		m.attachments.SetAttaching(false)
		m.status.SetStatus(StatusReady)
		m.input.Enable()
		// Refresh messages from session to get final state
		m.messages.SetMessages(m.agent.Sessions().GetMessages(m.sessionID))
		m.refreshAttachments()
		return m, m.input.Focus()

	case events.AgentEventError:
		m.isStreaming = false
		m.activity.Clear()
		m.attachments.SetAttaching(false)
		if event.Payload.Error != nil {
			m.status.SetError(event.Payload.Error.Error())
		} else {
			m.status.SetError("unknown error")
		}
		m.input.Enable()
		return m, m.input.Focus()
	}

	return m, nil
}

// handleToolEvent processes tool events from the pub/sub bridge.
func (m *Model) handleToolEvent(event pubsub.Event[events.ToolEvent]) (util.Model, tea.Cmd) {
	// Only handle events for our session
	if event.Payload.SessionID != m.sessionID {
		return m, nil
	}

	switch event.Payload.Type {
	case events.ToolEventStarted:
		debug.Event("chat", "ToolStarted", fmt.Sprintf("tool=%s", event.Payload.ToolName))
		m.activity.AddTool(event.Payload.ToolName, event.Payload.Input)

	case events.ToolEventCompleted:
		debug.Event("chat", "ToolCompleted", fmt.Sprintf("tool=%s duration=%v", event.Payload.ToolName, event.Payload.Duration))
		m.activity.MarkToolDone(event.Payload.ToolName)

	case events.ToolEventFailed:
		debug.Event("chat", "ToolFailed", fmt.Sprintf("tool=%s error=%v", event.Payload.ToolName, event.Payload.Error))
		m.activity.MarkToolError(event.Payload.ToolName)
	}

	return m, nil
}

// handleCaptureEvent processes capture events from the pub/sub bridge.
func (m *Model) handleCaptureEvent(event pubsub.Event[events.CaptureEvent]) (util.Model, tea.Cmd) {
	// Only handle events for our session
	if event.Payload.SessionID != m.sessionID {
		return m, nil
	}

	m.refreshAttachments()

	//nolint:exhaustive // Removed needs no feedback beyond the refresh
	switch event.Payload.Type {
	case events.CaptureEventAdded:
		return m, util.ReportSuccess(fmt.Sprintf("Captured %s (%s)",
			event.Payload.Name, formatSize(event.Payload.Size)))

	case events.CaptureEventCleared:
		return m, util.ReportInfo(fmt.Sprintf("Cleared %d pending captures", event.Payload.Count))

	case events.CaptureEventAttached:
		m.attachments.SetAttaching(false)
		debug.Event("chat", "CaptureAttached", fmt.Sprintf("count=%d", event.Payload.Count))

	case events.CaptureEventInserted:
		return m, util.ReportSuccess("Reply copied to clipboard")
	}

	return m, nil
}

// handleMCPEvent processes MCP server lifecycle events.
func (m *Model) handleMCPEvent(event pubsub.Event[events.MCPEvent]) (util.Model, tea.Cmd) {
	//nolint:exhaustive // Connecting needs no feedback
	switch event.Payload.Type {
	case events.MCPEventConnected:
		debug.Event("chat", "MCPConnected", fmt.Sprintf("server=%s tools=%d", event.Payload.Server, event.Payload.ToolCount))
		// Refresh the agent's tool set as servers come up.
		if m.mcp != nil {
			m.agent.SetTools(m.mcp.Tools(context.Background()))
		}
		return m, util.ReportInfo(fmt.Sprintf("MCP %s connected (%d tools)", event.Payload.Server, event.Payload.ToolCount))

	case events.MCPEventFailed:
		debug.Event("chat", "MCPFailed", fmt.Sprintf("server=%s error=%v", event.Payload.Server, event.Payload.Error))
		return m, util.ReportWarn(fmt.Sprintf("MCP %s failed: %v", event.Payload.Server, event.Payload.Error))

	case events.MCPEventDisconnected:
		debug.Event("chat", "MCPDisconnected", fmt.Sprintf("server=%s", event.Payload.Server))
	}

	return m, nil
}

// handleMessageEvent processes persisted message change events.
func (m *Model) handleMessageEvent(event pubsub.Event[events.MessageEvent]) (util.Model, tea.Cmd) {
	if event.Payload.SessionID != m.sessionID {
		return m, nil
	}

	debug.Event("chat", "MessageEvent", fmt.Sprintf("type=%s id=%s", event.Payload.Type, event.Payload.MessageID))

	// External deletions (trim, CLI) invalidate the rendered transcript.
	if event.Payload.Type == events.MessageEventDeleted && !m.isStreaming {
		m.messages.SetMessages(m.agent.Sessions().GetMessages(m.sessionID))
	}

	return m, nil
}
