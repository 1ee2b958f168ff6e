package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"charm.land/fantasy"
	"github.com/google/uuid"

	"github.com/yodaai/yoda/internal/attachment"
	"github.com/yodaai/yoda/internal/capture"
	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/mcp"
	"github.com/yodaai/yoda/internal/pubsub"
)

// maxTitleLength caps auto-generated session titles.
const maxTitleLength = 50

// defaultMaxTokens is used when SendOptions does not set a limit.
const defaultMaxTokens int64 = 8192

// DefaultAgent implements the Agent interface using Fantasy.
type DefaultAgent struct { //nolint:govet // fieldalignment: preserving logical field order
	model          fantasy.LanguageModel
	systemPrompt   string
	tools          []fantasy.AgentTool
	workingDir     string
	sessions       Sessions
	capture        *capture.Service
	activeRequests map[string]context.CancelFunc
	hub            *pubsub.Hub
	mu             sync.RWMutex
}

// New creates a new agent with the given configuration.
func New(cfg Config) *DefaultAgent {
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = NewSessionStore()
	}
	return &DefaultAgent{
		model:          cfg.Model,
		systemPrompt:   cfg.SystemPrompt,
		tools:          cfg.Tools,
		workingDir:     cfg.WorkingDir,
		sessions:       sessions,
		capture:        cfg.Capture,
		activeRequests: make(map[string]context.CancelFunc),
		hub:            cfg.Hub,
	}
}

// turn accumulates the state of one streamed exchange. Fantasy invokes
// the callbacks sequentially on the stream goroutine, so the fields
// need no locking.
type turn struct {
	sessionID   string
	hub         *pubsub.Hub
	callbacks   StreamCallbacks
	assistant   *Message
	toolResults []Message
	starts      map[string]time.Time
}

func newTurn(sessionID string, hub *pubsub.Hub, callbacks StreamCallbacks) *turn {
	return &turn{
		sessionID: sessionID,
		hub:       hub,
		callbacks: callbacks,
		starts:    make(map[string]time.Time),
	}
}

// ensureAssistant lazily allocates the assistant message the first time
// the stream produces content, and returns its ID.
func (t *turn) ensureAssistant() string {
	if t.assistant == nil {
		t.assistant = &Message{
			ID:        uuid.New().String(),
			Role:      RoleAssistant,
			CreatedAt: time.Now(),
		}
	}
	return t.assistant.ID
}

func (t *turn) messageID() string {
	if t.assistant == nil {
		return ""
	}
	return t.assistant.ID
}

func (t *turn) onTextDelta(_, text string) error {
	id := t.ensureAssistant()
	t.assistant.Content += text

	if t.hub != nil {
		t.hub.Agent.Publish(pubsub.EventProgress,
			events.NewTextDeltaEvent(t.sessionID, id, text))
	}

	if t.callbacks.OnTextDelta != nil {
		return t.callbacks.OnTextDelta(text)
	}
	return nil
}

func (t *turn) onToolCall(tc fantasy.ToolCallContent) error {
	id := t.ensureAssistant()

	call := ToolCall{
		ID:    tc.ToolCallID,
		Name:  tc.ToolName,
		Input: tc.Input,
	}
	t.assistant.ToolCalls = append(t.assistant.ToolCalls, call)
	t.starts[tc.ToolCallID] = time.Now()

	if t.hub != nil {
		t.hub.Agent.Publish(pubsub.EventProgress,
			events.NewToolCallEvent(t.sessionID, id, events.ToolCallInfo{
				ID:    tc.ToolCallID,
				Name:  tc.ToolName,
				Input: tc.Input,
			}))
		t.hub.Tool.Publish(pubsub.EventStarted,
			events.NewToolStartedEvent(t.sessionID, tc.ToolCallID, tc.ToolName, tc.Input))
	}

	if t.callbacks.OnToolCall != nil {
		return t.callbacks.OnToolCall(call)
	}
	return nil
}

func (t *turn) onToolResult(result fantasy.ToolResultContent) error {
	content, isErr := toolResultText(result)
	tr := ToolResult{
		ToolCallID: result.ToolCallID,
		Name:       result.ToolName,
		Content:    content,
		IsError:    isErr,
	}

	var took time.Duration
	if start, ok := t.starts[result.ToolCallID]; ok {
		took = time.Since(start)
		delete(t.starts, result.ToolCallID)
	}

	// Tool result messages are held back until the assistant message is
	// saved, so the persisted order matches what the API expects.
	t.toolResults = append(t.toolResults, Message{
		ID:          uuid.New().String(),
		Role:        RoleTool,
		ToolResults: []ToolResult{tr},
		CreatedAt:   time.Now(),
	})

	if t.hub != nil {
		t.hub.Agent.Publish(pubsub.EventProgress,
			events.NewToolResultEvent(t.sessionID, t.messageID(), events.ToolResultInfo{
				ToolCallID: tr.ToolCallID,
				Name:       tr.Name,
				Content:    tr.Content,
				IsError:    tr.IsError,
				Duration:   took,
			}))

		if tr.IsError {
			t.hub.Tool.Publish(pubsub.EventFailed,
				events.NewToolFailedEvent(t.sessionID, tr.ToolCallID, tr.Name, NewError(tr.Content), took))
		} else {
			t.hub.Tool.Publish(pubsub.EventCompleted,
				events.NewToolCompletedEvent(t.sessionID, tr.ToolCallID, tr.Name, tr.Content, took))
		}
	}

	if t.callbacks.OnToolResult != nil {
		return t.callbacks.OnToolResult(tr)
	}
	return nil
}

// save persists the turn's messages: the assistant message first, then
// every tool result that references it.
func (t *turn) save(sessions Sessions) {
	if t.assistant != nil && (t.assistant.Content != "" || len(t.assistant.ToolCalls) > 0) {
		sessions.AddMessage(t.sessionID, *t.assistant)
	}
	for _, msg := range t.toolResults {
		sessions.AddMessage(t.sessionID, msg)
	}
}

// toolResultText flattens a Fantasy tool result into plain text plus an
// error flag. Media and other exotic result types degrade to a marker.
func toolResultText(result fantasy.ToolResultContent) (string, bool) {
	//nolint:exhaustive // Media type handled by the fallthrough
	switch result.Result.GetType() {
	case fantasy.ToolResultContentTypeText:
		if r, ok := fantasy.AsToolResultOutputType[fantasy.ToolResultOutputContentText](result.Result); ok {
			return r.Text, false
		}
	case fantasy.ToolResultContentTypeError:
		if r, ok := fantasy.AsToolResultOutputType[fantasy.ToolResultOutputContentError](result.Result); ok {
			return r.Error.Error(), true
		}
	}
	return "[Unsupported tool result type]", false
}

// Send sends a prompt and streams the response.
func (a *DefaultAgent) Send(ctx context.Context, prompt string, opts SendOptions, callbacks StreamCallbacks) error {
	if prompt == "" {
		return ErrEmptyPrompt
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = a.sessions.Current().ID
	}
	if a.IsBusy(sessionID) {
		return ErrSessionBusy
	}

	ctx, cancel := context.WithCancel(ctx)
	a.beginRequest(sessionID, cancel)
	defer func() {
		a.endRequest(sessionID)
		cancel()
	}()

	// Tool handlers read these from the context
	ctx = mcp.WithSessionID(ctx, sessionID)
	ctx = mcp.WithWorkingDir(ctx, a.workingDir)

	// Fold pending captured context into the outgoing user message so
	// the model sees it and history replays it on later turns.
	var pending []attachment.Attachment
	if a.capture != nil {
		pending = a.capture.Pending(sessionID)
	}
	userContent := composeUserContent(prompt, pending)

	firstMessage := len(a.sessions.GetMessages(sessionID)) == 0

	userMsg := Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   userContent,
		CreatedAt: time.Now(),
	}
	a.sessions.AddMessage(sessionID, userMsg)

	if a.capture != nil && len(pending) > 0 {
		_, _ = a.capture.AttachPending(ctx, sessionID, userMsg.ID)
	}

	// Title fresh sessions from their first prompt
	if firstMessage {
		a.sessions.UpdateTitle(sessionID, deriveTitle(prompt))
	}

	a.mu.RLock()
	model := a.model
	systemPrompt := a.systemPrompt
	agentTools := a.tools
	a.mu.RUnlock()

	var agentOpts []fantasy.AgentOption
	if len(agentTools) > 0 {
		agentOpts = append(agentOpts, fantasy.WithTools(agentTools...))
	}
	runner := fantasy.NewAgent(model, agentOpts...)

	// The identity line rides as its own system block ahead of the
	// configurable prompt, followed by the session's prior messages.
	history := append(
		[]fantasy.Message{fantasy.NewSystemMessage(SystemIdentity, systemPrompt)},
		a.buildHistory(sessionID)...,
	)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	t := newTurn(sessionID, a.hub, callbacks)

	call := fantasy.AgentStreamCall{
		Prompt:          userContent,
		Messages:        history,
		MaxOutputTokens: &maxTokens,
		OnTextDelta:     t.onTextDelta,
		OnToolCall:      t.onToolCall,
		OnToolResult:    t.onToolResult,
	}
	if opts.Temperature != nil {
		call.Temperature = opts.Temperature
	}

	_, err := runner.Stream(ctx, call)

	t.save(a.sessions)
	a.publishStreamOutcome(sessionID, t.messageID(), err)

	if err != nil {
		if callbacks.OnError != nil {
			callbacks.OnError(err)
		}
		return err
	}
	if callbacks.OnComplete != nil {
		return callbacks.OnComplete()
	}
	return nil
}

// publishStreamOutcome finalizes a stream on the hub. A cancel is not a
// failure: the chat keeps the partial text without an error banner.
func (a *DefaultAgent) publishStreamOutcome(sessionID, messageID string, err error) {
	if a.hub == nil {
		return
	}

	switch {
	case err == nil:
		a.hub.Agent.Publish(pubsub.EventCompleted,
			events.NewCompleteEvent(sessionID, messageID))
	case errors.Is(err, context.Canceled):
		a.hub.Agent.Publish(pubsub.EventCompleted,
			events.NewCancelledEvent(sessionID, messageID))
	default:
		a.hub.Agent.Publish(pubsub.EventFailed,
			events.NewErrorEvent(sessionID, messageID, err))
	}
}

// composeUserContent appends captured attachments to the prompt as
// tagged blocks.
func composeUserContent(prompt string, pending []attachment.Attachment) string {
	block := capture.PromptBlock(pending)
	if block == "" {
		return prompt
	}
	return prompt + "\n\n" + block
}

// deriveTitle builds a session title from the first prompt line.
func deriveTitle(prompt string) string {
	line := strings.TrimSpace(prompt)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		return "New Session"
	}
	runes := []rune(line)
	if len(runes) > maxTitleLength {
		line = string(runes[:maxTitleLength]) + "..."
	}
	return line
}

// buildHistory converts the session's stored messages, minus the
// just-added user input, into Fantasy messages.
func (a *DefaultAgent) buildHistory(sessionID string) []fantasy.Message {
	messages := a.sessions.GetMessages(sessionID)
	if len(messages) == 0 {
		return nil
	}
	messages = messages[:len(messages)-1]

	var history []fantasy.Message
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			history = append(history, fantasy.NewUserMessage(msg.Content))
		case RoleAssistant:
			if m, ok := assistantHistoryMessage(msg); ok {
				history = append(history, m)
			}
		case RoleTool:
			history = append(history, toolHistoryMessages(msg)...)
		case RoleSystem:
			// System content is rebuilt on every Send, never replayed.
		}
	}
	return history
}

func assistantHistoryMessage(msg Message) (fantasy.Message, bool) {
	var parts []fantasy.MessagePart
	if msg.Content != "" {
		parts = append(parts, fantasy.TextPart{Text: msg.Content})
	}
	for _, tc := range msg.ToolCalls {
		parts = append(parts, fantasy.ToolCallPart{
			ToolCallID: tc.ID,
			ToolName:   tc.Name,
			Input:      tc.Input,
		})
	}
	if len(parts) == 0 {
		return fantasy.Message{}, false
	}
	return fantasy.Message{Role: fantasy.MessageRoleAssistant, Content: parts}, true
}

func toolHistoryMessages(msg Message) []fantasy.Message {
	out := make([]fantasy.Message, 0, len(msg.ToolResults))
	for _, tr := range msg.ToolResults {
		var output fantasy.ToolResultOutputContent
		if tr.IsError {
			output = fantasy.ToolResultOutputContentError{Error: NewError(tr.Content)}
		} else {
			output = fantasy.ToolResultOutputContentText{Text: tr.Content}
		}
		out = append(out, fantasy.Message{
			Role: fantasy.MessageRoleTool,
			Content: []fantasy.MessagePart{
				fantasy.ToolResultPart{
					ToolCallID: tr.ToolCallID,
					Output:     output,
				},
			},
		})
	}
	return out
}

// Model returns the current language model.
func (a *DefaultAgent) Model() fantasy.LanguageModel {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.model
}

// SetModel swaps the language model in place. Session history is
// untouched, so a mid-run swap continues the same conversation.
func (a *DefaultAgent) SetModel(model fantasy.LanguageModel) {
	a.mu.Lock()
	a.model = model
	a.mu.Unlock()
}

// SetSystemPrompt replaces the configurable system prompt.
func (a *DefaultAgent) SetSystemPrompt(prompt string) {
	a.mu.Lock()
	a.systemPrompt = prompt
	a.mu.Unlock()
}

// SetTools replaces the tool set offered to the model.
func (a *DefaultAgent) SetTools(toolList []fantasy.AgentTool) {
	a.mu.Lock()
	a.tools = toolList
	a.mu.Unlock()
}

// History returns the conversation history for a session.
func (a *DefaultAgent) History(sessionID string) []Message {
	return a.sessions.GetMessages(sessionID)
}

// Clear clears the conversation history for a session.
func (a *DefaultAgent) Clear(sessionID string) {
	a.sessions.ClearMessages(sessionID)
}

// Cancel aborts any in-flight request for the session.
func (a *DefaultAgent) Cancel(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cancel, ok := a.activeRequests[sessionID]; ok {
		cancel()
		delete(a.activeRequests, sessionID)
	}
}

// IsBusy reports whether a request is in flight for the session.
func (a *DefaultAgent) IsBusy(sessionID string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.activeRequests[sessionID]
	return ok
}

// Sessions returns the session store.
func (a *DefaultAgent) Sessions() Sessions {
	return a.sessions
}

func (a *DefaultAgent) beginRequest(sessionID string, cancel context.CancelFunc) {
	a.mu.Lock()
	a.activeRequests[sessionID] = cancel
	a.mu.Unlock()
}

func (a *DefaultAgent) endRequest(sessionID string) {
	a.mu.Lock()
	delete(a.activeRequests, sessionID)
	a.mu.Unlock()
}
