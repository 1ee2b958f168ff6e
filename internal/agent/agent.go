// Package agent provides the AI agent implementation for yoda.
package agent

import (
	"context"
	"time"

	"charm.land/fantasy"

	"github.com/yodaai/yoda/internal/capture"
	"github.com/yodaai/yoda/internal/pubsub"
)

// Role identifies who produced a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is one turn in a conversation, including any tool calls the
// assistant made and their results.
type Message struct { //nolint:govet // fieldalignment: preserving logical field order
	ID                string
	Content           string
	Reasoning         string                   // model thinking, when the provider streams it
	ReasoningMetadata fantasy.ProviderMetadata // provider extras, e.g. Claude's signature
	ToolCalls         []ToolCall
	ToolResults       []ToolResult
	CreatedAt         time.Time
	Role              Role
}

// ToolCall is a tool invocation requested by the assistant.
type ToolCall struct {
	ID    string
	Name  string
	Input string
}

// ToolResult carries the outcome of a tool call back to the model.
type ToolResult struct {
	ToolCallID string
	Name       string
	Content    string
	IsError    bool
}

// StreamCallbacks receive streaming events while a response is being
// generated. Any callback may be nil.
type StreamCallbacks struct {
	OnTextDelta  func(text string) error
	OnToolCall   func(tc ToolCall) error
	OnToolResult func(tr ToolResult) error
	OnComplete   func() error
	OnError      func(err error)
}

// SendOptions tune a single Send call.
type SendOptions struct { //nolint:govet // fieldalignment: preserving logical field order
	SessionID   string
	Temperature *float64
	MaxTokens   int64
}

// Agent runs conversations against a language model, dispatching tool
// calls and streaming results back through callbacks.
type Agent interface {
	// Send sends a prompt and streams the response.
	Send(ctx context.Context, prompt string, opts SendOptions, callbacks StreamCallbacks) error

	// SetSystemPrompt sets the system prompt.
	SetSystemPrompt(prompt string)

	// SetTools sets the available tools.
	SetTools(tools []fantasy.AgentTool)

	// Model returns the current language model.
	Model() fantasy.LanguageModel

	// SetModel swaps the language model without losing session history.
	SetModel(model fantasy.LanguageModel)

	// History returns the conversation history.
	History(sessionID string) []Message

	// Clear clears the conversation history.
	Clear(sessionID string)

	// Cancel cancels any ongoing request for a session.
	Cancel(sessionID string)

	// IsBusy reports whether a request is in flight for the session.
	IsBusy(sessionID string) bool
}

// Sessions manages conversation sessions and their transcripts. Both
// the in-memory store and the database-backed store satisfy it.
type Sessions interface {
	// Create creates a new session with the given title.
	Create(title string) *Session

	// Get returns a session by ID.
	Get(id string) (*Session, bool)

	// Current returns the current session, creating one if none exists.
	Current() *Session

	// SetCurrent sets the current session.
	SetCurrent(id string) bool

	// List returns all sessions.
	List() []*Session

	// Delete removes a session.
	Delete(id string) bool

	// AddMessage appends a message to a session's transcript.
	AddMessage(sessionID string, msg Message) bool

	// GetMessages returns a session's transcript.
	GetMessages(sessionID string) []Message

	// ClearMessages empties a session's transcript.
	ClearMessages(sessionID string) bool

	// UpdateTitle renames a session.
	UpdateTitle(sessionID, title string) bool
}

// Config assembles an agent. Hub, Sessions, and Capture are optional;
// nil fields get in-memory defaults.
type Config struct { //nolint:govet // fieldalignment: preserving logical field order
	Model        fantasy.LanguageModel
	SystemPrompt string
	Tools        []fantasy.AgentTool
	WorkingDir   string
	Hub          *pubsub.Hub
	Sessions     Sessions
	Capture      *capture.Service
}

// Sentinel errors returned by Send.
var (
	ErrSessionBusy = NewError("session is busy")
	ErrEmptyPrompt = NewError("prompt cannot be empty")
)

// Error is a plain agent error with a fixed message.
type Error struct {
	message string
}

// NewError creates a new agent error with the given message.
func NewError(message string) *Error {
	return &Error{message: message}
}

func (e *Error) Error() string {
	return e.message
}
