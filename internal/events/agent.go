// Package events defines domain-specific event types for the pub/sub system.
package events

import (
	"time"
)

// AgentEventType represents agent-specific event types.
type AgentEventType string

// Agent event type constants.
const (
	AgentEventTextDelta  AgentEventType = "text_delta"
	AgentEventToolCall   AgentEventType = "tool_call"
	AgentEventToolResult AgentEventType = "tool_result"
	AgentEventComplete   AgentEventType = "complete"
	AgentEventError      AgentEventType = "error"
	AgentEventCancelled  AgentEventType = "cancelled"
)

// AgentEvent represents one step of a streaming chat response. Exactly
// one of the payload fields is populated, matching Type.
type AgentEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	SessionID string
	MessageID string
	Type      AgentEventType
	Timestamp time.Time

	TextDelta  string
	ToolCall   *ToolCallInfo
	ToolResult *ToolResultInfo
	Error      error
}

// ToolCallInfo carries the call the model requested, input as raw JSON.
type ToolCallInfo struct {
	ID    string
	Name  string
	Input string
}

// ToolResultInfo carries what the MCP server returned for a call.
type ToolResultInfo struct {
	ToolCallID string
	Name       string
	Content    string
	IsError    bool
	Duration   time.Duration
}

func newAgentEvent(typ AgentEventType, sessionID, messageID string) AgentEvent {
	return AgentEvent{
		SessionID: sessionID,
		MessageID: messageID,
		Type:      typ,
		Timestamp: time.Now(),
	}
}

// NewTextDeltaEvent creates a text delta event.
func NewTextDeltaEvent(sessionID, messageID, text string) AgentEvent {
	e := newAgentEvent(AgentEventTextDelta, sessionID, messageID)
	e.TextDelta = text
	return e
}

// NewToolCallEvent creates a tool call event.
func NewToolCallEvent(sessionID, messageID string, tc ToolCallInfo) AgentEvent {
	e := newAgentEvent(AgentEventToolCall, sessionID, messageID)
	e.ToolCall = &tc
	return e
}

// NewToolResultEvent creates a tool result event.
func NewToolResultEvent(sessionID, messageID string, tr ToolResultInfo) AgentEvent {
	e := newAgentEvent(AgentEventToolResult, sessionID, messageID)
	e.ToolResult = &tr
	return e
}

// NewCompleteEvent creates a completion event.
func NewCompleteEvent(sessionID, messageID string) AgentEvent {
	return newAgentEvent(AgentEventComplete, sessionID, messageID)
}

// NewErrorEvent creates an error event.
func NewErrorEvent(sessionID, messageID string, err error) AgentEvent {
	e := newAgentEvent(AgentEventError, sessionID, messageID)
	e.Error = err
	return e
}

// NewCancelledEvent creates a cancelled event. The chat treats it like a
// completion: the partial text stays on screen without an error banner.
func NewCancelledEvent(sessionID, messageID string) AgentEvent {
	return newAgentEvent(AgentEventCancelled, sessionID, messageID)
}
