package events

import (
	"time"
)

// ToolEventType represents tool-specific event types.
type ToolEventType string

// Tool event type constants. MCP tool calls report start and a single
// terminal outcome; there is no incremental progress on this wire.
const (
	ToolEventStarted   ToolEventType = "started"
	ToolEventCompleted ToolEventType = "completed"
	ToolEventFailed    ToolEventType = "failed"
)

// ToolEvent represents one MCP tool execution step.
type ToolEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	SessionID  string
	ToolCallID string
	ToolName   string
	Type       ToolEventType
	Timestamp  time.Time

	Input    string        // Started
	Output   string        // Completed
	Error    error         // Failed
	Duration time.Duration // Completed/Failed, measured from the call
}

func newToolEvent(typ ToolEventType, sessionID, toolCallID, toolName string) ToolEvent {
	return ToolEvent{
		SessionID:  sessionID,
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Type:       typ,
		Timestamp:  time.Now(),
	}
}

// NewToolStartedEvent creates a tool started event.
func NewToolStartedEvent(sessionID, toolCallID, toolName, input string) ToolEvent {
	e := newToolEvent(ToolEventStarted, sessionID, toolCallID, toolName)
	e.Input = input
	return e
}

// NewToolCompletedEvent creates a tool completed event.
func NewToolCompletedEvent(sessionID, toolCallID, toolName, output string, duration time.Duration) ToolEvent {
	e := newToolEvent(ToolEventCompleted, sessionID, toolCallID, toolName)
	e.Output = output
	e.Duration = duration
	return e
}

// NewToolFailedEvent creates a tool failed event.
func NewToolFailedEvent(sessionID, toolCallID, toolName string, err error, duration time.Duration) ToolEvent {
	e := newToolEvent(ToolEventFailed, sessionID, toolCallID, toolName)
	e.Error = err
	e.Duration = duration
	return e
}
