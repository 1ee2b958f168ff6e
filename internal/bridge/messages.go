// Package bridge provides the connection between the pub/sub system and Bubble Tea.
package bridge

import (
	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/pubsub"
)

// AgentEventMsg wraps an agent event for the TUI.
type AgentEventMsg struct {
	Event pubsub.Event[events.AgentEvent]
}

// ToolEventMsg wraps a tool event for the TUI.
type ToolEventMsg struct {
	Event pubsub.Event[events.ToolEvent]
}

// SessionEventMsg wraps a session event for the TUI.
type SessionEventMsg struct {
	Event pubsub.Event[events.SessionEvent]
}

// MessageEventMsg wraps a message lifecycle event for the TUI.
type MessageEventMsg struct {
	Event pubsub.Event[events.MessageEvent]
}

// MCPEventMsg wraps an MCP server lifecycle event for the TUI.
type MCPEventMsg struct {
	Event pubsub.Event[events.MCPEvent]
}

// CaptureEventMsg wraps a capture event for the TUI.
type CaptureEventMsg struct {
	Event pubsub.Event[events.CaptureEvent]
}

// ErrorMsg indicates an error in the bridge.
type ErrorMsg struct { //nolint:govet // fieldalignment: preserving logical field order
	Source string
	Error  error
}
