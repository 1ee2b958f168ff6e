package events

import (
	"time"
)

// MCPEventType represents MCP server lifecycle event types.
type MCPEventType string

// MCP event type constants.
const (
	MCPEventConnecting   MCPEventType = "connecting"
	MCPEventConnected    MCPEventType = "connected"
	MCPEventDisconnected MCPEventType = "disconnected"
	MCPEventFailed       MCPEventType = "failed"
)

// MCPEvent represents an MCP server lifecycle event.
type MCPEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	Server    string
	Type      MCPEventType
	Timestamp time.Time

	// Optional fields
	ToolCount int   // For Connected
	Error     error // For Failed
}

// NewMCPConnectingEvent creates a server connecting event.
func NewMCPConnectingEvent(server string) MCPEvent {
	return MCPEvent{
		Server:    server,
		Type:      MCPEventConnecting,
		Timestamp: time.Now(),
	}
}

// NewMCPConnectedEvent creates a server connected event.
func NewMCPConnectedEvent(server string, toolCount int) MCPEvent {
	return MCPEvent{
		Server:    server,
		Type:      MCPEventConnected,
		ToolCount: toolCount,
		Timestamp: time.Now(),
	}
}

// NewMCPDisconnectedEvent creates a server disconnected event.
func NewMCPDisconnectedEvent(server string) MCPEvent {
	return MCPEvent{
		Server:    server,
		Type:      MCPEventDisconnected,
		Timestamp: time.Now(),
	}
}

// NewMCPFailedEvent creates a server connection failed event.
func NewMCPFailedEvent(server string, err error) MCPEvent {
	return MCPEvent{
		Server:    server,
		Type:      MCPEventFailed,
		Error:     err,
		Timestamp: time.Now(),
	}
}
