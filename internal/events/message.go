package events

import "time"

// MessageEventType represents message-specific event types.
type MessageEventType string

// Message event type constants.
const (
	MessageEventCreated MessageEventType = "created"
	MessageEventUpdated MessageEventType = "updated"
	MessageEventDeleted MessageEventType = "deleted"
)

// MessageEvent represents a persisted message change.
type MessageEvent struct {
	SessionID string
	MessageID string
	Role      string
	Type      MessageEventType
	Timestamp time.Time
}

// NewMessageCreatedEvent creates a message created event.
func NewMessageCreatedEvent(sessionID, messageID, role string) MessageEvent {
	return MessageEvent{
		SessionID: sessionID,
		MessageID: messageID,
		Role:      role,
		Type:      MessageEventCreated,
		Timestamp: time.Now(),
	}
}

// NewMessageUpdatedEvent creates a message updated event.
func NewMessageUpdatedEvent(sessionID, messageID, role string) MessageEvent {
	return MessageEvent{
		SessionID: sessionID,
		MessageID: messageID,
		Role:      role,
		Type:      MessageEventUpdated,
		Timestamp: time.Now(),
	}
}

// NewMessageDeletedEvent creates a message deleted event.
func NewMessageDeletedEvent(sessionID, messageID string) MessageEvent {
	return MessageEvent{
		SessionID: sessionID,
		MessageID: messageID,
		Type:      MessageEventDeleted,
		Timestamp: time.Now(),
	}
}
