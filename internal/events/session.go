package events

import "time"

// SessionEventType represents session-specific event types.
type SessionEventType string

// Session event type constants. These mirror what the session service
// publishes: lifecycle changes plus the current-session switch.
const (
	SessionEventCreated  SessionEventType = "created"
	SessionEventUpdated  SessionEventType = "updated"
	SessionEventSwitched SessionEventType = "switched"
	SessionEventDeleted  SessionEventType = "deleted"
)

// SessionEvent represents a session lifecycle event. Title is empty for
// deletes and switches where the caller only knows the ID.
type SessionEvent struct {
	SessionID string
	Title     string
	Type      SessionEventType
	Timestamp time.Time
}

func newSessionEvent(typ SessionEventType, id, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      typ,
		Timestamp: time.Now(),
	}
}

// NewSessionCreatedEvent creates a session created event.
func NewSessionCreatedEvent(id, title string) SessionEvent {
	return newSessionEvent(SessionEventCreated, id, title)
}

// NewSessionUpdatedEvent creates a session updated event. Published on
// title changes so open session lists can refresh in place.
func NewSessionUpdatedEvent(id, title string) SessionEvent {
	return newSessionEvent(SessionEventUpdated, id, title)
}

// NewSessionSwitchedEvent creates a session switched event.
func NewSessionSwitchedEvent(id, title string) SessionEvent {
	return newSessionEvent(SessionEventSwitched, id, title)
}

// NewSessionDeletedEvent creates a session deleted event.
func NewSessionDeletedEvent(id string) SessionEvent {
	return newSessionEvent(SessionEventDeleted, id, "")
}
