package events

import "time"

// CaptureEventType represents capture-specific event types.
type CaptureEventType string

// Capture event type constants.
const (
	CaptureEventAdded    CaptureEventType = "added"
	CaptureEventRemoved  CaptureEventType = "removed"
	CaptureEventCleared  CaptureEventType = "cleared"
	CaptureEventAttached CaptureEventType = "attached"
	CaptureEventInserted CaptureEventType = "inserted"
)

// CaptureEvent represents a change to captured context: pending
// attachments added or removed, a batch attached to an outgoing
// message, or a reply inserted back into the clipboard.
type CaptureEvent struct {
	SessionID string
	Type      CaptureEventType
	Timestamp time.Time

	// Optional fields
	Name  string // For Added/Removed
	Size  int    // For Added (content length in bytes)
	Count int    // For Cleared/Attached
}

// NewCaptureAddedEvent creates a pending attachment added event.
func NewCaptureAddedEvent(sessionID, name string, size int) CaptureEvent {
	return CaptureEvent{
		SessionID: sessionID,
		Type:      CaptureEventAdded,
		Name:      name,
		Size:      size,
		Timestamp: time.Now(),
	}
}

// NewCaptureRemovedEvent creates a pending attachment removed event.
func NewCaptureRemovedEvent(sessionID, name string) CaptureEvent {
	return CaptureEvent{
		SessionID: sessionID,
		Type:      CaptureEventRemoved,
		Name:      name,
		Timestamp: time.Now(),
	}
}

// NewCaptureClearedEvent creates a pending attachments cleared event.
func NewCaptureClearedEvent(sessionID string, count int) CaptureEvent {
	return CaptureEvent{
		SessionID: sessionID,
		Type:      CaptureEventCleared,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// NewCaptureAttachedEvent creates an attachments bound to message event.
func NewCaptureAttachedEvent(sessionID string, count int) CaptureEvent {
	return CaptureEvent{
		SessionID: sessionID,
		Type:      CaptureEventAttached,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// NewCaptureInsertedEvent creates a reply inserted to clipboard event.
func NewCaptureInsertedEvent(sessionID string, size int) CaptureEvent {
	return CaptureEvent{
		SessionID: sessionID,
		Type:      CaptureEventInserted,
		Size:      size,
		Timestamp: time.Now(),
	}
}
