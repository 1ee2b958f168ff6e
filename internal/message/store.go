package message

import (
	"context"
)

// Store persists chat messages. Implementations keep messages ordered
// by creation time within a session.
type Store interface {
	// Create inserts a new message.
	Create(ctx context.Context, msg *Message) error

	// Get retrieves a message by ID.
	Get(ctx context.Context, id string) (*Message, error)

	// GetBySession returns a session's full transcript in
	// chronological order.
	GetBySession(ctx context.Context, sessionID string) ([]*Message, error)

	// GetBySessionWithLimit returns the most recent messages for a
	// session, in chronological order, capped at limit.
	GetBySessionWithLimit(ctx context.Context, sessionID string, limit int) ([]*Message, error)

	// Count returns the number of messages in a session.
	Count(ctx context.Context, sessionID string) (int64, error)

	// Update rewrites a message's parts.
	Update(ctx context.Context, msg *Message) error

	// Delete removes a message by ID.
	Delete(ctx context.Context, id string) error

	// DeleteBySession removes a session's entire transcript.
	DeleteBySession(ctx context.Context, sessionID string) error

	// DeleteOldMessages trims a session's transcript down to its
	// keepCount most recent messages.
	DeleteOldMessages(ctx context.Context, sessionID string, keepCount int) error
}
