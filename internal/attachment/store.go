// Package attachment provides persistence for captured context attachments.
package attachment

import (
	"context"
	"time"
)

// Source identifies where an attachment's content came from.
type Source string

// Source constants.
const (
	SourceClipboard Source = "clipboard"
	SourceFile      Source = "file"
	SourceManual    Source = "manual"
)

// Attachment represents a piece of captured context bound to a session
// and, once sent, to the message it was attached to.
type Attachment struct {
	ID        string
	SessionID string
	MessageID string // empty until attached to a message
	Source    Source
	Name      string
	Content   string
	CreatedAt time.Time
}

// Size returns the content length in bytes.
func (a *Attachment) Size() int {
	return len(a.Content)
}

// Store defines the interface for attachment persistence.
type Store interface {
	// Create creates a new attachment.
	Create(ctx context.Context, att *Attachment) error

	// Get retrieves an attachment by ID.
	Get(ctx context.Context, id string) (*Attachment, error)

	// GetBySession returns all attachments for a session ordered by created_at.
	GetBySession(ctx context.Context, sessionID string) ([]*Attachment, error)

	// GetByMessage returns the attachments bound to a message.
	GetByMessage(ctx context.Context, messageID string) ([]*Attachment, error)

	// AttachToMessage binds an attachment to a message.
	AttachToMessage(ctx context.Context, id, messageID string) error

	// Delete removes an attachment by ID.
	Delete(ctx context.Context, id string) error

	// DeleteBySession removes all attachments for a session.
	DeleteBySession(ctx context.Context, sessionID string) error
}
