// Package session provides session management with persistence.
package session

import (
	"context"
	"time"
)

// Session is one conversation thread.
type Session struct {
	ID           string
	Title        string
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionWithPreview pairs a session with an excerpt of its first
// user message, for list and picker views.
//
//nolint:revive // Name is clear and used across packages
type SessionWithPreview struct {
	Session
	FirstMessage string
}

// Store persists sessions. Listing is always newest-first by last
// update.
type Store interface {
	// Create inserts a session with the given id and title.
	Create(ctx context.Context, id, title string) (*Session, error)

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*Session, error)

	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]*Session, error)

	// ListWithPreview is List plus a first-message excerpt per session.
	ListWithPreview(ctx context.Context) ([]*SessionWithPreview, error)

	// Search matches sessions whose title contains the keyword.
	Search(ctx context.Context, keyword string) ([]*Session, error)

	// SearchWithPreview is Search plus a first-message excerpt per
	// session.
	SearchWithPreview(ctx context.Context, keyword string) ([]*SessionWithPreview, error)

	// UpdateTitle renames a session.
	UpdateTitle(ctx context.Context, id, title string) error

	// IncrementMessageCount bumps a session's message counter.
	IncrementMessageCount(ctx context.Context, id string) error

	// DecrementMessageCount lowers a session's message counter.
	DecrementMessageCount(ctx context.Context, id string) error

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error
}
