package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/pubsub"
)

// Service wraps a Store with current-session tracking and pub/sub
// notifications.
type Service struct {
	store  Store
	broker pubsub.Publisher[events.SessionEvent]

	mu     sync.RWMutex
	active string // ID of the current session, may be empty
}

// NewService creates a new session service. A nil broker disables event
// publishing, which the CLI commands use to run against the store alone.
func NewService(store Store, broker pubsub.Publisher[events.SessionEvent]) *Service {
	return &Service{store: store, broker: broker}
}

// publish sends a session event unless the broker is disabled.
func (s *Service) publish(etype pubsub.EventType, ev events.SessionEvent) {
	if s.broker != nil {
		s.broker.Publish(etype, ev)
	}
}

// Create creates a new session with the given title and makes it
// current.
func (s *Service) Create(ctx context.Context, title string) (*Session, error) {
	sess, err := s.store.Create(ctx, uuid.New().String(), title)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.active = sess.ID
	s.mu.Unlock()

	s.publish(pubsub.EventCreated, events.NewSessionCreatedEvent(sess.ID, sess.Title))
	return sess, nil
}

// Get retrieves a session by ID.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// List returns all sessions.
func (s *Service) List(ctx context.Context) ([]*Session, error) {
	return s.store.List(ctx)
}

// ListWithPreview returns all sessions with first message preview.
func (s *Service) ListWithPreview(ctx context.Context) ([]*SessionWithPreview, error) {
	return s.store.ListWithPreview(ctx)
}

// Search searches sessions by title keyword.
func (s *Service) Search(ctx context.Context, keyword string) ([]*Session, error) {
	return s.store.Search(ctx, keyword)
}

// SearchWithPreview searches sessions with first message preview.
func (s *Service) SearchWithPreview(ctx context.Context, keyword string) ([]*SessionWithPreview, error) {
	return s.store.SearchWithPreview(ctx, keyword)
}

// Current returns the current session. If none is set, or the set one
// no longer exists, a fresh session is created.
func (s *Service) Current(ctx context.Context) (*Session, error) {
	if id := s.CurrentID(); id != "" {
		if sess, err := s.store.Get(ctx, id); err == nil {
			return sess, nil
		}
	}
	return s.Create(ctx, "New Session")
}

// SetCurrent sets the current session ID.
func (s *Service) SetCurrent(id string) {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()

	s.publish(pubsub.EventUpdated, events.NewSessionSwitchedEvent(id, ""))
}

// CurrentID returns the current session ID.
func (s *Service) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// UpdateTitle updates the title of a session. The updated event lets an
// open session list pick up generated titles without reopening.
func (s *Service) UpdateTitle(ctx context.Context, id, title string) error {
	if err := s.store.UpdateTitle(ctx, id, title); err != nil {
		return err
	}
	s.publish(pubsub.EventUpdated, events.NewSessionUpdatedEvent(id, title))
	return nil
}

// Delete removes a session by ID, clearing the current marker if it
// pointed at the deleted session.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if s.active == id {
		s.active = ""
	}
	s.mu.Unlock()

	s.publish(pubsub.EventDeleted, events.NewSessionDeletedEvent(id))
	return nil
}

// IncrementMessageCount increments the message count for a session.
func (s *Service) IncrementMessageCount(ctx context.Context, id string) error {
	return s.store.IncrementMessageCount(ctx, id)
}
