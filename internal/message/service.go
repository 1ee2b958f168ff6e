package message

import (
	"context"

	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/pubsub"
)

const (
	// MaxMessages is the threshold before we consider context too large.
	MaxMessages = 100

	// MessagesToKeep is how many recent messages to keep after trimming.
	MessagesToKeep = 50
)

// Service manages messages with pub/sub event publishing.
type Service struct {
	store  Store
	broker *pubsub.Broker[events.MessageEvent]
}

// NewService creates a new message service.
func NewService(store Store, broker *pubsub.Broker[events.MessageEvent]) *Service {
	return &Service{
		store:  store,
		broker: broker,
	}
}

// Add creates a new message.
func (s *Service) Add(ctx context.Context, msg *Message) error {
	if err := s.store.Create(ctx, msg); err != nil {
		return err
	}

	// Publish event
	if s.broker != nil {
		s.broker.Publish(pubsub.EventCreated,
			events.NewMessageCreatedEvent(msg.SessionID, msg.ID, string(msg.Role)))
	}

	return nil
}

// Get retrieves a message by ID.
func (s *Service) Get(ctx context.Context, id string) (*Message, error) {
	return s.store.Get(ctx, id)
}

// GetBySession returns all messages for a session.
func (s *Service) GetBySession(ctx context.Context, sessionID string) ([]*Message, error) {
	return s.store.GetBySession(ctx, sessionID)
}

// GetContext returns the most recent messages suitable for LLM context,
// capped at MaxMessages.
func (s *Service) GetContext(ctx context.Context, sessionID string) ([]*Message, error) {
	return s.store.GetBySessionWithLimit(ctx, sessionID, MaxMessages)
}

// Update updates a message's parts.
func (s *Service) Update(ctx context.Context, msg *Message) error {
	if err := s.store.Update(ctx, msg); err != nil {
		return err
	}

	if s.broker != nil {
		s.broker.Publish(pubsub.EventUpdated,
			events.NewMessageUpdatedEvent(msg.SessionID, msg.ID, string(msg.Role)))
	}

	return nil
}

// Clear removes all messages from a session.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	err := s.store.DeleteBySession(ctx, sessionID)
	if err != nil {
		return err
	}

	if s.broker != nil {
		s.broker.Publish(pubsub.EventDeleted,
			events.NewMessageDeletedEvent(sessionID, ""))
	}

	return nil
}

// Count returns the number of messages in a session.
func (s *Service) Count(ctx context.Context, sessionID string) (int64, error) {
	return s.store.Count(ctx, sessionID)
}

// Delete removes a message by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	msg, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if s.broker != nil {
		s.broker.Publish(pubsub.EventDeleted,
			events.NewMessageDeletedEvent(msg.SessionID, id))
	}

	return nil
}

// TrimOldMessages removes old messages keeping only the most recent ones.
func (s *Service) TrimOldMessages(ctx context.Context, sessionID string, keepCount int) error {
	return s.store.DeleteOldMessages(ctx, sessionID, keepCount)
}

// ShouldTrim returns true if the session has grown past MaxMessages.
func (s *Service) ShouldTrim(ctx context.Context, sessionID string) (bool, error) {
	count, err := s.store.Count(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return count > MaxMessages, nil
}
