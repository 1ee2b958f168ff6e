package attachment

import (
	"context"
	"errors"

	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/pubsub"
)

// Service manages persisted attachments with pub/sub event publishing.
type Service struct {
	store  Store
	broker *pubsub.Broker[events.CaptureEvent]
}

// NewService creates a new attachment service.
func NewService(store Store, broker *pubsub.Broker[events.CaptureEvent]) *Service {
	return &Service{
		store:  store,
		broker: broker,
	}
}

// AttachBatch persists a batch of attachments bound to a message.
// Attachments that were already persisted unbound (captured outside the
// TUI) are bound in place; the rest are created. Returns the number of
// attachments persisted.
func (s *Service) AttachBatch(ctx context.Context, sessionID, messageID string, atts []*Attachment) (int, error) {
	for _, att := range atts {
		att.SessionID = sessionID
		att.MessageID = messageID

		_, err := s.store.Get(ctx, att.ID)
		switch {
		case err == nil:
			if err := s.store.AttachToMessage(ctx, att.ID, messageID); err != nil {
				return 0, err
			}
		case errors.Is(err, ErrNotFound):
			if err := s.store.Create(ctx, att); err != nil {
				return 0, err
			}
		default:
			return 0, err
		}
	}

	if s.broker != nil && len(atts) > 0 {
		s.broker.Publish(pubsub.EventCompleted,
			events.NewCaptureAttachedEvent(sessionID, len(atts)))
	}

	return len(atts), nil
}

// Create persists a single attachment. With an empty MessageID the
// attachment stays unbound until a later send picks it up.
func (s *Service) Create(ctx context.Context, att *Attachment) error {
	if err := s.store.Create(ctx, att); err != nil {
		return err
	}

	if s.broker != nil {
		s.broker.Publish(pubsub.EventCreated,
			events.NewCaptureAddedEvent(att.SessionID, att.Name, att.Size()))
	}

	return nil
}

// Get retrieves an attachment by ID.
func (s *Service) Get(ctx context.Context, id string) (*Attachment, error) {
	return s.store.Get(ctx, id)
}

// ForSession returns all attachments for a session.
func (s *Service) ForSession(ctx context.Context, sessionID string) ([]*Attachment, error) {
	return s.store.GetBySession(ctx, sessionID)
}

// ForMessage returns the attachments bound to a message.
func (s *Service) ForMessage(ctx context.Context, messageID string) ([]*Attachment, error) {
	return s.store.GetByMessage(ctx, messageID)
}

// Remove deletes an attachment by ID.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Clear removes all attachments for a session.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.DeleteBySession(ctx, sessionID)
}
