package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yodaai/yoda/internal/attachment"
	"github.com/yodaai/yoda/internal/events"
	"github.com/yodaai/yoda/internal/pubsub"
)

const (
	// MaxContentSize caps a single captured attachment at 1 MiB.
	MaxContentSize = 1 << 20

	// nameLimit is the longest generated attachment name.
	nameLimit = 40
)

// Sentinel errors for capture operations.
var (
	ErrEmptyClipboard  = errors.New("clipboard is empty")
	ErrContentTooLarge = fmt.Errorf("content exceeds %d bytes", MaxContentSize)
)

// Service coordinates the capture flow: clipboard and file content becomes
// pending attachments, pending attachments are bound to outgoing messages,
// and replies can be inserted back into the clipboard.
type Service struct {
	pending     *Store
	attachments *attachment.Service
	broker      *pubsub.Broker[events.CaptureEvent]
	clip        Clipboard
}

// NewService creates a new capture service.
func NewService(pending *Store, attachments *attachment.Service, broker *pubsub.Broker[events.CaptureEvent], clip Clipboard) *Service {
	return &Service{
		pending:     pending,
		attachments: attachments,
		broker:      broker,
		clip:        clip,
	}
}

// CaptureClipboard reads the clipboard and adds its text as a pending
// attachment for the session.
func (s *Service) CaptureClipboard(sessionID string) (*attachment.Attachment, error) {
	text, err := s.clip.Read()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyClipboard
	}

	return s.addPending(sessionID, attachment.SourceClipboard, captureName(text), text)
}

// PersistClipboard reads the clipboard and writes it straight to the
// attachment store, unbound. Used by the CLI, where no running TUI
// holds pending state; the TUI picks it up through LoadPersisted.
func (s *Service) PersistClipboard(ctx context.Context, sessionID string) (*attachment.Attachment, error) {
	text, err := s.clip.Read()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyClipboard
	}
	if len(text) > MaxContentSize {
		return nil, ErrContentTooLarge
	}

	att := attachment.Attachment{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Source:    attachment.SourceClipboard,
		Name:      captureName(text),
		Content:   text,
	}
	if err := s.attachments.Create(ctx, &att); err != nil {
		return nil, err
	}

	return &att, nil
}

// AddFile reads a file and adds its content as a pending attachment.
func (s *Service) AddFile(sessionID, path string) (*attachment.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return s.addPending(sessionID, attachment.SourceFile, filepath.Base(path), string(data))
}

// AddManual adds typed text as a pending attachment.
func (s *Service) AddManual(sessionID, name, content string) (*attachment.Attachment, error) {
	if name == "" {
		name = captureName(content)
	}
	return s.addPending(sessionID, attachment.SourceManual, name, content)
}

func (s *Service) addPending(sessionID string, source attachment.Source, name, content string) (*attachment.Attachment, error) {
	if len(content) > MaxContentSize {
		return nil, ErrContentTooLarge
	}

	att := attachment.Attachment{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Source:    source,
		Name:      name,
		Content:   content,
	}
	s.pending.Add(sessionID, att)

	if s.broker != nil {
		s.broker.Publish(pubsub.EventCreated,
			events.NewCaptureAddedEvent(sessionID, att.Name, att.Size()))
	}

	return &att, nil
}

// LoadPersisted pulls attachments that were persisted outside the TUI
// (by `yoda capture`) into the pending store. Rows stay in the database
// unbound until a send attaches them to a message.
func (s *Service) LoadPersisted(ctx context.Context, sessionID string) (int, error) {
	if s.attachments == nil {
		return 0, nil
	}

	atts, err := s.attachments.ForSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, att := range atts {
		if att.MessageID != "" {
			continue
		}
		if s.pending.Has(sessionID, att.ID) {
			continue
		}
		s.pending.Add(sessionID, *att)
		n++

		if s.broker != nil {
			s.broker.Publish(pubsub.EventCreated,
				events.NewCaptureAddedEvent(sessionID, att.Name, att.Size()))
		}
	}

	return n, nil
}

// Pending returns the pending attachments for a session.
func (s *Service) Pending(sessionID string) []attachment.Attachment {
	return s.pending.List(sessionID)
}

// PendingCount returns how many attachments are pending for a session.
func (s *Service) PendingCount(sessionID string) int {
	return s.pending.Count(sessionID)
}

// Remove deletes a pending attachment by ID.
func (s *Service) Remove(sessionID, id string) bool {
	att, ok := s.pending.Remove(sessionID, id)
	if !ok {
		return false
	}

	if s.broker != nil {
		s.broker.Publish(pubsub.EventDeleted,
			events.NewCaptureRemovedEvent(sessionID, att.Name))
	}

	return true
}

// Clear removes all pending attachments for a session.
func (s *Service) Clear(sessionID string) int {
	n := s.pending.Clear(sessionID)
	if n > 0 && s.broker != nil {
		s.broker.Publish(pubsub.EventDeleted,
			events.NewCaptureClearedEvent(sessionID, n))
	}
	return n
}

// AttachPending persists the pending attachments for a session, bound to
// the given message. Returns how many were attached.
func (s *Service) AttachPending(ctx context.Context, sessionID, messageID string) (int, error) {
	pending := s.pending.Take(sessionID)
	if len(pending) == 0 {
		return 0, nil
	}

	atts := make([]*attachment.Attachment, len(pending))
	for i := range pending {
		atts[i] = &pending[i]
	}

	n, err := s.attachments.AttachBatch(ctx, sessionID, messageID, atts)
	if err != nil {
		// Restore pending so nothing is lost
		for _, att := range pending {
			s.pending.Add(sessionID, att)
		}
		return 0, err
	}

	return n, nil
}

// InsertReply writes a reply back to the clipboard.
func (s *Service) InsertReply(sessionID, text string) error {
	if err := s.clip.Write(text); err != nil {
		return err
	}

	if s.broker != nil {
		s.broker.Publish(pubsub.EventCompleted,
			events.NewCaptureInsertedEvent(sessionID, len(text)))
	}

	return nil
}

// PromptBlock renders attachments as tagged blocks for inclusion in an
// outgoing prompt.
func PromptBlock(atts []attachment.Attachment) string {
	if len(atts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, att := range atts {
		fmt.Fprintf(&b, "<attachment name=%q source=%q>\n", att.Name, string(att.Source))
		b.WriteString(att.Content)
		if !strings.HasSuffix(att.Content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("</attachment>\n")
	}
	return b.String()
}

// captureName derives a short attachment name from content: the first
// non-blank line, truncated.
func captureName(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > nameLimit {
			return string(runes[:nameLimit]) + "..."
		}
		return line
	}
	return "clipboard"
}
