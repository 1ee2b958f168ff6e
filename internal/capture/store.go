package capture

import (
	"sync"

	"github.com/yodaai/yoda/internal/attachment"
)

// Store manages pending attachments per session with thread-safe access.
// Pending attachments live in memory until they are bound to a message.
type Store struct {
	mu      sync.RWMutex
	pending map[string][]attachment.Attachment // sessionID -> pending
}

// NewStore creates a new pending attachment store.
func NewStore() *Store {
	return &Store{
		pending: make(map[string][]attachment.Attachment),
	}
}

// Add appends a pending attachment for a session.
func (s *Store) Add(sessionID string, att attachment.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[sessionID] = append(s.pending[sessionID], att)
}

// List returns a copy of the pending attachments for a session.
// Returns nil if nothing is pending.
func (s *Store) List(sessionID string) []attachment.Attachment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending, ok := s.pending[sessionID]
	if !ok || len(pending) == 0 {
		return nil
	}

	// Return a copy to prevent external modification
	result := make([]attachment.Attachment, len(pending))
	copy(result, pending)
	return result
}

// Remove deletes a pending attachment by ID.
// Returns the removed attachment, or false if not found.
func (s *Store) Remove(sessionID, id string) (attachment.Attachment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pending[sessionID]
	for i, att := range pending {
		if att.ID == id {
			s.pending[sessionID] = append(pending[:i:i], pending[i+1:]...)
			if len(s.pending[sessionID]) == 0 {
				delete(s.pending, sessionID)
			}
			return att, true
		}
	}
	return attachment.Attachment{}, false
}

// Take returns the pending attachments for a session and clears them.
func (s *Store) Take(sessionID string) []attachment.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pending[sessionID]
	if len(pending) == 0 {
		return nil
	}
	delete(s.pending, sessionID)
	return pending
}

// Clear removes all pending attachments for a session.
// Returns how many were removed.
func (s *Store) Clear(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.pending[sessionID])
	delete(s.pending, sessionID)
	return n
}

// Count returns the number of pending attachments for a session.
func (s *Store) Count(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.pending[sessionID])
}

// HasPending returns true if the session has pending attachments.
func (s *Store) HasPending(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending, ok := s.pending[sessionID]
	return ok && len(pending) > 0
}

// Has returns true if the session already has a pending attachment
// with the given ID.
func (s *Store) Has(sessionID, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, att := range s.pending[sessionID] {
		if att.ID == id {
			return true
		}
	}
	return false
}
