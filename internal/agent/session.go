package agent

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxSessionMessages bounds the in-memory history kept per session.
// Older messages fall off the cache; the database keeps the full
// transcript.
const MaxSessionMessages = 100

// Session represents a conversation session.
type Session struct {
	ID        string
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionStore is the in-memory Sessions implementation. It backs the
// agent when no persistent store is wired in, so everything here is
// lost when the process exits.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	current  string
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// mutate runs fn on the named session under the write lock and bumps
// UpdatedAt. It reports whether the session exists.
func (s *SessionStore) mutate(id string, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	fn(sess)
	sess.UpdatedAt = time.Now()
	return true
}

// Create creates a new session and makes it current.
func (s *SessionStore) Create(title string) *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.current = sess.ID
	s.mu.Unlock()

	return sess
}

// Get returns a session by ID.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	return sess, ok
}

// Current returns the current session, creating one if none exists.
func (s *SessionStore) Current() *Session {
	s.mu.RLock()
	sess, ok := s.sessions[s.current]
	s.mu.RUnlock()
	if ok {
		return sess
	}
	return s.Create("New Session")
}

// SetCurrent marks an existing session as current.
func (s *SessionStore) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	s.current = id
	return true
}

// List returns all sessions, most recently updated first.
func (s *SessionStore) List() []*Session {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Delete removes a session. Deleting the current session leaves the
// store without a current one; the next Current call creates a fresh
// session.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	if s.current == id {
		s.current = ""
	}
	return true
}

// AddMessage appends a message to a session, filling in ID and
// CreatedAt when absent. History beyond MaxSessionMessages is trimmed
// from the front.
func (s *SessionStore) AddMessage(sessionID string, msg Message) bool {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	return s.mutate(sessionID, func(sess *Session) {
		sess.Messages = append(sess.Messages, msg)
		if n := len(sess.Messages); n > MaxSessionMessages {
			sess.Messages = sess.Messages[n-MaxSessionMessages:]
		}
	})
}

// GetMessages returns a copy of a session's messages, or nil when the
// session does not exist.
func (s *SessionStore) GetMessages(sessionID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]Message, len(sess.Messages))
	copy(out, sess.Messages)
	return out
}

// ClearMessages drops all messages from a session.
func (s *SessionStore) ClearMessages(sessionID string) bool {
	return s.mutate(sessionID, func(sess *Session) {
		sess.Messages = sess.Messages[:0]
	})
}

// UpdateTitle renames a session.
func (s *SessionStore) UpdateTitle(sessionID, title string) bool {
	return s.mutate(sessionID, func(sess *Session) {
		sess.Title = title
	})
}
