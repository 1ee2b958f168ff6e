package agent

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yodaai/yoda/internal/message"
	"github.com/yodaai/yoda/internal/session"
)

// PersistentSessionStore implements Sessions on top of the session and
// message services. A small write-through cache keeps the active
// sessions' transcripts in memory so the agent loop never blocks on
// the database for reads.
type PersistentSessionStore struct {
	sessionSvc *session.Service
	messageSvc *message.Service

	mu    sync.RWMutex
	cache map[string]*Session
}

// NewPersistentSessionStore creates a new database-backed session store.
func NewPersistentSessionStore(ss *session.Service, ms *message.Service) *PersistentSessionStore {
	return &PersistentSessionStore{
		sessionSvc: ss,
		messageSvc: ms,
		cache:      make(map[string]*Session),
	}
}

func (s *PersistentSessionStore) cached(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.cache[id]
	return sess, ok
}

// adopt converts a stored session into an agent session and caches it.
func (s *PersistentSessionStore) adopt(stored *session.Session, msgs []Message) *Session {
	if msgs == nil {
		msgs = []Message{}
	}
	sess := &Session{
		ID:        stored.ID,
		Title:     stored.Title,
		Messages:  msgs,
		CreatedAt: stored.CreatedAt,
		UpdatedAt: stored.UpdatedAt,
	}

	s.mu.Lock()
	s.cache[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Create creates a new session. When the database is unavailable the
// session lives in memory only.
func (s *PersistentSessionStore) Create(title string) *Session {
	stored, err := s.sessionSvc.Create(context.Background(), title)
	if err != nil {
		return s.createInMemory(title)
	}
	return s.adopt(stored, nil)
}

// Get returns a session by ID, loading it and its transcript from the
// database on a cache miss.
func (s *PersistentSessionStore) Get(id string) (*Session, bool) {
	if sess, ok := s.cached(id); ok {
		return sess, true
	}

	ctx := context.Background()
	stored, err := s.sessionSvc.Get(ctx, id)
	if err != nil {
		return nil, false
	}

	msgs, err := s.messageSvc.GetContext(ctx, id)
	if err != nil {
		msgs = nil
	}
	return s.adopt(stored, fromStoredMessages(msgs)), true
}

// Current returns the current session, creating a new one if none is
// set. On startup the newest session is resumed while it is still empty
// (captures staged from the CLI live there); otherwise a fresh session
// is created. Use SetCurrent() to resume a previous session (e.g., via
// the /sessions modal).
func (s *PersistentSessionStore) Current() *Session {
	ctx := context.Background()

	if id := s.sessionSvc.CurrentID(); id != "" {
		if sess, ok := s.Get(id); ok {
			return sess
		}
	}

	// Resume the newest session while it has no messages yet.
	if recent, err := s.sessionSvc.List(ctx); err == nil && len(recent) > 0 && recent[0].MessageCount == 0 {
		if sess, ok := s.Get(recent[0].ID); ok {
			s.sessionSvc.SetCurrent(sess.ID)
			return sess
		}
	}

	stored, err := s.sessionSvc.Create(ctx, "New Session")
	if err != nil {
		return s.createInMemory("New Session")
	}
	return s.adopt(stored, nil)
}

// SetCurrent sets the current session.
func (s *PersistentSessionStore) SetCurrent(id string) bool {
	if _, ok := s.Get(id); !ok {
		return false
	}
	s.sessionSvc.SetCurrent(id)
	return true
}

// List returns all sessions without their transcripts.
func (s *PersistentSessionStore) List() []*Session {
	stored, err := s.sessionSvc.List(context.Background())
	if err != nil {
		return nil
	}

	out := make([]*Session, len(stored))
	for i, sess := range stored {
		out[i] = &Session{
			ID:        sess.ID,
			Title:     sess.Title,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		}
	}
	return out
}

// Delete removes a session.
func (s *PersistentSessionStore) Delete(id string) bool {
	if err := s.sessionSvc.Delete(context.Background(), id); err != nil {
		return false
	}

	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
	return true
}

// AddMessage persists a message and updates the cached transcript.
func (s *PersistentSessionStore) AddMessage(sessionID string, msg Message) bool {
	ctx := context.Background()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	stored := &message.Message{
		ID:        msg.ID,
		SessionID: sessionID,
		Role:      message.Role(msg.Role),
		Parts:     toStoredParts(msg),
		CreatedAt: msg.CreatedAt,
	}
	if err := s.messageSvc.Add(ctx, stored); err != nil {
		return false
	}

	_ = s.sessionSvc.IncrementMessageCount(ctx, sessionID)

	// Trim the stored transcript once it grows past the threshold.
	if should, err := s.messageSvc.ShouldTrim(ctx, sessionID); err == nil && should {
		_ = s.messageSvc.TrimOldMessages(ctx, sessionID, message.MessagesToKeep)
	}

	s.mu.Lock()
	if sess, ok := s.cache[sessionID]; ok {
		sess.Messages = append(sess.Messages, msg)
		sess.UpdatedAt = time.Now()
		if n := len(sess.Messages); n > MaxSessionMessages {
			sess.Messages = sess.Messages[n-MaxSessionMessages:]
		}
	}
	s.mu.Unlock()
	return true
}

// GetMessages returns all messages for a session.
func (s *PersistentSessionStore) GetMessages(sessionID string) []Message {
	if sess, ok := s.cached(sessionID); ok {
		s.mu.RLock()
		out := make([]Message, len(sess.Messages))
		copy(out, sess.Messages)
		s.mu.RUnlock()
		return out
	}

	stored, err := s.messageSvc.GetContext(context.Background(), sessionID)
	if err != nil {
		return nil
	}
	return fromStoredMessages(stored)
}

// ClearMessages clears all messages from a session.
func (s *PersistentSessionStore) ClearMessages(sessionID string) bool {
	if err := s.messageSvc.Clear(context.Background(), sessionID); err != nil {
		return false
	}

	s.mu.Lock()
	if sess, ok := s.cache[sessionID]; ok {
		sess.Messages = []Message{}
		sess.UpdatedAt = time.Now()
	}
	s.mu.Unlock()
	return true
}

// UpdateTitle updates a session's title.
func (s *PersistentSessionStore) UpdateTitle(sessionID, title string) bool {
	if err := s.sessionSvc.UpdateTitle(context.Background(), sessionID, title); err != nil {
		return false
	}

	s.mu.Lock()
	if sess, ok := s.cache[sessionID]; ok {
		sess.Title = title
		sess.UpdatedAt = time.Now()
	}
	s.mu.Unlock()
	return true
}

// createInMemory is the degraded path when the database rejects a
// write: the session exists only in the cache.
func (s *PersistentSessionStore) createInMemory(title string) *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.cache[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// fromStoredMessages flattens stored messages into agent messages.
func fromStoredMessages(stored []*message.Message) []Message {
	out := make([]Message, len(stored))
	for i, m := range stored {
		out[i] = Message{
			ID:        m.ID,
			Role:      Role(m.Role),
			Content:   m.TextContent(),
			Reasoning: m.ReasoningContent(),
			CreatedAt: m.CreatedAt,
		}
		for _, tc := range m.ToolCalls() {
			out[i].ToolCalls = append(out[i].ToolCalls, ToolCall{
				ID:    tc.ID,
				Name:  tc.Name,
				Input: tc.Input,
			})
		}
		for _, tr := range m.ToolResults() {
			out[i].ToolResults = append(out[i].ToolResults, ToolResult{
				ToolCallID: tr.ToolCallID,
				Name:       tr.Name,
				Content:    tr.Content,
				IsError:    tr.IsError,
			})
		}
	}
	return out
}

// toStoredParts splits an agent message into its stored parts.
func toStoredParts(msg Message) []message.Part {
	var parts []message.Part
	if msg.Content != "" {
		parts = append(parts, message.NewTextPart(msg.Content))
	}
	if msg.Reasoning != "" {
		parts = append(parts, message.NewReasoningPart(msg.Reasoning))
	}
	for _, tc := range msg.ToolCalls {
		parts = append(parts, message.NewToolCallPart(tc.ID, tc.Name, tc.Input))
	}
	for _, tr := range msg.ToolResults {
		parts = append(parts, message.NewToolResultPart(tr.ToolCallID, tr.Name, tr.Content, tr.IsError))
	}
	return parts
}
