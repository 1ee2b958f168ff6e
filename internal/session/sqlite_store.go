package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a session is not found.
var ErrNotFound = errors.New("session not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed session store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create creates a new session with the given ID and title.
func (s *SQLiteStore) Create(ctx context.Context, id, title string) (*Session, error) {
	now := time.Now().UnixMilli()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)`, id, title, now, now)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{
		ID:        id,
		Title:     title,
		CreatedAt: time.UnixMilli(now),
		UpdatedAt: time.UnixMilli(now),
	}, nil
}

// Get retrieves a session by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, message_count, created_at, updated_at
		FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}

	return sess, nil
}

// List returns all sessions ordered by updated_at descending.
func (s *SQLiteStore) List(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, message_count, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanSessions(rows)
}

// UpdateTitle updates the title of a session.
func (s *SQLiteStore) UpdateTitle(ctx context.Context, id, title string) error {
	now := time.Now().UnixMilli()

	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?`,
		title, now, id)
	if err != nil {
		return fmt.Errorf("updating session title: %w", err)
	}

	return nil
}

// IncrementMessageCount increments the message count for a session.
func (s *SQLiteStore) IncrementMessageCount(ctx context.Context, id string) error {
	now := time.Now().UnixMilli()

	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET message_count = message_count + 1, updated_at = ?
		WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("incrementing message count: %w", err)
	}

	return nil
}

// DecrementMessageCount decrements the message count for a session.
func (s *SQLiteStore) DecrementMessageCount(ctx context.Context, id string) error {
	now := time.Now().UnixMilli()

	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET message_count = MAX(message_count - 1, 0), updated_at = ?
		WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("decrementing message count: %w", err)
	}

	return nil
}

// Delete removes a session by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}

// previewQuery selects sessions along with the parts of the first user
// message in each, newest session first.
const previewQuery = `
	SELECT s.id, s.title, s.message_count, s.created_at, s.updated_at,
		(SELECT m.parts FROM messages m
		 WHERE m.session_id = s.id AND m.role = 'user'
		 ORDER BY m.created_at ASC LIMIT 1) AS first_message
	FROM sessions s`

// ListWithPreview returns all sessions with first message preview.
func (s *SQLiteStore) ListWithPreview(ctx context.Context) ([]*SessionWithPreview, error) {
	rows, err := s.db.QueryContext(ctx, previewQuery+` ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions with preview: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanSessionsWithPreview(rows)
}

// Search searches sessions by title keyword.
// Supports multi-word search: "bug auth" matches "Authentication Bug Fix".
func (s *SQLiteStore) Search(ctx context.Context, keyword string) ([]*Session, error) {
	searchTerm := prepareSearchTerm(keyword)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, message_count, created_at, updated_at
		FROM sessions WHERE title LIKE '%' || ? || '%'
		ORDER BY updated_at DESC`, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("searching sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanSessions(rows)
}

// SearchWithPreview searches sessions by title with first message preview.
// Supports multi-word search: "bug auth" matches "Authentication Bug Fix".
func (s *SQLiteStore) SearchWithPreview(ctx context.Context, keyword string) ([]*SessionWithPreview, error) {
	searchTerm := prepareSearchTerm(keyword)
	rows, err := s.db.QueryContext(ctx,
		previewQuery+` WHERE s.title LIKE '%' || ? || '%' ORDER BY s.updated_at DESC`,
		searchTerm)
	if err != nil {
		return nil, fmt.Errorf("searching sessions with preview: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanSessionsWithPreview(rows)
}

// prepareSearchTerm converts a search keyword for multi-word matching.
// "bug auth" becomes "bug%auth" to match titles containing both words.
func prepareSearchTerm(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return ""
	}
	parts := strings.Fields(keyword)
	return strings.Join(parts, "%")
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession reads a single session row into a domain session.
func scanSession(row rowScanner) (*Session, error) {
	var (
		sess             Session
		count            int64
		created, updated int64
	)

	err := row.Scan(&sess.ID, &sess.Title, &count, &created, &updated)
	if err != nil {
		return nil, err
	}

	sess.MessageCount = int(count)
	sess.CreatedAt = time.UnixMilli(created)
	sess.UpdatedAt = time.UnixMilli(updated)

	return &sess, nil
}

// scanSessions reads all session rows into domain sessions.
func scanSessions(rows *sql.Rows) ([]*Session, error) {
	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// scanSessionsWithPreview reads session rows carrying a first message column.
func scanSessionsWithPreview(rows *sql.Rows) ([]*SessionWithPreview, error) {
	var sessions []*SessionWithPreview
	for rows.Next() {
		var (
			sess             Session
			count            int64
			created, updated int64
			firstParts       sql.NullString
		)

		err := rows.Scan(&sess.ID, &sess.Title, &count, &created, &updated, &firstParts)
		if err != nil {
			return nil, fmt.Errorf("scanning session with preview: %w", err)
		}

		sess.MessageCount = int(count)
		sess.CreatedAt = time.UnixMilli(created)
		sess.UpdatedAt = time.UnixMilli(updated)

		sessions = append(sessions, &SessionWithPreview{
			Session:      sess,
			FirstMessage: extractTextFromParts(firstParts.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions with preview: %w", err)
	}
	return sessions, nil
}

// extractTextFromParts extracts text content from JSON parts array.
func extractTextFromParts(partsJSON string) string {
	if partsJSON == "" {
		return ""
	}

	// Format: [{"type":"text","text":"..."}]
	type part struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	var parts []part
	if err := json.Unmarshal([]byte(partsJSON), &parts); err != nil {
		return ""
	}
	for _, p := range parts {
		if p.Type == "text" && p.Text != "" {
			return p.Text
		}
	}
	return ""
}
