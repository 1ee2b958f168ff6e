package message

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a message is not found.
var ErrNotFound = errors.New("message not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed message store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create creates a new message.
func (s *SQLiteStore) Create(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}

	now := time.Now()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	msg.UpdatedAt = now

	partsJSON, err := json.Marshal(msg.Parts)
	if err != nil {
		return fmt.Errorf("marshaling parts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, role, parts, model, provider, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID,
		msg.SessionID,
		string(msg.Role),
		string(partsJSON),
		sql.NullString{String: msg.Model, Valid: msg.Model != ""},
		sql.NullString{String: msg.Provider, Valid: msg.Provider != ""},
		msg.CreatedAt.UnixMilli(),
		msg.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("creating message: %w", err)
	}

	return nil
}

// Get retrieves a message by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, role, parts, model, provider, created_at, updated_at
		FROM messages WHERE id = ?`, id)

	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting message: %w", err)
	}

	return msg, nil
}

// GetBySession returns all messages for a session.
func (s *SQLiteStore) GetBySession(ctx context.Context, sessionID string) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, parts, model, provider, created_at, updated_at
		FROM messages WHERE session_id = ?
		ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("getting session messages: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanMessages(rows)
}

// GetBySessionWithLimit returns the most recent messages for a session,
// in chronological order, capped at limit.
func (s *SQLiteStore) GetBySessionWithLimit(ctx context.Context, sessionID string, limit int) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, parts, model, provider, created_at, updated_at
		FROM (
			SELECT * FROM messages WHERE session_id = ?
			ORDER BY created_at DESC LIMIT ?
		) ORDER BY created_at ASC`, sessionID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("getting session messages with limit: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanMessages(rows)
}

// Count returns the number of messages in a session.
func (s *SQLiteStore) Count(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}

	return count, nil
}

// Update updates a message's parts.
func (s *SQLiteStore) Update(ctx context.Context, msg *Message) error {
	msg.UpdatedAt = time.Now()

	partsJSON, err := json.Marshal(msg.Parts)
	if err != nil {
		return fmt.Errorf("marshaling parts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE messages SET parts = ?, updated_at = ? WHERE id = ?`,
		string(partsJSON),
		msg.UpdatedAt.UnixMilli(),
		msg.ID,
	)
	if err != nil {
		return fmt.Errorf("updating message: %w", err)
	}

	return nil
}

// Delete removes a message by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	return nil
}

// DeleteBySession removes all messages for a session.
func (s *SQLiteStore) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting session messages: %w", err)
	}

	return nil
}

// DeleteOldMessages removes old messages keeping only the most recent ones.
func (s *SQLiteStore) DeleteOldMessages(ctx context.Context, sessionID string, keepCount int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM messages WHERE session_id = ? AND id NOT IN (
			SELECT id FROM messages WHERE session_id = ?
			ORDER BY created_at DESC LIMIT ?
		)`, sessionID, sessionID, int64(keepCount))
	if err != nil {
		return fmt.Errorf("deleting old messages: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanMessage reads a single message row into a domain message.
func scanMessage(row rowScanner) (*Message, error) {
	var (
		msg              Message
		role             string
		partsJSON        string
		model, provider  sql.NullString
		created, updated int64
	)

	err := row.Scan(&msg.ID, &msg.SessionID, &role, &partsJSON, &model, &provider, &created, &updated)
	if err != nil {
		return nil, err
	}

	var parts []Part
	if err := json.Unmarshal([]byte(partsJSON), &parts); err != nil {
		return nil, fmt.Errorf("unmarshaling parts: %w", err)
	}

	msg.Role = Role(role)
	msg.Parts = parts
	msg.Model = model.String
	msg.Provider = provider.String
	msg.CreatedAt = time.UnixMilli(created)
	msg.UpdatedAt = time.UnixMilli(updated)

	return &msg, nil
}

// scanMessages reads all message rows into domain messages.
func scanMessages(rows *sql.Rows) ([]*Message, error) {
	var msgs []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return msgs, nil
}
