package attachment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an attachment is not found.
var ErrNotFound = errors.New("attachment not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed attachment store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create creates a new attachment.
func (s *SQLiteStore) Create(ctx context.Context, att *Attachment) error {
	if att.ID == "" {
		att.ID = uuid.New().String()
	}
	if att.CreatedAt.IsZero() {
		att.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments (id, session_id, message_id, source, name, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		att.ID,
		att.SessionID,
		sql.NullString{String: att.MessageID, Valid: att.MessageID != ""},
		string(att.Source),
		att.Name,
		att.Content,
		att.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("creating attachment: %w", err)
	}

	return nil
}

// Get retrieves an attachment by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Attachment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, message_id, source, name, content, created_at
		FROM attachments WHERE id = ?`, id)

	att, err := scanAttachment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting attachment: %w", err)
	}

	return att, nil
}

// GetBySession returns all attachments for a session ordered by created_at.
func (s *SQLiteStore) GetBySession(ctx context.Context, sessionID string) ([]*Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, message_id, source, name, content, created_at
		FROM attachments WHERE session_id = ?
		ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("getting session attachments: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanAttachments(rows)
}

// GetByMessage returns the attachments bound to a message.
func (s *SQLiteStore) GetByMessage(ctx context.Context, messageID string) ([]*Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, message_id, source, name, content, created_at
		FROM attachments WHERE message_id = ?
		ORDER BY created_at ASC`, messageID)
	if err != nil {
		return nil, fmt.Errorf("getting message attachments: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	return scanAttachments(rows)
}

// AttachToMessage binds an attachment to a message.
func (s *SQLiteStore) AttachToMessage(ctx context.Context, id, messageID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE attachments SET message_id = ? WHERE id = ?`, messageID, id)
	if err != nil {
		return fmt.Errorf("attaching to message: %w", err)
	}

	return nil
}

// Delete removes an attachment by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}

	return nil
}

// DeleteBySession removes all attachments for a session.
func (s *SQLiteStore) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM attachments WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting session attachments: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAttachment reads a single attachment row into a domain attachment.
func scanAttachment(row rowScanner) (*Attachment, error) {
	var (
		att       Attachment
		messageID sql.NullString
		source    string
		created   int64
	)

	err := row.Scan(&att.ID, &att.SessionID, &messageID, &source, &att.Name, &att.Content, &created)
	if err != nil {
		return nil, err
	}

	att.MessageID = messageID.String
	att.Source = Source(source)
	att.CreatedAt = time.UnixMilli(created)

	return &att, nil
}

// scanAttachments reads all attachment rows into domain attachments.
func scanAttachments(rows *sql.Rows) ([]*Attachment, error) {
	var atts []*Attachment
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		atts = append(atts, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachments: %w", err)
	}
	return atts, nil
}
