package attachment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yodaai/yoda/internal/db"
)

// setupTestDB creates an in-memory database for testing.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	tmpDir := t.TempDir()
	database, err := db.Open(tmpDir + "/test.db")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // Intentionally ignoring close error in test cleanup

	return database
}

// createTestSession creates a session for attachment tests.
func createTestSession(t *testing.T, database *db.DB, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := database.ExecContext(ctx,
		"INSERT INTO sessions (id, title, created_at, updated_at) VALUES (?, 'Test', ?, ?)",
		id, time.Now().UnixMilli(), time.Now().UnixMilli())
	if err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
}

// createTestMessage creates a message for attachment tests.
func createTestMessage(t *testing.T, database *db.DB, id, sessionID string) {
	t.Helper()
	ctx := context.Background()
	_, err := database.ExecContext(ctx,
		"INSERT INTO messages (id, session_id, role, parts, created_at, updated_at) VALUES (?, ?, 'user', '[]', ?, ?)",
		id, sessionID, time.Now().UnixMilli(), time.Now().UnixMilli())
	if err != nil {
		t.Fatalf("failed to create test message: %v", err)
	}
}

func TestSQLiteStore_Create(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	ctx := context.Background()
	createTestSession(t, database, "sess-1")

	t.Run("creates attachment with all fields", func(t *testing.T) {
		att := &Attachment{
			ID:        "att-1",
			SessionID: "sess-1",
			Source:    SourceClipboard,
			Name:      "clipboard",
			Content:   "copied text",
		}

		err := store.Create(ctx, att)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if att.CreatedAt.IsZero() {
			t.Error("CreatedAt should not be zero")
		}
	})

	t.Run("generates ID if empty", func(t *testing.T) {
		att := &Attachment{
			SessionID: "sess-1",
			Source:    SourceManual,
			Name:      "note",
			Content:   "typed text",
		}

		err := store.Create(ctx, att)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if att.ID == "" {
			t.Error("ID should be generated")
		}
	})
}

func TestSQLiteStore_Get(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	ctx := context.Background()
	createTestSession(t, database, "sess-1")

	t.Run("returns existing attachment", func(t *testing.T) {
		original := &Attachment{
			ID:        "get-test",
			SessionID: "sess-1",
			Source:    SourceFile,
			Name:      "notes.md",
			Content:   "# Notes",
		}
		if err := store.Create(ctx, original); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		att, err := store.Get(ctx, "get-test")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		if att.Source != SourceFile {
			t.Errorf("Source = %q, want %q", att.Source, SourceFile)
		}
		if att.Name != "notes.md" {
			t.Errorf("Name = %q, want %q", att.Name, "notes.md")
		}
		if att.Content != "# Notes" {
			t.Errorf("Content = %q, want %q", att.Content, "# Notes")
		}
		if att.MessageID != "" {
			t.Errorf("MessageID = %q, want empty", att.MessageID)
		}
	})

	t.Run("returns ErrNotFound for missing attachment", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStore_GetBySession(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	ctx := context.Background()
	createTestSession(t, database, "sess-1")
	createTestSession(t, database, "sess-2")

	base := time.Now()
	for i, att := range []*Attachment{
		{ID: "a1", SessionID: "sess-1", Source: SourceClipboard, Name: "first", Content: "1"},
		{ID: "a2", SessionID: "sess-1", Source: SourceClipboard, Name: "second", Content: "2"},
		{ID: "a3", SessionID: "sess-2", Source: SourceClipboard, Name: "other", Content: "3"},
	} {
		att.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := store.Create(ctx, att); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	atts, err := store.GetBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetBySession() error = %v", err)
	}

	if len(atts) != 2 {
		t.Fatalf("GetBySession() returned %d attachments, want 2", len(atts))
	}
	if atts[0].ID != "a1" || atts[1].ID != "a2" {
		t.Errorf("order = [%q, %q], want [a1, a2]", atts[0].ID, atts[1].ID)
	}
}

func TestSQLiteStore_AttachToMessage(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	ctx := context.Background()
	createTestSession(t, database, "sess-1")
	createTestMessage(t, database, "msg-1", "sess-1")

	att := &Attachment{ID: "att-1", SessionID: "sess-1", Source: SourceClipboard, Name: "clip", Content: "text"}
	if err := store.Create(ctx, att); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := store.AttachToMessage(ctx, "att-1", "msg-1")
	if err != nil {
		t.Fatalf("AttachToMessage() error = %v", err)
	}

	atts, err := store.GetByMessage(ctx, "msg-1")
	if err != nil {
		t.Fatalf("GetByMessage() error = %v", err)
	}
	if len(atts) != 1 {
		t.Fatalf("GetByMessage() returned %d attachments, want 1", len(atts))
	}
	if atts[0].MessageID != "msg-1" {
		t.Errorf("MessageID = %q, want %q", atts[0].MessageID, "msg-1")
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	ctx := context.Background()
	createTestSession(t, database, "sess-1")

	att := &Attachment{ID: "del-test", SessionID: "sess-1", Source: SourceClipboard, Name: "clip", Content: "text"}
	if err := store.Create(ctx, att); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := store.Delete(ctx, "del-test")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err = store.Get(ctx, "del-test")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_DeleteBySession(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	ctx := context.Background()
	createTestSession(t, database, "sess-1")

	for _, id := range []string{"a1", "a2"} {
		att := &Attachment{ID: id, SessionID: "sess-1", Source: SourceClipboard, Name: id, Content: "text"}
		if err := store.Create(ctx, att); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	err := store.DeleteBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("DeleteBySession() error = %v", err)
	}

	atts, err := store.GetBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetBySession() error = %v", err)
	}
	if len(atts) != 0 {
		t.Errorf("GetBySession() after delete returned %d attachments, want 0", len(atts))
	}
}

func TestService_AttachBatch(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	svc := NewService(store, nil)
	ctx := context.Background()
	createTestSession(t, database, "sess-1")
	createTestMessage(t, database, "msg-1", "sess-1")

	atts := []*Attachment{
		{Source: SourceClipboard, Name: "clip", Content: "one"},
		{Source: SourceFile, Name: "notes.md", Content: "two"},
	}

	n, err := svc.AttachBatch(ctx, "sess-1", "msg-1", atts)
	if err != nil {
		t.Fatalf("AttachBatch() error = %v", err)
	}
	if n != 2 {
		t.Errorf("AttachBatch() = %d, want 2", n)
	}

	bound, err := svc.ForMessage(ctx, "msg-1")
	if err != nil {
		t.Fatalf("ForMessage() error = %v", err)
	}
	if len(bound) != 2 {
		t.Fatalf("ForMessage() returned %d attachments, want 2", len(bound))
	}
	for _, att := range bound {
		if att.SessionID != "sess-1" {
			t.Errorf("SessionID = %q, want %q", att.SessionID, "sess-1")
		}
		if att.MessageID != "msg-1" {
			t.Errorf("MessageID = %q, want %q", att.MessageID, "msg-1")
		}
	}
}

func TestService_AttachBatch_BindsPersisted(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	svc := NewService(store, nil)
	ctx := context.Background()
	createTestSession(t, database, "sess-1")
	createTestMessage(t, database, "msg-1", "sess-1")

	// An attachment persisted unbound, as `yoda capture` leaves it.
	persisted := &Attachment{
		ID:        "att-cli",
		SessionID: "sess-1",
		Source:    SourceClipboard,
		Name:      "clip",
		Content:   "captured outside the TUI",
	}
	if err := store.Create(ctx, persisted); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	atts := []*Attachment{
		persisted,
		{Source: SourceManual, Name: "typed", Content: "fresh"},
	}

	n, err := svc.AttachBatch(ctx, "sess-1", "msg-1", atts)
	if err != nil {
		t.Fatalf("AttachBatch() error = %v", err)
	}
	if n != 2 {
		t.Errorf("AttachBatch() = %d, want 2", n)
	}

	// The persisted row was bound in place, not duplicated.
	all, err := svc.ForSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("ForSession() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ForSession() returned %d attachments, want 2", len(all))
	}

	got, err := svc.Get(ctx, "att-cli")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.MessageID != "msg-1" {
		t.Errorf("MessageID = %q, want %q", got.MessageID, "msg-1")
	}
}
