package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yodaai/yoda/internal/db"
)

func newSessionStore(t *testing.T) (*SQLiteStore, *db.DB) {
	t.Helper()

	database, err := db.Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // test cleanup

	return NewSQLiteStore(database.Conn()), database
}

func mustCreateSession(t *testing.T, store *SQLiteStore, id, title string) *Session {
	t.Helper()
	sess, err := store.Create(context.Background(), id, title)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", id, err)
	}
	return sess
}

func TestSQLiteStore_Create(t *testing.T) {
	store, _ := newSessionStore(t)

	sess := mustCreateSession(t, store, "test-id", "Test Session")
	if sess.ID != "test-id" || sess.Title != "Test Session" {
		t.Errorf("got session %q/%q, want test-id/Test Session", sess.ID, sess.Title)
	}
	if sess.MessageCount != 0 {
		t.Errorf("MessageCount = %d, want 0", sess.MessageCount)
	}
	if sess.CreatedAt.IsZero() || sess.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on create")
	}

	// A second insert with the same ID must fail.
	if _, err := store.Create(context.Background(), "test-id", "Second"); err == nil {
		t.Error("expected error for duplicate ID, got nil")
	}
}

func TestSQLiteStore_Get(t *testing.T) {
	store, _ := newSessionStore(t)
	ctx := context.Background()

	created := mustCreateSession(t, store, "get-test", "Test Session")

	sess, err := store.Get(ctx, "get-test")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess.ID != created.ID || sess.Title != created.Title {
		t.Errorf("Get() = %q/%q, want %q/%q", sess.ID, sess.Title, created.ID, created.Title)
	}

	if _, err := store.Get(ctx, "non-existent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	store, _ := newSessionStore(t)
	ctx := context.Background()

	empty, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("List() on empty store returned %d sessions", len(empty))
	}

	for _, id := range []string{"list-1", "list-2", "list-3"} {
		mustCreateSession(t, store, id, "Session "+id)
		time.Sleep(10 * time.Millisecond)
	}

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("List() returned %d sessions, want 3", len(sessions))
	}
	if sessions[0].ID != "list-3" || sessions[2].ID != "list-1" {
		t.Errorf("order = [%s %s %s], want newest first",
			sessions[0].ID, sessions[1].ID, sessions[2].ID)
	}
}

func TestSQLiteStore_UpdateTitle(t *testing.T) {
	store, _ := newSessionStore(t)
	ctx := context.Background()

	mustCreateSession(t, store, "update-title", "Original Title")

	if err := store.UpdateTitle(ctx, "update-title", "New Title"); err != nil {
		t.Fatalf("UpdateTitle() error = %v", err)
	}

	sess, err := store.Get(ctx, "update-title")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess.Title != "New Title" {
		t.Errorf("Title = %q, want %q", sess.Title, "New Title")
	}
}

func TestSQLiteStore_MessageCount(t *testing.T) {
	store, _ := newSessionStore(t)
	ctx := context.Background()

	mustCreateSession(t, store, "msg-count", "Test")

	count := func() int {
		t.Helper()
		sess, err := store.Get(ctx, "msg-count")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		return sess.MessageCount
	}

	if err := store.IncrementMessageCount(ctx, "msg-count"); err != nil {
		t.Fatalf("IncrementMessageCount() error = %v", err)
	}
	if got := count(); got != 1 {
		t.Errorf("count after increment = %d, want 1", got)
	}

	if err := store.IncrementMessageCount(ctx, "msg-count"); err != nil {
		t.Fatalf("IncrementMessageCount() error = %v", err)
	}
	if err := store.DecrementMessageCount(ctx, "msg-count"); err != nil {
		t.Fatalf("DecrementMessageCount() error = %v", err)
	}
	if got := count(); got != 1 {
		t.Errorf("count after increment+decrement = %d, want 1", got)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	store, _ := newSessionStore(t)
	ctx := context.Background()

	mustCreateSession(t, store, "delete-test", "Test")

	if err := store.Delete(ctx, "delete-test"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "delete-test"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_Search(t *testing.T) {
	store, _ := newSessionStore(t)
	ctx := context.Background()

	mustCreateSession(t, store, "s1", "Authentication Bug Fix")
	mustCreateSession(t, store, "s2", "Add Login Feature")
	mustCreateSession(t, store, "s3", "Database Migration")

	tests := []struct {
		name    string
		keyword string
		wantIDs []string
	}{
		{"keyword match", "Bug", []string{"s1"}},
		{"case insensitive", "bug", []string{"s1"}},
		{"multi-word", "auth bug", []string{"s1"}},
		{"no match", "xyz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions, err := store.Search(ctx, tt.keyword)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.keyword, err)
			}
			if len(sessions) != len(tt.wantIDs) {
				t.Fatalf("Search(%q) returned %d sessions, want %d",
					tt.keyword, len(sessions), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if sessions[i].ID != want {
					t.Errorf("sessions[%d].ID = %q, want %q", i, sessions[i].ID, want)
				}
			}
		})
	}
}

func TestSQLiteStore_ListWithPreview(t *testing.T) {
	store, database := newSessionStore(t)
	ctx := context.Background()

	mustCreateSession(t, store, "p1", "With Messages")
	mustCreateSession(t, store, "p2", "Empty Session")

	now := time.Now().UnixMilli()
	_, err := database.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, role, parts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		"m1", "p1", "user", `[{"type":"text","text":"How do I fix this?"}]`, now, now)
	if err != nil {
		t.Fatalf("inserting message: %v", err)
	}

	sessions, err := store.ListWithPreview(ctx)
	if err != nil {
		t.Fatalf("ListWithPreview() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("ListWithPreview() returned %d sessions, want 2", len(sessions))
	}

	previews := make(map[string]string, len(sessions))
	for _, s := range sessions {
		previews[s.ID] = s.FirstMessage
	}
	if previews["p1"] != "How do I fix this?" {
		t.Errorf("preview for p1 = %q, want the first user message", previews["p1"])
	}
	if previews["p2"] != "" {
		t.Errorf("preview for empty session = %q, want empty", previews["p2"])
	}
}

func TestPrepareSearchTerm(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"bug", "bug"},
		{"bug fix", "bug%fix"},
		{"  bug   fix  ", "bug%fix"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := prepareSearchTerm(tt.input); got != tt.want {
			t.Errorf("prepareSearchTerm(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractTextFromParts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"text part", `[{"type":"text","text":"Hello world"}]`, "Hello world"},
		{"no text part", `[{"type":"reasoning","reasoning":"thinking..."}]`, ""},
		{"invalid JSON", `invalid json`, ""},
		{"empty string", "", ""},
		{
			"first text part wins",
			`[{"type":"reasoning","reasoning":"thinking"},{"type":"text","text":"result"}]`,
			"result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTextFromParts(tt.input); got != tt.want {
				t.Errorf("extractTextFromParts(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
