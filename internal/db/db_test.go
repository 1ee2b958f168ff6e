package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

// openTestDB opens a database in a fresh temp dir and closes it
// when the test ends.
func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s) error = %v", path, err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // cleanup
	return database, path
}

func TestOpen_CreatesFile(t *testing.T) {
	_, path := openTestDB(t)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestOpen_RunsMigrations(t *testing.T) {
	database, _ := openTestDB(t)
	ctx := context.Background()

	for _, table := range []string{"sessions", "messages", "attachments"} {
		var name string
		err := database.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestOpen_Pragmas(t *testing.T) {
	database, _ := openTestDB(t)
	ctx := context.Background()

	var journalMode string
	if err := database.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("reading journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want %q", journalMode, "wal")
	}

	var foreignKeys int
	if err := database.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("reading foreign_keys: %v", err)
	}
	if foreignKeys != 1 {
		t.Errorf("foreign_keys = %d, want 1", foreignKeys)
	}
}

func TestDB_Path(t *testing.T) {
	database, path := openTestDB(t)

	if got := database.Path(); got != path {
		t.Errorf("Path() = %q, want %q", got, path)
	}
}

func TestDB_Conn(t *testing.T) {
	database, _ := openTestDB(t)

	conn := database.Conn()
	if conn == nil {
		t.Fatal("Conn() returned nil")
	}
	if err := conn.PingContext(context.Background()); err != nil {
		t.Errorf("connection ping failed: %v", err)
	}
}

func TestDB_WithTx(t *testing.T) {
	database, _ := openTestDB(t)
	ctx := context.Background()

	insert := func(tx *sql.Tx, id string) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO sessions (id, title, created_at, updated_at) VALUES (?, 'Test', 0, 0)", id)
		return err
	}
	exists := func(id string) bool {
		var got string
		err := database.QueryRowContext(ctx, "SELECT id FROM sessions WHERE id = ?", id).Scan(&got)
		return err == nil
	}

	t.Run("commits on success", func(t *testing.T) {
		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			return insert(tx, "tx-test")
		})
		if err != nil {
			t.Fatalf("WithTx() error = %v", err)
		}
		if !exists("tx-test") {
			t.Error("committed row not found")
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			if err := insert(tx, "rollback-test"); err != nil {
				return err
			}
			return context.Canceled
		})
		if err == nil {
			t.Fatal("WithTx() expected error, got nil")
		}
		if exists("rollback-test") {
			t.Error("rolled back row should not exist")
		}
	})
}

func TestDB_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := database.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := database.Conn().PingContext(context.Background()); err == nil {
		t.Error("connection should be closed")
	}
}
