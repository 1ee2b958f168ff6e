package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yodaai/yoda/internal/attachment"
	"github.com/yodaai/yoda/internal/capture"
	"github.com/yodaai/yoda/internal/db"
	"github.com/yodaai/yoda/internal/message"
	"github.com/yodaai/yoda/internal/session"
)

// newCaptureCmd stages clipboard content for the next chat message.
func newCaptureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capture",
		Short: "Stage the clipboard as context for your next message",
		Long: `Read the clipboard and stage its text as a pending attachment.

Copy something in any application, run 'yoda capture', then open yoda:
the captured text is attached to the next message you send. Repeat to
stage several snippets.`,
		RunE: runCapture,
	}
}

func runCapture(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.Open(dbPath(cfg))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	ctx := context.Background()
	conn := database.Conn()

	target, err := captureTargetSession(ctx, conn)
	if err != nil {
		return err
	}

	attachments := attachment.NewService(attachment.NewSQLiteStore(conn), nil)
	captureSvc := capture.NewService(capture.NewStore(), attachments, nil, capture.NewSystemClipboard())

	att, err := captureSvc.PersistClipboard(ctx, target.ID)
	if errors.Is(err, capture.ErrEmptyClipboard) {
		return fmt.Errorf("clipboard is empty; copy some text first")
	}
	if err != nil {
		return fmt.Errorf("capturing clipboard: %w", err)
	}

	fmt.Printf("Captured %q (%d bytes)\n", att.Name, att.Size())
	fmt.Println("It will be attached to your next yoda message.")

	return nil
}

// captureTargetSession picks the session CLI captures land in: the
// newest session while it is still empty, otherwise a fresh one. The
// TUI resumes an empty newest session on startup, so staged captures
// surface there.
func captureTargetSession(ctx context.Context, conn *sql.DB) (*session.Session, error) {
	store := session.NewSQLiteStore(conn)

	sessions, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) > 0 && sessions[0].MessageCount == 0 {
		return sessions[0], nil
	}

	sess, err := session.NewService(store, nil).Create(ctx, "New Session")
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

// newInsertCmd copies the latest assistant reply to the clipboard.
func newInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert",
		Short: "Copy the latest assistant reply to the clipboard",
		Long: `Copy the text of the most recent assistant reply to the clipboard,
ready to paste into any application.`,
		RunE: runInsert,
	}
}

func runInsert(cmd *cobra.Command, _ []string) error {
	database, err := openSessionDB(cmd)
	if errors.Is(err, errNoDatabase) {
		return fmt.Errorf("nothing to copy: no conversations stored yet")
	}
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	ctx := context.Background()
	conn := database.Conn()

	sessionID, text, err := latestAssistantReply(ctx, conn)
	if err != nil {
		return err
	}

	captureSvc := capture.NewService(capture.NewStore(), nil, nil, capture.NewSystemClipboard())
	if err := captureSvc.InsertReply(sessionID, text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}

	fmt.Printf("Copied the latest reply to the clipboard (%d bytes)\n", len(text))
	if preview := firstLine(text); preview != "" {
		fmt.Printf("  %s\n", preview)
	}

	return nil
}

// latestAssistantReply walks sessions newest-first and returns the text
// of the most recent assistant message.
func latestAssistantReply(ctx context.Context, conn *sql.DB) (sessionID, text string, err error) {
	sessions, err := session.NewSQLiteStore(conn).List(ctx)
	if err != nil {
		return "", "", fmt.Errorf("listing sessions: %w", err)
	}

	messageStore := message.NewSQLiteStore(conn)
	for _, sess := range sessions {
		if sess.MessageCount == 0 {
			continue
		}
		msgs, err := messageStore.GetBySession(ctx, sess.ID)
		if err != nil {
			return "", "", fmt.Errorf("loading messages: %w", err)
		}
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role != message.RoleAssistant {
				continue
			}
			if reply := strings.TrimSpace(msgs[i].TextContent()); reply != "" {
				return sess.ID, reply, nil
			}
		}
	}

	return "", "", fmt.Errorf("nothing to copy: no assistant reply found")
}
