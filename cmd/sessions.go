package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yodaai/yoda/internal/db"
	"github.com/yodaai/yoda/internal/message"
	"github.com/yodaai/yoda/internal/session"
)

// errNoDatabase signals that the database file has never been created.
var errNoDatabase = errors.New("no sessions stored yet")

// newSessionsCmd creates the sessions command group.
func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Browse and export stored conversations",
		Long: `Browse the conversations yoda has stored.

Session IDs may be abbreviated to any unique prefix, so the short IDs
printed by 'yoda sessions list' are enough.

Examples:
  yoda sessions list
  yoda sessions show 3f2a91c4
  yoda sessions export 3f2a91c4 --format json
  yoda sessions delete 3f2a91c4`,
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsShowCmd())
	cmd.AddCommand(newSessionsExportCmd())
	cmd.AddCommand(newSessionsDeleteCmd())

	return cmd
}

// openSessionDB opens the database without creating it, so read-only
// commands on a fresh install report emptiness instead of leaving an
// empty database behind.
func openSessionDB(cmd *cobra.Command) (*db.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	path := dbPath(cfg)
	if _, err := os.Stat(path); err != nil {
		return nil, errNoDatabase
	}
	return db.Open(path)
}

// resolveSession finds a session by ID or unique ID prefix.
func resolveSession(ctx context.Context, store session.Store, idOrPrefix string) (*session.Session, error) {
	if sess, err := store.Get(ctx, idOrPrefix); err == nil {
		return sess, nil
	}

	all, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	var matches []*session.Session
	for _, sess := range all {
		if strings.HasPrefix(sess.ID, idOrPrefix) {
			matches = append(matches, sess)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("session %q not found", idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("session prefix %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

// newSessionsListCmd lists stored sessions.
func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		RunE:  runSessionsList,
	}
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	database, err := openSessionDB(cmd)
	if errors.Is(err, errNoDatabase) {
		fmt.Println("No sessions stored yet. Start one by running 'yoda'.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := session.NewSQLiteStore(database.Conn())
	sessions, err := store.ListWithPreview(context.Background())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions stored yet. Start one by running 'yoda'.")
		return nil
	}

	fmt.Printf("Sessions (%d):\n\n", len(sessions))
	for _, sess := range sessions {
		title := strings.TrimSpace(sess.Title)
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %s  %s\n", shortID(sess.ID), title)
		fmt.Printf("            %d messages · updated %s\n", sess.MessageCount, sess.UpdatedAt.Format("2006-01-02 15:04"))
		if preview := strings.TrimSpace(sess.FirstMessage); preview != "" {
			fmt.Printf("            %s\n", firstLine(preview))
		}
	}

	return nil
}

// newSessionsShowCmd prints a session transcript.
func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a session transcript",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsShow,
	}
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	database, err := openSessionDB(cmd)
	if errors.Is(err, errNoDatabase) {
		return fmt.Errorf("session %q not found: no sessions stored yet", args[0])
	}
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	ctx := context.Background()
	sess, err := resolveSession(ctx, session.NewSQLiteStore(database.Conn()), args[0])
	if err != nil {
		return err
	}

	msgs, err := message.NewSQLiteStore(database.Conn()).GetBySession(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	return session.ExportMarkdown(os.Stdout, sess, msgs)
}

// newSessionsExportCmd writes a session to a file.
func newSessionsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <session-id> [output-file]",
		Short: "Export a session to a file",
		Long:  `Export a session transcript to a markdown or JSON file. Without an output file a name is derived from the session title.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runSessionsExport,
	}

	cmd.Flags().String("format", "markdown", "Export format: markdown or json")

	return cmd
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "markdown" && format != "json" {
		return fmt.Errorf("unknown format %q (want markdown or json)", format)
	}

	database, err := openSessionDB(cmd)
	if errors.Is(err, errNoDatabase) {
		return fmt.Errorf("session %q not found: no sessions stored yet", args[0])
	}
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	ctx := context.Background()
	sess, err := resolveSession(ctx, session.NewSQLiteStore(database.Conn()), args[0])
	if err != nil {
		return err
	}

	msgs, err := message.NewSQLiteStore(database.Conn()).GetBySession(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	outputPath := ""
	if len(args) > 1 {
		outputPath = args[1]
	} else {
		outputPath = session.ExportFilename(sess)
		if format == "json" {
			outputPath = strings.TrimSuffix(outputPath, ".md") + ".json"
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if format == "json" {
		err = session.ExportJSON(f, sess, msgs)
	} else {
		err = session.ExportMarkdown(f, sess, msgs)
	}
	if err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("Exported to %s\n", outputPath)

	return nil
}

// newSessionsDeleteCmd deletes a session and its messages.
func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its messages",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsDelete,
	}
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	database, err := openSessionDB(cmd)
	if errors.Is(err, errNoDatabase) {
		return fmt.Errorf("session %q not found: no sessions stored yet", args[0])
	}
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	ctx := context.Background()
	store := session.NewSQLiteStore(database.Conn())
	sess, err := resolveSession(ctx, store, args[0])
	if err != nil {
		return err
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	title := strings.TrimSpace(sess.Title)
	if title == "" {
		title = shortID(sess.ID)
	}
	fmt.Printf("Deleted session: %s\n", title)

	return nil
}

// shortID returns the first eight characters of a session ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
