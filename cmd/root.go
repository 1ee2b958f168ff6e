// Package cmd provides the yoda command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/yodaai/yoda/internal/agent"
	"github.com/yodaai/yoda/internal/attachment"
	"github.com/yodaai/yoda/internal/capture"
	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/db"
	"github.com/yodaai/yoda/internal/debug"
	"github.com/yodaai/yoda/internal/mcp"
	"github.com/yodaai/yoda/internal/message"
	"github.com/yodaai/yoda/internal/provider"
	"github.com/yodaai/yoda/internal/pubsub"
	"github.com/yodaai/yoda/internal/session"
	"github.com/yodaai/yoda/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yoda",
		Short: "Terminal chat client for OpenAI-compatible LLMs",
		Long: `Yoda is a terminal chat client for OpenAI-compatible LLMs with
clipboard capture and MCP tool support.

Run it without arguments to open the chat TUI. Capture text from any
application with "yoda capture", send a message that uses it, then copy
the assistant's reply back out with "yoda insert".`,
		RunE:              runTUI,
		SilenceUsage:      true,
		PersistentPreRunE: setupDebug,
		PersistentPostRun: func(*cobra.Command, []string) {
			debug.Disable()
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging to the data directory")
	cmd.PersistentFlags().String("config", "", "Path to a config file (overrides discovery)")

	cmd.AddCommand(
		newVersionCmd(),
		newStatusCmd(),
		newProvidersCmd(),
		newMCPCmd(),
		newModelsCmd(),
		newSessionsCmd(),
		newCaptureCmd(),
		newInsertCmd(),
	)

	return cmd
}

func setupDebug(cmd *cobra.Command, _ []string) error {
	debugMode, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("getting debug flag: %w", err)
	}
	if !debugMode {
		return nil
	}

	logPath := debugLogPath()
	if debugErr := debug.Enable(logPath); debugErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", debugErr)
	} else {
		fmt.Fprintf(os.Stderr, "Debug: %s\n", logPath)
	}
	return nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Load configuration.
	isFirstRun := config.IsFirstRun()
	cfg, err := loadConfig(cmd)
	if err != nil {
		cfg = config.NewConfig()
	}
	if cfg.Options.Debug && !debug.IsEnabled() {
		if debugErr := debug.Enable(debugLogPath()); debugErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", debugErr)
		}
	}

	// Load providers.
	providers := cfg.KnownProviders()
	if len(providers) == 0 {
		providers, err = config.LoadProviders(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load providers: %v\n", err)
		}
	}

	hub := pubsub.NewHub()

	// Wire services if not first run. A failure here still opens the TUI
	// so the user can fix their configuration through the wizard.
	var svcs *tui.Services
	if !isFirstRun {
		svcs, err = buildServices(cfg, hub)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to start services: %v\n", err)
		}
	}

	// Factory for rebuilding the service graph after the wizard completes.
	factory := func() (*tui.Services, error) {
		newCfg, err := loadConfig(cmd)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return buildServices(newCfg, hub)
	}

	return tui.Run(cfg, providers, isFirstRun, svcs, factory, hub, selectedModelName(cfg))
}

// buildServices wires the full service graph behind the TUI: database,
// stores, pubsub-backed services, the MCP manager, and the streaming agent.
func buildServices(cfg *config.Config, hub *pubsub.Hub) (*tui.Services, error) {
	ctx := context.Background()

	builder := provider.NewBuilder(cfg)
	large, small, err := builder.BuildModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("building models: %w", err)
	}

	database, err := db.Open(dbPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	conn := database.Conn()

	sessions := session.NewService(session.NewSQLiteStore(conn), hub.Session)
	messages := message.NewService(message.NewSQLiteStore(conn), hub.Message)
	attachments := attachment.NewService(attachment.NewSQLiteStore(conn), hub.Capture)
	captureSvc := capture.NewService(capture.NewStore(), attachments, hub.Capture, capture.NewSystemClipboard())

	// Connect in the background; tool refreshes arrive over the hub as
	// servers come up.
	mcpManager := mcp.NewManager(config.NewMCPServerManager(cfg).Enabled(), hub.MCP)
	go mcpManager.Connect(ctx)

	cwd, err := os.Getwd()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	ag := agent.New(agent.Config{
		Model:        large.Model,
		SystemPrompt: agent.DefaultSystemPrompt,
		WorkingDir:   cwd,
		Hub:          hub,
		Sessions:     agent.NewPersistentSessionStore(sessions, messages),
		Capture:      captureSvc,
	})

	return &tui.Services{
		Agent:      ag,
		Sessions:   sessions,
		Messages:   messages,
		Capture:    captureSvc,
		MCP:        mcpManager,
		SmallModel: small.Model,
	}, nil
}

// loadConfig loads the configuration, honoring the --config override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("getting config flag: %w", err)
	}
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// dbPath returns the SQLite database location under the data directory.
func dbPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir(), "yoda.db")
}

func debugLogPath() string {
	return filepath.Join(xdg.DataHome, "yoda", "debug.log")
}

// selectedModelName resolves a display name for the configured large model.
func selectedModelName(cfg *config.Config) string {
	selected, ok := cfg.Models[config.SelectedModelTypeLarge]
	if !ok {
		return ""
	}
	if m := cfg.GetModel(selected.Provider, selected.Model); m != nil && m.Name != "" {
		return m.Name
	}
	return selected.Model
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
