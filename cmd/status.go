package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/db"
	"github.com/yodaai/yoda/internal/session"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, model, and session info",
		Long: `Display the current yoda status including:
  - Config and database locations
  - Configured providers and models
  - MCP servers
  - Stored session count`,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if config.IsFirstRun() {
		fmt.Println("Status: Not configured")
		fmt.Println()
		fmt.Println("Run 'yoda' to start the setup wizard.")
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println("Yoda Status")
	fmt.Println(strings.Repeat("─", 40))
	fmt.Println()

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GlobalConfigPath()
	}
	fmt.Printf("Config File: %s\n", configPath)
	fmt.Printf("Database: %s\n", dbPath(cfg))
	fmt.Println()

	fmt.Println("Model Configuration:")
	printModelConfig(cfg, config.SelectedModelTypeLarge, "  Large")
	printModelConfig(cfg, config.SelectedModelTypeSmall, "  Small")
	fmt.Println()

	fmt.Println("Providers:")
	if len(cfg.Providers) == 0 {
		fmt.Println("  No providers configured")
	} else {
		for id, provider := range cfg.Providers {
			printProviderStatus(id, provider)
		}
	}
	fmt.Println()

	fmt.Println("MCP Servers:")
	servers := config.NewMCPServerManager(cfg).List()
	if len(servers) == 0 {
		fmt.Println("  No MCP servers configured")
	} else {
		for _, server := range servers {
			state := server.Transport
			if server.Disabled {
				state = "disabled"
			}
			fmt.Printf("  %s: %s\n", server.Name, state)
		}
	}
	fmt.Println()

	printSessionCount(cfg)

	return nil
}

func printModelConfig(cfg *config.Config, tier config.SelectedModelType, label string) {
	model, ok := cfg.Models[tier]
	if !ok {
		fmt.Printf("%s: (not configured)\n", label)
		return
	}
	fmt.Printf("%s: %s (%s)\n", label, model.Model, model.Provider)
}

func printProviderStatus(id string, provider *config.ProviderConfig) {
	name := provider.Name
	if name == "" {
		name = id
	}

	status := "API Key"
	if provider.APIKey == "" {
		status = "Not configured"
	}
	if provider.Disable {
		status = "Disabled"
	}

	fmt.Printf("  %s: %s\n", name, status)
}

// printSessionCount reports stored sessions without creating the database
// as a side effect of a status check.
func printSessionCount(cfg *config.Config) {
	path := dbPath(cfg)
	if _, err := os.Stat(path); err != nil {
		fmt.Println("Sessions: 0 (database not created yet)")
		return
	}

	database, err := db.Open(path)
	if err != nil {
		fmt.Printf("Sessions: unavailable (%v)\n", err)
		return
	}
	defer database.Close()

	sessions, err := session.NewSQLiteStore(database.Conn()).List(context.Background())
	if err != nil {
		fmt.Printf("Sessions: unavailable (%v)\n", err)
		return
	}
	fmt.Printf("Sessions: %d\n", len(sessions))
}
