package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
	"github.com/spf13/cobra"

	"github.com/yodaai/yoda/internal/config"
	"github.com/yodaai/yoda/internal/provider"
)

// newModelsCmd lists the models a provider offers.
func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models [provider-id]",
		Short: "List the models a provider offers",
		Long: `List the models a provider offers. Without an argument the provider
of the selected large model is used.

Catalog providers are listed from catwalk metadata. Custom and
OpenAI-compatible providers are queried live through their /v1/models
endpoint, so local runtimes like Ollama show what is actually
installed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runModels,
	}

	cmd.Flags().Bool("live", false, "Query the provider's /v1/models endpoint even when catalog data exists")

	return cmd
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	providerID := ""
	if len(args) > 0 {
		providerID = args[0]
	} else if selected, ok := cfg.Models[config.SelectedModelTypeLarge]; ok {
		providerID = selected.Provider
	}
	if providerID == "" {
		return fmt.Errorf("no provider selected; pass a provider ID")
	}

	live, _ := cmd.Flags().GetBool("live")

	catalog := findCatalogProvider(cfg, providerID)
	if !live && catalog != nil && len(catalog.Models) > 0 {
		printCatalogModels(providerID, catalog.Models)
		return nil
	}

	return printLiveModels(cfg, providerID)
}

// findCatalogProvider looks a provider up in the merged catwalk + custom
// catalog.
func findCatalogProvider(cfg *config.Config, providerID string) *catwalk.Provider {
	providers, err := config.NewProviderLoader(cfg.DataDir()).LoadAllProviders(cfg)
	if err != nil {
		return nil
	}
	for i := range providers {
		if string(providers[i].ID) == providerID {
			return &providers[i]
		}
	}
	return nil
}

func printCatalogModels(providerID string, catalogModels []catwalk.Model) {
	fmt.Printf("Models from %s (catalog, %d):\n\n", providerID, len(catalogModels))
	for _, model := range catalogModels {
		fmt.Printf("  %s\n", model.ID)
		if model.Name != "" && model.Name != model.ID {
			fmt.Printf("    Name: %s\n", model.Name)
		}
		if model.ContextWindow > 0 {
			fmt.Printf("    Context: %d tokens\n", model.ContextWindow)
		}
		if model.CostPer1MIn > 0 || model.CostPer1MOut > 0 {
			fmt.Printf("    Cost: $%.2f / 1M in, $%.2f / 1M out\n", model.CostPer1MIn, model.CostPer1MOut)
		}
	}
}

func printLiveModels(cfg *config.Config, providerID string) error {
	providerCfg, ok := cfg.Providers[providerID]
	if !ok {
		return fmt.Errorf("provider %q is not configured and has no catalog models", providerID)
	}
	if providerCfg.BaseURL == "" {
		return fmt.Errorf("provider %q has no endpoint to query", providerID)
	}

	apiKey, err := cfg.Resolve(providerCfg.APIKey)
	if err != nil {
		return fmt.Errorf("resolving API key: %w", err)
	}

	infos, err := provider.ListModels(context.Background(), providerID, providerCfg.BaseURL, apiKey, providerCfg.ExtraHeaders)
	if err != nil {
		return fmt.Errorf("querying models: %w", err)
	}
	if len(infos) == 0 {
		fmt.Printf("%s reports no models.\n", providerID)
		return nil
	}

	fmt.Printf("Models from %s (live, %d):\n\n", providerID, len(infos))
	for _, info := range infos {
		fmt.Printf("  %s\n", info.ID)
		if info.DisplayName != "" && info.DisplayName != info.ID {
			fmt.Printf("    Name: %s\n", info.DisplayName)
		}
	}

	return nil
}
