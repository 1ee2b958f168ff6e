package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveConfig is the on-disk shape of the configuration. Runtime-only
// state, like the catwalk catalog and resolved API keys, never leaves
// memory.
type SaveConfig struct {
	Models     map[SelectedModelType]SelectedModel `json:"models,omitempty"`
	Providers  map[string]*SaveProviderConfig      `json:"providers,omitempty"`
	MCPServers []MCPServerConfig                   `json:"mcp_servers,omitempty"`
	Options    *Options                            `json:"options,omitempty"`
}

// SaveProviderConfig holds the persisted per-provider overrides. APIKey
// keeps the template form (e.g. "$OPENAI_API_KEY"), not the resolved
// secret.
type SaveProviderConfig struct {
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	Disable bool   `json:"disable,omitempty"`
}

// Save writes the configuration to the global config file.
func Save(cfg *Config) error {
	return SaveToFile(cfg, GlobalConfigPath())
}

// SaveToFile writes the configuration to a specific file path.
func SaveToFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(toSaveConfig(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:gosec // Restrictive permissions for security.
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// toSaveConfig strips the config down to its persistable fields.
// Providers with no overrides are omitted entirely.
func toSaveConfig(cfg *Config) *SaveConfig {
	out := &SaveConfig{
		Models:     cfg.Models,
		Providers:  make(map[string]*SaveProviderConfig),
		MCPServers: cfg.MCPServers,
		Options:    cfg.Options,
	}

	for id, p := range cfg.Providers {
		if p.APIKey == "" && p.BaseURL == "" && !p.Disable {
			continue
		}
		out.Providers[id] = &SaveProviderConfig{
			APIKey:  p.APIKey,
			BaseURL: p.BaseURL,
			Disable: p.Disable,
		}
	}
	return out
}

// SaveWizardResult persists the provider and model choices made in the
// setup wizard as a fresh global config.
func SaveWizardResult(providerID, apiKey, largeModel, smallModel string) error {
	cfg := NewConfig()

	cfg.Providers[providerID] = &ProviderConfig{
		ID:     providerID,
		APIKey: apiKey,
	}
	cfg.Models[SelectedModelTypeLarge] = SelectedModel{
		Model:    largeModel,
		Provider: providerID,
	}
	cfg.Models[SelectedModelTypeSmall] = SelectedModel{
		Model:    smallModel,
		Provider: providerID,
	}

	return Save(cfg)
}
