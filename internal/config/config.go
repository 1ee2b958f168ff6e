// Package config provides configuration management for the yoda CLI.
package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
	"github.com/tidwall/sjson"
)

const appName = "yoda"

// SelectedModelType is the tier a selected model serves: "large" for
// chat, "small" for background tasks like title generation.
type SelectedModelType string

// Model tiers.
const (
	SelectedModelTypeLarge SelectedModelType = "large"
	SelectedModelTypeSmall SelectedModelType = "small"
)

// SelectedModel binds a tier to a provider model plus any sampling
// overrides.
type SelectedModel struct {
	ProviderOptions  map[string]any `json:"provider_options,omitempty"`
	Temperature      *float64       `json:"temperature,omitempty"`
	TopP             *float64       `json:"top_p,omitempty"`
	FrequencyPenalty *float64       `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64       `json:"presence_penalty,omitempty"`
	TopK             *int64         `json:"top_k,omitempty"`
	Model            string         `json:"model"`
	Provider         string         `json:"provider"`
	ReasoningEffort  string         `json:"reasoning_effort,omitempty"`
	MaxTokens        int64          `json:"max_tokens,omitempty"`
	Think            bool           `json:"think,omitempty"`
}

// ProviderConfig holds provider authentication and settings.
//
//nolint:govet // Field order is intentional for JSON readability.
type ProviderConfig struct {
	ExtraHeaders    map[string]string `json:"extra_headers,omitempty"`
	ProviderOptions map[string]any    `json:"provider_options,omitempty"`
	Models          []catwalk.Model   `json:"models,omitempty"`
	ID              string            `json:"id,omitempty"`
	Name            string            `json:"name,omitempty"`
	Type            catwalk.Type      `json:"type,omitempty"`
	BaseURL         string            `json:"base_url,omitempty"`
	APIKey          string            `json:"api_key,omitempty"`
	Disable         bool              `json:"disable,omitempty"`
}

// Config is the top-level configuration structure.
type Config struct {
	Models     map[SelectedModelType]SelectedModel `json:"models"`
	Providers  map[string]*ProviderConfig          `json:"providers"`
	MCPServers []MCPServerConfig                   `json:"mcp_servers,omitempty"`
	Options    *Options                            `json:"options,omitempty"`

	// LegacyMCPServers holds the claude-desktop style "mcpServers" map
	// from older config files. It is migrated to MCPServers on load.
	LegacyMCPServers map[string]LegacyMCPServer `json:"mcpServers,omitempty"`

	knownProviders []catwalk.Provider
}

// Options holds optional configuration settings.
//
//nolint:govet // Field order is intentional for JSON readability.
type Options struct {
	ContextPaths []string `json:"context_paths,omitempty"`
	DataDir      string   `json:"data_directory,omitempty"`
	Debug        bool     `json:"debug,omitempty"`
}

// NewConfig creates a Config with all maps initialized.
func NewConfig() *Config {
	return &Config{
		Models:    make(map[SelectedModelType]SelectedModel),
		Providers: make(map[string]*ProviderConfig),
		Options:   &Options{},
	}
}

// GetModel looks up a model by provider and model ID in the configured
// providers. Returns nil when either is unknown.
func (c *Config) GetModel(providerID, modelID string) *catwalk.Model {
	provider, ok := c.Providers[providerID]
	if !ok {
		return nil
	}
	for i := range provider.Models {
		if provider.Models[i].ID == modelID {
			return &provider.Models[i]
		}
	}
	return nil
}

// KnownProviders returns the resolved provider catalog.
func (c *Config) KnownProviders() []catwalk.Provider {
	return c.knownProviders
}

// SetKnownProviders sets the resolved provider catalog.
func (c *Config) SetKnownProviders(providers []catwalk.Provider) {
	c.knownProviders = providers
}

// SetConfigField surgically updates one field in the global config
// file by JSON path, leaving the rest of the file untouched.
func (c *Config) SetConfigField(key string, value any) error {
	configPath := GlobalConfigPath()

	//nolint:gosec // G304: configPath is from trusted GlobalConfigPath(), not user input.
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		data = []byte("{}")
	case err != nil:
		return fmt.Errorf("reading config file: %w", err)
	}

	updated, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	//nolint:gosec // 0o600 is intentionally restrictive for security.
	if err := os.WriteFile(configPath, []byte(updated), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
