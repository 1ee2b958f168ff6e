package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

// defaultCatwalkURL is the provider metadata service.
const defaultCatwalkURL = "https://catwalk.charm.sh"

// builtinSource selects the compiled-in catalog in UpdateProviders.
const builtinSource = "embedded"

// LoadProviders returns providers from the local cache, falling back to
// the builtin catalog when no cache exists.
func LoadProviders(cfg *Config) ([]catwalk.Provider, error) {
	cachePath := getProvidersCachePath(cfg.DataDir())
	providers, err := loadProvidersCache(cachePath)
	if err == nil && len(providers) > 0 {
		return providers, nil
	}
	return builtinProviders(), nil
}

// UpdateProviders fetches and caches provider metadata from the given source.
// Source can be "embedded", an HTTP URL, or a local file path. An empty
// source uses the default catwalk service.
func UpdateProviders(cfg *Config, source string) error {
	var (
		providers []catwalk.Provider
		err       error
	)

	switch {
	case source == builtinSource:
		providers = builtinProviders()
	case source == "" || strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		url := source
		if url == "" {
			url = defaultCatwalkURL
		}
		client := catwalk.NewWithURL(url)
		providers, err = client.GetProviders()
		if err != nil {
			return fmt.Errorf("fetching providers from %s: %w", url, err)
		}
	default:
		providers, err = loadProvidersCache(source)
		if err != nil {
			return fmt.Errorf("reading providers from %s: %w", source, err)
		}
	}

	if len(providers) == 0 {
		return fmt.Errorf("source %q contained no providers", source)
	}

	cachePath := getProvidersCachePath(cfg.DataDir())
	if err := saveProvidersCache(cachePath, providers); err != nil {
		return fmt.Errorf("caching providers: %w", err)
	}

	return nil
}

// loadProvidersCache reads a provider list from a JSON file.
func loadProvidersCache(path string) ([]catwalk.Provider, error) {
	data, err := os.ReadFile(path) //nolint:gosec // File path is derived from XDG.
	if err != nil {
		return nil, err
	}

	var providers []catwalk.Provider
	if err := json.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("parsing providers cache: %w", err)
	}

	return providers, nil
}

// saveProvidersCache writes a provider list to a JSON file.
func saveProvidersCache(path string, providers []catwalk.Provider) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(providers, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling providers: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:gosec // Restrictive permissions.
		return fmt.Errorf("writing providers cache: %w", err)
	}

	return nil
}

// builtinProviders is the compiled-in catalog used when neither the
// catwalk service nor a cache is available.
func builtinProviders() []catwalk.Provider {
	return []catwalk.Provider{
		{
			ID:                  catwalk.InferenceProvider("anthropic"),
			Name:                "Anthropic",
			Type:                catwalk.TypeAnthropic,
			APIEndpoint:         defaultAnthropicEndpoint,
			DefaultLargeModelID: "claude-sonnet-4-5-20250929",
			DefaultSmallModelID: "claude-3-5-haiku-20241022",
			Models: []catwalk.Model{
				{
					ID:               "claude-sonnet-4-5-20250929",
					Name:             "Claude Sonnet 4.5",
					ContextWindow:    200000,
					DefaultMaxTokens: 8192,
					CostPer1MIn:      3.0,
					CostPer1MOut:     15.0,
				},
				{
					ID:               "claude-3-5-haiku-20241022",
					Name:             "Claude 3.5 Haiku",
					ContextWindow:    200000,
					DefaultMaxTokens: 4096,
					CostPer1MIn:      0.80,
					CostPer1MOut:     4.0,
				},
			},
		},
		{
			ID:                  catwalk.InferenceProvider("openai"),
			Name:                "OpenAI",
			Type:                catwalk.TypeOpenAI,
			APIEndpoint:         defaultOpenAIEndpoint,
			DefaultLargeModelID: "gpt-4o",
			DefaultSmallModelID: "gpt-4o-mini",
			Models: []catwalk.Model{
				{
					ID:               "gpt-4o",
					Name:             "GPT-4o",
					ContextWindow:    128000,
					DefaultMaxTokens: 4096,
					CostPer1MIn:      2.50,
					CostPer1MOut:     10.0,
				},
				{
					ID:               "gpt-4o-mini",
					Name:             "GPT-4o Mini",
					ContextWindow:    128000,
					DefaultMaxTokens: 4096,
					CostPer1MIn:      0.15,
					CostPer1MOut:     0.60,
				},
			},
		},
		{
			ID:                  catwalk.InferenceProvider("gemini"),
			Name:                "Google Gemini",
			Type:                catwalk.TypeGoogle,
			APIEndpoint:         "",
			DefaultLargeModelID: "gemini-2.5-pro",
			DefaultSmallModelID: "gemini-2.5-flash",
			Models: []catwalk.Model{
				{
					ID:               "gemini-2.5-pro",
					Name:             "Gemini 2.5 Pro",
					ContextWindow:    1000000,
					DefaultMaxTokens: 8192,
					CostPer1MIn:      1.25,
					CostPer1MOut:     10.0,
				},
				{
					ID:               "gemini-2.5-flash",
					Name:             "Gemini 2.5 Flash",
					ContextWindow:    1000000,
					DefaultMaxTokens: 8192,
					CostPer1MIn:      0.30,
					CostPer1MOut:     2.50,
				},
			},
		},
	}
}
