package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

const (
	configFileName = "yoda.json"

	// Default API endpoints for providers.
	defaultAnthropicEndpoint = "https://api.anthropic.com"
	defaultOpenAIEndpoint    = "https://api.openai.com/v1"
)

// Load finds and loads configuration from standard locations: the
// global config merged with a project config found by walking up from
// the working directory (project wins), then providers resolved via
// catwalk metadata and custom provider definitions.
func Load() (*Config, error) {
	cfg := NewConfig()
	globalPath := filepath.Join(xdg.ConfigHome, appName, configFileName)
	if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	if projectPath := findProjectConfig(); projectPath != "" {
		projectCfg := NewConfig()
		if err := loadFile(projectPath, projectCfg); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
		mergeConfig(cfg, projectCfg)
	}

	if err := finishLoad(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file path, skipping
// the global/project merge.
func LoadFromFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	if err := finishLoad(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finishLoad runs the steps shared by every load path: defaults,
// legacy migration, provider catalog resolution, and model selection.
func finishLoad(cfg *Config) error {
	applyDefaults(cfg)

	if err := MigrateMCPServers(cfg); err != nil {
		return fmt.Errorf("migrating mcp servers: %w", err)
	}

	loader := NewProviderLoader(cfg.DataDir())
	providers, err := loader.LoadAllProviders(cfg)
	if err != nil {
		return fmt.Errorf("loading providers: %w", err)
	}
	cfg.SetKnownProviders(providers)

	configureProviders(cfg, NewResolver())
	if err := configureDefaultModels(cfg); err != nil {
		return fmt.Errorf("configuring models: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	//nolint:gosec // G304: Path is from trusted config locations, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

// findProjectConfig walks up from the working directory looking for
// yoda.json or .yoda.json.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range []string{configFileName, "." + configFileName} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func mergeConfig(dst, src *Config) {
	for tier := range src.Models {
		dst.Models[tier] = src.Models[tier]
	}
	for name := range src.Providers {
		dst.Providers[name] = src.Providers[name]
	}

	mergeMCPServers(dst, src)

	// Merge legacy entries so migration sees both.
	if len(src.LegacyMCPServers) > 0 {
		if dst.LegacyMCPServers == nil {
			dst.LegacyMCPServers = make(map[string]LegacyMCPServer)
		}
		for name := range src.LegacyMCPServers {
			dst.LegacyMCPServers[name] = src.LegacyMCPServers[name]
		}
	}

	mergeOptions(dst, src)
}

// mergeMCPServers overlays project servers on global ones by name.
func mergeMCPServers(dst, src *Config) {
	if len(src.MCPServers) == 0 {
		return
	}
	byName := make(map[string]MCPServerConfig)
	for _, servers := range [][]MCPServerConfig{dst.MCPServers, src.MCPServers} {
		for i := range servers {
			byName[servers[i].Name] = servers[i]
		}
	}
	dst.MCPServers = make([]MCPServerConfig, 0, len(byName))
	for name := range byName {
		dst.MCPServers = append(dst.MCPServers, byName[name])
	}
}

func mergeOptions(dst, src *Config) {
	if src.Options == nil {
		return
	}
	if dst.Options == nil {
		dst.Options = &Options{}
	}
	if len(src.Options.ContextPaths) > 0 {
		dst.Options.ContextPaths = src.Options.ContextPaths
	}
	if src.Options.DataDir != "" {
		dst.Options.DataDir = src.Options.DataDir
	}
	if src.Options.Debug {
		dst.Options.Debug = true
	}
}

func configureProviders(cfg *Config, resolver *Resolver) {
	known := cfg.KnownProviders()
	for i := range known {
		p := &known[i]
		userConfig, ok := cfg.Providers[string(p.ID)]
		if !ok {
			continue
		}
		if !configureProviderAuth(cfg, userConfig, p, resolver) {
			continue
		}
		configureProviderMetadata(userConfig, p)
		configureProviderModels(userConfig, p)
	}
}

// configureProviderAuth resolves API key and base URL. Returns false if
// the provider cannot be configured and was removed.
func configureProviderAuth(cfg *Config, userConfig *ProviderConfig, p *catwalk.Provider, resolver *Resolver) bool {
	if userConfig.APIKey != "" {
		resolved, err := resolver.Resolve(userConfig.APIKey)
		if err != nil {
			delete(cfg.Providers, string(p.ID))
			return false
		}
		userConfig.APIKey = resolved
	}
	resolveBaseURL(userConfig, p, resolver)
	return true
}

func resolveBaseURL(userConfig *ProviderConfig, p *catwalk.Provider, resolver *Resolver) {
	if userConfig.BaseURL != "" {
		if resolved, err := resolver.Resolve(userConfig.BaseURL); err == nil {
			userConfig.BaseURL = resolved
		}
		return
	}
	if resolved, err := resolver.Resolve(p.APIEndpoint); err == nil {
		userConfig.BaseURL = resolved
	} else {
		userConfig.BaseURL = getDefaultAPIEndpoint(p.Type)
	}
}

func configureProviderMetadata(userConfig *ProviderConfig, p *catwalk.Provider) {
	userConfig.ID = string(p.ID)
	if userConfig.Name == "" {
		userConfig.Name = p.Name
	}
	if userConfig.Type == "" {
		userConfig.Type = p.Type
	}
	if userConfig.ExtraHeaders == nil {
		userConfig.ExtraHeaders = make(map[string]string)
	}
}

// configureProviderModels completes the user's model list with the
// catalog models they didn't override.
func configureProviderModels(userConfig *ProviderConfig, p *catwalk.Provider) {
	if len(userConfig.Models) == 0 {
		userConfig.Models = p.Models
		return
	}
	seen := make(map[string]bool, len(userConfig.Models))
	for i := range userConfig.Models {
		seen[userConfig.Models[i].ID] = true
	}
	for i := range p.Models {
		if !seen[p.Models[i].ID] {
			userConfig.Models = append(userConfig.Models, p.Models[i])
		}
	}
}

// configureDefaultModels picks large/small models from the first
// provider that has an API key, unless the user selected models
// explicitly.
func configureDefaultModels(cfg *Config) error {
	if len(cfg.Models) > 0 {
		return validateModels(cfg)
	}

	known := cfg.KnownProviders()
	for i := range known {
		p := &known[i]
		providerCfg, ok := cfg.Providers[string(p.ID)]
		if !ok || providerCfg.Disable || providerCfg.APIKey == "" {
			continue
		}
		if p.DefaultLargeModelID != "" {
			cfg.Models[SelectedModelTypeLarge] = SelectedModel{
				Model:    p.DefaultLargeModelID,
				Provider: string(p.ID),
			}
		}
		if p.DefaultSmallModelID != "" {
			cfg.Models[SelectedModelTypeSmall] = SelectedModel{
				Model:    p.DefaultSmallModelID,
				Provider: string(p.ID),
			}
		}
		if len(cfg.Models) > 0 {
			return nil
		}
	}

	return fmt.Errorf("no providers configured with valid API keys")
}

func validateModels(cfg *Config) error {
	for tier, model := range cfg.Models {
		provider, ok := cfg.Providers[model.Provider]
		if !ok {
			return fmt.Errorf("tier %s: provider %q not configured", tier, model.Provider)
		}
		if provider.Disable {
			return fmt.Errorf("tier %s: provider %q is disabled", tier, model.Provider)
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = filepath.Join(xdg.DataHome, appName)
	}
}

func getDefaultAPIEndpoint(providerType catwalk.Type) string {
	switch providerType {
	case catwalk.TypeAnthropic:
		return defaultAnthropicEndpoint
	case catwalk.TypeOpenAI, catwalk.TypeOpenAICompat, catwalk.TypeOpenRouter:
		return defaultOpenAIEndpoint
	default:
		// Google, Azure, Bedrock, and Vertex need user-configured
		// endpoints.
		return ""
	}
}

// globalConfigPathOverride redirects GlobalConfigPath, used by tests.
var globalConfigPathOverride string

// SetGlobalConfigPath overrides the global config path. Pass an empty
// string to restore the default.
func SetGlobalConfigPath(path string) {
	globalConfigPathOverride = path
}

// GlobalConfigPath returns the path to the global configuration file.
func GlobalConfigPath() string {
	if globalConfigPathOverride != "" {
		return globalConfigPathOverride
	}
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// DataDir returns the data directory path from configuration.
func (c *Config) DataDir() string {
	if c.Options != nil && c.Options.DataDir != "" {
		return c.Options.DataDir
	}
	return filepath.Join(xdg.DataHome, appName)
}

// Resolve resolves environment variables in a configuration value.
func (c *Config) Resolve(value string) (string, error) {
	return NewResolver().Resolve(value)
}
