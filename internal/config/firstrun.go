package config

import (
	"os"
)

// IsFirstRun reports whether yoda has ever been set up: no global
// config file, an unloadable one, or one without any authenticated
// provider all count as a first run.
func IsFirstRun() bool {
	if _, err := os.Stat(GlobalConfigPath()); os.IsNotExist(err) {
		return true
	}

	cfg, err := Load()
	if err != nil {
		return true
	}
	return !hasConfiguredProviders(cfg)
}

// hasConfiguredProviders reports whether at least one enabled provider
// carries an API key.
func hasConfiguredProviders(cfg *Config) bool {
	for _, p := range cfg.Providers {
		if p.APIKey != "" && !p.Disable {
			return true
		}
	}
	return false
}

// NeedsSetup reports whether the setup wizard should run. Unlike
// IsFirstRun it also catches partial setups where models point at
// missing or disabled providers.
func NeedsSetup() bool {
	cfg, err := Load()
	if err != nil {
		return true
	}
	if len(cfg.Models) == 0 {
		return true
	}

	for tier := range cfg.Models {
		provider, ok := cfg.Providers[cfg.Models[tier].Provider]
		if !ok || provider.Disable || provider.APIKey == "" {
			return true
		}
	}
	return false
}
