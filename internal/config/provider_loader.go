// Package config provides provider loading and merging functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

// ProviderLoader combines the catwalk catalog with user-defined custom
// providers into a single provider list.
type ProviderLoader struct {
	catwalkURL     string
	customManager  *CustomProviderManager
	disableUpdates bool
}

// NewProviderLoader creates a new ProviderLoader rooted at dataDir.
func NewProviderLoader(dataDir string) *ProviderLoader {
	return &ProviderLoader{
		catwalkURL:     defaultCatwalkURL,
		customManager:  NewCustomProviderManager(dataDir),
		disableUpdates: os.Getenv("YODA_DISABLE_PROVIDER_AUTO_UPDATE") == "1",
	}
}

// SetCatwalkURL sets a custom catwalk URL.
func (pl *ProviderLoader) SetCatwalkURL(url string) {
	pl.catwalkURL = url
}

// DisableAutoUpdates disables automatic provider updates.
func (pl *ProviderLoader) DisableAutoUpdates() {
	pl.disableUpdates = true
}

// LoadAllProviders returns the merged provider list. Catwalk providers
// come first (API, then cache, then embedded fallback); custom
// providers are merged on top and win ID conflicts.
func (pl *ProviderLoader) LoadAllProviders(cfg *Config) ([]catwalk.Provider, error) {
	catalog, err := pl.loadCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading catwalk providers: %w", err)
	}

	custom, err := pl.customManager.Load()
	if err != nil {
		return nil, fmt.Errorf("loading custom providers: %w", err)
	}

	return mergeCustomProviders(catalog, custom), nil
}

// loadCatalog fetches the catwalk catalog, refreshing the on-disk cache
// on success. With auto-updates disabled, or when the fetch fails, it
// serves the cache or the embedded copy instead.
func (pl *ProviderLoader) loadCatalog(cfg *Config) ([]catwalk.Provider, error) {
	if !pl.disableUpdates {
		client := catwalk.NewWithURL(pl.catwalkURL)
		if providers, err := client.GetProviders(); err == nil {
			cachePath := getProvidersCachePath(cfg.DataDir())
			_ = saveProvidersCache(cachePath, providers) //nolint:errcheck // a stale cache is fine
			return providers, nil
		}
	}
	return LoadProviders(cfg)
}

// mergeCustomProviders overlays custom providers on the catalog,
// preserving catalog order. A custom provider with a known ID replaces
// the catalog entry in place; new IDs are appended.
func mergeCustomProviders(catalog []catwalk.Provider, custom []CustomProvider) []catwalk.Provider {
	index := make(map[string]int, len(catalog))
	merged := make([]catwalk.Provider, len(catalog))
	for i := range catalog {
		merged[i] = catalog[i]
		index[string(catalog[i].ID)] = i
	}

	for i := range custom {
		p := custom[i].ToCatwalkProvider()
		if at, ok := index[custom[i].ID]; ok {
			merged[at] = p
		} else {
			merged = append(merged, p)
		}
	}
	return merged
}

// UpdateProviders fetches and caches provider metadata from the given source.
// Source can be "embedded", an HTTP URL, or a local file path.
func (pl *ProviderLoader) UpdateProviders(cfg *Config, source string) error {
	return UpdateProviders(cfg, source)
}

// GetCustomProviderManager returns the custom provider manager.
func (pl *ProviderLoader) GetCustomProviderManager() *CustomProviderManager {
	return pl.customManager
}

// getProvidersCachePath returns the path to the providers cache file.
func getProvidersCachePath(dataDir string) string {
	return filepath.Join(dataDir, "providers.json")
}
