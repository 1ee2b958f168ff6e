package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

const customProvidersFile = "custom-providers.json"

// CustomProvider is a user-defined provider: a local runtime or any
// other OpenAI-compatible endpoint the catwalk catalog does not know
// about.
type CustomProvider struct {
	Name                string            `json:"name"`
	ID                  string            `json:"id"`
	Type                catwalk.Type      `json:"type"`
	APIEndpoint         string            `json:"api_endpoint,omitempty"`
	BaseURL             string            `json:"base_url,omitempty"`
	DefaultHeaders      map[string]string `json:"default_headers,omitempty"`
	DefaultLargeModelID string            `json:"default_large_model_id,omitempty"`
	DefaultSmallModelID string            `json:"default_small_model_id,omitempty"`
	Models              []catwalk.Model   `json:"models"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// ToCatwalkProvider converts the definition into the catalog type the
// rest of the app works with. BaseURL doubles as the endpoint when no
// explicit APIEndpoint was set.
func (cp *CustomProvider) ToCatwalkProvider() catwalk.Provider {
	endpoint := cp.APIEndpoint
	if endpoint == "" {
		endpoint = cp.BaseURL
	}

	p := catwalk.Provider{
		ID:                  catwalk.InferenceProvider(cp.ID),
		Name:                cp.Name,
		Type:                cp.Type,
		APIEndpoint:         endpoint,
		DefaultLargeModelID: cp.DefaultLargeModelID,
		DefaultSmallModelID: cp.DefaultSmallModelID,
		Models:              cp.Models,
	}
	if len(cp.DefaultHeaders) > 0 {
		p.DefaultHeaders = cp.DefaultHeaders
	}
	return p
}

// CustomProvidersFile is the on-disk document shape.
type CustomProvidersFile struct {
	Version   string           `json:"version"`
	Providers []CustomProvider `json:"providers"`
}

// CustomProviderManager reads and writes the custom provider store, a
// JSON file under the data directory. Every mutation rewrites the file
// whole; the store is small enough that this is the simplest thing
// that works.
type CustomProviderManager struct {
	filePath string
}

// NewCustomProviderManager creates a manager over dataDir, defaulting
// to the XDG data directory.
func NewCustomProviderManager(dataDir string) *CustomProviderManager {
	if dataDir == "" {
		dataDir = filepath.Join(xdg.DataHome, appName)
	}
	return &CustomProviderManager{filePath: filepath.Join(dataDir, customProvidersFile)}
}

// GetFilePath returns where the store lives on disk.
func (m *CustomProviderManager) GetFilePath() string {
	return m.filePath
}

// Load reads all custom providers. A missing file is an empty store,
// not an error.
func (m *CustomProviderManager) Load() ([]CustomProvider, error) {
	data, err := os.ReadFile(m.filePath) //nolint:gosec // File path is derived from XDG.
	if err != nil {
		if os.IsNotExist(err) {
			return []CustomProvider{}, nil
		}
		return nil, fmt.Errorf("reading custom providers file: %w", err)
	}

	var file CustomProvidersFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing custom providers file: %w", err)
	}
	return file.Providers, nil
}

// Save writes the full provider list back to disk.
func (m *CustomProviderManager) Save(providers []CustomProvider) error {
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0o750); err != nil {
		return fmt.Errorf("creating custom providers directory: %w", err)
	}

	data, err := json.MarshalIndent(CustomProvidersFile{
		Version:   "1.0",
		Providers: providers,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling custom providers: %w", err)
	}

	//nolint:gosec // Endpoint credentials may ride in headers; keep the file private.
	if err := os.WriteFile(m.filePath, data, 0o600); err != nil {
		return fmt.Errorf("writing custom providers file: %w", err)
	}
	return nil
}

// Add appends a new provider, rejecting duplicate IDs.
func (m *CustomProviderManager) Add(provider CustomProvider) error {
	providers, err := m.Load()
	if err != nil {
		return err
	}

	if indexOfProvider(providers, provider.ID) >= 0 {
		return fmt.Errorf("provider with ID %q already exists", provider.ID)
	}

	now := time.Now()
	provider.CreatedAt = now
	provider.UpdatedAt = now

	return m.Save(append(providers, provider))
}

// Update replaces the provider with the given ID, preserving its
// creation time.
func (m *CustomProviderManager) Update(providerID string, updated CustomProvider) error {
	providers, err := m.Load()
	if err != nil {
		return err
	}

	i := indexOfProvider(providers, providerID)
	if i < 0 {
		return fmt.Errorf("provider with ID %q not found", providerID)
	}

	updated.CreatedAt = providers[i].CreatedAt
	updated.UpdatedAt = time.Now()
	providers[i] = updated

	return m.Save(providers)
}

// Remove deletes the provider with the given ID.
func (m *CustomProviderManager) Remove(providerID string) error {
	providers, err := m.Load()
	if err != nil {
		return err
	}

	i := indexOfProvider(providers, providerID)
	if i < 0 {
		return fmt.Errorf("provider with ID %q not found", providerID)
	}

	return m.Save(append(providers[:i], providers[i+1:]...))
}

// Get returns the provider with the given ID.
func (m *CustomProviderManager) Get(providerID string) (*CustomProvider, error) {
	providers, err := m.Load()
	if err != nil {
		return nil, err
	}

	i := indexOfProvider(providers, providerID)
	if i < 0 {
		return nil, fmt.Errorf("provider with ID %q not found", providerID)
	}
	return &providers[i], nil
}

// Exists reports whether a provider with the given ID is stored. Load
// failures read as absent.
func (m *CustomProviderManager) Exists(providerID string) bool {
	providers, err := m.Load()
	if err != nil {
		return false
	}
	return indexOfProvider(providers, providerID) >= 0
}

func indexOfProvider(providers []CustomProvider, id string) int {
	for i := range providers {
		if providers[i].ID == id {
			return i
		}
	}
	return -1
}
