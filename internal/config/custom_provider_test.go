package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

func newTestProviderStore(t *testing.T) *CustomProviderManager {
	t.Helper()
	return NewCustomProviderManager(t.TempDir())
}

func ollamaProvider() CustomProvider {
	return CustomProvider{
		Name:        "Ollama",
		ID:          "ollama-local",
		Type:        catwalk.TypeOpenAICompat,
		APIEndpoint: "http://localhost:11434/v1",
		Models: []catwalk.Model{
			{ID: "llama3.3", Name: "Llama 3.3", ContextWindow: 128000},
		},
	}
}

func TestCustomProviderManager_LoadMissingFile(t *testing.T) {
	store := newTestProviderStore(t)

	providers, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(providers) != 0 {
		t.Errorf("Load() on fresh store returned %d providers, want 0", len(providers))
	}
}

func TestCustomProviderManager_AddRoundTrip(t *testing.T) {
	store := newTestProviderStore(t)

	if err := store.Add(ollamaProvider()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if _, err := os.Stat(store.GetFilePath()); err != nil {
		t.Fatalf("store file missing after Add: %v", err)
	}

	providers, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(providers) != 1 {
		t.Fatalf("Load() returned %d providers, want 1", len(providers))
	}

	got := providers[0]
	if got.ID != "ollama-local" {
		t.Errorf("ID = %q, want %q", got.ID, "ollama-local")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("Add did not stamp CreatedAt/UpdatedAt")
	}
	if len(got.Models) != 1 || got.Models[0].ID != "llama3.3" {
		t.Errorf("Models = %v, want the llama3.3 entry", got.Models)
	}
}

func TestCustomProviderManager_AddRejectsDuplicate(t *testing.T) {
	store := newTestProviderStore(t)

	if err := store.Add(ollamaProvider()); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}

	err := store.Add(ollamaProvider())
	if err == nil {
		t.Fatal("second Add() with same ID succeeded, want error")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Add() error = %v, want already-exists message", err)
	}
}

func TestCustomProviderManager_Update(t *testing.T) {
	store := newTestProviderStore(t)

	if err := store.Add(ollamaProvider()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	before, err := store.Get("ollama-local")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	changed := ollamaProvider()
	changed.Name = "Ollama (renamed)"
	changed.APIEndpoint = "http://localhost:11434/v2"
	if err := store.Update("ollama-local", changed); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	after, err := store.Get("ollama-local")
	if err != nil {
		t.Fatalf("Get() after Update error = %v", err)
	}
	if after.Name != "Ollama (renamed)" {
		t.Errorf("Name = %q, want the updated name", after.Name)
	}
	if after.APIEndpoint != "http://localhost:11434/v2" {
		t.Errorf("APIEndpoint = %q, want the updated endpoint", after.APIEndpoint)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Error("Update changed CreatedAt, want it preserved")
	}
	if after.UpdatedAt.Before(before.UpdatedAt) {
		t.Error("UpdatedAt went backwards after Update")
	}
}

func TestCustomProviderManager_UpdateUnknown(t *testing.T) {
	store := newTestProviderStore(t)

	if err := store.Update("ghost", ollamaProvider()); err == nil {
		t.Error("Update() on unknown ID succeeded, want error")
	}
}

func TestCustomProviderManager_Remove(t *testing.T) {
	store := newTestProviderStore(t)

	first := ollamaProvider()
	second := ollamaProvider()
	second.ID = "lmstudio-local"
	second.Name = "LM Studio"

	if err := store.Add(first); err != nil {
		t.Fatalf("Add(first) error = %v", err)
	}
	if err := store.Add(second); err != nil {
		t.Fatalf("Add(second) error = %v", err)
	}

	if err := store.Remove("ollama-local"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	providers, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(providers) != 1 || providers[0].ID != "lmstudio-local" {
		t.Errorf("remaining providers = %v, want only lmstudio-local", providers)
	}

	if err := store.Remove("ollama-local"); err == nil {
		t.Error("Remove() of already-removed ID succeeded, want error")
	}
}

func TestCustomProviderManager_GetUnknown(t *testing.T) {
	store := newTestProviderStore(t)

	if _, err := store.Get("ghost"); err == nil {
		t.Error("Get() on unknown ID succeeded, want error")
	}
}

func TestCustomProviderManager_Exists(t *testing.T) {
	store := newTestProviderStore(t)

	if store.Exists("ollama-local") {
		t.Error("Exists() = true on empty store")
	}
	if err := store.Add(ollamaProvider()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !store.Exists("ollama-local") {
		t.Error("Exists() = false after Add")
	}
}

func TestCustomProviderManager_FilePath(t *testing.T) {
	dir := t.TempDir()
	store := NewCustomProviderManager(dir)

	want := filepath.Join(dir, "custom-providers.json")
	if got := store.GetFilePath(); got != want {
		t.Errorf("GetFilePath() = %q, want %q", got, want)
	}
}

func TestCustomProvider_ToCatwalkProvider(t *testing.T) {
	cp := CustomProvider{
		Name:                "Compat Endpoint",
		ID:                  "compat",
		Type:                catwalk.TypeOpenAICompat,
		APIEndpoint:         "https://api.example.com/v1",
		BaseURL:             "https://ignored.example.com",
		DefaultHeaders:      map[string]string{"X-Team": "yoda"},
		DefaultLargeModelID: "big",
		DefaultSmallModelID: "small",
		Models:              []catwalk.Model{{ID: "big", Name: "Big"}},
	}

	p := cp.ToCatwalkProvider()

	if p.ID != catwalk.InferenceProvider("compat") {
		t.Errorf("ID = %q, want %q", p.ID, "compat")
	}
	if p.APIEndpoint != "https://api.example.com/v1" {
		t.Errorf("APIEndpoint = %q, want the explicit endpoint, not BaseURL", p.APIEndpoint)
	}
	if p.DefaultHeaders["X-Team"] != "yoda" {
		t.Errorf("DefaultHeaders = %v, want X-Team carried over", p.DefaultHeaders)
	}
	if p.DefaultLargeModelID != "big" || p.DefaultSmallModelID != "small" {
		t.Errorf("default models = %q/%q, want big/small", p.DefaultLargeModelID, p.DefaultSmallModelID)
	}
	if len(p.Models) != 1 {
		t.Errorf("Models length = %d, want 1", len(p.Models))
	}
}

func TestCustomProvider_ToCatwalkProviderBaseURLFallback(t *testing.T) {
	cp := CustomProvider{
		Name:    "Base URL Only",
		ID:      "base-only",
		Type:    catwalk.TypeOpenAICompat,
		BaseURL: "http://localhost:1234/v1",
	}

	if got := cp.ToCatwalkProvider().APIEndpoint; got != "http://localhost:1234/v1" {
		t.Errorf("APIEndpoint = %q, want BaseURL fallback", got)
	}
}
