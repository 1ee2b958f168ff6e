package provider

import (
	"strings"
	"testing"

	"github.com/yodaai/yoda/internal/config"
)

func TestBuilder_BuildProvider_UnsupportedType(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Providers["weird"] = &config.ProviderConfig{
		ID:     "weird",
		Name:   "Weird",
		Type:   "not-a-real-type",
		APIKey: "key",
	}

	builder := NewBuilder(cfg)
	modelCfg := config.SelectedModel{Model: "m", Provider: "weird"}

	_, err := builder.buildProvider(cfg.Providers["weird"], modelCfg)
	if err == nil {
		t.Fatal("buildProvider() expected error for unsupported type, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported provider type") {
		t.Errorf("buildProvider() error = %v, want unsupported type error", err)
	}
}

func TestBuilder_BuildProvider_UnresolvedAPIKey(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Providers["anthropic"] = &config.ProviderConfig{
		ID:     "anthropic",
		Name:   "Anthropic",
		Type:   "anthropic",
		APIKey: "$YODA_TEST_UNSET_PROVIDER_KEY",
	}

	builder := NewBuilder(cfg)
	modelCfg := config.SelectedModel{Model: "claude-3-5-haiku-20241022", Provider: "anthropic"}

	_, err := builder.buildProvider(cfg.Providers["anthropic"], modelCfg)
	if err == nil {
		t.Fatal("buildProvider() expected error for unresolved API key, got nil")
	}
	if !strings.Contains(err.Error(), "YODA_TEST_UNSET_PROVIDER_KEY") {
		t.Errorf("buildProvider() error = %v, want error naming the missing variable", err)
	}
}
