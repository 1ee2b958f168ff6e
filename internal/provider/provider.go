// Package provider handles LLM provider instantiation and management.
package provider

import (
	"context"
	"fmt"
	"maps"

	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"

	"github.com/yodaai/yoda/internal/config"
)

// Model wraps a fantasy language model with its metadata.
type Model struct {
	// Model is the fantasy language model interface.
	Model fantasy.LanguageModel
	// CatwalkCfg holds the model metadata from catwalk.
	CatwalkCfg catwalk.Model
	// ModelCfg holds the user's selected configuration.
	ModelCfg config.SelectedModel
}

// Builder creates fantasy providers from configuration. Providers are
// cached per ID so both models of a provider share one client.
type Builder struct {
	cfg       *config.Config
	providers map[string]fantasy.Provider
	debug     bool
}

// NewBuilder creates a new provider Builder.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:       cfg,
		providers: make(map[string]fantasy.Provider),
		debug:     cfg.Options != nil && cfg.Options.Debug,
	}
}

// BuildModels creates the large and small models from configuration.
// A missing small model falls back to the large one.
func (b *Builder) BuildModels(ctx context.Context) (large, small Model, err error) {
	largeCfg, ok := b.cfg.Models[config.SelectedModelTypeLarge]
	if !ok {
		return Model{}, Model{}, fmt.Errorf("large model not configured")
	}
	if large, err = b.buildModel(ctx, largeCfg); err != nil {
		return Model{}, Model{}, fmt.Errorf("building large model: %w", err)
	}

	smallCfg, ok := b.cfg.Models[config.SelectedModelTypeSmall]
	if !ok {
		return large, large, nil
	}
	if small, err = b.buildModel(ctx, smallCfg); err != nil {
		return Model{}, Model{}, fmt.Errorf("building small model: %w", err)
	}
	return large, small, nil
}

// buildModel creates a Model from a selected model configuration.
func (b *Builder) buildModel(ctx context.Context, modelCfg config.SelectedModel) (Model, error) {
	providerCfg, ok := b.cfg.Providers[modelCfg.Provider]
	if !ok {
		return Model{}, fmt.Errorf("provider %q not configured", modelCfg.Provider)
	}

	provider, err := b.providerFor(providerCfg, modelCfg)
	if err != nil {
		return Model{}, err
	}

	lm, err := provider.LanguageModel(ctx, modelCfg.Model)
	if err != nil {
		return Model{}, fmt.Errorf("getting language model %q: %w", modelCfg.Model, err)
	}

	var meta catwalk.Model
	if m := b.cfg.GetModel(modelCfg.Provider, modelCfg.Model); m != nil {
		meta = *m
	}

	return Model{Model: lm, CatwalkCfg: meta, ModelCfg: modelCfg}, nil
}

// providerFor returns the cached provider for the config, building it
// on first use.
func (b *Builder) providerFor(providerCfg *config.ProviderConfig, modelCfg config.SelectedModel) (fantasy.Provider, error) {
	if p, ok := b.providers[providerCfg.ID]; ok {
		return p, nil
	}

	p, err := b.buildProvider(providerCfg, modelCfg)
	if err != nil {
		return nil, err
	}
	b.providers[providerCfg.ID] = p
	return p, nil
}

// buildProvider creates a fantasy provider from configuration.
func (b *Builder) buildProvider(providerCfg *config.ProviderConfig, modelCfg config.SelectedModel) (fantasy.Provider, error) {
	headers := maps.Clone(providerCfg.ExtraHeaders)
	if headers == nil {
		headers = make(map[string]string)
	}
	if providerCfg.Type == anthropic.Name && modelCfg.Think {
		addBetaHeader(headers, "interleaved-thinking-2025-05-14")
	}

	// Resolve $VAR references so keys can live in the environment
	// instead of the config file.
	apiKey, err := b.cfg.Resolve(providerCfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("resolving API key for provider %q: %w", providerCfg.ID, err)
	}

	//nolint:exhaustive // Only openai and anthropic are supported initially.
	switch providerCfg.Type {
	case openai.Name, catwalk.TypeOpenAICompat:
		var opts []openai.Option
		if apiKey != "" {
			opts = append(opts, openai.WithAPIKey(apiKey))
		}
		if len(headers) > 0 {
			opts = append(opts, openai.WithHeaders(headers))
		}
		if providerCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(providerCfg.BaseURL))
		}
		return openai.New(opts...)
	case anthropic.Name:
		var opts []anthropic.Option
		if apiKey != "" {
			opts = append(opts, anthropic.WithAPIKey(apiKey))
		}
		if len(headers) > 0 {
			opts = append(opts, anthropic.WithHeaders(headers))
		}
		if providerCfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(providerCfg.BaseURL))
		}
		return anthropic.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider type: %q", providerCfg.Type)
	}
}

// addBetaHeader appends a feature flag to the anthropic-beta header,
// preserving any flags the user already configured.
func addBetaHeader(headers map[string]string, flag string) {
	if v, ok := headers["anthropic-beta"]; ok {
		headers["anthropic-beta"] = v + "," + flag
		return
	}
	headers["anthropic-beta"] = flag
}
