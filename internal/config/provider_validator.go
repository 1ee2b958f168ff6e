package config

import (
	"fmt"
	"net/url"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

// ValidationError is a fatal problem with a custom provider definition.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationWarning is a non-fatal problem worth surfacing to the user.
type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (vw ValidationWarning) String() string {
	return fmt.Sprintf("%s: %s", vw.Field, vw.Message)
}

// ValidationResult collects everything found while validating one
// custom provider.
type ValidationResult struct {
	IsValid  bool                `json:"is_valid"`
	Errors   []ValidationError   `json:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
}

func (vr *ValidationResult) fail(field, format string, args ...any) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	vr.IsValid = false
}

func (vr *ValidationResult) warn(field, format string, args ...any) {
	vr.Warnings = append(vr.Warnings, ValidationWarning{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Error flattens the errors into a single error, or nil when the
// result is clean.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	msg := "validation failed:"
	for _, err := range vr.Errors {
		msg += "\n  - " + err.Error()
	}
	return fmt.Errorf("%s", msg)
}

// WarningStrings renders the warnings for display.
func (vr *ValidationResult) WarningStrings() []string {
	out := make([]string, len(vr.Warnings))
	for i, w := range vr.Warnings {
		out[i] = w.String()
	}
	return out
}

// ValidateCustomProvider checks a custom provider definition against
// the required fields, the supported provider types, and the IDs of
// providers that already exist. Missing optional niceties come back as
// warnings; anything that would break provider construction is an
// error.
func ValidateCustomProvider(p *CustomProvider, existingProviderIDs []string) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	if p.ID == "" {
		result.fail("id", "provider ID is required")
	}
	if p.Name == "" {
		result.fail("name", "provider name is required")
	}

	switch {
	case p.Type == "":
		result.fail("type", "provider type is required")
	case !supportedProviderType(p.Type):
		result.fail("type", "unsupported provider type %q, must be one of: anthropic, openai, openai-compat, google, azure, bedrock, vertexai, openrouter", p.Type)
	}

	endpoint := p.APIEndpoint
	if endpoint == "" {
		endpoint = p.BaseURL
	}
	if endpoint != "" {
		if err := checkEndpointURL(endpoint); err != nil {
			result.fail("api_endpoint", "%s", err)
		}
	}

	validateProviderModels(p, result)

	for _, id := range existingProviderIDs {
		if p.ID == id {
			result.fail("id", "provider ID %q conflicts with existing provider", p.ID)
			break
		}
	}

	return result
}

// validateProviderModels checks the model list and the default model
// references into it.
func validateProviderModels(p *CustomProvider, result *ValidationResult) {
	if len(p.Models) == 0 {
		result.warn("models", "no models defined, provider will have no available models")
		return
	}

	seen := make(map[string]bool, len(p.Models))
	for i, m := range p.Models {
		switch {
		case m.ID == "":
			result.fail(fmt.Sprintf("models[%d].id", i), "model ID is required")
		case seen[m.ID]:
			result.fail(fmt.Sprintf("models[%d].id", i), "duplicate model ID %q", m.ID)
		}
		seen[m.ID] = true

		if m.Name == "" {
			result.warn(fmt.Sprintf("models[%d].name", i), "model name is empty")
		}
	}

	if p.DefaultLargeModelID != "" && !seen[p.DefaultLargeModelID] {
		result.warn("default_large_model_id", "default large model %q not found in models list", p.DefaultLargeModelID)
	}
	if p.DefaultSmallModelID != "" && !seen[p.DefaultSmallModelID] {
		result.warn("default_small_model_id", "default small model %q not found in models list", p.DefaultSmallModelID)
	}
}

// supportedProviderType reports whether yoda can construct a provider
// of the given catwalk type.
func supportedProviderType(t catwalk.Type) bool {
	switch t {
	case catwalk.TypeAnthropic, catwalk.TypeOpenAI, catwalk.TypeOpenAICompat,
		catwalk.TypeGoogle, catwalk.TypeAzure, catwalk.TypeBedrock,
		catwalk.TypeVertexAI, catwalk.TypeOpenRouter:
		return true
	default:
		return false
	}
}

// checkEndpointURL requires an absolute http(s) URL with a host.
func checkEndpointURL(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("URL must include a scheme (http:// or https://)")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}
