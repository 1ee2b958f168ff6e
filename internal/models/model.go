// Package models provides domain models for yoda.
//
// This package contains the core domain types used throughout the yoda
// application. Each model includes validation methods to ensure data
// integrity.
//
// # ModelInfo
//
// ModelInfo describes one language model as reported by a provider's
// model listing endpoint. Entries are created from /v1/models responses
// or from configured custom provider model lists.
//
// Example usage:
//
//	info := models.NewModelInfo("llama3.3:70b", "ollama")
//	if err := info.Validate(); err != nil {
//	    log.Printf("Invalid model: %v", err)
//	}
package models

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// ModelInfo describes a language model offered by a provider.
//
// The ID is the provider-side model identifier used in completion
// requests. DisplayName is what UIs show; when a provider reports no
// display name the ID doubles as one. ContextWindow is the provider's
// advertised context size in tokens, zero when unknown.
type ModelInfo struct {
	// ID is the provider-side model identifier (e.g. "gpt-4o-mini").
	ID string `json:"id"`

	// DisplayName is the human-readable model name.
	DisplayName string `json:"display_name"`

	// Provider is the ID of the provider offering this model.
	Provider string `json:"provider"`

	// ContextWindow is the context size in tokens (0 = unknown).
	ContextWindow int64 `json:"context_window,omitempty"`

	// CreatedAt is when the provider reports the model was created.
	CreatedAt time.Time `json:"created_at"`
}

// Validation errors for ModelInfo.
var (
	// ErrEmptyModelID is returned when the model ID is empty or whitespace-only.
	ErrEmptyModelID = errors.New("model id cannot be empty")

	// ErrModelIDTooLong is returned when the model ID exceeds MaxModelIDLength.
	ErrModelIDTooLong = errors.New("model id is too long")

	// ErrInvalidModelID is returned when the model ID contains control characters.
	ErrInvalidModelID = errors.New("model id contains invalid characters")

	// ErrEmptyProvider is returned when the provider field is empty.
	ErrEmptyProvider = errors.New("provider cannot be empty")

	// ErrNegativeContext is returned when the context window is negative.
	ErrNegativeContext = errors.New("context window cannot be negative")
)

// MaxModelIDLength is the maximum accepted length for a model ID.
// Provider-side identifiers are short; anything longer is garbage input.
const MaxModelIDLength = 256

// NewModelInfo creates a ModelInfo for the given model and provider IDs.
// The display name defaults to the model ID.
func NewModelInfo(id, provider string) *ModelInfo {
	id = strings.TrimSpace(id)
	return &ModelInfo{
		ID:          id,
		DisplayName: id,
		Provider:    strings.TrimSpace(provider),
		CreatedAt:   time.Now(),
	}
}

// Validate checks if the ModelInfo has valid data.
// Returns nil if valid, or the first validation error encountered.
func (m *ModelInfo) Validate() error {
	if err := m.ValidateID(); err != nil {
		return err
	}
	if strings.TrimSpace(m.Provider) == "" {
		return ErrEmptyProvider
	}
	if m.ContextWindow < 0 {
		return ErrNegativeContext
	}
	return nil
}

// ValidateID validates the model identifier.
func (m *ModelInfo) ValidateID() error {
	id := strings.TrimSpace(m.ID)
	if id == "" {
		return ErrEmptyModelID
	}

	if len(id) > MaxModelIDLength {
		return ErrModelIDTooLong
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return ErrInvalidModelID
		}
	}

	return nil
}

// Name returns the display name, falling back to the ID when unset.
func (m *ModelInfo) Name() string {
	if strings.TrimSpace(m.DisplayName) != "" {
		return m.DisplayName
	}
	return m.ID
}

// IsValid returns true if the ModelInfo passes all validations.
func (m *ModelInfo) IsValid() bool {
	return m.Validate() == nil
}
