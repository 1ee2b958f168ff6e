// Package models provides the provider/model management modal component.
package models

import "github.com/yodaai/yoda/internal/config"

// Modal control messages.
type (
	// ModalClosedMsg is sent when the modal is closed.
	ModalClosedMsg struct{}
)

// Navigation messages.
type (
	// StartAddProviderMsg starts the add provider flow.
	StartAddProviderMsg struct{}

	// EditProviderMsg requests editing a configured provider.
	EditProviderMsg struct {
		ID string
	}

	// DeleteProviderMsg requests removing a configured provider.
	DeleteProviderMsg struct {
		ID string
	}

	// ProviderChosenMsg is sent when a configured provider is chosen
	// from the list, either for quick model switching or for a tier.
	ProviderChosenMsg struct {
		ID string
	}
)

// Provider selection messages.
type (
	// ProviderSelectedMsg is sent when a catalog or custom provider is
	// picked during the add flow.
	ProviderSelectedMsg struct {
		ProviderID   string
		ProviderName string
		ProviderType string
		IsCustom     bool
	}
)

// Model selection messages.
type (
	// SelectLargeModelMsg starts the large model selection flow.
	SelectLargeModelMsg struct{}

	// SelectSmallModelMsg starts the small model selection flow.
	SelectSmallModelMsg struct{}

	// ModelSelectedMsg is sent when a model is selected from a provider.
	ModelSelectedMsg struct {
		ProviderID string
		ModelID    string
	}

	// ModelSwitchedMsg is sent to the parent when the active model
	// selection has been saved. The root rebuilds the models from the
	// updated config and swaps them into the running agent.
	ModelSwitchedMsg struct {
		Tier       config.SelectedModelType
		ProviderID string
		ModelID    string
		ModelName  string
	}
)

// Form messages.
type (
	// FormSubmitMsg is sent when the provider form is submitted.
	FormSubmitMsg struct {
		Name     string
		APIKey   string
		BaseURL  string
		ModelID  string
		IsCustom bool
	}

	// FormCancelMsg is sent when the provider form is cancelled.
	FormCancelMsg struct{}
)
