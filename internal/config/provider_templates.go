// Package config provides provider templates for common LLM services.
package config

import (
	"sort"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

// ProviderTemplate defines a pre-built provider configuration template.
type ProviderTemplate struct {
	Name                string
	ID                  string
	Type                catwalk.Type
	APIEndpoint         string
	DefaultHeaders      map[string]string
	DefaultLargeModelID string
	DefaultSmallModelID string
	DefaultModels       []catwalk.Model
	Description         string
	Variables           []TemplateVariable
}

// TemplateVariable defines a variable that can be customized in a template.
type TemplateVariable struct {
	Name         string
	Description  string
	DefaultValue string
	Placeholder  string
}

func model(id, name string, ctx, maxTokens int64) catwalk.Model {
	return catwalk.Model{
		ID:               id,
		Name:             name,
		ContextWindow:    ctx,
		DefaultMaxTokens: maxTokens,
	}
}

func baseURLVar(desc, url string) TemplateVariable {
	return TemplateVariable{
		Name:         "base_url",
		Description:  desc,
		DefaultValue: url,
		Placeholder:  url,
	}
}

func apiKeyVar(desc, envVar, placeholder string) TemplateVariable {
	return TemplateVariable{
		Name:         "api_key",
		Description:  desc,
		DefaultValue: envVar,
		Placeholder:  placeholder,
	}
}

// ProviderTemplates returns all available provider templates, keyed by
// template name.
func ProviderTemplates() map[string]ProviderTemplate {
	templates := map[string]ProviderTemplate{
		"ollama": {
			Name:                "Ollama",
			ID:                  "ollama",
			Type:                catwalk.TypeOpenAICompat,
			APIEndpoint:         "http://localhost:11434/v1",
			DefaultLargeModelID: "qwen2.5:32b",
			DefaultSmallModelID: "qwen2.5:7b",
			DefaultModels: []catwalk.Model{
				model("qwen2.5:32b", "Qwen 2.5 32B", 32768, 8192),
				model("qwen2.5:7b", "Qwen 2.5 7B", 32768, 4096),
				model("llama3.3:70b", "Llama 3.3 70B", 128000, 8192),
				model("llama3.3:8b", "Llama 3.3 8B", 128000, 4096),
			},
			Description: "Local Ollama server for running open-source models",
			Variables: []TemplateVariable{
				baseURLVar("Ollama server URL", "http://localhost:11434/v1"),
			},
		},
		"lmstudio": {
			Name:                "LM Studio",
			ID:                  "lmstudio",
			Type:                catwalk.TypeOpenAICompat,
			APIEndpoint:         "http://localhost:1234/v1",
			DefaultLargeModelID: "qwen2.5-32b-instruct",
			DefaultSmallModelID: "qwen2.5-7b-instruct",
			DefaultModels: []catwalk.Model{
				model("qwen2.5-32b-instruct", "Qwen 2.5 32B Instruct", 32768, 8192),
				model("qwen2.5-7b-instruct", "Qwen 2.5 7B Instruct", 32768, 4096),
			},
			Description: "LM Studio for running local LLMs with a GUI",
			Variables: []TemplateVariable{
				baseURLVar("LM Studio server URL", "http://localhost:1234/v1"),
			},
		},
		"openrouter": {
			Name:        "OpenRouter",
			ID:          "openrouter-custom",
			Type:        catwalk.TypeOpenRouter,
			APIEndpoint: "https://openrouter.ai/api/v1",
			DefaultHeaders: map[string]string{
				"HTTP-Referer": "https://yoda.dev",
				"X-Title":      "yoda",
			},
			DefaultLargeModelID: "anthropic/claude-sonnet-4",
			DefaultSmallModelID: "anthropic/claude-3.5-haiku",
			Description:         "OpenRouter - API for accessing many LLMs",
			Variables: []TemplateVariable{
				apiKeyVar("OpenRouter API key", "$OPENROUTER_API_KEY", "sk-or-v1-..."),
			},
		},
		"together": {
			Name:                "Together AI",
			ID:                  "together",
			Type:                catwalk.TypeOpenAICompat,
			APIEndpoint:         "https://api.together.xyz/v1",
			DefaultLargeModelID: "meta-llama/Meta-Llama-3.1-405B-Instruct-Turbo",
			DefaultSmallModelID: "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo",
			DefaultModels: []catwalk.Model{
				withCost(model("meta-llama/Meta-Llama-3.1-405B-Instruct-Turbo", "Llama 3.1 405B Instruct Turbo", 131072, 4096), 3.0, 3.0),
				withCost(model("meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo", "Llama 3.1 8B Instruct Turbo", 131072, 4096), 0.20, 0.20),
				withCost(model("mistralai/Mixtral-8x7B-Instruct-v0.1", "Mixtral 8x7B Instruct", 32768, 4096), 0.30, 0.30),
			},
			Description: "Together AI - Fast inference for open-source models",
			Variables: []TemplateVariable{
				apiKeyVar("Together AI API key", "$TOGETHER_API_KEY", "your-api-key-here"),
			},
		},
		"deepseek": {
			Name:                "DeepSeek",
			ID:                  "deepseek-custom",
			Type:                catwalk.TypeOpenAICompat,
			APIEndpoint:         "https://api.deepseek.com/v1",
			DefaultLargeModelID: "deepseek-reasoner",
			DefaultSmallModelID: "deepseek-chat",
			DefaultModels: []catwalk.Model{
				{
					ID:                 "deepseek-reasoner",
					Name:               "DeepSeek Reasoner",
					ContextWindow:      64000,
					DefaultMaxTokens:   8192,
					CostPer1MIn:        0.57,
					CostPer1MOut:       0.57,
					CostPer1MInCached:  0.14,
					CostPer1MOutCached: 0.57,
				},
				{
					ID:                 "deepseek-chat",
					Name:               "DeepSeek Chat",
					ContextWindow:      64000,
					DefaultMaxTokens:   8192,
					CostPer1MIn:        0.14,
					CostPer1MOut:       0.28,
					CostPer1MInCached:  0.014,
					CostPer1MOutCached: 0.28,
				},
			},
			Description: "DeepSeek - Advanced reasoning models",
			Variables: []TemplateVariable{
				apiKeyVar("DeepSeek API key", "$DEEPSEEK_API_KEY", "sk-..."),
			},
		},
		"groq": {
			Name:                "Groq",
			ID:                  "groq",
			Type:                catwalk.TypeOpenAICompat,
			APIEndpoint:         "https://api.groq.com/openai/v1",
			DefaultLargeModelID: "llama-3.3-70b-versatile",
			DefaultSmallModelID: "llama-3.3-8b-instant",
			DefaultModels: []catwalk.Model{
				model("llama-3.3-70b-versatile", "Llama 3.3 70B Versatile", 131072, 8192),
				model("llama-3.3-8b-instant", "Llama 3.3 8B Instant", 131072, 4096),
				model("gemma2-9b-it", "Gemma 2 9B IT", 8192, 4096),
			},
			Description: "Groq - Extremely fast inference",
			Variables: []TemplateVariable{
				apiKeyVar("Groq API key", "$GROQ_API_KEY", "gsk_..."),
			},
		},
		"anthropic-compatible": {
			Name:        "Anthropic Compatible",
			ID:          "anthropic-compatible",
			Type:        catwalk.TypeAnthropic,
			APIEndpoint: "https://api.anthropic.com",
			DefaultHeaders: map[string]string{
				"anthropic-version": "2023-06-01",
			},
			DefaultLargeModelID: "claude-sonnet-4-5-20250929",
			DefaultSmallModelID: "claude-3-5-haiku-20241022",
			Description:         "Generic Anthropic-compatible API (e.g., via proxy)",
			Variables: []TemplateVariable{
				baseURLVar("API base URL", "https://api.anthropic.com"),
				apiKeyVar("API key", "$ANTHROPIC_API_KEY", "sk-ant-..."),
			},
		},
		"azure-openai": {
			Name:                "Azure OpenAI",
			ID:                  "azure-openai",
			Type:                catwalk.TypeAzure,
			APIEndpoint:         "", // per-resource, user must provide
			DefaultLargeModelID: "gpt-4o",
			DefaultSmallModelID: "gpt-4o-mini",
			DefaultModels: []catwalk.Model{
				model("gpt-4o", "GPT-4o", 128000, 4096),
				model("gpt-4o-mini", "GPT-4o Mini", 128000, 4096),
			},
			Description: "Azure OpenAI Service",
			Variables: []TemplateVariable{
				{
					Name:        "base_url",
					Description: "Azure OpenAI endpoint (e.g., https://your-resource.openai.azure.com/)",
					Placeholder: "https://your-resource.openai.azure.com/",
				},
				apiKeyVar("Azure OpenAI API key", "$AZURE_OPENAI_API_KEY", "your-api-key"),
				{
					Name:         "api_version",
					Description:  "API version",
					DefaultValue: "2024-02-01",
					Placeholder:  "2024-02-01",
				},
			},
		},
		"vertexai": {
			Name:                "Google Vertex AI",
			ID:                  "vertexai",
			Type:                catwalk.TypeVertexAI,
			APIEndpoint:         "", // configured via environment
			DefaultLargeModelID: "gemini-2.5-pro",
			DefaultSmallModelID: "gemini-2.5-flash",
			DefaultModels: []catwalk.Model{
				model("gemini-2.5-pro", "Gemini 2.5 Pro", 1000000, 8192),
				model("gemini-2.5-flash", "Gemini 2.5 Flash", 1000000, 8192),
			},
			Description: "Google Vertex AI - Requires GCloud authentication setup",
			Variables: []TemplateVariable{
				{
					Name:         "project",
					Description:  "Google Cloud project ID",
					DefaultValue: "$VERTEXAI_PROJECT",
					Placeholder:  "your-project-id",
				},
				{
					Name:         "location",
					Description:  "Google Cloud region",
					DefaultValue: "$VERTEXAI_LOCATION",
					Placeholder:  "us-central1",
				},
			},
		},
	}
	return templates
}

func withCost(m catwalk.Model, in, out float64) catwalk.Model {
	m.CostPer1MIn = in
	m.CostPer1MOut = out
	return m
}

// GetTemplate returns a provider template by name.
func GetTemplate(name string) (ProviderTemplate, bool) {
	tmpl, ok := ProviderTemplates()[name]
	return tmpl, ok
}

// ListTemplateNames returns all available template names in sorted order.
func ListTemplateNames() []string {
	templates := ProviderTemplates()
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToCustomProvider converts a template to a CustomProvider, applying
// variable substitutions and optional ID/name overrides.
func (pt *ProviderTemplate) ToCustomProvider(vars map[string]string, customID, customName string) CustomProvider {
	cp := CustomProvider{
		Name:                pt.Name,
		ID:                  pt.ID,
		Type:                pt.Type,
		APIEndpoint:         pt.APIEndpoint,
		DefaultHeaders:      make(map[string]string, len(pt.DefaultHeaders)),
		DefaultLargeModelID: pt.DefaultLargeModelID,
		DefaultSmallModelID: pt.DefaultSmallModelID,
		Models:              pt.DefaultModels,
	}
	for k, v := range pt.DefaultHeaders {
		cp.DefaultHeaders[k] = v
	}
	if url := vars["base_url"]; url != "" {
		cp.APIEndpoint = url
	}
	if customID != "" {
		cp.ID = customID
	}
	if customName != "" {
		cp.Name = customName
	}
	return cp
}
