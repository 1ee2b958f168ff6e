package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/yodaai/yoda/internal/models"
)

// listModelsTimeout bounds the whole model listing request.
const listModelsTimeout = 15 * time.Second

// modelListResponse is the OpenAI-compatible /v1/models response shape.
type modelListResponse struct {
	Data []struct {
		ID      string `json:"id"`
		Created int64  `json:"created"`
	} `json:"data"`
}

// ListModels fetches the models an OpenAI-compatible endpoint offers.
// Local runtimes like Ollama and LM Studio expose this, so the model
// picker can show what is actually installed instead of a static list.
func ListModels(ctx context.Context, providerID, baseURL, apiKey string, headers map[string]string) ([]models.ModelInfo, error) {
	url := modelsURL(baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating models request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: listModelsTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing models from %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Response body close error is not actionable.

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing models from %s: unexpected status %s", url, resp.Status)
	}

	var list modelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding models response: %w", err)
	}

	result := make([]models.ModelInfo, 0, len(list.Data))
	for _, entry := range list.Data {
		info := models.NewModelInfo(entry.ID, providerID)
		if entry.Created > 0 {
			info.CreatedAt = time.Unix(entry.Created, 0)
		}
		if err := info.Validate(); err != nil {
			continue
		}
		result = append(result, *info)
	}

	slices.SortFunc(result, func(a, b models.ModelInfo) int {
		return strings.Compare(a.ID, b.ID)
	})

	return result, nil
}

// modelsURL builds the listing URL, tolerating base URLs that already
// include the /v1 segment.
func modelsURL(baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(base, "/v1") {
		return base + "/models"
	}
	return base + "/v1/models"
}
