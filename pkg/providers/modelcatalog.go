package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/profile"
)

const (
	openRouterModelsURL  = "https://openrouter.ai/api/v1/models"
	huggingFaceModelsURL = "https://huggingface.co/api/models?sort=trendingScore&direction=-1&limit=20"
	geminiModelsURL      = "https://generativelanguage.googleapis.com/v1beta/models"
)

// ModelCatalog checks public model registries for the discovery sweep. Each
// check is exposed as an independent probe.
type ModelCatalog struct {
	hc               *httpclient.Client
	huggingFaceToken string
	geminiAPIKey     string
	logger           ectologger.Logger
}

// NewModelCatalog creates a new model catalog client
func NewModelCatalog(hc *httpclient.Client, huggingFaceToken, geminiAPIKey string, logger ectologger.Logger) *ModelCatalog {
	return &ModelCatalog{
		hc:               hc,
		huggingFaceToken: huggingFaceToken,
		geminiAPIKey:     geminiAPIKey,
		logger:           logger,
	}
}

// OpenRouterProbe lists OpenRouter models, keeping the first 25.
func (m *ModelCatalog) OpenRouterProbe() Probe {
	return Probe{Name: "openrouter", Run: func(ctx context.Context) (int, []map[string]any, error) {
		var body struct {
			Data []struct {
				ID            string `json:"id"`
				Name          string `json:"name"`
				ContextLength int    `json:"context_length"`
				TopProvider   struct {
					Name string `json:"name"`
				} `json:"top_provider"`
			} `json:"data"`
		}
		resp, err := m.hc.GetJSON(ctx, openRouterModelsURL, nil, &body)
		if resp != nil {
			metrics.RecordHTTPRequest("openrouter", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
		}
		if err != nil {
			if resp != nil && !resp.IsSuccess() {
				return 0, nil, fmt.Errorf("HTTP %d", resp.StatusCode)
			}
			return 0, nil, err
		}

		models := make([]map[string]any, 0, 25)
		for _, entry := range body.Data {
			if len(models) >= 25 {
				break
			}
			models = append(models, map[string]any{
				"id":             entry.ID,
				"name":           entry.Name,
				"context_length": entry.ContextLength,
				"top_provider":   entry.TopProvider.Name,
			})
		}
		return len(body.Data), models, nil
	}}
}

// HuggingFaceProbe lists trending HuggingFace models. token overrides the
// configured token when set; requests without any token are anonymous.
func (m *ModelCatalog) HuggingFaceProbe(token string) Probe {
	return Probe{Name: "huggingface", Run: func(ctx context.Context) (int, []map[string]any, error) {
		if token == "" {
			token = m.huggingFaceToken
		}
		headers := map[string]string{}
		if token != "" {
			headers["Authorization"] = "Bearer " + token
		}

		var rows []struct {
			ID           string `json:"id"`
			ModelID      string `json:"modelId"`
			PipelineTag  string `json:"pipeline_tag"`
			Likes        int    `json:"likes"`
			Downloads    int    `json:"downloads"`
			LastModified string `json:"lastModified"`
		}
		resp, err := m.hc.GetJSON(ctx, huggingFaceModelsURL, headers, &rows)
		if resp != nil {
			metrics.RecordHTTPRequest("huggingface", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
		}
		if err != nil {
			if resp != nil && !resp.IsSuccess() {
				return 0, nil, fmt.Errorf("HTTP %d", resp.StatusCode)
			}
			return 0, nil, err
		}

		models := make([]map[string]any, 0, 20)
		for _, entry := range rows {
			if len(models) >= 20 {
				break
			}
			id := entry.ID
			if id == "" {
				id = entry.ModelID
			}
			models = append(models, map[string]any{
				"id":        id,
				"pipeline":  entry.PipelineTag,
				"likes":     entry.Likes,
				"downloads": entry.Downloads,
				"updated":   entry.LastModified,
			})
		}
		return len(rows), models, nil
	}}
}

// GeminiProbe lists Gemini models. Without an api key the probe fails with a
// hint instead of calling out.
func (m *ModelCatalog) GeminiProbe(apiKey string) Probe {
	return Probe{Name: "gemini", Run: func(ctx context.Context) (int, []map[string]any, error) {
		if apiKey == "" {
			apiKey = m.geminiAPIKey
		}
		if apiKey == "" {
			return 0, nil, fmt.Errorf("Set GEMINI_API_KEY (env) or geminiApiKey in payload to discover Gemini model list.")
		}

		var body struct {
			Models []struct {
				Name            string `json:"name"`
				DisplayName     string `json:"displayName"`
				Description     string `json:"description"`
				InputTokenLimit int    `json:"inputTokenLimit"`
			} `json:"models"`
		}
		endpoint := geminiModelsURL + "?key=" + url.QueryEscape(apiKey)
		resp, err := m.hc.GetJSON(ctx, endpoint, nil, &body)
		if resp != nil {
			metrics.RecordHTTPRequest("gemini", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
		}
		if err != nil {
			if resp != nil && !resp.IsSuccess() {
				return 0, nil, fmt.Errorf("HTTP %d", resp.StatusCode)
			}
			return 0, nil, err
		}

		models := make([]map[string]any, 0, 30)
		for _, entry := range body.Models {
			if len(models) >= 30 {
				break
			}
			models = append(models, map[string]any{
				"name":            entry.Name,
				"displayName":     entry.DisplayName,
				"description":     entry.Description,
				"inputTokenLimit": entry.InputTokenLimit,
			})
		}
		return len(body.Models), models, nil
	}}
}

// SIPCatalogProbe returns the static SIP porting catalog, flagging providers
// the caller marked as preferred.
func SIPCatalogProbe(preferred []string) Probe {
	preferredSet := make(map[string]struct{}, len(preferred))
	for _, entry := range preferred {
		preferredSet[entry] = struct{}{}
	}
	return Probe{Name: "sip", Run: func(_ context.Context) (int, []map[string]any, error) {
		rows := make([]map[string]any, 0, len(profile.KnownSIPPortProviders))
		for _, provider := range profile.KnownSIPPortProviders {
			_, isPreferred := preferredSet[provider.Provider]
			rows = append(rows, map[string]any{
				"provider":       provider.Provider,
				"supportsPortIn": provider.SupportsPortIn,
				"channels":       provider.Channels,
				"preferred":      isPreferred,
			})
		}
		return len(rows), rows, nil
	}}
}
