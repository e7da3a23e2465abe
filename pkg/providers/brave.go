package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const DefaultBraveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// SearchResult is one normalized web search hit.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Age         string `json:"age,omitempty"`
	Language    string `json:"language,omitempty"`
	Source      string `json:"source,omitempty"`
}

// SearchInput is a normalized web search request. APIKey and Endpoint
// override the configured defaults when set.
type SearchInput struct {
	Query     string
	Count     int
	Freshness string
	APIKey    string
	Endpoint  string
}

// BraveClient queries the Brave web search API.
type BraveClient struct {
	hc       *httpclient.Client
	apiKey   string
	endpoint string
	logger   ectologger.Logger
}

// NewBraveClient creates a new Brave search client
func NewBraveClient(hc *httpclient.Client, apiKey, endpoint string, logger ectologger.Logger) *BraveClient {
	if endpoint == "" {
		endpoint = DefaultBraveEndpoint
	}
	return &BraveClient{
		hc:       hc,
		apiKey:   apiKey,
		endpoint: endpoint,
		logger:   logger,
	}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Age         string `json:"age"`
			Language    string `json:"language"`
			Source      string `json:"source"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs a web search and maps the raw results to a fixed field subset.
func (b *BraveClient) Search(ctx context.Context, input SearchInput) ([]SearchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "BraveClient.Search")
	defer span.End()

	apiKey := input.APIKey
	if apiKey == "" {
		apiKey = b.apiKey
	}
	if apiKey == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Missing BRAVE_API_KEY (env) or braveApiKey in payload")
	}

	endpoint := input.Endpoint
	if endpoint == "" {
		endpoint = b.endpoint
	}

	params := url.Values{}
	params.Set("q", input.Query)
	params.Set("count", strconv.Itoa(input.Count))
	if input.Freshness != "" {
		params.Set("freshness", input.Freshness)
	}

	var body braveResponse
	resp, err := b.hc.GetJSON(ctx, endpoint+"?"+params.Encode(), map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": apiKey,
	}, &body)
	if resp != nil {
		metrics.RecordHTTPRequest("brave", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
	}
	if err != nil {
		if resp != nil && !resp.IsSuccess() {
			return nil, fmt.Errorf("Brave search failed (%d)", resp.StatusCode)
		}
		return nil, err
	}

	results := make([]SearchResult, 0, len(body.Web.Results))
	for _, entry := range body.Web.Results {
		if len(results) >= input.Count {
			break
		}
		results = append(results, SearchResult{
			Title:       entry.Title,
			URL:         entry.URL,
			Description: entry.Description,
			Age:         entry.Age,
			Language:    entry.Language,
			Source:      entry.Source,
		})
	}
	return results, nil
}
