package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// N8nClient manages workflows on a remote n8n instance. Remote failures are
// reported as warnings, never errors, so callers can persist a local record
// regardless of remote outcome.
type N8nClient struct {
	hc      *httpclient.Client
	baseURL string
	apiKey  string
	logger  ectologger.Logger
}

// NewN8nClient creates a new n8n API client
func NewN8nClient(hc *httpclient.Client, baseURL, apiKey string, logger ectologger.Logger) *N8nClient {
	return &N8nClient{
		hc:      hc,
		baseURL: NormalizeBaseURL(baseURL),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// RemoteWorkflowInput describes a remote workflow create request. BaseURL and
// APIKey override the configured instance when set.
type RemoteWorkflowInput struct {
	BaseURL  string
	APIKey   string
	Workflow map[string]any
	Activate bool
}

// RemoteWorkflowResult is the outcome of a remote create attempt.
type RemoteWorkflowResult struct {
	BaseURL    string
	WorkflowID string
	Warning    string
}

// ResolveBaseURL returns the effective base URL for an override.
func (n *N8nClient) ResolveBaseURL(override string) string {
	if override != "" {
		return NormalizeBaseURL(override)
	}
	return n.baseURL
}

// ResolveAPIKey returns the effective api key for an override.
func (n *N8nClient) ResolveAPIKey(override string) string {
	if override != "" {
		return override
	}
	return n.apiKey
}

// CreateWorkflow creates (and optionally activates) a workflow on the remote
// instance. It only attempts the remote call when a base URL, api key, and a
// nonempty workflow export are all present.
func (n *N8nClient) CreateWorkflow(ctx context.Context, input RemoteWorkflowInput) RemoteWorkflowResult {
	ctx, span := tracing.StartSpan(ctx, "N8nClient.CreateWorkflow")
	defer span.End()

	result := RemoteWorkflowResult{BaseURL: n.ResolveBaseURL(input.BaseURL)}
	apiKey := n.ResolveAPIKey(input.APIKey)

	if result.BaseURL == "" || apiKey == "" || len(input.Workflow) == 0 {
		return result
	}

	headers := map[string]string{"X-N8N-API-KEY": apiKey}

	resp, err := n.hc.PostJSON(ctx, result.BaseURL+"/api/v1/workflows", headers, input.Workflow)
	if resp != nil {
		metrics.RecordHTTPRequest("n8n", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
	}
	if err != nil {
		result.Warning = err.Error()
		return result
	}
	if !resp.IsSuccess() {
		result.Warning = fmt.Sprintf("n8n create failed (%d)", resp.StatusCode)
		return result
	}

	var created struct {
		ID         any `json:"id"`
		WorkflowID any `json:"workflowId"`
	}
	if err := resp.DecodeJSON(&created); err == nil {
		result.WorkflowID = stringifyID(created.ID)
		if result.WorkflowID == "" {
			result.WorkflowID = stringifyID(created.WorkflowID)
		}
	}

	if input.Activate && result.WorkflowID != "" {
		activateResp, err := n.hc.PostJSON(ctx, result.BaseURL+"/api/v1/workflows/"+result.WorkflowID+"/activate", headers, map[string]any{})
		if activateResp != nil {
			metrics.RecordHTTPRequest("n8n", strconv.Itoa(activateResp.StatusCode), activateResp.Duration.Seconds())
		}
		if err != nil {
			result.Warning = err.Error()
		} else if !activateResp.IsSuccess() {
			result.Warning = fmt.Sprintf("workflow created but activation failed (%d)", activateResp.StatusCode)
		}
	}

	return result
}

// ExtractWebhookPath finds the first webhook node path inside a workflow
// export, without its leading slashes.
func ExtractWebhookPath(workflow map[string]any) string {
	nodes, _ := workflow["nodes"].([]any)
	for _, raw := range nodes {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		nodeType, _ := node["type"].(string)
		if !strings.Contains(strings.ToLower(nodeType), "webhook") {
			continue
		}
		params, _ := node["parameters"].(map[string]any)
		path, _ := params["path"].(string)
		if path == "" {
			continue
		}
		return strings.TrimLeft(path, "/")
	}
	return ""
}

// NormalizeBaseURL trims whitespace and trailing slashes.
func NormalizeBaseURL(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}

// Slugify lowercases and collapses non-alphanumeric runs to single dashes.
func Slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func stringifyID(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
