package providers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/providers"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func testHTTPClient() *httpclient.Client {
	return httpclient.NewClient(httpclient.DefaultConfig(), noopLogger())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "agent-scout", providers.Slugify("Agent Scout"))
	assert.Equal(t, "my-dao-2", providers.Slugify("  My DAO!! 2  "))
	assert.Equal(t, "", providers.Slugify("!!!"))
}

func TestNormalizeShopDomain(t *testing.T) {
	assert.Equal(t, "shop.example.com", providers.NormalizeShopDomain("https://shop.example.com/"))
	assert.Equal(t, "shop.example.com", providers.NormalizeShopDomain("http://shop.example.com"))
	assert.Equal(t, "shop.example.com", providers.NormalizeShopDomain(" shop.example.com "))
}

func TestExtractWebhookPath(t *testing.T) {
	workflow := map[string]any{
		"nodes": []any{
			map[string]any{"type": "n8n-nodes-base.set"},
			map[string]any{
				"type":       "n8n-nodes-base.webhook",
				"parameters": map[string]any{"path": "/hooks/incoming"},
			},
		},
	}
	assert.Equal(t, "hooks/incoming", providers.ExtractWebhookPath(workflow))
	assert.Equal(t, "", providers.ExtractWebhookPath(map[string]any{}))
}

func TestRunProbes_IsolatesFailures(t *testing.T) {
	checkedAt := time.Now().UTC()
	probes := []providers.Probe{
		{Name: "good", Run: func(_ context.Context) (int, []map[string]any, error) {
			return 2, []map[string]any{{"id": "a"}, {"id": "b"}}, nil
		}},
		{Name: "bad", Run: func(_ context.Context) (int, []map[string]any, error) {
			return 0, nil, errors.New("network down")
		}},
		{Name: "also-good", Run: func(_ context.Context) (int, []map[string]any, error) {
			return 1, []map[string]any{{"id": "c"}}, nil
		}},
	}

	results := providers.RunProbes(context.Background(), checkedAt, probes)
	require.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.Equal(t, 2, results[0].Count)
	assert.False(t, results[1].OK)
	assert.Equal(t, "network down", results[1].Warning)
	assert.True(t, results[2].OK)
}

func TestSIPCatalogProbe(t *testing.T) {
	probe := providers.SIPCatalogProbe([]string{"telnyx"})
	count, rows, err := probe.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	var foundPreferred bool
	for _, row := range rows {
		if row["provider"] == "telnyx" {
			assert.Equal(t, true, row["preferred"])
			foundPreferred = true
		} else {
			assert.Equal(t, false, row["preferred"])
		}
	}
	assert.True(t, foundPreferred)
}

func TestBraveClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"web": map[string]any{
				"results": []map[string]any{
					{"title": "Go", "url": "https://go.dev", "description": "The Go programming language"},
					{"title": "Go docs", "url": "https://go.dev/doc", "description": "Docs"},
				},
			},
		})
	}))
	defer server.Close()

	client := providers.NewBraveClient(testHTTPClient(), "test-key", server.URL, noopLogger())
	results, err := client.Search(context.Background(), providers.SearchInput{Query: "golang", Count: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Go", results[0].Title)
	assert.Equal(t, "https://go.dev", results[0].URL)
}

func TestBraveClient_MissingKey(t *testing.T) {
	client := providers.NewBraveClient(testHTTPClient(), "", "", noopLogger())
	_, err := client.Search(context.Background(), providers.SearchInput{Query: "golang", Count: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRAVE_API_KEY")
}

func TestN8nClient_CreateWorkflow(t *testing.T) {
	var activated bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "api-key", r.Header.Get("X-N8N-API-KEY"))
		if r.URL.Path == "/api/v1/workflows" {
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "wf-42"})
			return
		}
		if r.URL.Path == "/api/v1/workflows/wf-42/activate" {
			activated = true
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := providers.NewN8nClient(testHTTPClient(), server.URL, "api-key", noopLogger())
	result := client.CreateWorkflow(context.Background(), providers.RemoteWorkflowInput{
		Workflow: map[string]any{"nodes": []any{}},
		Activate: true,
	})
	assert.Empty(t, result.Warning)
	assert.Equal(t, "wf-42", result.WorkflowID)
	assert.True(t, activated)
}

func TestN8nClient_SkipsWithoutConfig(t *testing.T) {
	client := providers.NewN8nClient(testHTTPClient(), "", "", noopLogger())
	result := client.CreateWorkflow(context.Background(), providers.RemoteWorkflowInput{
		Workflow: map[string]any{"nodes": []any{}},
	})
	assert.Empty(t, result.WorkflowID)
	assert.Empty(t, result.Warning)
}

func TestN8nClient_RemoteFailureIsWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := providers.NewN8nClient(testHTTPClient(), server.URL, "api-key", noopLogger())
	result := client.CreateWorkflow(context.Background(), providers.RemoteWorkflowInput{
		Workflow: map[string]any{"nodes": []any{}},
	})
	assert.Contains(t, result.Warning, "n8n create failed (502)")
}

func TestLiveKitIssuer_IssueSession(t *testing.T) {
	issuer := providers.NewLiveKitIssuer("lk-key", "lk-secret", "wss://livekit.example.com", noopLogger())

	session, err := issuer.IssueSession(context.Background(), "agent-room", "Scout")
	require.NoError(t, err)
	assert.Equal(t, "agent-room", session.RoomName)
	assert.Equal(t, "wss://livekit.example.com", session.URL)

	token, err := jwt.Parse(session.Token, func(_ *jwt.Token) (any, error) {
		return []byte("lk-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "lk-key", claims["iss"])
	assert.Equal(t, "Scout", claims["sub"])
	video := claims["video"].(map[string]any)
	assert.Equal(t, true, video["roomJoin"])
	assert.Equal(t, "agent-room", video["room"])
}

func TestLiveKitIssuer_MissingConfig(t *testing.T) {
	issuer := providers.NewLiveKitIssuer("", "", "", noopLogger())
	_, err := issuer.IssueSession(context.Background(), "room", "Scout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIVEKIT_API_KEY")
}

func TestRemoteRunner_DryRun(t *testing.T) {
	runner := providers.NewRemoteRunner(testHTTPClient(), providers.RunnerConfig{}, noopLogger())
	result, err := runner.Execute(context.Background(), "uptime", "")
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, "uptime", result.Command)
}

func TestRemoteRunner_WrapsSSH(t *testing.T) {
	runner := providers.NewRemoteRunner(testHTTPClient(), providers.RunnerConfig{
		SSHHost: "worker.internal",
		SSHUser: "deploy",
		SSHPort: 2222,
	}, noopLogger())

	result, err := runner.Execute(context.Background(), `echo "hello"`, "")
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, `ssh -p 2222 deploy@worker.internal "echo \"hello\""`, result.Command)
}

func TestRemoteRunner_RequiresCommand(t *testing.T) {
	runner := providers.NewRemoteRunner(testHTTPClient(), providers.RunnerConfig{}, noopLogger())
	_, err := runner.Execute(context.Background(), "  ", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command is required")
}

func TestTTSClient_Validation(t *testing.T) {
	client := providers.NewTTSClient(testHTTPClient(), "", "", noopLogger())

	_, err := client.Synthesize(context.Background(), providers.SynthesizeInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text is required")

	long := make([]byte, providers.MaxTTSTextLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = client.Synthesize(context.Background(), providers.SynthesizeInput{Text: string(long)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "character limit")

	_, err = client.Synthesize(context.Background(), providers.SynthesizeInput{Text: "hi", Provider: "openai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestTTSClient_CustomProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer custom-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"audioBase64": "aGVsbG8="})
	}))
	defer server.Close()

	client := providers.NewTTSClient(testHTTPClient(), "", "", noopLogger())
	audio, err := client.Synthesize(context.Background(), providers.SynthesizeInput{
		Text:     "hello",
		Provider: "custom",
		Endpoint: server.URL,
		APIKey:   "custom-token",
		Format:   "wav",
	})
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", audio.MimeType)
	assert.Equal(t, 5, audio.SizeBytes)
	assert.Equal(t, "data:audio/wav;base64,aGVsbG8=", audio.DataURL)
}

func TestShopifyClient_Validation(t *testing.T) {
	client := providers.NewShopifyClient(testHTTPClient(), "admin-token", "2024-10", noopLogger())

	_, err := client.Snapshot(context.Background(), providers.SnapshotInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shopDomain is required")

	missingToken := providers.NewShopifyClient(testHTTPClient(), "", "", noopLogger())
	_, err = missingToken.Snapshot(context.Background(), providers.SnapshotInput{ShopDomain: "shop.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOPIFY_ADMIN_TOKEN")
}
