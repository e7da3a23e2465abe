// Package profile holds the static default operating-profile catalog and the
// merge algorithm that combines it with stored or caller-supplied profiles.
package profile

import (
	"encoding/json"
	"strings"
)

// Version identifies the current default catalog revision.
const Version = "2026.02.master"

// SuggestedHeartbeatSeconds is the heartbeat interval recommended to agents
// during onboarding.
const SuggestedHeartbeatSeconds = 60

// DefaultSkills is the built-in skill catalog.
var DefaultSkills = []string{
	"brand-voice-generator",
	"cloudflare-deploy",
	"figma",
	"figma-implement-design",
	"imagegen",
	"mcp-client",
	"netlify-deploy",
	"pdf",
	"playwright",
	"pptx-generator",
	"skill-creator",
	"sop-creator",
	"sora",
	"vercel-deploy",
}

// DefaultMCPTools is the built-in MCP tool catalog.
var DefaultMCPTools = []string{
	"database",
	"functions",
	"storage",
	"auth",
	"ai",
	"realtime",
	"deployment",
	"skills",
	"mcp-client",
	"fetch-docs",
	"fetch-sdk-docs",
	"fetch-guides",
	"cron",
	"logs",
	"monitoring",
	"secrets",
	"integrations",
}

// MCPServer describes one entry of the built-in MCP server catalog.
type MCPServer struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Transport string   `json:"transport"`
	Command   string   `json:"command,omitempty"`
	Args      []string `json:"args,omitempty"`
	Endpoint  string   `json:"endpoint,omitempty"`
	Env       []string `json:"env,omitempty"`
	Enabled   bool     `json:"enabled"`
}

// DefaultMCPServers is the built-in MCP server catalog, in canonical order.
var DefaultMCPServers = []MCPServer{
	{
		ID:        "insforge-core",
		Name:      "InsForge Core MCP",
		Category:  "backend",
		Transport: "stdio",
		Command:   "npx",
		Args:      []string{"-y", "@insforge/mcp"},
		Env:       []string{"INSFORGE_API_KEY", "INSFORGE_API_BASE_URL"},
		Enabled:   true,
	},
	{
		ID:        "mcp-client",
		Name:      "Universal MCP Client",
		Category:  "orchestration",
		Transport: "stdio",
		Command:   "npx",
		Args:      []string{"-y", "@modelcontextprotocol/client"},
		Enabled:   true,
	},
	{
		ID:        "filesystem",
		Name:      "Filesystem MCP",
		Category:  "core",
		Transport: "stdio",
		Command:   "npx",
		Args:      []string{"-y", "@modelcontextprotocol/server-filesystem"},
		Enabled:   true,
	},
	{
		ID:        "brave-search",
		Name:      "Brave Search MCP",
		Category:  "research",
		Transport: "sse",
		Endpoint:  "https://api.search.brave.com/res/v1/web/search",
		Env:       []string{"BRAVE_API_KEY"},
		Enabled:   true,
	},
	{
		ID:        "github",
		Name:      "GitHub MCP",
		Category:  "devops",
		Transport: "stdio",
		Command:   "npx",
		Args:      []string{"-y", "@modelcontextprotocol/server-github"},
		Env:       []string{"GITHUB_TOKEN"},
		Enabled:   true,
	},
	{
		ID:        "playwright-browser",
		Name:      "Playwright Browser MCP",
		Category:  "research",
		Transport: "stdio",
		Command:   "npx",
		Args:      []string{"-y", "@playwright/mcp"},
		Enabled:   true,
	},
	{
		ID:        "n8n",
		Name:      "n8n MCP",
		Category:  "automation",
		Transport: "http",
		Endpoint:  "https://n8n.your-domain.com/mcp",
		Env:       []string{"N8N_BASE_URL", "N8N_API_KEY"},
		Enabled:   true,
	},
	{
		ID:        "livekit",
		Name:      "LiveKit Voice MCP",
		Category:  "voice",
		Transport: "http",
		Endpoint:  "https://livekit.your-domain.com/mcp",
		Env:       []string{"LIVEKIT_API_KEY", "LIVEKIT_API_SECRET", "LIVEKIT_WS_URL"},
		Enabled:   true,
	},
	{
		ID:        "shopify",
		Name:      "Shopify MCP",
		Category:  "commerce",
		Transport: "http",
		Endpoint:  "https://shopify.your-domain.com/mcp",
		Env:       []string{"SHOPIFY_ADMIN_TOKEN"},
		Enabled:   true,
	},
	{
		ID:        "telegram",
		Name:      "Telegram MCP",
		Category:  "communications",
		Transport: "http",
		Endpoint:  "https://telegram.your-domain.com/mcp",
		Env:       []string{"TELEGRAM_BOT_TOKEN"},
		Enabled:   true,
	},
	{
		ID:        "openrouter",
		Name:      "OpenRouter MCP",
		Category:  "models",
		Transport: "http",
		Endpoint:  "https://openrouter.ai/api/v1",
		Env:       []string{"OPENROUTER_API_KEY"},
		Enabled:   true,
	},
	{
		ID:        "huggingface",
		Name:      "Hugging Face MCP",
		Category:  "models",
		Transport: "http",
		Endpoint:  "https://huggingface.co/api",
		Env:       []string{"HUGGINGFACE_TOKEN"},
		Enabled:   true,
	},
	{
		ID:        "gemini",
		Name:      "Gemini MCP",
		Category:  "models",
		Transport: "http",
		Endpoint:  "https://generativelanguage.googleapis.com",
		Env:       []string{"GEMINI_API_KEY"},
		Enabled:   true,
	},
	{
		ID:        "aragon",
		Name:      "Aragon DAO MCP",
		Category:  "dao",
		Transport: "http",
		Endpoint:  "https://aragon.your-domain.com/mcp",
		Enabled:   true,
	},
	{
		ID:        "olympus",
		Name:      "Olympus DAO MCP",
		Category:  "dao",
		Transport: "http",
		Endpoint:  "https://olympus.your-domain.com/mcp",
		Enabled:   true,
	},
	{
		ID:        "proxy-gateway",
		Name:      "Proxy Gateway MCP",
		Category:  "network",
		Transport: "http",
		Endpoint:  "https://proxy.your-domain.com/mcp",
		Env:       []string{"AGENT_PROXY_URL", "AGENT_PROXY_KEY"},
		Enabled:   true,
	},
	{
		ID:        "ssh-exec",
		Name:      "SSH Execute MCP",
		Category:  "infrastructure",
		Transport: "stdio",
		Command:   "npx",
		Args:      []string{"-y", "@modelcontextprotocol/server-ssh"},
		Env:       []string{"SSH_PRIVATE_KEY", "SSH_TARGETS"},
		Enabled:   true,
	},
}

// BridgeActions is the action list advertised in the default profile. The
// single-shot media/ops actions (tts, shopify snapshot, remote command) are
// dispatchable but not advertised, matching the published catalog.
var BridgeActions = []string{
	"web_search",
	"shopify_store_snapshot",
	"create_n8n_workflow",
	"request_livekit_session",
	"import_sip_numbers",
	"post_forum_update",
	"comment_forum_post",
	"create_dao_deployment_task",
	"discover_provider_updates",
}

// AutoEnhancementSources is the built-in auto-enhancement source list.
var AutoEnhancementSources = []string{
	"openrouter-models",
	"huggingface-inference-providers",
	"gemini-models",
	"brave-search",
	"sip-provider-updates",
	"shopify-store-signals",
}

// SIPProvider describes a known SIP port-in provider.
type SIPProvider struct {
	Provider       string   `json:"provider"`
	SupportsPortIn bool     `json:"supportsPortIn"`
	Channels       []string `json:"channels"`
}

// KnownSIPPortProviders is the static SIP porting catalog.
var KnownSIPPortProviders = []SIPProvider{
	{Provider: "twilio", SupportsPortIn: true, Channels: []string{"voice", "sms", "sip-trunking"}},
	{Provider: "telnyx", SupportsPortIn: true, Channels: []string{"voice", "sms", "sip-trunking"}},
	{Provider: "plivo", SupportsPortIn: true, Channels: []string{"voice", "sms", "sip-trunking"}},
	{Provider: "bandwidth", SupportsPortIn: true, Channels: []string{"voice", "sms", "emergency"}},
	{Provider: "vonage", SupportsPortIn: true, Channels: []string{"voice", "sms"}},
	{Provider: "signalwire", SupportsPortIn: true, Channels: []string{"voice", "sms", "sip-trunking"}},
	{Provider: "flowroute", SupportsPortIn: true, Channels: []string{"voice", "sip-trunking"}},
	{Provider: "voipms", SupportsPortIn: true, Channels: []string{"voice", "sip-trunking"}},
	{Provider: "openphone", SupportsPortIn: true, Channels: []string{"voice", "sms"}},
	{Provider: "aircall", SupportsPortIn: true, Channels: []string{"voice"}},
	{Provider: "ringcentral", SupportsPortIn: true, Channels: []string{"voice", "sms"}},
	{Provider: "dialpad", SupportsPortIn: true, Channels: []string{"voice", "sms"}},
}

// DefaultServerMaps returns the server catalog as generic maps, in canonical
// order, for use in profile merges.
func DefaultServerMaps() []map[string]any {
	out := make([]map[string]any, 0, len(DefaultMCPServers))
	for _, server := range DefaultMCPServers {
		out = append(out, serverToMap(server))
	}
	return out
}

func serverToMap(server MCPServer) map[string]any {
	b, _ := json.Marshal(server)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// DefaultOperatingProfile builds a fresh default operating profile pointing
// the bridge endpoint at the given base URL.
func DefaultOperatingProfile(baseURL string) map[string]any {
	endpoint := strings.TrimRight(baseURL, "/") + "/functions/agent-automation-bridge"

	return map[string]any{
		"version": Version,
		"internet": map[string]any{
			"provider": "brave",
			"endpoint": "https://api.search.brave.com/res/v1/web/search",
			"enabled":  true,
		},
		"automationBridge": map[string]any{
			"endpoint": endpoint,
			"actions":  append([]string(nil), BridgeActions...),
		},
		"integrations": map[string]any{
			"n8n":          true,
			"livekit":      true,
			"sipImport":    true,
			"shopify":      true,
			"openrouter":   true,
			"huggingface":  true,
			"gemini":       true,
			"proxyGateway": true,
			"daoLaunch":    true,
		},
		"mcp": map[string]any{
			"enabled":      true,
			"defaultTools": append([]string(nil), DefaultMCPTools...),
			"servers":      DefaultServerMaps(),
		},
		"skills": append([]string(nil), DefaultSkills...),
		"autoEnhancement": map[string]any{
			"enabled":              true,
			"checkIntervalMinutes": 30,
			"sources":              append([]string(nil), AutoEnhancementSources...),
		},
	}
}

// OnboardingServers returns the reduced server descriptions included in
// self-registration onboarding responses.
func OnboardingServers() []map[string]any {
	out := make([]map[string]any, 0, len(DefaultMCPServers))
	for _, server := range DefaultMCPServers {
		out = append(out, map[string]any{
			"id":        server.ID,
			"name":      server.Name,
			"transport": server.Transport,
		})
	}
	return out
}
