package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/actions"
	"github.com/Ramsey-B/clover/pkg/auth"
)

const bridgeAllowHeaders = "Content-Type, Authorization, X-Agent-Id, X-Agent-Api-Key, X-Agent-Automation-Secret"

// BridgeHandler serves the automation bridge function endpoint.
type BridgeHandler struct {
	auth    *auth.Authenticator
	actions *actions.Service
	secret  string
	logger  ectologger.Logger
}

// NewBridgeHandler creates a new bridge handler
func NewBridgeHandler(authenticator *auth.Authenticator, actionService *actions.Service, secret string, logger ectologger.Logger) *BridgeHandler {
	return &BridgeHandler{
		auth:    authenticator,
		actions: actionService,
		secret:  secret,
		logger:  logger,
	}
}

// RegisterRoutes registers the bridge route
func (h *BridgeHandler) RegisterRoutes(e *echo.Echo) {
	e.Any("/functions/agent-automation-bridge", h.Handle)
}

// Handle processes one bridge invocation. Method, secret, and identity
// checks run in that order before the action dispatches.
func (h *BridgeHandler) Handle(c echo.Context) error {
	setCORSHeaders(c, bridgeAllowHeaders)

	req := c.Request()
	if req.Method == http.MethodOptions {
		return c.NoContent(http.StatusNoContent)
	}
	if req.Method != http.MethodPost {
		return LegacyErrorResponse(c, http.StatusMethodNotAllowed, "Method not allowed")
	}

	payload := map[string]any{}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		payload = map[string]any{}
	}

	if h.secret != "" && h.providedSecret(c, payload) != h.secret {
		return LegacyErrorResponse(c, http.StatusUnauthorized, "Unauthorized: invalid automation secret")
	}

	agentID := stringField(payload, "agentId", "agent_id")
	if agentID == "" {
		agentID = req.Header.Get("X-Agent-Id")
	}
	apiKey := stringField(payload, "agentApiKey", "agent_api_key")
	if apiKey == "" {
		apiKey = req.Header.Get("X-Agent-Api-Key")
	}
	if apiKey == "" {
		apiKey = bearerToken(req.Header.Get("Authorization"))
	}
	if agentID == "" || apiKey == "" {
		return LegacyErrorResponse(c, http.StatusBadRequest, "agentId and agentApiKey are required")
	}

	id, err := uuid.Parse(agentID)
	if err != nil {
		return LegacyErrorResponse(c, http.StatusUnauthorized, "Agent authentication failed: unknown agent")
	}
	agent, err := h.auth.Authenticate(req.Context(), id, apiKey)
	if err != nil {
		return LegacyFromError(c, err)
	}

	action := stringField(payload, "action")
	result, err := h.actions.Dispatch(req.Context(), action, agent, payload)
	if err != nil {
		h.logger.WithContext(req.Context()).WithError(err).WithFields(map[string]any{
			"action":   action,
			"agent_id": agent.ID,
		}).Warn("bridge action failed")
		return LegacyFromError(c, err)
	}
	return SuccessResponse(c, result)
}

func (h *BridgeHandler) providedSecret(c echo.Context, payload map[string]any) string {
	if secret := c.Request().Header.Get("X-Agent-Automation-Secret"); secret != "" {
		return secret
	}
	return stringField(payload, "automationSecret", "automation_secret")
}

func stringField(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := payload[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func bearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
