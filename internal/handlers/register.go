package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/register"
)

const registerAllowHeaders = "Content-Type, Authorization, X-Agent-Register-Secret, X-OpenClaw-Secret"

// RegisterHandler serves the self-registration function endpoint.
type RegisterHandler struct {
	service *register.Service
	secret  string
	logger  ectologger.Logger
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(service *register.Service, secret string, logger ectologger.Logger) *RegisterHandler {
	return &RegisterHandler{
		service: service,
		secret:  secret,
		logger:  logger,
	}
}

// RegisterRoutes registers the self-register route
func (h *RegisterHandler) RegisterRoutes(e *echo.Echo) {
	e.Any("/functions/agent-self-register", h.Handle)
}

// Handle processes a registration or heartbeat call.
func (h *RegisterHandler) Handle(c echo.Context) error {
	setCORSHeaders(c, registerAllowHeaders)

	httpReq := c.Request()
	if httpReq.Method == http.MethodOptions {
		return c.NoContent(http.StatusNoContent)
	}
	if httpReq.Method != http.MethodPost {
		return LegacyErrorResponse(c, http.StatusMethodNotAllowed, "Method not allowed")
	}

	var req register.Request
	if err := json.NewDecoder(httpReq.Body).Decode(&req); err != nil {
		req = register.Request{}
	}

	if h.secret != "" && h.providedSecret(c, &req) != h.secret {
		return LegacyErrorResponse(c, http.StatusUnauthorized, "Unauthorized: invalid self-register secret")
	}

	result, err := h.service.Register(httpReq.Context(), &req)
	if err != nil {
		h.logger.WithContext(httpReq.Context()).WithError(err).WithFields(map[string]any{
			"external_id": req.ExternalID,
		}).Warn("self registration failed")
		return LegacyFromError(c, err)
	}

	return SuccessResponse(c, map[string]any{
		"ok":         true,
		"created":    result.Created,
		"agent":      result.Agent,
		"onboarding": result.Onboarding,
	})
}

func (h *RegisterHandler) providedSecret(c echo.Context, req *register.Request) string {
	if secret := c.Request().Header.Get("X-Agent-Register-Secret"); secret != "" {
		return secret
	}
	if secret := c.Request().Header.Get("X-OpenClaw-Secret"); secret != "" {
		return secret
	}
	return req.Secret()
}
