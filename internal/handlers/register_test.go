package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/internal/handlers"
	"github.com/Ramsey-B/clover/pkg/activity"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/register"
)

type fakeSessionRepo struct{}

func (f *fakeSessionRepo) GetLatestByAgent(_ context.Context, _ uuid.UUID) (*models.Session, error) {
	return nil, httperror.NewHTTPError(http.StatusNotFound, "session not found")
}

func (f *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	session.ID = uuid.New()
	return nil
}

func (f *fakeSessionRepo) Touch(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

type fakeAssignmentRepo struct{}

func (f *fakeAssignmentRepo) GetLatestByAgentAndBusiness(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*models.AgentAssignment, error) {
	return nil, httperror.NewHTTPError(http.StatusNotFound, "assignment not found")
}

func (f *fakeAssignmentRepo) Create(_ context.Context, assignment *models.AgentAssignment) error {
	assignment.ID = uuid.New()
	return nil
}

func (f *fakeAssignmentRepo) Update(_ context.Context, _ *models.AgentAssignment) error {
	return nil
}

type fakeBusinessRepo struct{}

func (f *fakeBusinessRepo) GetByID(_ context.Context, _ uuid.UUID) (*models.Business, error) {
	return nil, httperror.NewHTTPError(http.StatusNotFound, "business not found")
}

func (f *fakeBusinessRepo) UpdateAgents(_ context.Context, _ uuid.UUID, _ []string) error {
	return nil
}

func newRegisterServer(secret string) (*echo.Echo, *fakeAgentRepo) {
	logger := noopLogger()
	agents := &fakeAgentRepo{agents: map[uuid.UUID]*models.Agent{}}
	recorder := activity.NewRecorder(&fakeActivityRepo{}, nil, logger)
	service := register.NewService(agents, &fakeSessionRepo{}, &fakeAssignmentRepo{}, &fakeBusinessRepo{}, recorder, nil, "https://fleet.example.com", logger)

	e := echo.New()
	handler := handlers.NewRegisterHandler(service, secret, logger)
	handler.RegisterRoutes(e)
	return e, agents
}

func postRegister(e *echo.Echo, body map[string]any, headers map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/functions/agent-self-register", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint_RejectsBadSecret(t *testing.T) {
	e, _ := newRegisterServer("hunter2")

	rec := postRegister(e, map[string]any{"name": "Scout", "role": "Researcher"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: invalid self-register secret", decodeBody(t, rec)["error"])
}

func TestRegisterEndpoint_AcceptsBodySecret(t *testing.T) {
	e, _ := newRegisterServer("hunter2")

	rec := postRegister(e, map[string]any{
		"name":           "Scout",
		"role":           "Researcher",
		"registerSecret": "hunter2",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterEndpoint_RequiresNameAndRole(t *testing.T) {
	e, _ := newRegisterServer("")

	rec := postRegister(e, map[string]any{"name": "Scout"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name and role are required fields", decodeBody(t, rec)["error"])
}

func TestRegisterEndpoint_CreatesAgent(t *testing.T) {
	e, agents := newRegisterServer("hunter2")

	rec := postRegister(e, map[string]any{
		"name":       "Scout",
		"role":       "Researcher",
		"externalId": "openclaw-scout-1",
	}, map[string]string{"X-OpenClaw-Secret": "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, true, body["created"])

	agent := body["agent"].(map[string]any)
	assert.Equal(t, "Scout", agent["name"])
	assert.NotEmpty(t, agent["apiKey"])

	onboarding := body["onboarding"].(map[string]any)
	assert.Equal(t, "agent-self-register", onboarding["selfRegisterSlug"])
	assert.Equal(t, float64(60), onboarding["suggestedHeartbeatSeconds"])
	require.Len(t, agents.agents, 1)
}
