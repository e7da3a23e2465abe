package register_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/activity"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/register"
)

type fakeAgentRepo struct {
	agents map[uuid.UUID]*models.Agent
}

func (f *fakeAgentRepo) Create(_ context.Context, agent *models.Agent) error {
	if agent.ID == uuid.Nil {
		agent.ID = uuid.New()
	}
	f.agents[agent.ID] = agent
	return nil
}

func (f *fakeAgentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Agent, error) {
	if agent, ok := f.agents[id]; ok {
		return agent, nil
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "agent not found")
}

func (f *fakeAgentRepo) GetByExternalID(_ context.Context, externalID string) (*models.Agent, error) {
	for _, agent := range f.agents {
		if agent.ExternalID() == externalID {
			return agent, nil
		}
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "agent not found")
}

func (f *fakeAgentRepo) Update(_ context.Context, agent *models.Agent) error {
	if _, ok := f.agents[agent.ID]; !ok {
		return httperror.NewHTTPError(http.StatusNotFound, "agent not found")
	}
	f.agents[agent.ID] = agent
	return nil
}

type fakeSessionRepo struct {
	sessions []models.Session
}

func (f *fakeSessionRepo) GetLatestByAgent(_ context.Context, agentID uuid.UUID) (*models.Session, error) {
	for i := len(f.sessions) - 1; i >= 0; i-- {
		if f.sessions[i].AgentID == agentID {
			session := f.sessions[i]
			return &session, nil
		}
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "session not found")
}

func (f *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	f.sessions = append(f.sessions, *session)
	return nil
}

func (f *fakeSessionRepo) Touch(_ context.Context, id uuid.UUID, status string) error {
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions[i].Status = status
			return nil
		}
	}
	return httperror.NewHTTPError(http.StatusNotFound, "session not found")
}

type fakeAssignmentRepo struct {
	assignments []models.AgentAssignment
	updates     int
}

func (f *fakeAssignmentRepo) GetLatestByAgentAndBusiness(_ context.Context, agentID uuid.UUID, businessID uuid.UUID) (*models.AgentAssignment, error) {
	for i := len(f.assignments) - 1; i >= 0; i-- {
		if f.assignments[i].AgentID == agentID && f.assignments[i].BusinessID == businessID {
			assignment := f.assignments[i]
			return &assignment, nil
		}
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "assignment not found")
}

func (f *fakeAssignmentRepo) Create(_ context.Context, assignment *models.AgentAssignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	f.assignments = append(f.assignments, *assignment)
	return nil
}

func (f *fakeAssignmentRepo) Update(_ context.Context, assignment *models.AgentAssignment) error {
	for i := range f.assignments {
		if f.assignments[i].ID == assignment.ID {
			f.assignments[i] = *assignment
			f.updates++
			return nil
		}
	}
	return httperror.NewHTTPError(http.StatusNotFound, "assignment not found")
}

type fakeBusinessRepo struct {
	businesses map[uuid.UUID]*models.Business
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Business, error) {
	if business, ok := f.businesses[id]; ok {
		return business, nil
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "business not found")
}

func (f *fakeBusinessRepo) UpdateAgents(_ context.Context, id uuid.UUID, agents []string) error {
	business, ok := f.businesses[id]
	if !ok {
		return httperror.NewHTTPError(http.StatusNotFound, "business not found")
	}
	business.Agents.Data = agents
	return nil
}

type fakeActivityRepo struct {
	entries []models.ActivityEntry
}

func (f *fakeActivityRepo) Insert(_ context.Context, entry *models.ActivityEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) ListRecent(_ context.Context, _ int) ([]models.ActivityEntry, error) {
	return f.entries, nil
}

type testFixture struct {
	service     *register.Service
	agents      *fakeAgentRepo
	sessions    *fakeSessionRepo
	assignments *fakeAssignmentRepo
	businesses  *fakeBusinessRepo
	activity    *fakeActivityRepo
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newFixture() *testFixture {
	logger := noopLogger()
	agents := &fakeAgentRepo{agents: map[uuid.UUID]*models.Agent{}}
	sessions := &fakeSessionRepo{}
	assignments := &fakeAssignmentRepo{}
	businesses := &fakeBusinessRepo{businesses: map[uuid.UUID]*models.Business{}}
	activityRepo := &fakeActivityRepo{}
	recorder := activity.NewRecorder(activityRepo, nil, logger)

	service := register.NewService(agents, sessions, assignments, businesses, recorder, nil, "https://fleet.example.com", logger)
	return &testFixture{
		service:     service,
		agents:      agents,
		sessions:    sessions,
		assignments: assignments,
		businesses:  businesses,
		activity:    activityRepo,
	}
}

func TestRegister_RequiresNameAndRole(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.Register(context.Background(), &register.Request{Name: "Scout"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "name and role are required fields")
}

func TestRegister_CreatesAgentWithDefaults(t *testing.T) {
	fixture := newFixture()

	result, err := fixture.service.Register(context.Background(), &register.Request{
		Name:       "Scout",
		Role:       "Researcher",
		ExternalID: "openclaw-scout-1",
	})
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.NotEmpty(t, result.Agent.APIKey)
	assert.Equal(t, "Scout", result.Agent.Name)
	assert.Equal(t, "Researcher", result.Agent.Role)
	assert.Equal(t, models.AgentStatusActive, result.Agent.Status)
	assert.Equal(t, "gpt-4o-mini", result.Agent.Model)

	agent := fixture.agents.agents[result.Agent.ID]
	require.NotNil(t, agent)
	assert.Equal(t, "openclaw-scout-1", agent.ExternalID())
	operatingProfile, ok := agent.Config.Data["operatingProfile"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, operatingProfile["skills"])

	// A session is started by default.
	require.Len(t, fixture.sessions.sessions, 1)
	assert.Equal(t, result.Agent.ID, fixture.sessions.sessions[0].AgentID)

	require.Len(t, fixture.activity.entries, 1)
	assert.Equal(t, models.ActivitySuccess, fixture.activity.entries[0].EventType)
	assert.Contains(t, fixture.activity.entries[0].Message, "self-registered via openclaw (openclaw-scout-1)")

	onboarding := result.Onboarding
	assert.Equal(t, "https://fleet.example.com", onboarding["baseUrl"])
	assert.Equal(t, 60, onboarding["suggestedHeartbeatSeconds"])
}

func TestRegister_HeartbeatReusesAgent(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	first, err := fixture.service.Register(ctx, &register.Request{
		Name:       "Scout",
		Role:       "Researcher",
		ExternalID: "openclaw-scout-1",
	})
	require.NoError(t, err)

	second, err := fixture.service.Register(ctx, &register.Request{
		Name:       "Scout",
		Role:       "Researcher",
		ExternalID: "openclaw-scout-1",
		Status:     models.AgentStatusIdle,
	})
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Agent.ID, second.Agent.ID)
	assert.Equal(t, first.Agent.APIKey, second.Agent.APIKey)
	assert.Equal(t, models.AgentStatusIdle, second.Agent.Status)
	require.Len(t, fixture.agents.agents, 1)

	// Each heartbeat starts a fresh session and logs an info entry.
	assert.Len(t, fixture.sessions.sessions, 2)
	require.Len(t, fixture.activity.entries, 2)
	assert.Equal(t, models.ActivityInfo, fixture.activity.entries[1].EventType)
	assert.Contains(t, fixture.activity.entries[1].Message, "heartbeat received from openclaw")
}

func TestRegister_HeartbeatMintsKeyOnlyWhenMissing(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	agent := &models.Agent{
		Name:   "Scout",
		Status: models.AgentStatusActive,
		Config: newConfigWithExternalID("openclaw-scout-1"),
	}
	require.NoError(t, fixture.agents.Create(ctx, agent))

	result, err := fixture.service.Register(ctx, &register.Request{
		Name:       "Scout",
		Role:       "Researcher",
		ExternalID: "openclaw-scout-1",
	})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.NotEmpty(t, result.Agent.APIKey)
}

func TestRegister_EnsuresBusinessAssignment(t *testing.T) {
	fixture := newFixture()
	ctx := context.Background()

	businessID := uuid.New()
	fixture.businesses.businesses[businessID] = &models.Business{ID: businessID, Name: "Acme"}

	first, err := fixture.service.Register(ctx, &register.Request{
		Name:       "Scout",
		Role:       "Researcher",
		ExternalID: "openclaw-scout-1",
		BusinessID: businessID.String(),
	})
	require.NoError(t, err)

	require.Len(t, fixture.assignments.assignments, 1)
	assignment := fixture.assignments.assignments[0]
	assert.Equal(t, first.Agent.ID, assignment.AgentID)
	assert.Equal(t, businessID, assignment.BusinessID)
	assert.Equal(t, models.PriorityMedium, assignment.Priority)
	assert.Equal(t, "active", assignment.Status)
	require.NotNil(t, assignment.Instructions)
	assert.Equal(t, "Execute assigned operator objectives.", *assignment.Instructions)

	// Re-registering updates the existing assignment instead of stacking a
	// second row, and the business roster gains the agent exactly once.
	_, err = fixture.service.Register(ctx, &register.Request{
		Name:       "Scout",
		Role:       "Lead Researcher",
		ExternalID: "openclaw-scout-1",
		BusinessID: businessID.String(),
		Priority:   "high",
	})
	require.NoError(t, err)

	require.Len(t, fixture.assignments.assignments, 1)
	assert.Equal(t, 1, fixture.assignments.updates)
	assert.Equal(t, models.PriorityHigh, fixture.assignments.assignments[0].Priority)
	assert.Equal(t, []string{first.Agent.ID.String()}, fixture.businesses.businesses[businessID].Agents.Data)
}

func newConfigWithExternalID(externalID string) database.JSONB[map[string]any] {
	return database.NewJSONB(map[string]any{"externalId": externalID})
}
