package register

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Ramsey-B/clover/pkg/activity"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/profile"
	"github.com/Ramsey-B/clover/pkg/redis"
	"github.com/Ramsey-B/clover/pkg/repositories"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const registerLockTTL = 10 * time.Second

var allowedStatuses = map[string]struct{}{
	models.AgentStatusActive:  {},
	models.AgentStatusIdle:    {},
	models.AgentStatusError:   {},
	models.AgentStatusOffline: {},
}

var allowedPriorities = map[string]struct{}{
	models.PriorityHigh:   {},
	models.PriorityMedium: {},
	models.PriorityLow:    {},
}

// AssignmentRequest is the optional business assignment block of a
// registration payload.
type AssignmentRequest struct {
	BusinessID    string `json:"businessId"`
	BusinessIDAlt string `json:"business_id"`
	Role          string `json:"role"`
	Priority      string `json:"priority"`
	Instructions  string `json:"instructions"`
}

// Request is a self-registration or heartbeat payload.
type Request struct {
	Name            string            `json:"name"`
	Role            string            `json:"role"`
	Model           string            `json:"model"`
	Emoji           string            `json:"emoji"`
	Description     string            `json:"description"`
	Mission         string            `json:"mission"`
	Source          string            `json:"source"`
	ExternalID      string            `json:"externalId"`
	ExternalIDAlt   string            `json:"external_id"`
	Status          string            `json:"status"`
	Capabilities    []string          `json:"capabilities"`
	Metadata        map[string]any    `json:"metadata"`
	StartSession    *bool             `json:"startSession"`
	StartSessionAlt *bool             `json:"start_session"`
	Assignment      AssignmentRequest `json:"assignment"`
	BusinessID      string            `json:"businessId"`
	BusinessIDAlt   string            `json:"business_id"`
	Priority        string            `json:"priority"`
	Instructions    string            `json:"instructions"`

	RegisterSecret    string `json:"registerSecret"`
	RegisterSecretAlt string `json:"register_secret"`
}

// Secret returns the register secret carried in the body, if any.
func (r *Request) Secret() string {
	if r.RegisterSecret != "" {
		return r.RegisterSecret
	}
	return r.RegisterSecretAlt
}

// Normalize resolves aliases and applies registration defaults.
func (r *Request) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Role = strings.TrimSpace(r.Role)
	if r.Model == "" {
		r.Model = "gpt-4o-mini"
	}
	if r.Emoji == "" {
		r.Emoji = "🤖"
	}
	if r.Description == "" {
		r.Description = r.Mission
	}
	if r.Source == "" {
		r.Source = "openclaw"
	}
	if r.ExternalID == "" {
		r.ExternalID = r.ExternalIDAlt
	}
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if _, ok := allowedStatuses[r.Status]; !ok {
		r.Status = models.AgentStatusActive
	}

	if r.Assignment.BusinessID == "" {
		r.Assignment.BusinessID = r.Assignment.BusinessIDAlt
	}
	if r.Assignment.BusinessID == "" {
		r.Assignment.BusinessID = r.BusinessID
	}
	if r.Assignment.BusinessID == "" {
		r.Assignment.BusinessID = r.BusinessIDAlt
	}
	if r.Assignment.Role == "" {
		r.Assignment.Role = r.Role
	}
	if r.Assignment.Role == "" {
		r.Assignment.Role = "Operator"
	}
	if r.Assignment.Priority == "" {
		r.Assignment.Priority = r.Priority
	}
	r.Assignment.Priority = strings.ToLower(strings.TrimSpace(r.Assignment.Priority))
	if _, ok := allowedPriorities[r.Assignment.Priority]; !ok {
		r.Assignment.Priority = models.PriorityMedium
	}
	if r.Assignment.Instructions == "" {
		r.Assignment.Instructions = r.Instructions
	}
	if r.Assignment.Instructions == "" {
		r.Assignment.Instructions = r.Description
	}
	if r.Assignment.Instructions == "" {
		r.Assignment.Instructions = "Execute assigned operator objectives."
	}
}

func (r *Request) shouldStartSession() bool {
	if r.StartSession != nil {
		return *r.StartSession
	}
	if r.StartSessionAlt != nil {
		return *r.StartSessionAlt
	}
	return true
}

// AgentSummary is the credential block returned to the registering agent.
type AgentSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
	Status string    `json:"status"`
	Model  string    `json:"model"`
	APIKey string    `json:"apiKey"`
}

// Result is the outcome of a registration call.
type Result struct {
	Created    bool           `json:"created"`
	Agent      AgentSummary   `json:"agent"`
	Onboarding map[string]any `json:"onboarding"`
}

// Service registers agents and processes heartbeats. Registration for a
// given externalId is serialized through the locker when one is configured,
// so concurrent first contacts cannot race into duplicate rows.
type Service struct {
	agents      repositories.AgentRepo
	sessions    repositories.SessionRepo
	assignments repositories.AssignmentRepo
	businesses  repositories.BusinessRepo
	recorder    *activity.Recorder
	locker      *redis.Locker
	baseURL     string
	logger      ectologger.Logger
}

// NewService creates a new registration service
func NewService(
	agents repositories.AgentRepo,
	sessions repositories.SessionRepo,
	assignments repositories.AssignmentRepo,
	businesses repositories.BusinessRepo,
	recorder *activity.Recorder,
	locker *redis.Locker,
	baseURL string,
	logger ectologger.Logger,
) *Service {
	return &Service{
		agents:      agents,
		sessions:    sessions,
		assignments: assignments,
		businesses:  businesses,
		recorder:    recorder,
		locker:      locker,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// Register creates a new agent or refreshes an existing one matched by
// externalId.
func (s *Service) Register(ctx context.Context, req *Request) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "RegisterService.Register")
	defer span.End()

	req.Normalize()
	if req.Name == "" || req.Role == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "name and role are required fields")
	}

	var result *Result
	run := func() error {
		var err error
		result, err = s.register(ctx, req)
		return err
	}

	if s.locker != nil && req.ExternalID != "" {
		if err := s.locker.WithLock(ctx, "self-register:"+req.ExternalID, registerLockTTL, run); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := run(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) register(ctx context.Context, req *Request) (*Result, error) {
	existing, err := s.findExisting(ctx, req.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.heartbeat(ctx, req, existing)
	}
	return s.create(ctx, req)
}

func (s *Service) findExisting(ctx context.Context, externalID string) (*models.Agent, error) {
	if externalID == "" {
		return nil, nil
	}
	agent, err := s.agents.GetByExternalID(ctx, externalID)
	if err != nil {
		if httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return agent, nil
}

func (s *Service) heartbeat(ctx context.Context, req *Request, agent *models.Agent) (*Result, error) {
	// Existing credentials survive heartbeats; a key is only minted when
	// the row has none.
	if agent.APIKey == "" {
		agent.APIKey = uuid.NewString()
	}
	agent.Status = req.Status
	model := req.Model
	agent.Model = &model
	agent.Config = database.NewJSONB(profile.MergeWithDefaults(agent.Config.Data, s.baseURL))

	if err := s.agents.Update(ctx, agent); err != nil {
		return nil, err
	}

	if err := s.finishRegistration(ctx, req, agent); err != nil {
		return nil, err
	}

	message := "self-register heartbeat received from " + req.Source
	if req.ExternalID != "" {
		message += " (" + req.ExternalID + ")"
	}
	s.recorder.Info(ctx, &agent.ID, agent.Name, message)
	metrics.RecordRegistration("heartbeat")

	return s.result(agent, false), nil
}

func (s *Service) create(ctx context.Context, req *Request) (*Result, error) {
	now := time.Now().UTC()
	config := map[string]any{
		"source":             req.Source,
		"externalId":         nilIfEmpty(req.ExternalID),
		"capabilities":       req.Capabilities,
		"metadata":           req.Metadata,
		"selfRegistered":     true,
		"registeredAt":       now.Format(time.RFC3339),
		"registrationMethod": "agent-self-register",
	}

	role := req.Role
	model := req.Model
	emoji := req.Emoji
	agent := &models.Agent{
		Name:         req.Name,
		Role:         &role,
		Status:       req.Status,
		Model:        &model,
		Emoji:        &emoji,
		APIKey:       uuid.NewString(),
		Capabilities: pq.StringArray(req.Capabilities),
		Config:       database.NewJSONB(profile.MergeWithDefaults(config, s.baseURL)),
	}
	if req.Description != "" {
		description := req.Description
		agent.Description = &description
	}

	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, err
	}

	if err := s.finishRegistration(ctx, req, agent); err != nil {
		return nil, err
	}

	message := "self-registered via " + req.Source
	if req.ExternalID != "" {
		message += " (" + req.ExternalID + ")"
	}
	s.recorder.Success(ctx, &agent.ID, agent.Name, message)
	metrics.RecordRegistration("created")

	return s.result(agent, true), nil
}

// finishRegistration handles the shared tail of both paths: session start
// and the optional business assignment.
func (s *Service) finishRegistration(ctx context.Context, req *Request, agent *models.Agent) error {
	if req.shouldStartSession() {
		if err := s.ensureSession(ctx, req, agent.ID); err != nil {
			return err
		}
	}
	if req.Assignment.BusinessID != "" {
		if err := s.ensureBusinessAssignment(ctx, req, agent.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ensureSession(ctx context.Context, req *Request, agentID uuid.UUID) error {
	session := &models.Session{
		AgentID: agentID,
		Status:  "active",
		Metadata: database.NewJSONB(map[string]any{
			"source":         req.Source,
			"externalId":     nilIfEmpty(req.ExternalID),
			"selfRegistered": true,
			"createdAt":      time.Now().UTC().Format(time.RFC3339),
		}),
	}
	return s.sessions.Create(ctx, session)
}

func (s *Service) ensureBusinessAssignment(ctx context.Context, req *Request, agentID uuid.UUID) error {
	businessID, err := uuid.Parse(req.Assignment.BusinessID)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "businessId must be a valid id")
	}

	role := req.Assignment.Role
	instructions := req.Assignment.Instructions
	assignment, err := s.assignments.GetLatestByAgentAndBusiness(ctx, agentID, businessID)
	switch {
	case err == nil:
		assignment.Role = &role
		assignment.Instructions = &instructions
		assignment.Priority = req.Assignment.Priority
		assignment.Status = "active"
		if err := s.assignments.Update(ctx, assignment); err != nil {
			return err
		}
	case httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound:
		assignment = &models.AgentAssignment{
			AgentID:      agentID,
			BusinessID:   businessID,
			Role:         &role,
			Instructions: &instructions,
			Priority:     req.Assignment.Priority,
			Status:       "active",
		}
		if err := s.assignments.Create(ctx, assignment); err != nil {
			return err
		}
	default:
		return err
	}

	// Membership in the business roster is best effort; a missing business
	// does not fail registration.
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil
	}
	agents := business.Agents.Data
	for _, id := range agents {
		if id == agentID.String() {
			return nil
		}
	}
	return s.businesses.UpdateAgents(ctx, businessID, append(agents, agentID.String()))
}

func (s *Service) result(agent *models.Agent, created bool) *Result {
	summary := AgentSummary{
		ID:     agent.ID,
		Name:   agent.Name,
		Status: agent.Status,
		APIKey: agent.APIKey,
	}
	if agent.Role != nil {
		summary.Role = *agent.Role
	}
	if agent.Model != nil {
		summary.Model = *agent.Model
	}
	return &Result{
		Created:    created,
		Agent:      summary,
		Onboarding: s.onboarding(),
	}
}

func (s *Service) onboarding() map[string]any {
	return map[string]any{
		"baseUrl":          s.baseURL,
		"selfRegisterSlug": "agent-self-register",
		"tables": map[string]any{
			"agents":      "agents",
			"sessions":    "sessions",
			"activity":    "activity_log",
			"assignments": "agent_assignments",
			"messages":    "agent_messages",
		},
		"suggestedHeartbeatSeconds": profile.SuggestedHeartbeatSeconds,
		"defaultsInjected":          true,
		"defaultSkills":             profile.DefaultSkills,
		"defaultMcpTools":           profile.DefaultMCPTools,
		"defaultMcpServers":         profile.OnboardingServers(),
	}
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
