package repositories

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const agentsTable = "agents"

var agentStruct = database.NewStruct(new(models.Agent))

// AgentRepository handles database operations for agents
type AgentRepository struct {
	*Repository
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db database.DB, logger ectologger.Logger) *AgentRepository {
	return &AgentRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create creates a new agent
func (r *AgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	ctx, span := tracing.StartSpan(ctx, "AgentRepository.Create")
	defer span.End()

	if agent.ID == uuid.Nil {
		agent.ID = uuid.New()
	}
	if agent.Status == "" {
		agent.Status = models.AgentStatusActive
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(agentsTable).
		Cols("id", "name", "role", "status", "model", "emoji", "description", "api_key", "capabilities", "config", "last_active", "created_at", "updated_at").
		Values(agent.ID, agent.Name, agent.Role, agent.Status, agent.Model, agent.Emoji, agent.Description, agent.APIKey,
			agent.Capabilities, agent.Config, sqlbuilder.Raw("NOW()"), sqlbuilder.Raw("NOW()"), sqlbuilder.Raw("NOW()")).
		Returning("last_active", "created_at", "updated_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&agent.LastActive, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"agent_id": agent.ID,
		}).Error("failed to create agent")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create agent")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"agent_id": agent.ID,
	}).Debugf("Created %s", agentsTable)
	return nil
}

// GetByID retrieves an agent by ID
func (r *AgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	ctx, span := tracing.StartSpan(ctx, "AgentRepository.GetByID")
	defer span.End()

	sb := agentStruct.SelectFrom(agentsTable)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var agent models.Agent
	err := r.DB().GetContext(ctx, &agent, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "agent %s does not exist", id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"agent_id": id,
		}).Error("failed to get agent by ID")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get agent by ID")
	}

	return &agent, nil
}

// GetByExternalID retrieves an agent whose config carries the given
// externalId. Backed by an expression index on config->>'externalId'.
func (r *AgentRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Agent, error) {
	ctx, span := tracing.StartSpan(ctx, "AgentRepository.GetByExternalID")
	defer span.End()

	sb := agentStruct.SelectFrom(agentsTable)
	sb.Where(sb.Equal("config->>'externalId'", externalID))
	sb.OrderBy("created_at").Desc()
	sb.Limit(1)

	query, args := sb.Build()
	var agent models.Agent
	err := r.DB().GetContext(ctx, &agent, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "agent with externalId %q does not exist", externalID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"external_id": externalID,
		}).Error("failed to get agent by externalId")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get agent by externalId")
	}

	return &agent, nil
}

// Update updates an existing agent
func (r *AgentRepository) Update(ctx context.Context, agent *models.Agent) error {
	ctx, span := tracing.StartSpan(ctx, "AgentRepository.Update")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(agentsTable).
		Set(
			ub.Assign("name", agent.Name),
			ub.Assign("role", agent.Role),
			ub.Assign("status", agent.Status),
			ub.Assign("model", agent.Model),
			ub.Assign("emoji", agent.Emoji),
			ub.Assign("description", agent.Description),
			ub.Assign("api_key", agent.APIKey),
			ub.Assign("capabilities", agent.Capabilities),
			ub.Assign("config", agent.Config),
			ub.Assign("last_active", sqlbuilder.Raw("NOW()")),
			ub.Assign("updated_at", sqlbuilder.Raw("NOW()")),
		).
		Where(ub.Equal("id", agent.ID))
	ub.SQL("RETURNING last_active, updated_at")

	query, args := ub.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&agent.LastActive, &agent.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "agent %s does not exist", agent.ID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"agent_id": agent.ID,
		}).Error("failed to update agent")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update agent")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"agent_id": agent.ID,
	}).Debugf("Updated %s", agentsTable)
	return nil
}
