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

const workflowsTable = "agent_workflows"

var workflowStruct = database.NewStruct(new(models.AgentWorkflow))

// WorkflowRepository handles database operations for agent workflows
type WorkflowRepository struct {
	*Repository
}

// NewWorkflowRepository creates a new workflow repository
func NewWorkflowRepository(db database.DB, logger ectologger.Logger) *WorkflowRepository {
	return &WorkflowRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create creates a new workflow record
func (r *WorkflowRepository) Create(ctx context.Context, workflow *models.AgentWorkflow) error {
	ctx, span := tracing.StartSpan(ctx, "WorkflowRepository.Create")
	defer span.End()

	if workflow.ID == uuid.Nil {
		workflow.ID = uuid.New()
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(workflowsTable).
		Cols("id", "agent_id", "name", "description", "trigger_url", "active", "external_id", "metadata", "created_at", "updated_at").
		Values(workflow.ID, workflow.AgentID, workflow.Name, workflow.Description, workflow.TriggerURL,
			workflow.Active, workflow.ExternalID, workflow.Metadata, sqlbuilder.Raw("NOW()"), sqlbuilder.Raw("NOW()")).
		Returning("created_at", "updated_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&workflow.CreatedAt, &workflow.UpdatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"workflow_name": workflow.Name,
		}).Error("failed to create workflow")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create workflow")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"workflow_id": workflow.ID,
	}).Debugf("Created %s", workflowsTable)
	return nil
}

// GetByID retrieves a workflow by ID
func (r *WorkflowRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AgentWorkflow, error) {
	ctx, span := tracing.StartSpan(ctx, "WorkflowRepository.GetByID")
	defer span.End()

	sb := workflowStruct.SelectFrom(workflowsTable)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var workflow models.AgentWorkflow
	err := r.DB().GetContext(ctx, &workflow, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "workflow %s does not exist", id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"workflow_id": id,
		}).Error("failed to get workflow by ID")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get workflow by ID")
	}

	return &workflow, nil
}
