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

const (
	assignmentsTable = "agent_assignments"
	businessesTable  = "businesses"
)

var (
	assignmentStruct = database.NewStruct(new(models.AgentAssignment))
	businessStruct   = database.NewStruct(new(models.Business))
)

// AssignmentRepository handles database operations for agent assignments
type AssignmentRepository struct {
	*Repository
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db database.DB, logger ectologger.Logger) *AssignmentRepository {
	return &AssignmentRepository{
		Repository: NewRepository(db, logger),
	}
}

// GetLatestByAgentAndBusiness retrieves the canonical (most recent)
// assignment for the (agent, business) pair.
func (r *AssignmentRepository) GetLatestByAgentAndBusiness(ctx context.Context, agentID uuid.UUID, businessID uuid.UUID) (*models.AgentAssignment, error) {
	ctx, span := tracing.StartSpan(ctx, "AssignmentRepository.GetLatestByAgentAndBusiness")
	defer span.End()

	sb := assignmentStruct.SelectFrom(assignmentsTable)
	sb.Where(sb.Equal("agent_id", agentID), sb.Equal("business_id", businessID))
	sb.OrderBy("created_at").Desc()
	sb.Limit(1)

	query, args := sb.Build()
	var assignment models.AgentAssignment
	err := r.DB().GetContext(ctx, &assignment, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "assignment for agent %s and business %s does not exist", agentID, businessID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"agent_id":    agentID,
			"business_id": businessID,
		}).Error("failed to get assignment")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get assignment")
	}

	return &assignment, nil
}

// Create creates a new assignment
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.AgentAssignment) error {
	ctx, span := tracing.StartSpan(ctx, "AssignmentRepository.Create")
	defer span.End()

	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	if assignment.Priority == "" {
		assignment.Priority = models.PriorityMedium
	}
	if assignment.Status == "" {
		assignment.Status = "active"
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(assignmentsTable).
		Cols("id", "agent_id", "business_id", "role", "instructions", "priority", "status", "created_at", "updated_at").
		Values(assignment.ID, assignment.AgentID, assignment.BusinessID, assignment.Role, assignment.Instructions,
			assignment.Priority, assignment.Status, sqlbuilder.Raw("NOW()"), sqlbuilder.Raw("NOW()")).
		Returning("created_at", "updated_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"agent_id":    assignment.AgentID,
			"business_id": assignment.BusinessID,
		}).Error("failed to create assignment")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create assignment")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"assignment_id": assignment.ID,
	}).Debugf("Created %s", assignmentsTable)
	return nil
}

// Update updates an existing assignment in place
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.AgentAssignment) error {
	ctx, span := tracing.StartSpan(ctx, "AssignmentRepository.Update")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(assignmentsTable).
		Set(
			ub.Assign("role", assignment.Role),
			ub.Assign("instructions", assignment.Instructions),
			ub.Assign("priority", assignment.Priority),
			ub.Assign("status", assignment.Status),
			ub.Assign("updated_at", sqlbuilder.Raw("NOW()")),
		).
		Where(ub.Equal("id", assignment.ID))
	ub.SQL("RETURNING updated_at")

	query, args := ub.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&assignment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "assignment %s does not exist", assignment.ID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"assignment_id": assignment.ID,
		}).Error("failed to update assignment")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update assignment")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"assignment_id": assignment.ID,
	}).Debugf("Updated %s", assignmentsTable)
	return nil
}

// BusinessRepository handles database operations for businesses
type BusinessRepository struct {
	*Repository
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db database.DB, logger ectologger.Logger) *BusinessRepository {
	return &BusinessRepository{
		Repository: NewRepository(db, logger),
	}
}

// GetByID retrieves a business by ID
func (r *BusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	ctx, span := tracing.StartSpan(ctx, "BusinessRepository.GetByID")
	defer span.End()

	sb := businessStruct.SelectFrom(businessesTable)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var business models.Business
	err := r.DB().GetContext(ctx, &business, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "business %s does not exist", id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"business_id": id,
		}).Error("failed to get business by ID")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get business by ID")
	}

	return &business, nil
}

// UpdateAgents replaces the business's agent-id list
func (r *BusinessRepository) UpdateAgents(ctx context.Context, id uuid.UUID, agents []string) error {
	ctx, span := tracing.StartSpan(ctx, "BusinessRepository.UpdateAgents")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(businessesTable).
		Set(
			ub.Assign("agents", database.NewJSONB(agents)),
			ub.Assign("updated_at", sqlbuilder.Raw("NOW()")),
		).
		Where(ub.Equal("id", id))

	query, args := ub.Build()
	result, err := r.DB().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"business_id": id,
		}).Error("failed to update business agents")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update business agents")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update business agents")
	}
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "business %s does not exist", id)
	}

	return nil
}
