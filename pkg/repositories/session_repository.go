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

const sessionsTable = "sessions"

var sessionStruct = database.NewStruct(new(models.Session))

// SessionRepository handles database operations for agent sessions
type SessionRepository struct {
	*Repository
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DB, logger ectologger.Logger) *SessionRepository {
	return &SessionRepository{
		Repository: NewRepository(db, logger),
	}
}

// GetLatestByAgent retrieves the most recent session for an agent
func (r *SessionRepository) GetLatestByAgent(ctx context.Context, agentID uuid.UUID) (*models.Session, error) {
	ctx, span := tracing.StartSpan(ctx, "SessionRepository.GetLatestByAgent")
	defer span.End()

	sb := sessionStruct.SelectFrom(sessionsTable)
	sb.Where(sb.Equal("agent_id", agentID))
	sb.OrderBy("started_at").Desc()
	sb.Limit(1)

	query, args := sb.Build()
	var session models.Session
	err := r.DB().GetContext(ctx, &session, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "session for agent %s does not exist", agentID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"agent_id": agentID,
		}).Error("failed to get session by agent")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get session by agent")
	}

	return &session, nil
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	ctx, span := tracing.StartSpan(ctx, "SessionRepository.Create")
	defer span.End()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.Status == "" {
		session.Status = "active"
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(sessionsTable).
		Cols("id", "agent_id", "status", "metadata", "started_at", "last_seen_at").
		Values(session.ID, session.AgentID, session.Status, session.Metadata,
			sqlbuilder.Raw("NOW()"), sqlbuilder.Raw("NOW()")).
		Returning("started_at", "last_seen_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&session.StartedAt, &session.LastSeenAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"agent_id": session.AgentID,
		}).Error("failed to create session")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create session")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"session_id": session.ID,
	}).Debugf("Created %s", sessionsTable)
	return nil
}

// Touch refreshes a session's last-seen timestamp and status
func (r *SessionRepository) Touch(ctx context.Context, id uuid.UUID, status string) error {
	ctx, span := tracing.StartSpan(ctx, "SessionRepository.Touch")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(sessionsTable).
		Set(
			ub.Assign("status", status),
			ub.Assign("last_seen_at", sqlbuilder.Raw("NOW()")),
		).
		Where(ub.Equal("id", id))

	query, args := ub.Build()
	result, err := r.DB().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"session_id": id,
		}).Error("failed to touch session")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to touch session")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to touch session")
	}
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "session %s does not exist", id)
	}

	return nil
}
