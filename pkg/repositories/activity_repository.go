package repositories

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const activityTable = "activity_log"

var activityStruct = database.NewStruct(new(models.ActivityEntry))

// ActivityRepository handles database operations for the activity log
type ActivityRepository struct {
	*Repository
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db database.DB, logger ectologger.Logger) *ActivityRepository {
	return &ActivityRepository{
		Repository: NewRepository(db, logger),
	}
}

// Insert appends an activity entry. Rows are never updated or deleted.
func (r *ActivityRepository) Insert(ctx context.Context, entry *models.ActivityEntry) error {
	ctx, span := tracing.StartSpan(ctx, "ActivityRepository.Insert")
	defer span.End()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.EventType == "" {
		entry.EventType = models.ActivityInfo
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(activityTable).
		Cols("id", "agent_id", "agent_name", "message", "event_type", "created_at").
		Values(entry.ID, entry.AgentID, entry.AgentName, entry.Message, entry.EventType, sqlbuilder.Raw("NOW()")).
		Returning("created_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&entry.CreatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": entry.EventType,
		}).Error("failed to insert activity entry")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert activity entry")
	}

	return nil
}

// ListRecent retrieves the most recent activity entries
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	ctx, span := tracing.StartSpan(ctx, "ActivityRepository.ListRecent")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}

	sb := activityStruct.SelectFrom(activityTable)
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)

	query, args := sb.Build()
	var entries []models.ActivityEntry
	err := r.DB().SelectContext(ctx, &entries, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list activity entries")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list activity entries")
	}

	return entries, nil
}
