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

const channelsTable = "agent_channels"

var channelStruct = database.NewStruct(new(models.Channel))

// ChannelRepository handles database operations for channels
type ChannelRepository struct {
	*Repository
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(db database.DB, logger ectologger.Logger) *ChannelRepository {
	return &ChannelRepository{
		Repository: NewRepository(db, logger),
	}
}

// GetBySlug retrieves a channel by its slug
func (r *ChannelRepository) GetBySlug(ctx context.Context, slug string) (*models.Channel, error) {
	ctx, span := tracing.StartSpan(ctx, "ChannelRepository.GetBySlug")
	defer span.End()

	sb := channelStruct.SelectFrom(channelsTable)
	sb.Where(sb.Equal("slug", slug))

	query, args := sb.Build()
	var channel models.Channel
	err := r.DB().GetContext(ctx, &channel, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "channel %q does not exist", slug)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"slug": slug,
		}).Error("failed to get channel by slug")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get channel by slug")
	}

	return &channel, nil
}

// Create creates a new channel. The slug carries a unique constraint, so a
// concurrent duplicate insert surfaces as an error instead of a second row.
func (r *ChannelRepository) Create(ctx context.Context, channel *models.Channel) error {
	ctx, span := tracing.StartSpan(ctx, "ChannelRepository.Create")
	defer span.End()

	if channel.ID == uuid.Nil {
		channel.ID = uuid.New()
	}
	if channel.Members.Data == nil {
		channel.Members = database.NewJSONB([]string{})
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(channelsTable).
		Cols("id", "name", "slug", "description", "members", "created_at", "updated_at").
		Values(channel.ID, channel.Name, channel.Slug, channel.Description, channel.Members,
			sqlbuilder.Raw("NOW()"), sqlbuilder.Raw("NOW()")).
		Returning("created_at", "updated_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&channel.CreatedAt, &channel.UpdatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"slug": channel.Slug,
		}).Error("failed to create channel")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create channel")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"channel_id": channel.ID,
		"slug":       channel.Slug,
	}).Debugf("Created %s", channelsTable)
	return nil
}
