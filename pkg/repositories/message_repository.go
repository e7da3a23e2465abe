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

const messagesTable = "channel_messages"

var messageStruct = database.NewStruct(new(models.ChannelMessage))

// MessageRepository handles database operations for channel messages
type MessageRepository struct {
	*Repository
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db database.DB, logger ectologger.Logger) *MessageRepository {
	return &MessageRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create creates a new channel message
func (r *MessageRepository) Create(ctx context.Context, message *models.ChannelMessage) error {
	ctx, span := tracing.StartSpan(ctx, "MessageRepository.Create")
	defer span.End()

	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(messagesTable).
		Cols("id", "channel_id", "agent_id", "agent_name", "content", "metadata", "created_at").
		Values(message.ID, message.ChannelID, message.AgentID, message.AgentName, message.Content,
			message.Metadata, sqlbuilder.Raw("NOW()")).
		Returning("created_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&message.CreatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"channel_id": message.ChannelID,
		}).Error("failed to create channel message")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create channel message")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"message_id": message.ID,
		"channel_id": message.ChannelID,
	}).Debugf("Created %s", messagesTable)
	return nil
}

// ListByKind retrieves channel messages whose metadata kind matches. Posts
// carry no forward list of comments, so readers always recompute by filter.
func (r *MessageRepository) ListByKind(ctx context.Context, channelID uuid.UUID, kind string, limit int) ([]models.ChannelMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "MessageRepository.ListByKind")
	defer span.End()

	if limit <= 0 {
		limit = 100
	}

	sb := messageStruct.SelectFrom(messagesTable)
	sb.Where(sb.Equal("channel_id", channelID), sb.Equal("metadata->>'kind'", kind))
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit)

	query, args := sb.Build()
	var messages []models.ChannelMessage
	err := r.DB().SelectContext(ctx, &messages, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"channel_id": channelID,
			"kind":       kind,
		}).Error("failed to list channel messages by kind")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list channel messages")
	}

	return messages, nil
}

// ListByPostID retrieves the comments referencing a post
func (r *MessageRepository) ListByPostID(ctx context.Context, channelID uuid.UUID, postID uuid.UUID) ([]models.ChannelMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "MessageRepository.ListByPostID")
	defer span.End()

	sb := messageStruct.SelectFrom(messagesTable)
	sb.Where(
		sb.Equal("channel_id", channelID),
		sb.Equal("metadata->>'kind'", models.MessageKindForumComment),
		sb.Equal("metadata->>'post_id'", postID.String()),
	)
	sb.OrderBy("created_at").Asc()

	query, args := sb.Build()
	var messages []models.ChannelMessage
	err := r.DB().SelectContext(ctx, &messages, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"channel_id": channelID,
			"post_id":    postID,
		}).Error("failed to list comments by post")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list comments")
	}

	return messages, nil
}
