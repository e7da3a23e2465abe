package forum

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/activity"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/redis"
	"github.com/Ramsey-B/clover/pkg/repositories"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// The forum is a single shared channel, created lazily the first time any
// agent posts to it.
const (
	ChannelSlug        = "agent-forum"
	ChannelName        = "Agent Forum"
	ChannelDescription = "Peer-to-peer progress reports, ideas, and collaboration."

	channelLockKey = "forum-channel"
	channelLockTTL = 10 * time.Second
)

// Service manages the shared agent forum channel and its posts and comments.
type Service struct {
	channels repositories.ChannelRepo
	messages repositories.MessageRepo
	recorder *activity.Recorder
	locker   *redis.Locker
	logger   ectologger.Logger
}

// NewService creates a new forum service. locker may be nil, in which case
// concurrent channel creation falls back to the unique slug constraint.
func NewService(channels repositories.ChannelRepo, messages repositories.MessageRepo, recorder *activity.Recorder, locker *redis.Locker, logger ectologger.Logger) *Service {
	return &Service{
		channels: channels,
		messages: messages,
		recorder: recorder,
		locker:   locker,
		logger:   logger,
	}
}

// PostInput is a normalized forum post request.
type PostInput struct {
	Title      string
	Message    string
	Tags       []string
	Project    string
	Status     string
	BusinessID string
}

// CommentInput is a normalized forum comment request.
type CommentInput struct {
	PostID  uuid.UUID
	Message string
}

// EnsureChannel returns the forum channel, creating it if it does not exist
// yet. With a locker the find-or-create pair runs under a distributed lock so
// concurrent first posts resolve to the same channel row.
func (s *Service) EnsureChannel(ctx context.Context) (*models.Channel, error) {
	ctx, span := tracing.StartSpan(ctx, "ForumService.EnsureChannel")
	defer span.End()

	if s.locker == nil {
		return s.findOrCreateChannel(ctx)
	}

	var channel *models.Channel
	err := s.locker.WithLock(ctx, channelLockKey, channelLockTTL, func() error {
		var lockErr error
		channel, lockErr = s.findOrCreateChannel(ctx)
		return lockErr
	})
	if err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *Service) findOrCreateChannel(ctx context.Context) (*models.Channel, error) {
	channel, err := s.channels.GetBySlug(ctx, ChannelSlug)
	if err == nil {
		return channel, nil
	}
	if !httperror.IsHTTPError(err) || httperror.GetStatusCode(err) != http.StatusNotFound {
		return nil, err
	}

	description := ChannelDescription
	channel = &models.Channel{
		Name:        ChannelName,
		Slug:        ChannelSlug,
		Description: &description,
	}
	if err := s.channels.Create(ctx, channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// CreatePost appends a forum post to the shared channel and records the
// activity. Title defaults to "Agent Update" and status to "open".
func (s *Service) CreatePost(ctx context.Context, agent *models.Agent, input PostInput) (*models.ChannelMessage, *models.Channel, error) {
	ctx, span := tracing.StartSpan(ctx, "ForumService.CreatePost")
	defer span.End()

	if input.Message == "" {
		return nil, nil, httperror.NewHTTPError(http.StatusBadRequest, "message is required for forum posts")
	}
	if input.Title == "" {
		input.Title = "Agent Update"
	}
	if input.Status == "" {
		input.Status = "open"
	}

	channel, err := s.EnsureChannel(ctx)
	if err != nil {
		return nil, nil, err
	}

	metadata := map[string]any{
		"kind":        models.MessageKindForumPost,
		"title":       input.Title,
		"tags":        input.Tags,
		"project":     nilIfEmpty(input.Project),
		"status":      input.Status,
		"business_id": nilIfEmpty(input.BusinessID),
	}

	message := &models.ChannelMessage{
		ChannelID: channel.ID,
		AgentID:   &agent.ID,
		AgentName: agent.Name,
		Content:   input.Message,
		Metadata:  database.NewJSONB(metadata),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, nil, err
	}

	s.recorder.Success(ctx, &agent.ID, agent.Name, `posted forum update "`+input.Title+`"`)
	return message, channel, nil
}

// CreateComment appends a comment tied to an existing forum post.
func (s *Service) CreateComment(ctx context.Context, agent *models.Agent, input CommentInput) (*models.ChannelMessage, *models.Channel, error) {
	ctx, span := tracing.StartSpan(ctx, "ForumService.CreateComment")
	defer span.End()

	if input.PostID == uuid.Nil || input.Message == "" {
		return nil, nil, httperror.NewHTTPError(http.StatusBadRequest, "postId and message are required for forum comments")
	}

	channel, err := s.EnsureChannel(ctx)
	if err != nil {
		return nil, nil, err
	}

	message := &models.ChannelMessage{
		ChannelID: channel.ID,
		AgentID:   &agent.ID,
		AgentName: agent.Name,
		Content:   input.Message,
		Metadata: database.NewJSONB(map[string]any{
			"kind":    models.MessageKindForumComment,
			"post_id": input.PostID.String(),
		}),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, nil, err
	}

	s.recorder.Info(ctx, &agent.ID, agent.Name, "commented on forum post "+input.PostID.String())
	return message, channel, nil
}

// ListPosts returns the most recent forum posts, newest first.
func (s *Service) ListPosts(ctx context.Context, limit int) ([]models.ChannelMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "ForumService.ListPosts")
	defer span.End()

	channel, err := s.EnsureChannel(ctx)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByKind(ctx, channel.ID, models.MessageKindForumPost, limit)
}

// ListComments returns the comments of a post, oldest first.
func (s *Service) ListComments(ctx context.Context, postID uuid.UUID) ([]models.ChannelMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "ForumService.ListComments")
	defer span.End()

	channel, err := s.EnsureChannel(ctx)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByPostID(ctx, channel.ID, postID)
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
