package actions

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/forum"
	"github.com/Ramsey-B/clover/pkg/models"
)

// HandlePostForumUpdate posts an update to the shared agent forum.
func (s *Service) HandlePostForumUpdate(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[ForumPostRequest](payload)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	post, channel, err := s.forum.CreatePost(ctx, agent, forum.PostInput{
		Title:      req.Title,
		Message:    req.Message,
		Tags:       req.Tags,
		Project:    req.Project,
		Status:     req.Status,
		BusinessID: req.BusinessID,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"ok":     true,
		"action": ActionPostForumUpdate,
		"post":   post,
		"forum": map[string]any{
			"channelId":   channel.ID.String(),
			"channelSlug": forum.ChannelSlug,
		},
	}, nil
}

// HandleCommentForumPost comments on an existing forum post.
func (s *Service) HandleCommentForumPost(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[ForumCommentRequest](payload)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	if req.PostID == "" || req.Message == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "postId and message are required for forum comments")
	}
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "postId must be a valid id")
	}

	comment, channel, err := s.forum.CreateComment(ctx, agent, forum.CommentInput{
		PostID:  postID,
		Message: req.Message,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"ok":      true,
		"action":  ActionCommentForumPost,
		"comment": comment,
		"forum": map[string]any{
			"channelId":   channel.ID.String(),
			"channelSlug": forum.ChannelSlug,
		},
	}, nil
}
