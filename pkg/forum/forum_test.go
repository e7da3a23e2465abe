package forum_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/activity"
	"github.com/Ramsey-B/clover/pkg/forum"
	"github.com/Ramsey-B/clover/pkg/models"
)

type fakeChannelRepo struct {
	channels map[string]*models.Channel
	creates  int
}

func (f *fakeChannelRepo) GetBySlug(_ context.Context, slug string) (*models.Channel, error) {
	if channel, ok := f.channels[slug]; ok {
		return channel, nil
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "channel not found")
}

func (f *fakeChannelRepo) Create(_ context.Context, channel *models.Channel) error {
	if channel.ID == uuid.Nil {
		channel.ID = uuid.New()
	}
	f.channels[channel.Slug] = channel
	f.creates++
	return nil
}

type fakeMessageRepo struct {
	messages []models.ChannelMessage
}

func (f *fakeMessageRepo) Create(_ context.Context, message *models.ChannelMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeMessageRepo) ListByKind(_ context.Context, channelID uuid.UUID, kind string, limit int) ([]models.ChannelMessage, error) {
	var out []models.ChannelMessage
	for _, message := range f.messages {
		if message.ChannelID == channelID && message.Kind() == kind {
			out = append(out, message)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMessageRepo) ListByPostID(_ context.Context, channelID uuid.UUID, postID uuid.UUID) ([]models.ChannelMessage, error) {
	var out []models.ChannelMessage
	for _, message := range f.messages {
		if message.ChannelID != channelID || message.Kind() != models.MessageKindForumComment {
			continue
		}
		if id, _ := message.Metadata.Data["post_id"].(string); id == postID.String() {
			out = append(out, message)
		}
	}
	return out, nil
}

type fakeActivityRepo struct {
	entries []models.ActivityEntry
}

func (f *fakeActivityRepo) Insert(_ context.Context, entry *models.ActivityEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) ListRecent(_ context.Context, _ int) ([]models.ActivityEntry, error) {
	return f.entries, nil
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestService() (*forum.Service, *fakeChannelRepo, *fakeMessageRepo, *fakeActivityRepo) {
	channels := &fakeChannelRepo{channels: map[string]*models.Channel{}}
	messages := &fakeMessageRepo{}
	activityRepo := &fakeActivityRepo{}
	recorder := activity.NewRecorder(activityRepo, nil, noopLogger())
	service := forum.NewService(channels, messages, recorder, nil, noopLogger())
	return service, channels, messages, activityRepo
}

func testAgent() *models.Agent {
	return &models.Agent{ID: uuid.New(), Name: "Scout"}
}

func TestEnsureChannel_CreatesOnce(t *testing.T) {
	service, channels, _, _ := newTestService()
	ctx := context.Background()

	first, err := service.EnsureChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, forum.ChannelSlug, first.Slug)
	assert.Equal(t, forum.ChannelName, first.Name)
	require.NotNil(t, first.Description)
	assert.Equal(t, forum.ChannelDescription, *first.Description)

	second, err := service.EnsureChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, channels.creates)
}

func TestCreatePost(t *testing.T) {
	service, _, messages, activityRepo := newTestService()
	agent := testAgent()

	post, channel, err := service.CreatePost(context.Background(), agent, forum.PostInput{
		Message:    "Shipped the importer",
		Tags:       []string{"infra", "sip"},
		Project:    "importer",
		BusinessID: "biz-1",
	})
	require.NoError(t, err)
	assert.Equal(t, forum.ChannelSlug, channel.Slug)
	assert.Equal(t, channel.ID, post.ChannelID)
	assert.Equal(t, "Shipped the importer", post.Content)
	assert.Equal(t, models.MessageKindForumPost, post.Kind())
	assert.Equal(t, "Agent Update", post.Metadata.Data["title"])
	assert.Equal(t, "open", post.Metadata.Data["status"])
	assert.Equal(t, "biz-1", post.Metadata.Data["business_id"])

	require.Len(t, messages.messages, 1)
	require.Len(t, activityRepo.entries, 1)
	assert.Equal(t, `posted forum update "Agent Update"`, activityRepo.entries[0].Message)
	assert.Equal(t, models.ActivitySuccess, activityRepo.entries[0].EventType)
}

func TestCreatePost_RequiresMessage(t *testing.T) {
	service, _, _, _ := newTestService()

	_, _, err := service.CreatePost(context.Background(), testAgent(), forum.PostInput{Title: "No body"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "message is required")
}

func TestCreateComment(t *testing.T) {
	service, _, _, activityRepo := newTestService()
	agent := testAgent()
	ctx := context.Background()

	post, _, err := service.CreatePost(ctx, agent, forum.PostInput{Message: "Original post"})
	require.NoError(t, err)

	comment, _, err := service.CreateComment(ctx, agent, forum.CommentInput{
		PostID:  post.ID,
		Message: "Nice work",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MessageKindForumComment, comment.Kind())
	assert.Equal(t, post.ID.String(), comment.Metadata.Data["post_id"])

	comments, err := service.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Nice work", comments[0].Content)

	require.Len(t, activityRepo.entries, 2)
	assert.Equal(t, "commented on forum post "+post.ID.String(), activityRepo.entries[1].Message)
}

func TestCreateComment_RequiresPostAndMessage(t *testing.T) {
	service, _, _, _ := newTestService()

	_, _, err := service.CreateComment(context.Background(), testAgent(), forum.CommentInput{Message: "no post"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestListPosts(t *testing.T) {
	service, _, _, _ := newTestService()
	agent := testAgent()
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "three"} {
		_, _, err := service.CreatePost(ctx, agent, forum.PostInput{Message: msg})
		require.NoError(t, err)
	}

	posts, err := service.ListPosts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
