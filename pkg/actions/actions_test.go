package actions_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/actions"
	"github.com/Ramsey-B/clover/pkg/activity"
	"github.com/Ramsey-B/clover/pkg/forum"
	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/providers"
)

type fakeAgentRepo struct {
	agents map[uuid.UUID]*models.Agent
}

func (f *fakeAgentRepo) Create(_ context.Context, agent *models.Agent) error {
	if agent.ID == uuid.Nil {
		agent.ID = uuid.New()
	}
	f.agents[agent.ID] = agent
	return nil
}

func (f *fakeAgentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Agent, error) {
	if agent, ok := f.agents[id]; ok {
		return agent, nil
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "agent not found")
}

func (f *fakeAgentRepo) GetByExternalID(_ context.Context, externalID string) (*models.Agent, error) {
	for _, agent := range f.agents {
		if agent.ExternalID() == externalID {
			return agent, nil
		}
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "agent not found")
}

func (f *fakeAgentRepo) Update(_ context.Context, agent *models.Agent) error {
	f.agents[agent.ID] = agent
	return nil
}

type fakePhoneRepo struct {
	phones  []models.AgentPhone
	updates int
}

func (f *fakePhoneRepo) GetLatestByNumber(_ context.Context, phoneNumber string) (*models.AgentPhone, error) {
	for i := len(f.phones) - 1; i >= 0; i-- {
		if f.phones[i].PhoneNumber == phoneNumber {
			phone := f.phones[i]
			return &phone, nil
		}
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "phone not found")
}

func (f *fakePhoneRepo) Create(_ context.Context, phone *models.AgentPhone) error {
	if phone.ID == uuid.Nil {
		phone.ID = uuid.New()
	}
	f.phones = append(f.phones, *phone)
	return nil
}

func (f *fakePhoneRepo) Update(_ context.Context, phone *models.AgentPhone) error {
	for i := range f.phones {
		if f.phones[i].ID == phone.ID {
			f.phones[i] = *phone
			f.updates++
			return nil
		}
	}
	return httperror.NewHTTPError(http.StatusNotFound, "phone not found")
}

type fakeWorkflowRepo struct {
	workflows []models.AgentWorkflow
}

func (f *fakeWorkflowRepo) Create(_ context.Context, workflow *models.AgentWorkflow) error {
	if workflow.ID == uuid.Nil {
		workflow.ID = uuid.New()
	}
	f.workflows = append(f.workflows, *workflow)
	return nil
}

func (f *fakeWorkflowRepo) GetByID(_ context.Context, id uuid.UUID) (*models.AgentWorkflow, error) {
	for _, workflow := range f.workflows {
		if workflow.ID == id {
			row := workflow
			return &row, nil
		}
	}
	return nil, httperror.NewHTTPError(http.StatusNotFound, "workflow not found")
}

type fakeChannelRepo struct {
	channels map[string]*models.Channel
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

type testFixture struct {
	service   *actions.Service
	agents    *fakeAgentRepo
	phones    *fakePhoneRepo
	workflows *fakeWorkflowRepo
	messages  *fakeMessageRepo
	activity  *fakeActivityRepo
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newFixture() *testFixture {
	logger := noopLogger()
	hc := httpclient.NewClient(httpclient.DefaultConfig(), logger)

	agents := &fakeAgentRepo{agents: map[uuid.UUID]*models.Agent{}}
	phones := &fakePhoneRepo{}
	workflows := &fakeWorkflowRepo{}
	channels := &fakeChannelRepo{channels: map[string]*models.Channel{}}
	messages := &fakeMessageRepo{}
	activityRepo := &fakeActivityRepo{}

	recorder := activity.NewRecorder(activityRepo, nil, logger)
	forumService := forum.NewService(channels, messages, recorder, nil, logger)

	service := actions.NewService(actions.Deps{
		Agents:    agents,
		Phones:    phones,
		Workflows: workflows,
		Forum:     forumService,
		Recorder:  recorder,
		Brave:     providers.NewBraveClient(hc, "", "", logger),
		Catalog:   providers.NewModelCatalog(hc, "", "", logger),
		N8n:       providers.NewN8nClient(hc, "", "", logger),
		Shopify:   providers.NewShopifyClient(hc, "", "", logger),
		LiveKit:   providers.NewLiveKitIssuer("", "", "", logger),
		TTS:       providers.NewTTSClient(hc, "", "", logger),
		Runner:    providers.NewRemoteRunner(hc, providers.RunnerConfig{}, logger),
		Logger:    logger,
	})
	return &testFixture{
		service:   service,
		agents:    agents,
		phones:    phones,
		workflows: workflows,
		messages:  messages,
		activity:  activityRepo,
	}
}

func testAgent() *models.Agent {
	return &models.Agent{ID: uuid.New(), Name: "Scout"}
}

func TestDispatch_UnknownAction(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.Dispatch(context.Background(), "mine_bitcoin", testAgent(), map[string]any{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Unsupported action")
}

func TestDispatch_NormalizesActionName(t *testing.T) {
	fixture := newFixture()

	result, err := fixture.service.Dispatch(context.Background(), "  Execute_Remote_Command  ", testAgent(), map[string]any{
		"command": "uptime",
	})
	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])
}

func TestWebSearch_RequiresQuery(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.HandleWebSearch(context.Background(), testAgent(), map[string]any{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "query is required for web_search")
}

func TestImportSipNumbers_SkipsBadEntries(t *testing.T) {
	fixture := newFixture()
	agent := testAgent()
	fixture.agents.agents[agent.ID] = agent

	result, err := fixture.service.HandleImportSipNumbers(context.Background(), agent, map[string]any{
		"numbers": []any{
			map[string]any{"phone_number": "+15550000001"},
			map[string]any{},
			map[string]any{"phone_number": "+15550000002"},
		},
	})
	require.NoError(t, err)

	summary := result["summary"].(map[string]any)
	assert.Equal(t, 2, summary["inserted"])
	assert.Equal(t, 0, summary["updated"])
	warnings := summary["warnings"].([]string)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Skipped entry without phone_number", warnings[0])

	require.Len(t, fixture.phones.phones, 2)
	for _, phone := range fixture.phones.phones {
		assert.Contains(t, []string(phone.Capabilities), "voice")
		assert.Equal(t, "voip_sip", phone.Provider)
		assert.Equal(t, "active", phone.Status)
		require.NotNil(t, phone.AgentID)
		assert.Equal(t, agent.ID, *phone.AgentID)
	}
}

func TestImportSipNumbers_UpdatesExisting(t *testing.T) {
	fixture := newFixture()
	agent := testAgent()
	fixture.agents.agents[agent.ID] = agent

	seeded := models.AgentPhone{PhoneNumber: "+15550000001", Provider: "twilio"}
	require.NoError(t, fixture.phones.Create(context.Background(), &seeded))

	result, err := fixture.service.HandleImportSipNumbers(context.Background(), agent, map[string]any{
		"numbers": []any{
			map[string]any{"phone_number": "+15550000001", "provider": "telnyx"},
		},
	})
	require.NoError(t, err)

	summary := result["summary"].(map[string]any)
	assert.Equal(t, 0, summary["inserted"])
	assert.Equal(t, 1, summary["updated"])
	assert.Empty(t, summary["warnings"])

	require.Len(t, fixture.phones.phones, 1)
	assert.Equal(t, seeded.ID, fixture.phones.phones[0].ID)
	assert.Equal(t, "telnyx", fixture.phones.phones[0].Provider)
}

func TestImportSipNumbers_RequiresNumbers(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.HandleImportSipNumbers(context.Background(), testAgent(), map[string]any{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "numbers array is required")
}

func TestDiscoverUpdates_IsolatesProbeFailures(t *testing.T) {
	fixture := newFixture()
	agent := testAgent()

	// Without a Gemini key the gemini probe fails; the sip catalog probe is
	// static and always succeeds.
	result, err := fixture.service.HandleDiscoverUpdates(context.Background(), agent, map[string]any{
		"providers":    []any{"gemini", "sip"},
		"sipProviders": []any{"telnyx"},
	})
	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])

	summary := result["summary"].(map[string]any)
	assert.Equal(t, 2, summary["total"])
	assert.Equal(t, 1, summary["successful"])
	assert.Equal(t, 1, summary["warnings"])

	results := result["providers"].([]providers.ProbeResult)
	require.Len(t, results, 2)
	assert.Equal(t, "gemini", results[0].Provider)
	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Warning, "GEMINI_API_KEY")
	assert.Equal(t, "sip", results[1].Provider)
	assert.True(t, results[1].OK)

	// A sweep with warnings posts the summary with status "open" and logs a
	// warning activity entry.
	require.NotNil(t, result["forumPostId"])
	require.Len(t, fixture.messages.messages, 1)
	post := fixture.messages.messages[0]
	assert.Equal(t, "Provider Discovery Sweep", post.Metadata.Data["title"])
	assert.Equal(t, "open", post.Metadata.Data["status"])

	var discoveryEntry *models.ActivityEntry
	for i := range fixture.activity.entries {
		if strings.Contains(fixture.activity.entries[i].Message, "provider discovery completed") {
			discoveryEntry = &fixture.activity.entries[i]
		}
	}
	require.NotNil(t, discoveryEntry)
	assert.Equal(t, models.ActivityWarning, discoveryEntry.EventType)
	assert.Contains(t, discoveryEntry.Message, "(1/2 successful checks)")
}

func TestCreateWorkflow_FallsBackWithoutRemoteConfig(t *testing.T) {
	fixture := newFixture()
	agent := testAgent()

	result, err := fixture.service.HandleCreateWorkflow(context.Background(), agent, map[string]any{
		"name": "Nightly Sync",
	})
	require.NoError(t, err)
	assert.Equal(t, true, result["ok"])

	require.Len(t, fixture.workflows.workflows, 1)
	row := fixture.workflows.workflows[0]
	assert.Equal(t, "Nightly Sync", row.Name)
	assert.True(t, row.Active)
	assert.True(t, strings.HasPrefix(row.TriggerURL, "https://n8n.local/webhook/agent-nightly-sync-"), row.TriggerURL)
	assert.Nil(t, row.ExternalID)

	remote := result["n8n"].(map[string]any)
	assert.Nil(t, remote["baseUrl"])
	assert.Nil(t, remote["workflowId"])
	assert.Nil(t, remote["warning"])
}

func TestCreateDaoTask_Defaults(t *testing.T) {
	fixture := newFixture()
	agent := testAgent()

	result, err := fixture.service.HandleCreateDaoTask(context.Background(), agent, map[string]any{
		"daoName": "Solar Collective",
	})
	require.NoError(t, err)

	task := result["task"].(map[string]any)
	assert.Equal(t, "Solar Collective", task["daoName"])
	assert.Equal(t, "aragon", task["provider"])
	assert.Equal(t, "ethereum", task["chain"])
	assert.Equal(t, "SOLAR-", task["tokenSymbol"])
	assert.Equal(t, "1000000", task["tokenSupply"])
	assert.Equal(t, "token-weighted", task["governanceModel"])
	assert.Len(t, task["checklist"].([]string), 6)
	require.NotNil(t, task["forumPostId"])

	// createWorkflow defaults to true.
	require.Len(t, fixture.workflows.workflows, 1)
	assert.Equal(t, "Solar Collective DAO Launch", fixture.workflows.workflows[0].Name)
}

func TestCreateDaoTask_RequiresName(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.HandleCreateDaoTask(context.Background(), testAgent(), map[string]any{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "daoName (or name) is required")
}

func TestCommentForumPost_RejectsMalformedID(t *testing.T) {
	fixture := newFixture()

	_, err := fixture.service.HandleCommentForumPost(context.Background(), testAgent(), map[string]any{
		"postId":  "not-a-uuid",
		"message": "sounds good",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "postId must be a valid id")
}

func TestExecuteCommand_DryRunWithoutRunner(t *testing.T) {
	fixture := newFixture()
	agent := testAgent()

	result, err := fixture.service.HandleExecuteCommand(context.Background(), agent, map[string]any{
		"command": "systemctl status caddy",
	})
	require.NoError(t, err)

	commandResult := result["result"].(*providers.CommandResult)
	assert.True(t, commandResult.DryRun)
	assert.Equal(t, 0, commandResult.ExitCode)
	assert.Equal(t, "systemctl status caddy", commandResult.Command)
}
