package actions

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/activity"
	"github.com/Ramsey-B/clover/pkg/forum"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/providers"
	"github.com/Ramsey-B/clover/pkg/repositories"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Bridge action names.
const (
	ActionWebSearch        = "web_search"
	ActionShopifySnapshot  = "shopify_store_snapshot"
	ActionCreateWorkflow   = "create_n8n_workflow"
	ActionLiveKitSession   = "request_livekit_session"
	ActionImportSipNumbers = "import_sip_numbers"
	ActionPostForumUpdate  = "post_forum_update"
	ActionCommentForumPost = "comment_forum_post"
	ActionCreateDaoTask    = "create_dao_deployment_task"
	ActionDiscoverUpdates  = "discover_provider_updates"
	ActionSynthesizeTTS    = "synthesize_tts"
	ActionExecuteCommand   = "execute_remote_command"
)

// Handler executes one bridge action for an authenticated agent.
type Handler func(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error)

// Service dispatches authenticated bridge actions to their handlers.
type Service struct {
	agents    repositories.AgentRepo
	phones    repositories.PhoneRepo
	workflows repositories.WorkflowRepo
	forum     *forum.Service
	recorder  *activity.Recorder
	brave     *providers.BraveClient
	catalog   *providers.ModelCatalog
	n8n       *providers.N8nClient
	shopify   *providers.ShopifyClient
	livekit   *providers.LiveKitIssuer
	tts       *providers.TTSClient
	runner    *providers.RemoteRunner
	logger    ectologger.Logger

	handlers map[string]Handler
}

// Deps bundles the service's collaborators.
type Deps struct {
	Agents    repositories.AgentRepo
	Phones    repositories.PhoneRepo
	Workflows repositories.WorkflowRepo
	Forum     *forum.Service
	Recorder  *activity.Recorder
	Brave     *providers.BraveClient
	Catalog   *providers.ModelCatalog
	N8n       *providers.N8nClient
	Shopify   *providers.ShopifyClient
	LiveKit   *providers.LiveKitIssuer
	TTS       *providers.TTSClient
	Runner    *providers.RemoteRunner
	Logger    ectologger.Logger
}

// NewService creates a new action service
func NewService(deps Deps) *Service {
	s := &Service{
		agents:    deps.Agents,
		phones:    deps.Phones,
		workflows: deps.Workflows,
		forum:     deps.Forum,
		recorder:  deps.Recorder,
		brave:     deps.Brave,
		catalog:   deps.Catalog,
		n8n:       deps.N8n,
		shopify:   deps.Shopify,
		livekit:   deps.LiveKit,
		tts:       deps.TTS,
		runner:    deps.Runner,
		logger:    deps.Logger,
	}
	s.handlers = map[string]Handler{
		ActionWebSearch:        s.HandleWebSearch,
		ActionShopifySnapshot:  s.HandleShopifySnapshot,
		ActionCreateWorkflow:   s.HandleCreateWorkflow,
		ActionLiveKitSession:   s.HandleLiveKitSession,
		ActionImportSipNumbers: s.HandleImportSipNumbers,
		ActionPostForumUpdate:  s.HandlePostForumUpdate,
		ActionCommentForumPost: s.HandleCommentForumPost,
		ActionCreateDaoTask:    s.HandleCreateDaoTask,
		ActionDiscoverUpdates:  s.HandleDiscoverUpdates,
		ActionSynthesizeTTS:    s.HandleSynthesizeTTS,
		ActionExecuteCommand:   s.HandleExecuteCommand,
	}
	return s
}

// Dispatch routes an action to its handler. Unknown actions fail with a 400.
func (s *Service) Dispatch(ctx context.Context, action string, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	ctx, span := tracing.StartSpan(ctx, "ActionService.Dispatch")
	defer span.End()

	action = strings.ToLower(strings.TrimSpace(action))
	handler, ok := s.handlers[action]
	if !ok {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Unsupported action")
	}

	start := time.Now()
	result, err := handler(ctx, agent, payload)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordBridgeAction(action, status, time.Since(start).Seconds())
	return result, err
}

// fallbackWebhookPath derives a unique-enough webhook path from a workflow
// name and the current time.
func fallbackWebhookPath(name string) string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return "agent-" + providers.Slugify(name) + "-" + millis
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
