package actions

// Request structs accept both the camelCase and snake_case field spellings
// agents send in practice. Normalize resolves the aliases and applies the
// documented defaults, so handlers only ever see the canonical fields.

// WebSearchRequest is the payload for the web_search action.
type WebSearchRequest struct {
	Query     string  `json:"query"`
	QueryAlt  string  `json:"q"`
	Count     FlexInt `json:"count"`
	Freshness string  `json:"freshness"`
	Endpoint  string  `json:"endpoint"`
	APIKey    string  `json:"braveApiKey"`
	APIKeyAlt string  `json:"brave_api_key"`
}

// Normalize resolves aliases and clamps the result count to [1, 20].
func (r *WebSearchRequest) Normalize() {
	r.Query = coalesce(r.Query, r.QueryAlt)
	r.APIKey = coalesce(r.APIKey, r.APIKeyAlt)
	if r.Count == 0 {
		r.Count = 8
	}
	if r.Count < 1 {
		r.Count = 1
	}
	if r.Count > 20 {
		r.Count = 20
	}
}

// DiscoverRequest is the payload for the discover_provider_updates action.
type DiscoverRequest struct {
	Providers           []string `json:"providers"`
	PostForumUpdate     *bool    `json:"postForumUpdate"`
	PostForumUpdateAlt  *bool    `json:"post_forum_update"`
	GeminiAPIKey        string   `json:"geminiApiKey"`
	GoogleAPIKey        string   `json:"googleApiKey"`
	HuggingFaceToken    string   `json:"huggingFaceToken"`
	HuggingFaceTokenAlt string   `json:"huggingfaceToken"`
	SIPProviders        []string `json:"sipProviders"`
	SIPProvidersAlt     []string `json:"sip_providers"`
}

// Normalize resolves aliases; the forum summary post defaults to enabled.
func (r *DiscoverRequest) Normalize() {
	r.GeminiAPIKey = coalesce(r.GeminiAPIKey, r.GoogleAPIKey)
	r.HuggingFaceToken = coalesce(r.HuggingFaceToken, r.HuggingFaceTokenAlt)
	if len(r.SIPProviders) == 0 {
		r.SIPProviders = r.SIPProvidersAlt
	}
	if r.PostForumUpdate == nil {
		r.PostForumUpdate = r.PostForumUpdateAlt
	}
}

// ShouldPost reports whether the sweep should publish a forum summary.
func (r *DiscoverRequest) ShouldPost() bool {
	return boolOr(r.PostForumUpdate, true)
}

// DaoTaskRequest is the payload for the create_dao_deployment_task action.
type DaoTaskRequest struct {
	DaoName           string `json:"daoName"`
	Name              string `json:"name"`
	DaoProvider       string `json:"daoProvider"`
	Provider          string `json:"provider"`
	Chain             string `json:"chain"`
	TokenSymbol       string `json:"tokenSymbol"`
	Symbol            string `json:"symbol"`
	TokenSupply       string `json:"tokenSupply"`
	Supply            string `json:"supply"`
	GovernanceModel   string `json:"governanceModel"`
	TreasuryAddress   string `json:"treasuryAddress"`
	Treasury          string `json:"treasury"`
	LaunchDate        string `json:"launchDate"`
	LaunchDateAlt     string `json:"launch_date"`
	Objective         string `json:"objective"`
	CreateWorkflow    *bool  `json:"createWorkflow"`
	CreateWorkflowAlt *bool  `json:"create_workflow"`
	TriggerURL        string `json:"triggerUrl"`
	TriggerURLAlt     string `json:"trigger_url"`
	N8nBaseURL        string `json:"n8nBaseUrl"`
	N8nAPIKey         string `json:"n8nApiKey"`
}

// Normalize resolves aliases and applies defaults for everything except the
// required DAO name and the derived token symbol and launch date.
func (r *DaoTaskRequest) Normalize() {
	r.DaoName = coalesce(r.DaoName, r.Name)
	r.DaoProvider = coalesce(r.DaoProvider, r.Provider, "aragon")
	r.Chain = coalesce(r.Chain, "ethereum")
	r.TokenSymbol = coalesce(r.TokenSymbol, r.Symbol)
	r.TokenSupply = coalesce(r.TokenSupply, r.Supply, "1000000")
	r.GovernanceModel = coalesce(r.GovernanceModel, "token-weighted")
	r.TreasuryAddress = coalesce(r.TreasuryAddress, r.Treasury, "TBD")
	r.LaunchDate = coalesce(r.LaunchDate, r.LaunchDateAlt)
	r.Objective = coalesce(r.Objective, "Launch a DAO governance stack with treasury and proposal workflows.")
	r.TriggerURL = coalesce(r.TriggerURL, r.TriggerURLAlt)
	if r.CreateWorkflow == nil {
		r.CreateWorkflow = r.CreateWorkflowAlt
	}
}

// WorkflowN8nConfig is the nested n8n section of a workflow request.
type WorkflowN8nConfig struct {
	BaseURL  string         `json:"baseUrl"`
	APIKey   string         `json:"apiKey"`
	Workflow map[string]any `json:"workflow"`
}

// WorkflowRequest is the payload for the create_n8n_workflow action.
type WorkflowRequest struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	TriggerURL    string            `json:"triggerUrl"`
	TriggerURLAlt string            `json:"trigger_url"`
	IsActive      *bool             `json:"isActive"`
	IsActiveAlt   *bool             `json:"is_active"`
	Activate      bool              `json:"activate"`
	N8n           WorkflowN8nConfig `json:"n8n"`
	N8nWorkflow   map[string]any    `json:"n8nWorkflow"`
	N8nBaseURL    string            `json:"n8nBaseUrl"`
	N8nAPIKey     string            `json:"n8nApiKey"`
}

// Normalize resolves aliases; the workflow name defaults to "Agent Workflow"
// and new workflows default to active.
func (r *WorkflowRequest) Normalize() {
	if r.Name == "" {
		r.Name = "Agent Workflow"
	}
	r.TriggerURL = coalesce(r.TriggerURL, r.TriggerURLAlt)
	if r.IsActive == nil {
		r.IsActive = r.IsActiveAlt
	}
	if len(r.N8n.Workflow) == 0 {
		r.N8n.Workflow = r.N8nWorkflow
	}
	r.N8n.BaseURL = coalesce(r.N8n.BaseURL, r.N8nBaseURL)
	r.N8n.APIKey = coalesce(r.N8n.APIKey, r.N8nAPIKey)
}

// Active reports whether the persisted workflow row should be active.
func (r *WorkflowRequest) Active() bool {
	return boolOr(r.IsActive, true)
}

// LiveKitRequest is the payload for the request_livekit_session action.
type LiveKitRequest struct {
	RoomName           string `json:"roomName" validate:"omitempty,max=128"`
	RoomNameAlt        string `json:"room_name"`
	ParticipantName    string `json:"participantName" validate:"omitempty,max=128"`
	ParticipantNameAlt string `json:"participant_name"`
}

// Normalize resolves aliases. Room and participant defaults depend on the
// calling agent and are applied by the handler.
func (r *LiveKitRequest) Normalize() {
	r.RoomName = coalesce(r.RoomName, r.RoomNameAlt)
	r.ParticipantName = coalesce(r.ParticipantName, r.ParticipantNameAlt)
}

// SipImportEntry is one number in a bulk SIP import.
type SipImportEntry struct {
	PhoneNumber            string   `json:"phone_number"`
	PhoneNumberAlt         string   `json:"phoneNumber"`
	Provider               string   `json:"provider"`
	Label                  string   `json:"label"`
	Name                   string   `json:"name"`
	Prompt                 string   `json:"prompt"`
	SystemPrompt           string   `json:"system_prompt"`
	AgentPrompt            string   `json:"agent_prompt"`
	Capabilities           []string `json:"capabilities"`
	AgentID                string   `json:"agent_id"`
	AgentIDAlt             string   `json:"agentId"`
	RoutingAction          string   `json:"routing_action"`
	RoutingActionAlt       string   `json:"routingAction"`
	RoutingFallback        string   `json:"routing_fallback"`
	RoutingFallbackAlt     string   `json:"routingFallback"`
	WorkflowName           string   `json:"workflow_name"`
	WorkflowNameAlt        string   `json:"workflowName"`
	WorkflowDescription    string   `json:"workflow_description"`
	WorkflowDescriptionAlt string   `json:"workflowDescription"`
	WorkflowTriggerURL     string   `json:"workflow_trigger_url"`
	WorkflowTriggerURLAlt  string   `json:"workflowTriggerUrl"`
	N8nBaseURL             string   `json:"n8n_base_url"`
	N8nBaseURLAlt          string   `json:"n8nBaseUrl"`
	N8nAPIKey              string   `json:"n8n_api_key"`
	N8nAPIKeyAlt           string   `json:"n8nApiKey"`
	TrunkSID               string   `json:"trunk_sid"`
	TrunkSIDAlt            string   `json:"trunkSid"`
	TwilioTrunkSID         string   `json:"twilio_trunk_sid"`
	NumberSID              string   `json:"number_sid"`
	NumberSIDAlt           string   `json:"numberSid"`
	TwilioNumberSID        string   `json:"twilio_number_sid"`
	SIPURI                 string   `json:"sip_uri"`
	SIPURIAlt              string   `json:"sipUri"`
}

// Normalize resolves the entry's aliases.
func (e *SipImportEntry) Normalize() {
	e.PhoneNumber = coalesce(e.PhoneNumber, e.PhoneNumberAlt)
	e.Label = coalesce(e.Label, e.Name)
	e.Prompt = coalesce(e.Prompt, e.SystemPrompt, e.AgentPrompt)
	e.AgentID = coalesce(e.AgentID, e.AgentIDAlt)
	e.RoutingAction = coalesce(e.RoutingAction, e.RoutingActionAlt)
	e.RoutingFallback = coalesce(e.RoutingFallback, e.RoutingFallbackAlt)
	e.WorkflowName = coalesce(e.WorkflowName, e.WorkflowNameAlt)
	e.WorkflowDescription = coalesce(e.WorkflowDescription, e.WorkflowDescriptionAlt)
	e.WorkflowTriggerURL = coalesce(e.WorkflowTriggerURL, e.WorkflowTriggerURLAlt)
	e.N8nBaseURL = coalesce(e.N8nBaseURL, e.N8nBaseURLAlt)
	e.N8nAPIKey = coalesce(e.N8nAPIKey, e.N8nAPIKeyAlt)
	e.TrunkSID = coalesce(e.TrunkSID, e.TrunkSIDAlt, e.TwilioTrunkSID)
	e.NumberSID = coalesce(e.NumberSID, e.NumberSIDAlt, e.TwilioNumberSID)
	e.SIPURI = coalesce(e.SIPURI, e.SIPURIAlt)
}

// SipImportRequest is the payload for the import_sip_numbers action.
type SipImportRequest struct {
	Numbers            []SipImportEntry `json:"numbers"`
	Provider           string           `json:"provider"`
	Status             string           `json:"status"`
	AssignAgentID      string           `json:"assignAgentId"`
	AssignAgentIDAlt   string           `json:"assign_agent_id"`
	RoutingAction      string           `json:"routingAction"`
	RoutingActionAlt   string           `json:"routing_action"`
	RoutingFallback    string           `json:"routingFallback"`
	RoutingFallbackAlt string           `json:"routing_fallback"`
	Capabilities       []string         `json:"capabilities"`
	N8nBaseURL         string           `json:"n8nBaseUrl"`
	N8nAPIKey          string           `json:"n8nApiKey"`
}

// Normalize resolves aliases and applies batch-level defaults.
func (r *SipImportRequest) Normalize() {
	r.Provider = coalesce(r.Provider, "voip_sip")
	r.Status = coalesce(r.Status, "active")
	r.AssignAgentID = coalesce(r.AssignAgentID, r.AssignAgentIDAlt)
	r.RoutingAction = coalesce(r.RoutingAction, r.RoutingActionAlt, "ai_answer")
	r.RoutingFallback = coalesce(r.RoutingFallback, r.RoutingFallbackAlt, "voicemail")
	for i := range r.Numbers {
		r.Numbers[i].Normalize()
	}
}

// ForumPostRequest is the payload for the post_forum_update action.
type ForumPostRequest struct {
	Title         string `json:"title" validate:"omitempty,max=300"`
	Message       string `json:"message"`
	Body          string `json:"body"`
	Tags          Tags   `json:"tags"`
	Project       string `json:"project"`
	Status        string `json:"status"`
	BusinessID    string `json:"businessId"`
	BusinessIDAlt string `json:"business_id"`
}

// Normalize resolves aliases.
func (r *ForumPostRequest) Normalize() {
	r.Message = coalesce(r.Message, r.Body)
	r.BusinessID = coalesce(r.BusinessID, r.BusinessIDAlt)
}

// ForumCommentRequest is the payload for the comment_forum_post action.
type ForumCommentRequest struct {
	PostID    string `json:"postId"`
	PostIDAlt string `json:"post_id"`
	Message   string `json:"message"`
	Body      string `json:"body"`
}

// Normalize resolves aliases.
func (r *ForumCommentRequest) Normalize() {
	r.PostID = coalesce(r.PostID, r.PostIDAlt)
	r.Message = coalesce(r.Message, r.Body)
}

// ShopifyRequest is the payload for the shopify_store_snapshot action.
type ShopifyRequest struct {
	ShopDomain          string `json:"shopDomain"`
	ShopDomainAlt       string `json:"shop_domain"`
	AccessToken         string `json:"accessToken"`
	APIVersion          string `json:"apiVersion"`
	IncludeOrders       *bool  `json:"includeOrders"`
	IncludeProducts     *bool  `json:"includeProducts"`
	PostForumUpdate     *bool  `json:"postForumUpdate"`
	CreateWorkflow      bool   `json:"createWorkflow"`
	WorkflowName        string `json:"workflowName"`
	WorkflowDescription string `json:"workflowDescription"`
	WorkflowTriggerURL  string `json:"workflowTriggerUrl"`
	N8nBaseURL          string `json:"n8nBaseUrl"`
	N8nAPIKey           string `json:"n8nApiKey"`
}

// Normalize resolves aliases; counts and orders are included by default.
func (r *ShopifyRequest) Normalize() {
	r.ShopDomain = coalesce(r.ShopDomain, r.ShopDomainAlt)
}

// TTSRequest is the payload for the synthesize_tts action.
type TTSRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Voice    string `json:"voice"`
	Format   string `json:"format"`
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"apiKey"`
}

// RemoteCommandRequest is the payload for the execute_remote_command action.
type RemoteCommandRequest struct {
	Command string `json:"command"`
	Shell   string `json:"shell"`
}
