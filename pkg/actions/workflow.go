package actions

import (
	"context"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/providers"
)

type workflowOutcome struct {
	row        *models.AgentWorkflow
	baseURL    string
	workflowID string
	warning    string
}

// createWorkflow persists a local workflow row, attempting remote creation
// on the n8n instance first. Remote failures become warnings; the local row
// is written regardless.
func (s *Service) createWorkflow(ctx context.Context, agent *models.Agent, req *WorkflowRequest) (*workflowOutcome, error) {
	fallbackPath := fallbackWebhookPath(req.Name)
	baseURL := s.n8n.ResolveBaseURL(req.N8n.BaseURL)

	triggerURL := req.TriggerURL
	if triggerURL == "" {
		path := providers.ExtractWebhookPath(req.N8n.Workflow)
		if path == "" {
			path = fallbackPath
		}
		if baseURL != "" {
			triggerURL = baseURL + "/webhook/" + path
		}
	}

	remote := s.n8n.CreateWorkflow(ctx, providers.RemoteWorkflowInput{
		BaseURL:  req.N8n.BaseURL,
		APIKey:   req.N8n.APIKey,
		Workflow: req.N8n.Workflow,
		Activate: req.Activate,
	})

	if triggerURL == "" {
		triggerURL = "https://n8n.local/webhook/" + fallbackPath
	}

	row := &models.AgentWorkflow{
		AgentID:    &agent.ID,
		Name:       req.Name,
		TriggerURL: triggerURL,
		Active:     req.Active(),
	}
	if req.Description != "" {
		description := req.Description
		row.Description = &description
	}
	if remote.WorkflowID != "" {
		externalID := remote.WorkflowID
		row.ExternalID = &externalID
	}
	if err := s.workflows.Create(ctx, row); err != nil {
		return nil, err
	}

	message := "created workflow \"" + req.Name + "\""
	if remote.WorkflowID != "" {
		message += " (n8n:" + remote.WorkflowID + ")"
	}
	if remote.Warning != "" {
		s.recorder.Warning(ctx, &agent.ID, agent.Name, message)
	} else {
		s.recorder.Success(ctx, &agent.ID, agent.Name, message)
	}

	return &workflowOutcome{
		row:        row,
		baseURL:    baseURL,
		workflowID: remote.WorkflowID,
		warning:    remote.Warning,
	}, nil
}

// HandleCreateWorkflow creates a workflow record, optionally mirroring it to
// the remote automation engine.
func (s *Service) HandleCreateWorkflow(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[WorkflowRequest](payload)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	outcome, err := s.createWorkflow(ctx, agent, &req)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"ok":       true,
		"action":   ActionCreateWorkflow,
		"workflow": outcome.row,
		"n8n": map[string]any{
			"baseUrl":    nilIfEmpty(outcome.baseURL),
			"workflowId": nilIfEmpty(outcome.workflowID),
			"warning":    nilIfEmpty(outcome.warning),
		},
	}, nil
}
