package actions

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/clover/pkg/forum"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/providers"
)

// HandleCreateDaoTask builds a DAO launch checklist, optionally creates a
// supporting workflow, and always posts the task to the forum.
func (s *Service) HandleCreateDaoTask(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[DaoTaskRequest](payload)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	if req.DaoName == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "daoName (or name) is required")
	}

	tokenSymbol := req.TokenSymbol
	if tokenSymbol == "" {
		slug := providers.Slugify(req.DaoName)
		if len(slug) > 6 {
			slug = slug[:6]
		}
		tokenSymbol = strings.ToUpper(slug)
	}

	launchDate := req.LaunchDate
	if launchDate == "" {
		launchDate = time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	}

	checklist := []string{
		fmt.Sprintf("Finalize charter and legal wrapper for %s.", req.DaoName),
		fmt.Sprintf("Deploy governance contracts using %s on %s.", req.DaoProvider, req.Chain),
		fmt.Sprintf("Mint %s %s tokens with allocation policy.", req.TokenSupply, tokenSymbol),
		fmt.Sprintf("Set quorum/threshold parameters for %s governance.", req.GovernanceModel),
		"Wire treasury actions into n8n approval and audit workflows.",
		"Publish contributor onboarding + forum governance handbook.",
	}

	var workflowResult any
	if boolOr(req.CreateWorkflow, true) {
		workflowReq := WorkflowRequest{
			Name:        req.DaoName + " DAO Launch",
			Description: fmt.Sprintf("DAO deployment workflow for %s (%s/%s)", req.DaoName, req.DaoProvider, req.Chain),
			TriggerURL:  req.TriggerURL,
			N8n: WorkflowN8nConfig{
				BaseURL: req.N8nBaseURL,
				APIKey:  req.N8nAPIKey,
			},
		}
		workflowReq.Normalize()
		outcome, err := s.createWorkflow(ctx, agent, &workflowReq)
		if err != nil {
			return nil, err
		}
		workflowResult = outcome.row
	}

	lines := make([]string, 0, len(checklist))
	for _, step := range checklist {
		lines = append(lines, "- "+step)
	}
	post, _, err := s.forum.CreatePost(ctx, agent, forum.PostInput{
		Title:   req.DaoName + " DAO Deployment Task",
		Message: req.Objective + "\n\nChecklist:\n" + strings.Join(lines, "\n"),
		Tags:    []string{"dao", req.DaoProvider, req.Chain, strings.ToLower(tokenSymbol)},
		Status:  "open",
		Project: req.DaoName,
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Success(ctx, &agent.ID, agent.Name,
		fmt.Sprintf("created DAO deployment task %q (%s/%s)", req.DaoName, req.DaoProvider, req.Chain))

	return map[string]any{
		"ok":     true,
		"action": ActionCreateDaoTask,
		"task": map[string]any{
			"daoName":         req.DaoName,
			"provider":        req.DaoProvider,
			"chain":           req.Chain,
			"tokenSymbol":     tokenSymbol,
			"tokenSupply":     req.TokenSupply,
			"governanceModel": req.GovernanceModel,
			"treasuryAddress": req.TreasuryAddress,
			"launchDate":      launchDate,
			"objective":       req.Objective,
			"checklist":       checklist,
			"forumPostId":     post.ID.String(),
		},
		"workflow": workflowResult,
	}, nil
}
