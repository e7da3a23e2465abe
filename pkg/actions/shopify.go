package actions

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/clover/pkg/forum"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/providers"
)

// HandleShopifySnapshot captures a point-in-time view of a Shopify store,
// optionally creating a linked workflow and posting a forum summary.
func (s *Service) HandleShopifySnapshot(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[ShopifyRequest](payload)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	snapshot, err := s.shopify.Snapshot(ctx, providers.SnapshotInput{
		ShopDomain:      req.ShopDomain,
		AccessToken:     req.AccessToken,
		APIVersion:      req.APIVersion,
		IncludeProducts: boolOr(req.IncludeProducts, true),
		IncludeOrders:   boolOr(req.IncludeOrders, true),
	})
	if err != nil {
		return nil, err
	}

	var workflowResult any
	if req.CreateWorkflow {
		workflowName := req.WorkflowName
		if workflowName == "" {
			workflowName = snapshot.Domain + " Store Sync"
		}
		workflowReq := WorkflowRequest{
			Name:        workflowName,
			Description: req.WorkflowDescription,
			TriggerURL:  req.WorkflowTriggerURL,
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

	// Forum summary is best effort; a posting failure never fails the
	// snapshot.
	if boolOr(req.PostForumUpdate, true) {
		message := fmt.Sprintf("Captured Shopify snapshot for %s (%s, %s).", snapshot.Domain, snapshot.Shop.Name, snapshot.Shop.Currency)
		if count, ok := snapshot.Counts["products"]; ok {
			message += fmt.Sprintf(" Products: %v.", count)
		}
		if count, ok := snapshot.Counts["orders"]; ok {
			message += fmt.Sprintf(" Orders: %v.", count)
		}
		_, _, _ = s.forum.CreatePost(ctx, agent, forum.PostInput{
			Title:   "Shopify Store Snapshot",
			Message: message,
			Tags:    []string{"shopify", "commerce"},
			Status:  "in_progress",
		})
	}

	s.recorder.Success(ctx, &agent.ID, agent.Name, fmt.Sprintf("captured Shopify store snapshot for %s", snapshot.Domain))

	return map[string]any{
		"ok":       true,
		"action":   ActionShopifySnapshot,
		"snapshot": snapshot,
		"workflow": workflowResult,
	}, nil
}
