package actions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
)

// HandleImportSipNumbers bulk upserts provisioned phone numbers. Each entry
// is processed independently; a bad entry records a warning and the batch
// continues.
func (s *Service) HandleImportSipNumbers(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[SipImportRequest](payload)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	if len(req.Numbers) == 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "numbers array is required")
	}

	defaultAgentID := req.AssignAgentID
	if defaultAgentID == "" {
		defaultAgentID = agent.ID.String()
	}

	inserted := 0
	updated := 0
	var warnings []string
	importedNumbers := make([]map[string]any, 0, len(req.Numbers))
	nameCache := map[string]*models.Agent{}

	for _, entry := range req.Numbers {
		if entry.PhoneNumber == "" {
			warnings = append(warnings, "Skipped entry without phone_number")
			continue
		}

		provider := coalesce(entry.Provider, req.Provider)
		capabilities := entry.Capabilities
		if len(capabilities) == 0 {
			capabilities = req.Capabilities
		}
		if len(capabilities) == 0 {
			capabilities = []string{"voice"}
		}
		hasVoice := false
		for _, capability := range capabilities {
			if capability == "voice" {
				hasVoice = true
				break
			}
		}
		if !hasVoice {
			capabilities = append(capabilities, "voice")
		}

		targetAgentID, targetAgentName := s.resolveAgent(ctx, coalesce(entry.AgentID, defaultAgentID), nameCache)

		var workflowID string
		linkedTriggerURL := entry.WorkflowTriggerURL
		if entry.WorkflowName != "" || entry.WorkflowTriggerURL != "" {
			workflowName := entry.WorkflowName
			if workflowName == "" {
				workflowName = coalesce(entry.Label, entry.PhoneNumber) + " Workflow"
			}
			workflowReq := WorkflowRequest{
				Name:        workflowName,
				Description: entry.WorkflowDescription,
				TriggerURL:  entry.WorkflowTriggerURL,
				N8n: WorkflowN8nConfig{
					BaseURL: coalesce(entry.N8nBaseURL, req.N8nBaseURL),
					APIKey:  coalesce(entry.N8nAPIKey, req.N8nAPIKey),
				},
			}
			workflowReq.Normalize()
			outcome, err := s.createWorkflow(ctx, agent, &workflowReq)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: %s", entry.PhoneNumber, err.Error()))
			} else {
				workflowID = outcome.row.ID.String()
				if outcome.row.TriggerURL != "" {
					linkedTriggerURL = outcome.row.TriggerURL
				}
			}
		}

		routing := models.PhoneRouting{
			Action:     coalesce(entry.RoutingAction, req.RoutingAction),
			Fallback:   coalesce(entry.RoutingFallback, req.RoutingFallback),
			Prompt:     entry.Prompt,
			WorkflowID: workflowID,
			TriggerURL: linkedTriggerURL,
			SIPProviderFields: map[string]any{
				"provider":   provider,
				"trunk_sid":  entry.TrunkSID,
				"number_sid": entry.NumberSID,
				"sip_uri":    entry.SIPURI,
			},
		}

		phone := models.AgentPhone{
			PhoneNumber:  entry.PhoneNumber,
			Provider:     provider,
			AgentID:      targetAgentID,
			AgentName:    targetAgentName,
			Capabilities: pq.StringArray(capabilities),
			Routing:      database.NewJSONB(routing),
			Status:       req.Status,
		}
		if entry.Label != "" {
			label := entry.Label
			phone.Label = &label
		}

		existing, err := s.phones.GetLatestByNumber(ctx, entry.PhoneNumber)
		switch {
		case err == nil:
			phone.ID = existing.ID
			if err := s.phones.Update(ctx, &phone); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: update failed", entry.PhoneNumber))
				continue
			}
			updated++
		case httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound:
			if err := s.phones.Create(ctx, &phone); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: insert failed", entry.PhoneNumber))
				continue
			}
			inserted++
		default:
			warnings = append(warnings, fmt.Sprintf("%s: failed checking existing records", entry.PhoneNumber))
			continue
		}

		importedNumbers = append(importedNumbers, map[string]any{
			"phone_number": entry.PhoneNumber,
			"workflow_id":  nilIfEmpty(workflowID),
		})
	}

	message := fmt.Sprintf("imported SIP numbers (inserted %d, updated %d)", inserted, updated)
	if len(warnings) > 0 {
		s.recorder.Warning(ctx, &agent.ID, agent.Name, message)
	} else {
		s.recorder.Success(ctx, &agent.ID, agent.Name, message)
	}

	if warnings == nil {
		warnings = []string{}
	}
	return map[string]any{
		"ok":     true,
		"action": ActionImportSipNumbers,
		"summary": map[string]any{
			"inserted": inserted,
			"updated":  updated,
			"warnings": warnings,
		},
		"numbers": importedNumbers,
	}, nil
}

// resolveAgent parses and looks up an agent id, caching results across a
// batch. Unknown or malformed ids yield a nil id and empty name.
func (s *Service) resolveAgent(ctx context.Context, rawID string, cache map[string]*models.Agent) (*uuid.UUID, string) {
	if rawID == "" {
		return nil, ""
	}
	if cached, ok := cache[rawID]; ok {
		if cached == nil {
			return nil, ""
		}
		return &cached.ID, cached.Name
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		cache[rawID] = nil
		return nil, ""
	}
	target, err := s.agents.GetByID(ctx, id)
	if err != nil {
		cache[rawID] = nil
		return &id, ""
	}
	cache[rawID] = target
	return &target.ID, target.Name
}
