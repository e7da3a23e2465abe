package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ramsey-B/clover/pkg/forum"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/providers"
)

// HandleDiscoverUpdates sweeps the model registries and the SIP catalog.
// Each provider check is fault isolated; a failing provider contributes a
// warning entry without aborting the sweep.
func (s *Service) HandleDiscoverUpdates(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[DiscoverRequest](payload)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	requested := make(map[string]struct{}, len(req.Providers))
	for _, name := range req.Providers {
		requested[strings.ToLower(name)] = struct{}{}
	}
	shouldCheck := func(name string) bool {
		if len(requested) == 0 {
			return true
		}
		_, ok := requested[name]
		return ok
	}

	var preferredSIP []string
	for _, entry := range req.SIPProviders {
		preferredSIP = append(preferredSIP, strings.ToLower(entry))
	}

	var probes []providers.Probe
	if shouldCheck("openrouter") {
		probes = append(probes, s.catalog.OpenRouterProbe())
	}
	if shouldCheck("huggingface") {
		probes = append(probes, s.catalog.HuggingFaceProbe(req.HuggingFaceToken))
	}
	if shouldCheck("gemini") {
		probes = append(probes, s.catalog.GeminiProbe(req.GeminiAPIKey))
	}
	if shouldCheck("sip") {
		probes = append(probes, providers.SIPCatalogProbe(preferredSIP))
	}

	checkedAt := time.Now().UTC()
	results := providers.RunProbes(ctx, checkedAt, probes)

	okCount := 0
	summaryLines := make([]string, 0, len(results))
	for _, result := range results {
		if result.OK {
			okCount++
			summaryLines = append(summaryLines, fmt.Sprintf("- %s: %d items", result.Provider, result.Count))
		} else {
			warning := result.Warning
			if warning == "" {
				warning = "check failed"
			}
			summaryLines = append(summaryLines, fmt.Sprintf("- %s: warning (%s)", result.Provider, warning))
		}
	}
	warningCount := len(results) - okCount

	var forumPostID any
	if req.ShouldPost() {
		status := "in_progress"
		if warningCount > 0 {
			status = "open"
		}
		post, _, err := s.forum.CreatePost(ctx, agent, forum.PostInput{
			Title:   "Provider Discovery Sweep",
			Message: fmt.Sprintf("Provider checks completed at %s\n%s", checkedAt.Format(time.RFC3339), strings.Join(summaryLines, "\n")),
			Tags:    []string{"providers", "models", "sip"},
			Status:  status,
		})
		if err == nil {
			forumPostID = post.ID.String()
		}
	}

	message := fmt.Sprintf("provider discovery completed (%d/%d successful checks)", okCount, len(results))
	if warningCount > 0 {
		s.recorder.Warning(ctx, &agent.ID, agent.Name, message)
	} else {
		s.recorder.Success(ctx, &agent.ID, agent.Name, message)
	}

	return map[string]any{
		"ok":        true,
		"action":    ActionDiscoverUpdates,
		"checkedAt": checkedAt,
		"summary": map[string]any{
			"total":      len(results),
			"successful": okCount,
			"warnings":   warningCount,
		},
		"providers":   results,
		"forumPostId": forumPostID,
	}, nil
}
