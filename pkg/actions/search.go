package actions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/providers"
)

// HandleWebSearch runs a Brave web search on behalf of the agent.
func (s *Service) HandleWebSearch(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[WebSearchRequest](payload)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	if req.Query == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "query is required for web_search")
	}

	results, err := s.brave.Search(ctx, providers.SearchInput{
		Query:     req.Query,
		Count:     int(req.Count),
		Freshness: req.Freshness,
		APIKey:    req.APIKey,
		Endpoint:  req.Endpoint,
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Info(ctx, &agent.ID, agent.Name, fmt.Sprintf("ran Brave search: %q (%d results)", req.Query, len(results)))

	return map[string]any{
		"ok":       true,
		"action":   ActionWebSearch,
		"provider": "brave",
		"query":    req.Query,
		"count":    len(results),
		"results":  results,
	}, nil
}
