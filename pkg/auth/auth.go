package auth

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/repositories"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Authenticator verifies bridge callers against stored agent credentials.
type Authenticator struct {
	agents repositories.AgentRepo
	logger ectologger.Logger
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(agents repositories.AgentRepo, logger ectologger.Logger) *Authenticator {
	return &Authenticator{
		agents: agents,
		logger: logger,
	}
}

// Authenticate loads the agent by id and checks its stored api key. An agent
// whose stored key is empty can never authenticate; credential comparison
// failures are indistinguishable from a missing key in the response.
func (a *Authenticator) Authenticate(ctx context.Context, agentID uuid.UUID, apiKey string) (*models.Agent, error) {
	ctx, span := tracing.StartSpan(ctx, "Authenticator.Authenticate")
	defer span.End()

	agent, err := a.agents.GetByID(ctx, agentID)
	if err != nil {
		if httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound {
			return nil, httperror.NewHTTPError(http.StatusUnauthorized, "Agent authentication failed: unknown agent")
		}
		return nil, err
	}

	if agent.APIKey == "" || agent.APIKey != apiKey {
		a.logger.WithContext(ctx).WithFields(map[string]any{
			"agent_id": agentID.String(),
		}).Warn("agent api key mismatch")
		return nil, httperror.NewHTTPError(http.StatusUnauthorized, "Agent authentication failed: invalid api key")
	}

	return agent, nil
}
