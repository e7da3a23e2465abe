package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/auth"
	"github.com/Ramsey-B/clover/pkg/models"
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
	agent, ok := f.agents[id]
	if !ok {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "agent not found")
	}
	return agent, nil
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

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestAuthenticator(t *testing.T) {
	knownID := uuid.New()
	keylessID := uuid.New()
	repo := &fakeAgentRepo{agents: map[uuid.UUID]*models.Agent{
		knownID:   {ID: knownID, Name: "Scout", APIKey: "secret-key"},
		keylessID: {ID: keylessID, Name: "Drifter", APIKey: ""},
	}}
	authenticator := auth.NewAuthenticator(repo, noopLogger())
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		agent, err := authenticator.Authenticate(ctx, knownID, "secret-key")
		require.NoError(t, err)
		assert.Equal(t, "Scout", agent.Name)
	})

	t.Run("unknown agent", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, uuid.New(), "secret-key")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httperror.GetStatusCode(err))
		assert.Contains(t, err.Error(), "unknown agent")
	})

	t.Run("wrong api key", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, knownID, "not-the-key")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httperror.GetStatusCode(err))
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("agent without stored key", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, keylessID, "")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httperror.GetStatusCode(err))
		assert.Contains(t, err.Error(), "invalid api key")
	})
}
