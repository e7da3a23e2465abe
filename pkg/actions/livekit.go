package actions

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/clover/pkg/models"
)

// HandleLiveKitSession issues a signed LiveKit join token for the agent.
func (s *Service) HandleLiveKitSession(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[LiveKitRequest](payload)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	roomName := req.RoomName
	if roomName == "" {
		seed := agent.Name
		if seed == "" {
			seed = agent.ID.String()
		}
		roomName = fallbackWebhookPath(seed)
	}
	participantName := req.ParticipantName
	if participantName == "" {
		participantName = agent.Name
	}
	if participantName == "" {
		participantName = "Agent"
	}

	session, err := s.livekit.IssueSession(ctx, roomName, participantName)
	if err != nil {
		return nil, err
	}

	s.recorder.Info(ctx, &agent.ID, agent.Name, fmt.Sprintf("issued LiveKit session for room %q", roomName))

	return map[string]any{
		"ok":      true,
		"action":  ActionLiveKitSession,
		"session": session,
	}, nil
}
