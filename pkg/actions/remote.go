package actions

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/clover/pkg/models"
)

// HandleExecuteCommand runs a shell command through the remote runner, or
// returns a dry-run preview when no runner is configured.
func (s *Service) HandleExecuteCommand(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[RemoteCommandRequest](payload)
	if err != nil {
		return nil, err
	}

	result, err := s.runner.Execute(ctx, req.Command, req.Shell)
	if err != nil {
		return nil, err
	}

	if result.DryRun || result.ExitCode == 0 {
		s.recorder.Success(ctx, &agent.ID, agent.Name, fmt.Sprintf("executed remote command: %s", result.Command))
	} else {
		s.recorder.Warning(ctx, &agent.ID, agent.Name, fmt.Sprintf("remote command exited with code %d: %s", result.ExitCode, result.Command))
	}

	return map[string]any{
		"ok":     true,
		"action": ActionExecuteCommand,
		"result": result,
	}, nil
}
