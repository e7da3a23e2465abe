package actions

import (
	"context"
	"fmt"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/providers"
)

// HandleSynthesizeTTS converts text to speech through the configured
// provider and returns the audio inline as a base64 data URL.
func (s *Service) HandleSynthesizeTTS(ctx context.Context, agent *models.Agent, payload map[string]any) (map[string]any, error) {
	req, err := ValidateArguments[TTSRequest](payload)
	if err != nil {
		return nil, err
	}

	audio, err := s.tts.Synthesize(ctx, providers.SynthesizeInput{
		Text:     req.Text,
		Provider: req.Provider,
		Model:    req.Model,
		Voice:    req.Voice,
		Format:   req.Format,
		Endpoint: req.Endpoint,
		APIKey:   req.APIKey,
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Info(ctx, &agent.ID, agent.Name, fmt.Sprintf("synthesized %d characters of speech via %s", len(req.Text), audio.Provider))

	return map[string]any{
		"ok":     true,
		"action": ActionSynthesizeTTS,
		"audio":  audio,
	}, nil
}
