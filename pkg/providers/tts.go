package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// MaxTTSTextLength caps synthesized text.
const MaxTTSTextLength = 4000

// TTSClient synthesizes speech through OpenAI, ElevenLabs, or a custom
// JSON endpoint. Audio is returned as a base64 data URL and never persisted.
type TTSClient struct {
	hc            *httpclient.Client
	openAIKey     string
	elevenLabsKey string
	logger        ectologger.Logger
}

// NewTTSClient creates a new text-to-speech client
func NewTTSClient(hc *httpclient.Client, openAIKey, elevenLabsKey string, logger ectologger.Logger) *TTSClient {
	return &TTSClient{
		hc:            hc,
		openAIKey:     openAIKey,
		elevenLabsKey: elevenLabsKey,
		logger:        logger,
	}
}

// SynthesizeInput is a normalized synthesis request. APIKey overrides the
// configured provider secret; Endpoint is only used by the custom provider.
type SynthesizeInput struct {
	Text     string
	Provider string
	Model    string
	Voice    string
	Format   string
	Endpoint string
	APIKey   string
}

// Audio is a synthesized clip.
type Audio struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Voice      string `json:"voice"`
	MimeType   string `json:"mimeType"`
	SizeBytes  int    `json:"sizeBytes"`
	DataBase64 string `json:"dataBase64"`
	DataURL    string `json:"dataUrl"`
}

// Synthesize converts text to speech with the selected provider.
func (t *TTSClient) Synthesize(ctx context.Context, input SynthesizeInput) (*Audio, error) {
	ctx, span := tracing.StartSpan(ctx, "TTSClient.Synthesize")
	defer span.End()

	if input.Text == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "text is required for synthesize_tts")
	}
	if len(input.Text) > MaxTTSTextLength {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "text exceeds the %d character limit", MaxTTSTextLength)
	}

	if input.Provider == "" {
		input.Provider = "openai"
	}
	if input.Format == "" {
		input.Format = "mp3"
	}

	var raw []byte
	var err error
	switch input.Provider {
	case "openai":
		raw, err = t.synthesizeOpenAI(ctx, &input)
	case "elevenlabs":
		raw, err = t.synthesizeElevenLabs(ctx, &input)
	case "custom":
		raw, err = t.synthesizeCustom(ctx, &input)
	default:
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "unsupported TTS provider %q", input.Provider)
	}
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(raw)
	mimeType := mimeTypeForFormat(input.Format)
	return &Audio{
		Provider:   input.Provider,
		Model:      input.Model,
		Voice:      input.Voice,
		MimeType:   mimeType,
		SizeBytes:  len(raw),
		DataBase64: encoded,
		DataURL:    "data:" + mimeType + ";base64," + encoded,
	}, nil
}

func (t *TTSClient) synthesizeOpenAI(ctx context.Context, input *SynthesizeInput) ([]byte, error) {
	apiKey := input.APIKey
	if apiKey == "" {
		apiKey = t.openAIKey
	}
	if apiKey == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Missing OPENAI_API_KEY (env) or apiKey in payload")
	}
	if input.Model == "" {
		input.Model = "tts-1"
	}
	if input.Voice == "" {
		input.Voice = "alloy"
	}

	resp, err := t.hc.PostJSON(ctx, "https://api.openai.com/v1/audio/speech", map[string]string{
		"Authorization": "Bearer " + apiKey,
	}, map[string]any{
		"model":           input.Model,
		"input":           input.Text,
		"voice":           input.Voice,
		"response_format": input.Format,
	})
	if resp != nil {
		metrics.RecordHTTPRequest("openai", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
	}
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("OpenAI TTS failed (%d)", resp.StatusCode)
	}
	return resp.Body, nil
}

func (t *TTSClient) synthesizeElevenLabs(ctx context.Context, input *SynthesizeInput) ([]byte, error) {
	apiKey := input.APIKey
	if apiKey == "" {
		apiKey = t.elevenLabsKey
	}
	if apiKey == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Missing ELEVENLABS_API_KEY (env) or apiKey in payload")
	}
	if input.Model == "" {
		input.Model = "eleven_multilingual_v2"
	}
	if input.Voice == "" {
		input.Voice = "Rachel"
	}

	resp, err := t.hc.PostJSON(ctx, "https://api.elevenlabs.io/v1/text-to-speech/"+input.Voice, map[string]string{
		"xi-api-key": apiKey,
		"Accept":     mimeTypeForFormat(input.Format),
	}, map[string]any{
		"text":     input.Text,
		"model_id": input.Model,
	})
	if resp != nil {
		metrics.RecordHTTPRequest("elevenlabs", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
	}
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("ElevenLabs TTS failed (%d)", resp.StatusCode)
	}
	return resp.Body, nil
}

// synthesizeCustom posts to a caller-supplied endpoint that answers with
// JSON carrying base64 audio rather than raw bytes.
func (t *TTSClient) synthesizeCustom(ctx context.Context, input *SynthesizeInput) ([]byte, error) {
	if input.Endpoint == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "endpoint is required for the custom TTS provider")
	}

	headers := map[string]string{}
	if input.APIKey != "" {
		headers["Authorization"] = "Bearer " + input.APIKey
	}

	resp, err := t.hc.PostJSON(ctx, input.Endpoint, headers, map[string]any{
		"text":   input.Text,
		"model":  input.Model,
		"voice":  input.Voice,
		"format": input.Format,
	})
	if resp != nil {
		metrics.RecordHTTPRequest("tts_custom", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
	}
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("custom TTS endpoint failed (%d)", resp.StatusCode)
	}

	var body struct {
		AudioBase64 string `json:"audioBase64"`
		Audio       string `json:"audio"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, err
	}
	encoded := body.AudioBase64
	if encoded == "" {
		encoded = body.Audio
	}
	if encoded == "" {
		return nil, fmt.Errorf("custom TTS endpoint returned no audio")
	}
	return base64.StdEncoding.DecodeString(encoded)
}

func mimeTypeForFormat(format string) string {
	switch format {
	case "wav":
		return "audio/wav"
	case "flac":
		return "audio/flac"
	default:
		return "audio/mpeg"
	}
}
