package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Ramsey-B/clover/pkg/tracing"
)

// LiveKitIssuer mints signed room join tokens for a LiveKit deployment.
type LiveKitIssuer struct {
	apiKey    string
	apiSecret string
	wsURL     string
	tokenTTL  time.Duration
	logger    ectologger.Logger
}

// NewLiveKitIssuer creates a new LiveKit token issuer
func NewLiveKitIssuer(apiKey, apiSecret, wsURL string, logger ectologger.Logger) *LiveKitIssuer {
	return &LiveKitIssuer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		wsURL:     wsURL,
		tokenTTL:  6 * time.Hour,
		logger:    logger,
	}
}

// Session is an issued LiveKit join session.
type Session struct {
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
	Token           string `json:"token"`
	URL             string `json:"url"`
}

// IssueSession signs a join token granting access to the given room. The
// participant name doubles as the token identity.
func (l *LiveKitIssuer) IssueSession(ctx context.Context, roomName, participantName string) (*Session, error) {
	_, span := tracing.StartSpan(ctx, "LiveKitIssuer.IssueSession")
	defer span.End()

	if l.apiKey == "" || l.apiSecret == "" || l.wsURL == "" {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "Missing LIVEKIT_API_KEY, LIVEKIT_API_SECRET, or LIVEKIT_WS_URL")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": l.apiKey,
		"sub": participantName,
		"nbf": now.Unix(),
		"exp": now.Add(l.tokenTTL).Unix(),
		"video": map[string]any{
			"roomJoin": true,
			"room":     roomName,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(l.apiSecret))
	if err != nil {
		return nil, err
	}

	return &Session{
		RoomName:        roomName,
		ParticipantName: participantName,
		Token:           token,
		URL:             l.wsURL,
	}, nil
}
