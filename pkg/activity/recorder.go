package activity

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/repositories"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Recorder appends entries to the activity log on a best-effort basis. A
// failed write must never fail the operation that produced it, so errors are
// logged and discarded. When a Kafka producer is configured, entries are also
// mirrored as agent events.
type Recorder struct {
	repo     repositories.ActivityRepo
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewRecorder creates a new activity recorder. producer may be nil.
func NewRecorder(repo repositories.ActivityRepo, producer *kafka.Producer, logger ectologger.Logger) *Recorder {
	return &Recorder{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Record appends an activity entry. agentID is nil for system events.
// eventType defaults to "info" when empty.
func (r *Recorder) Record(ctx context.Context, agentID *uuid.UUID, agentName, message, eventType string) {
	ctx, span := tracing.StartSpan(ctx, "Recorder.Record")
	defer span.End()

	if eventType == "" {
		eventType = models.ActivityInfo
	}

	entry := &models.ActivityEntry{
		AgentID:   agentID,
		AgentName: agentName,
		Message:   message,
		EventType: eventType,
	}

	if err := r.repo.Insert(ctx, entry); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"agent_name": agentName,
			"event_type": eventType,
		}).Warn("failed to record activity entry")
		metrics.RecordActivityEvent(eventType, "error")
	} else {
		metrics.RecordActivityEvent(eventType, "success")
	}

	if r.producer == nil {
		return
	}

	evt := &kafka.AgentEventMessage{
		Type:      "agent.activity",
		AgentName: agentName,
		Timestamp: time.Now().UTC(),
		Details: map[string]any{
			"message":    message,
			"event_type": eventType,
		},
	}
	if agentID != nil {
		evt.AgentID = agentID.String()
	}
	if err := r.producer.PublishAgentEvent(ctx, evt); err != nil {
		r.logger.WithContext(ctx).WithError(err).Warn("failed to mirror activity entry to kafka")
	}
}

// Success records a success entry.
func (r *Recorder) Success(ctx context.Context, agentID *uuid.UUID, agentName, message string) {
	r.Record(ctx, agentID, agentName, message, models.ActivitySuccess)
}

// Info records an info entry.
func (r *Recorder) Info(ctx context.Context, agentID *uuid.UUID, agentName, message string) {
	r.Record(ctx, agentID, agentName, message, models.ActivityInfo)
}

// Warning records a warning entry.
func (r *Recorder) Warning(ctx context.Context, agentID *uuid.UUID, agentName, message string) {
	r.Record(ctx, agentID, agentName, message, models.ActivityWarning)
}

// Error records an error entry.
func (r *Recorder) Error(ctx context.Context, agentID *uuid.UUID, agentName, message string) {
	r.Record(ctx, agentID, agentName, message, models.ActivityError)
}
