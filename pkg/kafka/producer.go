package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Config holds Kafka configuration
type Config struct {
	Brokers     []string
	EventsTopic string
}

// ParseConfig parses a comma-separated broker string
func ParseConfig(brokers string, eventsTopic string) Config {
	brokerList := strings.Split(brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}

	return Config{
		Brokers:     brokerList,
		EventsTopic: eventsTopic,
	}
}

// Producer handles producing messages to Kafka
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg Config, logger ectologger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		// Allow Kafka to auto-create the topic in dev environments when it doesn't exist yet.
		// Without this, a first publish may fail with "Unknown Topic Or Partition".
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.EventsTopic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// AgentEventMessage mirrors an agent lifecycle or activity event to Kafka so
// downstream consumers can react without polling the activity log.
type AgentEventMessage struct {
	Type      string    `json:"type"` // e.g. "agent.registered", "agent.heartbeat", "agent.activity"
	AgentID   string    `json:"agent_id"`
	AgentName string    `json:"agent_name,omitempty"`
	Action    string    `json:"action,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Tracing
	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`

	Details map[string]any `json:"details,omitempty"`
}

// PublishAgentEvent publishes an agent event message to Kafka.
func (p *Producer) PublishAgentEvent(ctx context.Context, evt *AgentEventMessage) error {
	if evt == nil {
		return fmt.Errorf("agent event is nil")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	ctx, span := tracing.StartSpan(ctx, "Kafka.PublishAgentEvent")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination", p.topic),
		attribute.String("messaging.operation", "publish"),
		attribute.String("agent_id", evt.AgentID),
		attribute.String("type", evt.Type),
	)

	// Inject trace context into the message
	evt.TraceID = tracing.GetTraceID(ctx)
	evt.SpanID = tracing.GetSpanID(ctx)

	data, err := json.Marshal(evt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal message")
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// Use agent_id as key so an agent's events stay ordered per partition
	headers := []kafka.Header{
		{Key: "agent_id", Value: []byte(evt.AgentID)},
		{Key: "type", Value: []byte(evt.Type)},
	}
	if evt.Action != "" {
		headers = append(headers, kafka.Header{Key: "action", Value: []byte(evt.Action)})
	}
	if traceparent := tracing.GetTraceParent(ctx); traceparent != "" {
		headers = append(headers, kafka.Header{Key: "traceparent", Value: []byte(traceparent)})
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(evt.AgentID),
		Value:   data,
		Headers: headers,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish message")
		p.logger.WithContext(ctx).WithError(err).Errorf("Failed to publish to Kafka topic %s", p.topic)
		return err
	}

	span.SetStatus(codes.Ok, "message published")
	p.logger.WithContext(ctx).Debugf("Published agent event to Kafka: agent=%s type=%s trace=%s",
		evt.AgentID, evt.Type, evt.TraceID)

	return nil
}

// Stats returns producer statistics
func (p *Producer) Stats() kafka.WriterStats {
	return p.writer.Stats()
}
