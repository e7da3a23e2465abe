// Package metrics provides Prometheus metrics for the Clover service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BridgeActionsTotal tracks bridge action dispatches by action and status
	BridgeActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "bridge",
			Name:      "actions_total",
			Help:      "Total number of bridge actions dispatched by status",
		},
		[]string{"action", "status"},
	)

	// BridgeActionDuration tracks bridge action handling duration in seconds
	BridgeActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "bridge",
			Name:      "action_duration_seconds",
			Help:      "Duration of bridge action handling in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"action"},
	)

	// RegistrationsTotal tracks agent self-registration calls
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "register",
			Name:      "registrations_total",
			Help:      "Total number of agent registration calls by outcome",
		},
		[]string{"outcome"},
	)

	// HTTPRequestsTotal tracks outbound HTTP requests to providers
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound HTTP requests",
		},
		[]string{"provider", "status_code"},
	)

	// HTTPRequestDuration tracks outbound HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	// ActivityEventsTotal tracks activity log writes
	ActivityEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "activity",
			Name:      "events_total",
			Help:      "Total number of activity events recorded by status",
		},
		[]string{"event_type", "status"},
	)

	// KafkaMessagesPublished tracks Kafka messages published
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)

	// DatabaseQueryDuration tracks database query duration
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// RecordBridgeAction records a bridge action dispatch metric
func RecordBridgeAction(action, status string, durationSeconds float64) {
	BridgeActionsTotal.WithLabelValues(action, status).Inc()
	BridgeActionDuration.WithLabelValues(action).Observe(durationSeconds)
}

// RecordRegistration records an agent registration outcome
func RecordRegistration(outcome string) {
	RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an outbound HTTP request metric
func RecordHTTPRequest(provider, statusCode string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(provider, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordActivityEvent records an activity log write
func RecordActivityEvent(eventType, status string) {
	ActivityEventsTotal.WithLabelValues(eventType, status).Inc()
}

// RecordKafkaPublish records a Kafka publish operation
func RecordKafkaPublish(topic, status string) {
	KafkaMessagesPublished.WithLabelValues(topic, status).Inc()
}
