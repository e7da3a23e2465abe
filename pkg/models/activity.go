package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity event types
const (
	ActivitySuccess = "success"
	ActivityInfo    = "info"
	ActivityWarning = "warning"
	ActivityError   = "error"
)

// ActivityEntry is an append-only activity log row. AgentID is nil for
// system events.
type ActivityEntry struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	AgentID   *uuid.UUID `db:"agent_id" json:"agent_id,omitempty"`
	AgentName string     `db:"agent_name" json:"agent_name"`
	Message   string     `db:"message" json:"message"`
	EventType string     `db:"event_type" json:"event_type"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// TableName returns the database table name
func (ActivityEntry) TableName() string {
	return "activity_log"
}
