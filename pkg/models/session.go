package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/database"
)

// Session tracks an agent's presence between heartbeats.
type Session struct {
	ID         uuid.UUID                      `db:"id" json:"id"`
	AgentID    uuid.UUID                      `db:"agent_id" json:"agent_id"`
	Status     string                         `db:"status" json:"status"`
	Metadata   database.JSONB[map[string]any] `db:"metadata" json:"metadata"`
	StartedAt  time.Time                      `db:"started_at" json:"started_at"`
	LastSeenAt time.Time                      `db:"last_seen_at" json:"last_seen_at"`
}

// TableName returns the database table name
func (Session) TableName() string {
	return "sessions"
}
