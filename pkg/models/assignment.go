package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/database"
)

// Assignment priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// AgentAssignment links an agent to a business. The canonical row per
// (agent, business) pair is the most recently created one.
type AgentAssignment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	AgentID      uuid.UUID `db:"agent_id" json:"agent_id"`
	BusinessID   uuid.UUID `db:"business_id" json:"business_id"`
	Role         *string   `db:"role" json:"role,omitempty"`
	Instructions *string   `db:"instructions" json:"instructions,omitempty"`
	Priority     string    `db:"priority" json:"priority"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (AgentAssignment) TableName() string {
	return "agent_assignments"
}

// Business is a business record with a denormalized list of assigned agent
// ids.
type Business struct {
	ID        uuid.UUID                `db:"id" json:"id"`
	Name      string                   `db:"name" json:"name"`
	Agents    database.JSONB[[]string] `db:"agents" json:"agents"`
	CreatedAt time.Time                `db:"created_at" json:"created_at"`
	UpdatedAt time.Time                `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Business) TableName() string {
	return "businesses"
}
