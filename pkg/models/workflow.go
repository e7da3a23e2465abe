package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/database"
)

// AgentWorkflow is a named automation with a trigger URL. ExternalID links
// to a workflow in the external automation engine when remote creation
// succeeded.
type AgentWorkflow struct {
	ID          uuid.UUID                      `db:"id" json:"id"`
	AgentID     *uuid.UUID                     `db:"agent_id" json:"agent_id,omitempty"`
	Name        string                         `db:"name" json:"name"`
	Description *string                        `db:"description" json:"description,omitempty"`
	TriggerURL  string                         `db:"trigger_url" json:"trigger_url"`
	Active      bool                           `db:"active" json:"active"`
	ExternalID  *string                        `db:"external_id" json:"external_id,omitempty"`
	Metadata    database.JSONB[map[string]any] `db:"metadata" json:"metadata"`
	CreatedAt   time.Time                      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time                      `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (AgentWorkflow) TableName() string {
	return "agent_workflows"
}
