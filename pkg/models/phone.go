package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Ramsey-B/clover/pkg/database"
)

// PhoneRouting is the nested routing config for a provisioned number.
type PhoneRouting struct {
	Action            string         `json:"action,omitempty"`
	Fallback          string         `json:"fallback,omitempty"`
	Prompt            string         `json:"prompt,omitempty"`
	WorkflowID        string         `json:"workflow_id,omitempty"`
	TriggerURL        string         `json:"trigger_url,omitempty"`
	SIPProviderFields map[string]any `json:"sip,omitempty"`
}

// AgentPhone is a provisioned phone number. At most one row per number is
// treated as current; older duplicates are resolved by most-recent-created.
type AgentPhone struct {
	ID           uuid.UUID                    `db:"id" json:"id"`
	PhoneNumber  string                       `db:"phone_number" json:"phone_number"`
	Provider     string                       `db:"provider" json:"provider"`
	AgentID      *uuid.UUID                   `db:"agent_id" json:"agent_id,omitempty"`
	AgentName    string                       `db:"agent_name" json:"agent_name"`
	Label        *string                      `db:"label" json:"label,omitempty"`
	Capabilities pq.StringArray               `db:"capabilities" json:"capabilities"`
	Routing      database.JSONB[PhoneRouting] `db:"routing" json:"routing"`
	Status       string                       `db:"status" json:"status"`
	CreatedAt    time.Time                    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                    `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (AgentPhone) TableName() string {
	return "agent_phones"
}
