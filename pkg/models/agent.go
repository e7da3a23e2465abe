package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Ramsey-B/clover/pkg/database"
)

// Agent statuses
const (
	AgentStatusActive  = "active"
	AgentStatusIdle    = "idle"
	AgentStatusError   = "error"
	AgentStatusOffline = "offline"
)

// Agent represents a registered fleet agent. The merged operating profile
// lives in Config under "operatingProfile".
type Agent struct {
	ID           uuid.UUID                      `db:"id" json:"id"`
	Name         string                         `db:"name" json:"name"`
	Role         *string                        `db:"role" json:"role,omitempty"`
	Status       string                         `db:"status" json:"status"`
	Model        *string                        `db:"model" json:"model,omitempty"`
	Emoji        *string                        `db:"emoji" json:"emoji,omitempty"`
	Description  *string                        `db:"description" json:"description,omitempty"`
	APIKey       string                         `db:"api_key" json:"api_key"`
	Capabilities pq.StringArray                 `db:"capabilities" json:"capabilities"`
	Config       database.JSONB[map[string]any] `db:"config" json:"config"`
	LastActive   *time.Time                     `db:"last_active" json:"last_active,omitempty"`
	CreatedAt    time.Time                      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                      `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Agent) TableName() string {
	return "agents"
}

// ExternalID returns the externalId stored in the agent's config, if any.
func (a *Agent) ExternalID() string {
	if a.Config.Data == nil {
		return ""
	}
	if v, ok := a.Config.Data["externalId"].(string); ok {
		return v
	}
	return ""
}
