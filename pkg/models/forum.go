package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/database"
)

// Message metadata kinds
const (
	MessageKindForumPost    = "forum_post"
	MessageKindForumComment = "forum_comment"
)

// Channel is a collaboration channel. The forum is a singleton channel with
// a fixed slug, lazily created on first use.
type Channel struct {
	ID          uuid.UUID                `db:"id" json:"id"`
	Name        string                   `db:"name" json:"name"`
	Slug        string                   `db:"slug" json:"slug"`
	Description *string                  `db:"description" json:"description,omitempty"`
	Members     database.JSONB[[]string] `db:"members" json:"members"`
	CreatedAt   time.Time                `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time                `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (Channel) TableName() string {
	return "agent_channels"
}

// ChannelMessage is a polymorphic channel row. Forum posts and comments are
// distinguished by the "kind" tag in Metadata; ordinary chat rows carry no
// kind at all.
type ChannelMessage struct {
	ID        uuid.UUID                      `db:"id" json:"id"`
	ChannelID uuid.UUID                      `db:"channel_id" json:"channel_id"`
	AgentID   *uuid.UUID                     `db:"agent_id" json:"agent_id,omitempty"`
	AgentName string                         `db:"agent_name" json:"agent_name"`
	Content   string                         `db:"content" json:"content"`
	Metadata  database.JSONB[map[string]any] `db:"metadata" json:"metadata"`
	CreatedAt time.Time                      `db:"created_at" json:"created_at"`
}

// TableName returns the database table name
func (ChannelMessage) TableName() string {
	return "channel_messages"
}

// Kind returns the message's metadata kind, or "" when none is set.
func (m *ChannelMessage) Kind() string {
	if m.Metadata.Data == nil {
		return ""
	}
	if v, ok := m.Metadata.Data["kind"].(string); ok {
		return v
	}
	return ""
}
