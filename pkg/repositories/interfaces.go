package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/models"
)

// AgentRepo defines the interface for agent repository operations
type AgentRepo interface {
	Create(ctx context.Context, agent *models.Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Agent, error)
	Update(ctx context.Context, agent *models.Agent) error
}

// ActivityRepo defines the interface for activity log repository operations
type ActivityRepo interface {
	Insert(ctx context.Context, entry *models.ActivityEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.ActivityEntry, error)
}

// ChannelRepo defines the interface for channel repository operations
type ChannelRepo interface {
	GetBySlug(ctx context.Context, slug string) (*models.Channel, error)
	Create(ctx context.Context, channel *models.Channel) error
}

// MessageRepo defines the interface for channel message repository operations
type MessageRepo interface {
	Create(ctx context.Context, message *models.ChannelMessage) error
	ListByKind(ctx context.Context, channelID uuid.UUID, kind string, limit int) ([]models.ChannelMessage, error)
	ListByPostID(ctx context.Context, channelID uuid.UUID, postID uuid.UUID) ([]models.ChannelMessage, error)
}

// PhoneRepo defines the interface for agent phone repository operations
type PhoneRepo interface {
	GetLatestByNumber(ctx context.Context, phoneNumber string) (*models.AgentPhone, error)
	Create(ctx context.Context, phone *models.AgentPhone) error
	Update(ctx context.Context, phone *models.AgentPhone) error
}

// WorkflowRepo defines the interface for agent workflow repository operations
type WorkflowRepo interface {
	Create(ctx context.Context, workflow *models.AgentWorkflow) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AgentWorkflow, error)
}

// AssignmentRepo defines the interface for agent assignment repository operations
type AssignmentRepo interface {
	GetLatestByAgentAndBusiness(ctx context.Context, agentID uuid.UUID, businessID uuid.UUID) (*models.AgentAssignment, error)
	Create(ctx context.Context, assignment *models.AgentAssignment) error
	Update(ctx context.Context, assignment *models.AgentAssignment) error
}

// BusinessRepo defines the interface for business repository operations
type BusinessRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	UpdateAgents(ctx context.Context, id uuid.UUID, agents []string) error
}

// SessionRepo defines the interface for session repository operations
type SessionRepo interface {
	GetLatestByAgent(ctx context.Context, agentID uuid.UUID) (*models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Touch(ctx context.Context, id uuid.UUID, status string) error
}
