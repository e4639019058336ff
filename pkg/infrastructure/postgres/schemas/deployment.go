package schemas

import (
	"time"

	"github.com/google/uuid"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"gorm.io/datatypes"
)

type Deployment struct {
	ID          uuid.UUID                 `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	ProjectID   uuid.UUID                 `gorm:"type:uuid;column:project_id;not null"`
	Project     Project                   `gorm:"foreignKey:ProjectID"`
	PipelineID  *uuid.UUID                `gorm:"type:uuid;column:pipeline_id"`
	Pipeline    *Pipeline                 `gorm:"foreignKey:PipelineID"`
	Status      entities.DeploymentStatus `gorm:"column:status;not null"`
	CommitHash  string                    `gorm:"column:commit_hash;not null"`
	Initiator   string                    `gorm:"column:initiator;not null"`
	StartedAt   time.Time                 `gorm:"column:started_at;not null"`
	CompletedAt *time.Time                `gorm:"column:completed_at"`
	Events      []DeploymentEvent         `gorm:"foreignKey:DeploymentID"`
}

func (Deployment) TableName() string {
	return "deployments"
}

type DeploymentEvent struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	DeploymentID uuid.UUID           `gorm:"type:uuid;column:deployment_id;not null"`
	Sequence     int64               `gorm:"column:sequence;autoIncrement"`
	Level        entities.EventLevel `gorm:"column:level;not null"`
	Source       string              `gorm:"column:source;not null"`
	Message      string              `gorm:"column:message;not null"`
	OccurredAt   time.Time           `gorm:"column:occurred_at;not null"`
	Payload      datatypes.JSON      `gorm:"type:jsonb;column:payload"`
}

func (DeploymentEvent) TableName() string {
	return "deployment_events"
}

// ProjectDeploymentCountRow is the scan target of the top projects query.
type ProjectDeploymentCountRow struct {
	ID              uuid.UUID
	Name            string
	Slug            string
	CreatedAt       time.Time
	DeploymentCount int64
}
