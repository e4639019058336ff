package entities

import (
	"time"

	"github.com/google/uuid"
)

type ProjectEntity struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

type PipelineEntity struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProjectDeploymentCount struct {
	Project     ProjectEntity `json:"project"`
	Deployments int64         `json:"deployments"`
}
