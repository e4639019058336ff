package entities

import (
	"time"

	"github.com/google/uuid"
)

type DeploymentEntity struct {
	ID           uuid.UUID        `json:"id"`
	ProjectID    uuid.UUID        `json:"projectId"`
	ProjectName  string           `json:"project"`
	PipelineID   *uuid.UUID       `json:"pipelineId,omitempty"`
	PipelineName *string          `json:"pipeline"`
	Status       DeploymentStatus `json:"status"`
	CommitHash   string           `json:"commitHash"`
	Initiator    string           `json:"initiator"`
	StartedAt    time.Time        `json:"startedAt"`
	CompletedAt  *time.Time       `json:"completedAt"`
}

// HasConsistentCompletion reports whether completedAt is set exactly when the
// status is terminal.
func (d *DeploymentEntity) HasConsistentCompletion() bool {
	return (d.CompletedAt != nil) == d.Status.IsTerminal()
}

type DeploymentDetail struct {
	DeploymentEntity
	Project  ProjectEntity            `json:"projectDetail"`
	Pipeline *PipelineEntity          `json:"pipelineDetail"`
	Events   []*DeploymentEventEntity `json:"events"`
}

// RecentEvents returns at most n of the latest events, still in timeline order.
func (d *DeploymentDetail) RecentEvents(n int) []*DeploymentEventEntity {
	if n <= 0 || len(d.Events) <= n {
		return d.Events
	}
	return d.Events[len(d.Events)-n:]
}

// DeploymentFilter narrows deployment reads. Zero values do not filter.
type DeploymentFilter struct {
	Statuses     []DeploymentStatus
	StartedSince *time.Time
	ProjectSlug  string
}

func (f DeploymentFilter) Matches(d *DeploymentEntity, projectSlug string) bool {
	if len(f.Statuses) > 0 {
		matched := false
		for _, status := range f.Statuses {
			if d.Status == status {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if f.StartedSince != nil && d.StartedAt.Before(*f.StartedSince) {
		return false
	}
	if f.ProjectSlug != "" && f.ProjectSlug != projectSlug {
		return false
	}
	return true
}
