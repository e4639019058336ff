package repositories

import (
	"encoding/json"

	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/postgres/schemas"
)

func toProjectEntity(project *schemas.Project) entities.ProjectEntity {
	return entities.ProjectEntity{
		ID:        project.ID,
		Name:      project.Name,
		Slug:      project.Slug,
		CreatedAt: project.CreatedAt,
	}
}

func toPipelineEntity(pipeline *schemas.Pipeline) entities.PipelineEntity {
	return entities.PipelineEntity{
		ID:        pipeline.ID,
		ProjectID: pipeline.ProjectID,
		Name:      pipeline.Name,
		CreatedAt: pipeline.CreatedAt,
	}
}

func toDeploymentEntity(deployment *schemas.Deployment) *entities.DeploymentEntity {
	entity := &entities.DeploymentEntity{
		ID:          deployment.ID,
		ProjectID:   deployment.ProjectID,
		ProjectName: deployment.Project.Name,
		PipelineID:  deployment.PipelineID,
		Status:      deployment.Status,
		CommitHash:  deployment.CommitHash,
		Initiator:   deployment.Initiator,
		StartedAt:   deployment.StartedAt,
		CompletedAt: deployment.CompletedAt,
	}
	if deployment.Pipeline != nil {
		name := deployment.Pipeline.Name
		entity.PipelineName = &name
	}
	return entity
}

func toEventEntity(event *schemas.DeploymentEvent) *entities.DeploymentEventEntity {
	entity := &entities.DeploymentEventEntity{
		ID:           event.ID,
		DeploymentID: event.DeploymentID,
		Sequence:     event.Sequence,
		Level:        event.Level,
		Source:       event.Source,
		Message:      event.Message,
		OccurredAt:   event.OccurredAt,
	}
	if len(event.Payload) > 0 {
		entity.Payload = json.RawMessage(event.Payload)
	}
	return entity
}
