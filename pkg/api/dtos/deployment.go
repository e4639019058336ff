package dtos

import (
	"encoding/json"
	"time"

	"github.com/tokamak-network/chainops-backend/pkg/services"
)

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

type CreatePipelineRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateDeploymentRequest struct {
	Project    string     `json:"project"    binding:"required"`
	PipelineID string     `json:"pipelineId"`
	CommitHash string     `json:"commitHash" binding:"required"`
	Initiator  string     `json:"initiator"  binding:"required"`
	StartedAt  *time.Time `json:"startedAt"`
}

func (request *CreateDeploymentRequest) ToInput() services.CreateDeploymentInput {
	return services.CreateDeploymentInput{
		ProjectSlug: request.Project,
		PipelineID:  request.PipelineID,
		CommitHash:  request.CommitHash,
		Initiator:   request.Initiator,
		StartedAt:   request.StartedAt,
	}
}

type UpdateDeploymentStatusRequest struct {
	Status string     `json:"status" binding:"required"`
	At     *time.Time `json:"at"`
}

type RecordEventRequest struct {
	Level      string          `json:"level"`
	Source     string          `json:"source"  binding:"required"`
	Message    string          `json:"message" binding:"required"`
	OccurredAt *time.Time      `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload" swaggertype:"object"`
}

func (request *RecordEventRequest) ToInput(deploymentID string) services.RecordEventInput {
	return services.RecordEventInput{
		DeploymentID: deploymentID,
		Level:        request.Level,
		Source:       request.Source,
		Message:      request.Message,
		OccurredAt:   request.OccurredAt,
		Payload:      request.Payload,
	}
}
