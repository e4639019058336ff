// Package memory holds in-process implementations of the storage contracts.
// They follow the same semantics as the postgres repositories and back the
// unit tests of the layers above.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
)

type deploymentRecord struct {
	deployment entities.DeploymentEntity
	events     []entities.DeploymentEventEntity
}

type Repository struct {
	mu          sync.RWMutex
	projects    map[uuid.UUID]entities.ProjectEntity
	slugs       map[string]uuid.UUID
	pipelines   map[uuid.UUID]entities.PipelineEntity
	deployments map[uuid.UUID]*deploymentRecord
	sequence    int64
}

func NewRepository() *Repository {
	return &Repository{
		projects:    make(map[uuid.UUID]entities.ProjectEntity),
		slugs:       make(map[string]uuid.UUID),
		pipelines:   make(map[uuid.UUID]entities.PipelineEntity),
		deployments: make(map[uuid.UUID]*deploymentRecord),
	}
}

func (r *Repository) CreateProject(_ context.Context, project *entities.ProjectEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.slugs[project.Slug]; exists {
		return fmt.Errorf("%w: %s", entities.ErrDuplicateSlug, project.Slug)
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	r.projects[project.ID] = *project
	r.slugs[project.Slug] = project.ID
	return nil
}

func (r *Repository) GetProjectBySlug(_ context.Context, slug string) (*entities.ProjectEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.slugs[slug]
	if !ok {
		return nil, nil
	}
	project := r.projects[id]
	return &project, nil
}

func (r *Repository) CreatePipeline(_ context.Context, pipeline *entities.PipelineEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[pipeline.ProjectID]; !ok {
		return entities.ErrProjectNotFound
	}
	if pipeline.ID == uuid.Nil {
		pipeline.ID = uuid.New()
	}
	if pipeline.CreatedAt.IsZero() {
		pipeline.CreatedAt = time.Now().UTC()
	}
	r.pipelines[pipeline.ID] = *pipeline
	return nil
}

func (r *Repository) GetPipelineByID(_ context.Context, id string) (*entities.PipelineEntity, error) {
	pipelineID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	pipeline, ok := r.pipelines[pipelineID]
	if !ok {
		return nil, nil
	}
	return &pipeline, nil
}

func (r *Repository) CreateDeployment(_ context.Context, deployment *entities.DeploymentEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[deployment.ProjectID]
	if !ok {
		return entities.ErrProjectNotFound
	}
	if deployment.CommitHash == "" {
		return fmt.Errorf("%w: commitHash is required", entities.ErrInvalidArgument)
	}
	if !deployment.HasConsistentCompletion() {
		return fmt.Errorf("%w: completedAt must be set only for terminal statuses", entities.ErrInvalidArgument)
	}
	var pipelineName *string
	if deployment.PipelineID != nil {
		pipeline, ok := r.pipelines[*deployment.PipelineID]
		if !ok {
			return entities.ErrPipelineNotFound
		}
		pipelineName = &pipeline.Name
	}

	if deployment.ID == uuid.Nil {
		deployment.ID = uuid.New()
	}
	if deployment.Status == "" {
		deployment.Status = entities.DeploymentStatusPending
	}
	deployment.ProjectName = project.Name
	if pipelineName != nil {
		deployment.PipelineName = pipelineName
	}

	r.deployments[deployment.ID] = &deploymentRecord{deployment: *deployment}
	return nil
}

func (r *Repository) UpdateDeploymentStatus(
	_ context.Context,
	id string,
	status entities.DeploymentStatus,
	at time.Time,
) (*entities.DeploymentEntity, error) {
	deploymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, entities.ErrDeploymentNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.deployments[deploymentID]
	if !ok {
		return nil, entities.ErrDeploymentNotFound
	}
	current := record.deployment.Status
	if !current.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, current, status)
	}
	record.deployment.Status = status
	if status.IsTerminal() {
		completedAt := at
		record.deployment.CompletedAt = &completedAt
	}
	deployment := copyDeployment(&record.deployment)
	return deployment, nil
}

func (r *Repository) CreateEvent(_ context.Context, event *entities.DeploymentEventEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.deployments[event.DeploymentID]
	if !ok {
		return entities.ErrDeploymentNotFound
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Level == "" {
		event.Level = entities.EventLevelInfo
	}
	r.sequence++
	event.Sequence = r.sequence
	stored := *event
	stored.Payload = append([]byte(nil), event.Payload...)
	record.events = append(record.events, stored)
	return nil
}

func (r *Repository) CountDeployments(_ context.Context, filter entities.DeploymentFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, record := range r.deployments {
		if filter.Matches(&record.deployment, r.projects[record.deployment.ProjectID].Slug) {
			count++
		}
	}
	return count, nil
}

func (r *Repository) ListDeployments(
	_ context.Context,
	filter entities.DeploymentFilter,
	limit int,
) ([]*entities.DeploymentEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list(filter, limit), nil
}

func (r *Repository) ListActiveDeployments(
	_ context.Context,
	statuses []entities.DeploymentStatus,
	limit int,
) ([]*entities.DeploymentEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.list(entities.DeploymentFilter{Statuses: statuses}, limit), nil
}

func (r *Repository) GetLatestDeployment(_ context.Context) (*entities.DeploymentEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deployments := r.list(entities.DeploymentFilter{}, 1)
	if len(deployments) == 0 {
		return nil, nil
	}
	return deployments[0], nil
}

func (r *Repository) GetDeploymentByID(_ context.Context, id string) (*entities.DeploymentDetail, error) {
	deploymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.deployments[deploymentID]
	if !ok {
		return nil, nil
	}

	detail := &entities.DeploymentDetail{
		DeploymentEntity: *copyDeployment(&record.deployment),
		Project:          r.projects[record.deployment.ProjectID],
		Events:           make([]*entities.DeploymentEventEntity, 0, len(record.events)),
	}
	if record.deployment.PipelineID != nil {
		pipeline := r.pipelines[*record.deployment.PipelineID]
		detail.Pipeline = &pipeline
	}
	for i := range record.events {
		event := record.events[i]
		detail.Events = append(detail.Events, &event)
	}
	entities.SortTimeline(detail.Events)
	return detail, nil
}

func (r *Repository) TopProjectsByDeploymentCount(
	_ context.Context,
	limit int,
) ([]*entities.ProjectDeploymentCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[uuid.UUID]int64, len(r.projects))
	for _, record := range r.deployments {
		counts[record.deployment.ProjectID]++
	}

	result := make([]*entities.ProjectDeploymentCount, 0, len(r.projects))
	for id, project := range r.projects {
		result = append(result, &entities.ProjectDeploymentCount{Project: project, Deployments: counts[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Deployments != result[j].Deployments {
			return result[i].Deployments > result[j].Deployments
		}
		return result[i].Project.ID.String() < result[j].Project.ID.String()
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// list must be called with the read lock held.
func (r *Repository) list(filter entities.DeploymentFilter, limit int) []*entities.DeploymentEntity {
	result := make([]*entities.DeploymentEntity, 0)
	for _, record := range r.deployments {
		if filter.Matches(&record.deployment, r.projects[record.deployment.ProjectID].Slug) {
			result = append(result, copyDeployment(&record.deployment))
		}
	}
	sortByStartedAtDesc(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func sortByStartedAtDesc(deployments []*entities.DeploymentEntity) {
	sort.Slice(deployments, func(i, j int) bool {
		if !deployments[i].StartedAt.Equal(deployments[j].StartedAt) {
			return deployments[i].StartedAt.After(deployments[j].StartedAt)
		}
		return deployments[i].ID.String() < deployments[j].ID.String()
	})
}

func copyDeployment(d *entities.DeploymentEntity) *entities.DeploymentEntity {
	c := *d
	if d.CompletedAt != nil {
		completedAt := *d.CompletedAt
		c.CompletedAt = &completedAt
	}
	if d.PipelineID != nil {
		pipelineID := *d.PipelineID
		c.PipelineID = &pipelineID
	}
	if d.PipelineName != nil {
		pipelineName := *d.PipelineName
		c.PipelineName = &pipelineName
	}
	return &c
}
