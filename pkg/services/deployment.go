package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tokamak-network/chainops-backend/internal/logger"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"go.uber.org/zap"
)

const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 20
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type DeploymentRepository interface {
	CountDeployments(ctx context.Context, filter entities.DeploymentFilter) (int64, error)
	ListDeployments(ctx context.Context, filter entities.DeploymentFilter, limit int) ([]*entities.DeploymentEntity, error)
	GetDeploymentByID(ctx context.Context, id string) (*entities.DeploymentDetail, error)
	ListActiveDeployments(ctx context.Context, statuses []entities.DeploymentStatus, limit int) ([]*entities.DeploymentEntity, error)
	TopProjectsByDeploymentCount(ctx context.Context, limit int) ([]*entities.ProjectDeploymentCount, error)
	GetLatestDeployment(ctx context.Context) (*entities.DeploymentEntity, error)
	CreateDeployment(ctx context.Context, deployment *entities.DeploymentEntity) error
	UpdateDeploymentStatus(
		ctx context.Context,
		id string,
		status entities.DeploymentStatus,
		at time.Time,
	) (*entities.DeploymentEntity, error)
	CreateEvent(ctx context.Context, event *entities.DeploymentEventEntity) error
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *entities.ProjectEntity) error
	GetProjectBySlug(ctx context.Context, slug string) (*entities.ProjectEntity, error)
	CreatePipeline(ctx context.Context, pipeline *entities.PipelineEntity) error
	GetPipelineByID(ctx context.Context, id string) (*entities.PipelineEntity, error)
}

type RecordEventInput struct {
	DeploymentID string
	Level        string
	Source       string
	Message      string
	OccurredAt   *time.Time
	Payload      json.RawMessage
}

type CreateDeploymentInput struct {
	ProjectSlug string
	PipelineID  string
	CommitHash  string
	Initiator   string
	StartedAt   *time.Time
}

type DeploymentService struct {
	deploymentRepo DeploymentRepository
	projectRepo    ProjectRepository
	now            func() time.Time
}

func NewDeploymentService(
	deploymentRepo DeploymentRepository,
	projectRepo ProjectRepository,
) *DeploymentService {
	return &DeploymentService{
		deploymentRepo: deploymentRepo,
		projectRepo:    projectRepo,
		now:            time.Now,
	}
}

// FindRecent lists the latest deployments, newest first. An unknown project
// slug yields an empty list.
func (s *DeploymentService) FindRecent(
	ctx context.Context,
	limit int,
	projectSlug string,
) ([]*entities.DeploymentEntity, error) {
	if limit == 0 {
		limit = DefaultRecentLimit
	}
	if limit < 1 || limit > MaxRecentLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", entities.ErrInvalidArgument, MaxRecentLimit, limit)
	}

	deployments, err := s.deploymentRepo.ListDeployments(
		ctx,
		entities.DeploymentFilter{ProjectSlug: strings.TrimSpace(projectSlug)},
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent deployments: %w", err)
	}
	if deployments == nil {
		deployments = []*entities.DeploymentEntity{}
	}
	return deployments, nil
}

// FindOne returns the deployment with its complete timeline, or
// entities.ErrDeploymentNotFound.
func (s *DeploymentService) FindOne(ctx context.Context, id string) (*entities.DeploymentDetail, error) {
	detail, err := s.deploymentRepo.GetDeploymentByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}
	if detail == nil {
		return nil, entities.ErrDeploymentNotFound
	}
	if detail.Events == nil {
		detail.Events = []*entities.DeploymentEventEntity{}
	}
	return detail, nil
}

func (s *DeploymentService) RecordEvent(
	ctx context.Context,
	input RecordEventInput,
) (*entities.DeploymentEventEntity, error) {
	deploymentID, err := uuid.Parse(strings.TrimSpace(input.DeploymentID))
	if err != nil {
		return nil, entities.ErrDeploymentNotFound
	}
	level, err := entities.ParseEventLevel(input.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrInvalidArgument, err)
	}
	if strings.TrimSpace(input.Source) == "" {
		return nil, fmt.Errorf("%w: source is required", entities.ErrInvalidArgument)
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", entities.ErrInvalidArgument)
	}
	if len(input.Payload) > 0 && !json.Valid(input.Payload) {
		return nil, fmt.Errorf("%w: payload must be valid JSON", entities.ErrInvalidArgument)
	}

	occurredAt := s.now().UTC()
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	event := &entities.DeploymentEventEntity{
		ID:           uuid.New(),
		DeploymentID: deploymentID,
		Level:        level,
		Source:       strings.TrimSpace(input.Source),
		Message:      input.Message,
		OccurredAt:   occurredAt,
		Payload:      input.Payload,
	}
	if err := s.deploymentRepo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	logger.Debug("Deployment event recorded",
		zap.String("deploymentId", deploymentID.String()),
		zap.String("level", string(level)),
		zap.String("source", event.Source))
	return event, nil
}

func (s *DeploymentService) CreateProject(ctx context.Context, name, slug string) (*entities.ProjectEntity, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", entities.ErrInvalidArgument)
	}
	if !slugRegex.MatchString(slug) {
		return nil, fmt.Errorf("%w: slug must contain only lowercase letters, digits and single dashes", entities.ErrInvalidArgument)
	}

	project := &entities.ProjectEntity{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		CreatedAt: s.now().UTC(),
	}
	if err := s.projectRepo.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	logger.Info("Project created", zap.String("projectId", project.ID.String()), zap.String("slug", slug))
	return project, nil
}

func (s *DeploymentService) CreatePipeline(ctx context.Context, projectSlug, name string) (*entities.PipelineEntity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: pipeline name is required", entities.ErrInvalidArgument)
	}
	project, err := s.projectRepo.GetProjectBySlug(ctx, strings.TrimSpace(projectSlug))
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, entities.ErrProjectNotFound
	}

	pipeline := &entities.PipelineEntity{
		ID:        uuid.New(),
		ProjectID: project.ID,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.projectRepo.CreatePipeline(ctx, pipeline); err != nil {
		return nil, err
	}
	return pipeline, nil
}

// CreateDeployment registers a new run in PENDING.
func (s *DeploymentService) CreateDeployment(
	ctx context.Context,
	input CreateDeploymentInput,
) (*entities.DeploymentEntity, error) {
	commitHash := strings.TrimSpace(input.CommitHash)
	initiator := strings.TrimSpace(input.Initiator)
	if commitHash == "" {
		return nil, fmt.Errorf("%w: commitHash is required", entities.ErrInvalidArgument)
	}
	if initiator == "" {
		return nil, fmt.Errorf("%w: initiator is required", entities.ErrInvalidArgument)
	}

	project, err := s.projectRepo.GetProjectBySlug(ctx, strings.TrimSpace(input.ProjectSlug))
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, entities.ErrProjectNotFound
	}

	deployment := &entities.DeploymentEntity{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Status:      entities.DeploymentStatusPending,
		CommitHash:  commitHash,
		Initiator:   initiator,
		StartedAt:   s.now().UTC(),
	}
	if input.StartedAt != nil {
		deployment.StartedAt = input.StartedAt.UTC()
	}

	if pipelineID := strings.TrimSpace(input.PipelineID); pipelineID != "" {
		pipeline, err := s.projectRepo.GetPipelineByID(ctx, pipelineID)
		if err != nil {
			return nil, fmt.Errorf("failed to get pipeline: %w", err)
		}
		if pipeline == nil || pipeline.ProjectID != project.ID {
			return nil, entities.ErrPipelineNotFound
		}
		deployment.PipelineID = &pipeline.ID
		deployment.PipelineName = &pipeline.Name
	}

	if err := s.deploymentRepo.CreateDeployment(ctx, deployment); err != nil {
		return nil, err
	}
	logger.Info("Deployment created",
		zap.String("deploymentId", deployment.ID.String()),
		zap.String("project", project.Slug),
		zap.String("commitHash", commitHash))
	return deployment, nil
}

// TransitionDeployment moves a deployment along its lifecycle. Terminal
// deployments reject every transition.
func (s *DeploymentService) TransitionDeployment(
	ctx context.Context,
	id string,
	status entities.DeploymentStatus,
	at *time.Time,
) (*entities.DeploymentEntity, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, status)
	}
	transitionAt := s.now().UTC()
	if at != nil {
		transitionAt = at.UTC()
	}

	deployment, err := s.deploymentRepo.UpdateDeploymentStatus(ctx, strings.TrimSpace(id), status, transitionAt)
	if err != nil {
		return nil, err
	}
	logger.Info("Deployment status updated",
		zap.String("deploymentId", deployment.ID.String()),
		zap.String("status", string(status)))
	return deployment, nil
}
