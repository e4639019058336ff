package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/postgres/schemas"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recentOrder = "deployments.started_at DESC, deployments.id ASC"

type DeploymentPostgresRepository struct {
	db *gorm.DB
}

func NewDeploymentPostgresRepository(db *gorm.DB) *DeploymentPostgresRepository {
	return &DeploymentPostgresRepository{db: db}
}

func (r *DeploymentPostgresRepository) CountDeployments(
	ctx context.Context,
	filter entities.DeploymentFilter,
) (int64, error) {
	var count int64
	err := applyFilter(r.db.WithContext(ctx).Model(&schemas.Deployment{}), filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DeploymentPostgresRepository) ListDeployments(
	ctx context.Context,
	filter entities.DeploymentFilter,
	limit int,
) ([]*entities.DeploymentEntity, error) {
	var deployments []schemas.Deployment
	query := applyFilter(r.db.WithContext(ctx).Model(&schemas.Deployment{}), filter).
		Preload("Project").
		Preload("Pipeline").
		Order(recentOrder)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&deployments).Error; err != nil {
		return nil, err
	}

	result := make([]*entities.DeploymentEntity, 0, len(deployments))
	for i := range deployments {
		result = append(result, toDeploymentEntity(&deployments[i]))
	}
	return result, nil
}

func (r *DeploymentPostgresRepository) ListActiveDeployments(
	ctx context.Context,
	statuses []entities.DeploymentStatus,
	limit int,
) ([]*entities.DeploymentEntity, error) {
	return r.ListDeployments(ctx, entities.DeploymentFilter{Statuses: statuses}, limit)
}

func (r *DeploymentPostgresRepository) GetLatestDeployment(ctx context.Context) (*entities.DeploymentEntity, error) {
	var deployment schemas.Deployment
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Pipeline").
		Order(recentOrder).
		First(&deployment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDeploymentEntity(&deployment), nil
}

func (r *DeploymentPostgresRepository) GetDeploymentByID(
	ctx context.Context,
	id string,
) (*entities.DeploymentDetail, error) {
	deploymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var deployment schemas.Deployment
	err = r.db.WithContext(ctx).
		Preload("Project").
		Preload("Pipeline").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC, sequence ASC")
		}).
		Where("id = ?", deploymentID).
		First(&deployment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	detail := &entities.DeploymentDetail{
		DeploymentEntity: *toDeploymentEntity(&deployment),
		Project:          toProjectEntity(&deployment.Project),
		Events:           make([]*entities.DeploymentEventEntity, 0, len(deployment.Events)),
	}
	if deployment.Pipeline != nil {
		pipeline := toPipelineEntity(deployment.Pipeline)
		detail.Pipeline = &pipeline
	}
	for i := range deployment.Events {
		detail.Events = append(detail.Events, toEventEntity(&deployment.Events[i]))
	}
	return detail, nil
}

// TopProjectsByDeploymentCount ranks every project by its all-time
// deployment count. Ties are ordered by project id.
func (r *DeploymentPostgresRepository) TopProjectsByDeploymentCount(
	ctx context.Context,
	limit int,
) ([]*entities.ProjectDeploymentCount, error) {
	var rows []schemas.ProjectDeploymentCountRow
	err := r.db.WithContext(ctx).
		Model(&schemas.Project{}).
		Select("projects.id, projects.name, projects.slug, projects.created_at, COUNT(deployments.id) AS deployment_count").
		Joins("LEFT JOIN deployments ON deployments.project_id = projects.id").
		Group("projects.id").
		Order("deployment_count DESC, projects.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entities.ProjectDeploymentCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, &entities.ProjectDeploymentCount{
			Project: entities.ProjectEntity{
				ID:        row.ID,
				Name:      row.Name,
				Slug:      row.Slug,
				CreatedAt: row.CreatedAt,
			},
			Deployments: row.DeploymentCount,
		})
	}
	return result, nil
}

func (r *DeploymentPostgresRepository) CreateDeployment(
	ctx context.Context,
	deployment *entities.DeploymentEntity,
) error {
	if !deployment.HasConsistentCompletion() {
		return fmt.Errorf("%w: completedAt must be set only for terminal statuses", entities.ErrInvalidArgument)
	}

	newDeployment := schemas.Deployment{
		ID:          deployment.ID,
		ProjectID:   deployment.ProjectID,
		PipelineID:  deployment.PipelineID,
		Status:      deployment.Status,
		CommitHash:  deployment.CommitHash,
		Initiator:   deployment.Initiator,
		StartedAt:   deployment.StartedAt,
		CompletedAt: deployment.CompletedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&newDeployment).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return entities.ErrProjectNotFound
		}
		if errors.Is(err, gorm.ErrCheckConstraintViolated) {
			return fmt.Errorf("%w: %s", entities.ErrInvalidArgument, err)
		}
		return err
	}
	deployment.ID = newDeployment.ID
	return nil
}

// UpdateDeploymentStatus moves a deployment along its lifecycle under a row
// lock, stamping completed_at when the new status is terminal.
func (r *DeploymentPostgresRepository) UpdateDeploymentStatus(
	ctx context.Context,
	id string,
	status entities.DeploymentStatus,
	at time.Time,
) (*entities.DeploymentEntity, error) {
	deploymentID, err := uuid.Parse(id)
	if err != nil {
		return nil, entities.ErrDeploymentNotFound
	}

	var updated schemas.Deployment
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current schemas.Deployment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", deploymentID).
			First(&current).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entities.ErrDeploymentNotFound
			}
			return err
		}
		if !current.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, current.Status, status)
		}

		updates := map[string]interface{}{"status": status}
		if status.IsTerminal() {
			updates["completed_at"] = at
		}
		if err := tx.Model(&current).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Preload("Project").Preload("Pipeline").
			Where("id = ?", deploymentID).
			First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return toDeploymentEntity(&updated), nil
}

func (r *DeploymentPostgresRepository) CreateEvent(
	ctx context.Context,
	event *entities.DeploymentEventEntity,
) error {
	var exists int64
	err := r.db.WithContext(ctx).Model(&schemas.Deployment{}).
		Where("id = ?", event.DeploymentID).
		Count(&exists).Error
	if err != nil {
		return err
	}
	if exists == 0 {
		return entities.ErrDeploymentNotFound
	}

	level := event.Level
	if level == "" {
		level = entities.EventLevelInfo
	}
	newEvent := schemas.DeploymentEvent{
		ID:           event.ID,
		DeploymentID: event.DeploymentID,
		Level:        level,
		Source:       event.Source,
		Message:      event.Message,
		OccurredAt:   event.OccurredAt,
	}
	if len(event.Payload) > 0 {
		newEvent.Payload = datatypes.JSON(event.Payload)
	}
	if err := r.db.WithContext(ctx).Create(&newEvent).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return entities.ErrDeploymentNotFound
		}
		return err
	}

	event.ID = newEvent.ID
	event.Level = newEvent.Level
	event.Sequence = newEvent.Sequence
	return nil
}

func applyFilter(query *gorm.DB, filter entities.DeploymentFilter) *gorm.DB {
	if len(filter.Statuses) > 0 {
		query = query.Where("deployments.status IN ?", filter.Statuses)
	}
	if filter.StartedSince != nil {
		query = query.Where("deployments.started_at >= ?", *filter.StartedSince)
	}
	if filter.ProjectSlug != "" {
		query = query.Where(
			"deployments.project_id IN (?)",
			query.Session(&gorm.Session{NewDB: true}).Model(&schemas.Project{}).Select("id").Where("slug = ?", filter.ProjectSlug),
		)
	}
	return query
}
