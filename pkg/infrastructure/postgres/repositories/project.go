package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tokamak-network/chainops-backend/pkg/domain/entities"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/postgres/schemas"
	"gorm.io/gorm"
)

type ProjectPostgresRepository struct {
	db *gorm.DB
}

func NewProjectPostgresRepository(db *gorm.DB) *ProjectPostgresRepository {
	return &ProjectPostgresRepository{db: db}
}

func (r *ProjectPostgresRepository) CreateProject(
	ctx context.Context,
	project *entities.ProjectEntity,
) error {
	newProject := schemas.Project{
		ID:        project.ID,
		Name:      project.Name,
		Slug:      project.Slug,
		CreatedAt: project.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&newProject).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", entities.ErrDuplicateSlug, project.Slug)
		}
		return err
	}
	project.ID = newProject.ID
	project.CreatedAt = newProject.CreatedAt
	return nil
}

func (r *ProjectPostgresRepository) GetProjectBySlug(
	ctx context.Context,
	slug string,
) (*entities.ProjectEntity, error) {
	var project schemas.Project
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entity := toProjectEntity(&project)
	return &entity, nil
}

func (r *ProjectPostgresRepository) CreatePipeline(
	ctx context.Context,
	pipeline *entities.PipelineEntity,
) error {
	newPipeline := schemas.Pipeline{
		ID:        pipeline.ID,
		ProjectID: pipeline.ProjectID,
		Name:      pipeline.Name,
		CreatedAt: pipeline.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Omit("Project").Create(&newPipeline).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return entities.ErrProjectNotFound
		}
		return err
	}
	pipeline.ID = newPipeline.ID
	pipeline.CreatedAt = newPipeline.CreatedAt
	return nil
}

func (r *ProjectPostgresRepository) GetPipelineByID(
	ctx context.Context,
	id string,
) (*entities.PipelineEntity, error) {
	pipelineID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var pipeline schemas.Pipeline
	err = r.db.WithContext(ctx).Where("id = ?", pipelineID).First(&pipeline).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entity := toPipelineEntity(&pipeline)
	return &entity, nil
}
