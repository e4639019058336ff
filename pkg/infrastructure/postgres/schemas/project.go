package schemas

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex:projects_slug_key"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
}

func (Project) TableName() string {
	return "projects"
}

type Pipeline struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	ProjectID uuid.UUID `gorm:"type:uuid;column:project_id;not null"`
	Project   Project   `gorm:"foreignKey:ProjectID"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
}

func (Pipeline) TableName() string {
	return "pipelines"
}
