package repository

import (
	"context"

	"gorm.io/gorm"

	"gtd-review/internal/model"
)

// ProjectRepository reads projects for review data loading.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ListByStatus returns projects in the given status ordered by name.
func (r *ProjectRepository) ListByStatus(ctx context.Context, status model.ProjectStatus) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.WithContext(ctx).Where("status = ?", status).
		Order("name ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
