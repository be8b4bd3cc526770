package database

import (
	"context"

	"github.com/getwebfast/site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns all projects, oldest first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	projects := []*models.Project{}
	err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil when it does not exist
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &project, nil
}

// FindBySlug returns the project behind a case-study URL, or nil
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "slug = ?", slug).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// UpdateFields writes only the given columns of the project
func (r *ProjectRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return updateFields(ctx, r.db, &models.Project{}, "project", id, fields)
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.Project{}, "project", id)
}
