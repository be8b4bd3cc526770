package database

import (
	"context"

	"github.com/getwebfast/site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepo struct {
	db *gorm.DB
}

func NewServiceRepo(db *gorm.DB) *ServiceRepo {
	return &ServiceRepo{db}
}

// FindAll returns all services in the order they were created
func (r *ServiceRepo) FindAll(ctx context.Context) ([]*models.Service, error) {
	services := []*models.Service{}
	err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&services).Error
	return services, err
}

func (r *ServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &service, nil
}

func (r *ServiceRepo) Add(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *ServiceRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return updateFields(ctx, r.db, &models.Service{}, "service", id, fields)
}

func (r *ServiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.Service{}, "service", id)
}
