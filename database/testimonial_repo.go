package database

import (
	"context"

	"github.com/getwebfast/site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestimonialRepo struct {
	db *gorm.DB
}

func NewTestimonialRepo(db *gorm.DB) *TestimonialRepo {
	return &TestimonialRepo{db}
}

// FindAll returns all testimonials in the order they were created
func (r *TestimonialRepo) FindAll(ctx context.Context) ([]*models.Testimonial, error) {
	testimonials := []*models.Testimonial{}
	err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&testimonials).Error
	return testimonials, err
}

func (r *TestimonialRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	if err := r.db.WithContext(ctx).First(&testimonial, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &testimonial, nil
}

func (r *TestimonialRepo) Add(ctx context.Context, testimonial *models.Testimonial) error {
	return r.db.WithContext(ctx).Create(testimonial).Error
}

func (r *TestimonialRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return updateFields(ctx, r.db, &models.Testimonial{}, "testimonial", id, fields)
}

func (r *TestimonialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.Testimonial{}, "testimonial", id)
}
