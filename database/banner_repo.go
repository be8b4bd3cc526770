package database

import (
	"context"

	"github.com/getwebfast/site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BannerRepo struct {
	db *gorm.DB
}

func NewBannerRepo(db *gorm.DB) *BannerRepo {
	return &BannerRepo{db}
}

// FindAll returns every banner line by display order
func (r *BannerRepo) FindAll(ctx context.Context) ([]*models.Banner, error) {
	banners := []*models.Banner{}
	err := r.db.WithContext(ctx).Order("order_index ASC").Order("id ASC").Find(&banners).Error
	return banners, err
}

// FindActive returns the banner lines currently shown on the site
func (r *BannerRepo) FindActive(ctx context.Context) ([]*models.Banner, error) {
	banners := []*models.Banner{}
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("order_index ASC").
		Order("id ASC").
		Find(&banners).Error
	return banners, err
}

func (r *BannerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &banner, nil
}

func (r *BannerRepo) Add(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *BannerRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return updateFields(ctx, r.db, &models.Banner{}, "banner", id, fields)
}

func (r *BannerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.Banner{}, "banner", id)
}
