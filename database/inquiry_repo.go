package database

import (
	"context"

	"github.com/getwebfast/site-backend/models"
	"gorm.io/gorm"
)

type InquiryRepo struct {
	db *gorm.DB
}

func NewInquiryRepo(db *gorm.DB) *InquiryRepo {
	return &InquiryRepo{db}
}

// FindAll returns contact inquiries, newest first
func (r *InquiryRepo) FindAll(ctx context.Context) ([]*models.Inquiry, error) {
	inquiries := []*models.Inquiry{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id ASC").Find(&inquiries).Error
	return inquiries, err
}

func (r *InquiryRepo) Add(ctx context.Context, inquiry *models.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}
