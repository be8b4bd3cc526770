package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service represents one offering shown in the services section
type Service struct {
	ID              uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title           string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Price           string                      `json:"price" db:"price" gorm:"type:text"`
	Description     string                      `json:"description" db:"description" gorm:"type:text"`
	Features        datatypes.JSONSlice[string] `json:"features" db:"features"`
	Time            string                      `json:"time" db:"time" gorm:"column:delivery_time;type:text"`
	BestFor         string                      `json:"bestFor" db:"best_for" gorm:"type:text"`
	IsPremium       bool                        `json:"isPremium" db:"is_premium" gorm:"not null;default:false"`
	DiscountPercent int                         `json:"discountPercent" db:"discount_percent" gorm:"not null;default:0"`
	OriginalPrice   string                      `json:"originalPrice" db:"original_price" gorm:"type:text"`
	Tags            datatypes.JSONSlice[string] `json:"tags" db:"tags"`
	CouponCode      string                      `json:"couponCode" db:"coupon_code" gorm:"type:text"`
	Icon            Icon                        `json:"icon" db:"icon" gorm:"type:text;not null"`
	CreatedAt       time.Time                   `json:"createdAt" db:"created_at" gorm:"index:idx_service_created_at"`
	UpdatedAt       time.Time                   `json:"updatedAt" db:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Features == nil {
		s.Features = datatypes.JSONSlice[string]{}
	}
	if s.Tags == nil {
		s.Tags = datatypes.JSONSlice[string]{}
	}
	if s.Icon == "" {
		s.Icon = DefaultServiceIcon
	}
	return nil
}
