package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BannerDirection is the scroll direction of a banner line
type BannerDirection string

const (
	BannerLeft  BannerDirection = "left"
	BannerRight BannerDirection = "right"
)

func (d BannerDirection) Valid() bool {
	return d == BannerLeft || d == BannerRight
}

// Banner is one line of the scrolling banner strip
type Banner struct {
	ID         uuid.UUID       `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Text       string          `json:"text" db:"text" gorm:"type:text;not null"`
	Direction  BannerDirection `json:"direction" db:"direction" gorm:"type:text;not null;default:'left'"`
	Speed      int             `json:"speed" db:"speed" gorm:"not null"`
	IsActive   bool            `json:"is_active" db:"is_active" gorm:"not null;index:idx_banner_active"`
	OrderIndex int             `json:"order_index" db:"order_index" gorm:"not null;index:idx_banner_order"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

func (b *Banner) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Direction == "" {
		b.Direction = BannerLeft
	}
	return nil
}
