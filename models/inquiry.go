package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inquiry is a message left through the contact section
type Inquiry struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null"`
	Phone     string    `json:"phone,omitempty" db:"phone" gorm:"type:text"`
	Service   string    `json:"service,omitempty" db:"service" gorm:"type:text"`
	Message   string    `json:"message" db:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"index:idx_inquiry_created_at"`
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
