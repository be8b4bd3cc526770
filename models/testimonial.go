package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Testimonial is a client quote shown on the landing page
type Testimonial struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Role      string    `json:"role" db:"role" gorm:"type:text"`
	Text      string    `json:"text" db:"text" gorm:"type:text;not null"`
	Image     string    `json:"image" db:"image" gorm:"type:text"`
	Rating    int       `json:"rating" db:"rating" gorm:"not null;default:5"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"index:idx_testimonial_created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (t *Testimonial) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Rating == 0 {
		t.Rating = MaxRating
	}
	return nil
}

// ValidRating reports whether r is within the 1..5 star range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
