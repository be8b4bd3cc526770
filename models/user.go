package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an admin account of the local auth provider
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_user_email"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Session is a login issued by the local auth provider. Deleting the row
// ends the session even if its token has not expired.
type Session struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID    uuid.UUID `json:"userId" db:"user_id" gorm:"type:uuid;not null;index:idx_session_user_id"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at" gorm:"not null;index:idx_session_expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
