package database

import (
	"context"
	"strings"
	"time"

	"github.com/getwebfast/site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByEmail looks a user up by normalized email, or returns nil
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", NormalizeEmail(email)).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &user, nil
}

func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

// NormalizeEmail trims and lowercases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db}
}

// FindValid returns the session if it exists and has not expired, or nil.
func (r *SessionRepo) FindValid(ctx context.Context, id uuid.UUID, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ? AND expires_at > ?", id, now).
		First(&session).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &session, nil
}

func (r *SessionRepo) Add(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Omit("User").Create(session).Error
}

// Delete ends a session. Deleting an unknown id is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}

// DeleteExpired removes sessions that expired before now and returns how many
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
