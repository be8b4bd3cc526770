package database

import (
	"context"

	"github.com/getwebfast/site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *PostRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns every post, drafts included, newest first
func (r *PostRepo) FindAll(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.WithContext(ctx).Order("published_at DESC").Order("id ASC").Find(&posts).Error
	return posts, err
}

// FindPublished returns published posts, newest first. limit <= 0 means all.
func (r *PostRepo) FindPublished(ctx context.Context, limit int) ([]*models.Post, error) {
	posts := []*models.Post{}
	q := r.db.WithContext(ctx).
		Where("status = ?", models.PostStatusPublished).
		Order("published_at DESC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&posts).Error
	return posts, err
}

// FindByID returns a post by its ID, or nil when it does not exist
func (r *PostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &post, nil
}

// FindBySlug returns a post by slug regardless of status, or nil
func (r *PostRepo) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "slug = ?", slug).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &post, nil
}

// Add inserts a new post into the database
func (r *PostRepo) Add(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// UpdateFields writes only the given columns of the post
func (r *PostRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return updateFields(ctx, r.db, &models.Post{}, "post", id, fields)
}

// Delete removes a post from the database by id
func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.Post{}, "post", id)
}
