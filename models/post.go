package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PostStatus is the publication state of a blog post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// SEO holds the search metadata of a post. Stored as two flat columns.
type SEO struct {
	MetaTitle       string `json:"metaTitle" gorm:"column:seo_meta_title;type:text"`
	MetaDescription string `json:"metaDescription" gorm:"column:seo_meta_description;type:text"`
}

// Post represents a blog post with metadata
type Post struct {
	ID          uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Slug        string                      `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_post_slug"`
	Excerpt     string                      `json:"excerpt" db:"excerpt" gorm:"type:text"`
	Content     string                      `json:"content" db:"content" gorm:"type:text"`
	CoverImage  string                      `json:"coverImage" db:"cover_image" gorm:"type:text"`
	Author      string                      `json:"author" db:"author" gorm:"type:text"`
	PublishedAt time.Time                   `json:"publishedAt" db:"published_at" gorm:"not null;index:idx_post_published_at"`
	Status      PostStatus                  `json:"status" db:"status" gorm:"type:text;not null;default:'draft';index:idx_post_status"`
	Category    string                      `json:"category" db:"category" gorm:"type:text"`
	Tags        datatypes.JSONSlice[string] `json:"tags" db:"tags"`
	ReadTime    string                      `json:"readTime" db:"read_time" gorm:"type:text"`
	SEO         SEO                         `json:"seo" gorm:"embedded"`
	CreatedAt   time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time                   `json:"updatedAt" db:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

// Published reports whether the post is visible on the public blog
func (p Post) Published() bool {
	return p.Status == PostStatusPublished
}
