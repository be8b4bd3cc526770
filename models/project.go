package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project represents a portfolio entry and its case study
type Project struct {
	ID          uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string                      `json:"name" db:"name" gorm:"type:text;not null"`
	Category    string                      `json:"category" db:"category" gorm:"type:text;index:idx_project_category"`
	Description string                      `json:"description" db:"description" gorm:"type:text"`
	Image       string                      `json:"image" db:"image" gorm:"type:text"`
	BgClass     string                      `json:"bg_class" db:"bg_class" gorm:"type:text"`
	Slug        string                      `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_project_slug"`
	Client      string                      `json:"client" db:"client" gorm:"type:text"`
	Challenge   string                      `json:"challenge" db:"challenge" gorm:"type:text"`
	Solution    string                      `json:"solution" db:"solution" gorm:"type:text"`
	Results     string                      `json:"results" db:"results" gorm:"type:text"`
	TechStack   datatypes.JSONSlice[string] `json:"tech_stack" db:"tech_stack"`
	LiveURL     string                      `json:"live_url" db:"live_url" gorm:"type:text"`
	Gallery     datatypes.JSONSlice[string] `json:"gallery" db:"gallery"`
	CreatedAt   time.Time                   `json:"createdAt" db:"created_at" gorm:"index:idx_project_created_at"`
	UpdatedAt   time.Time                   `json:"updatedAt" db:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.TechStack == nil {
		p.TechStack = datatypes.JSONSlice[string]{}
	}
	if p.Gallery == nil {
		p.Gallery = datatypes.JSONSlice[string]{}
	}
	return nil
}

// ImageURLs returns the cover image followed by the gallery, skipping blanks.
func (p Project) ImageURLs() []string {
	urls := make([]string, 0, len(p.Gallery)+1)
	if p.Image != "" {
		urls = append(urls, p.Image)
	}
	for _, u := range p.Gallery {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
