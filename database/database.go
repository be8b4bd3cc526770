package database

import (
	"context"
	"errors"
	"time"

	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db              *gorm.DB
	postRepo        *PostRepo
	serviceRepo     *ServiceRepo
	projectRepo     *ProjectRepo
	testimonialRepo *TestimonialRepo
	bannerRepo      *BannerRepo
	userRepo        *UserRepo
	sessionRepo     *SessionRepo
	inquiryRepo     *InquiryRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:              db,
		postRepo:        NewPostRepo(db),
		serviceRepo:     NewServiceRepo(db),
		projectRepo:     NewProjectRepo(db),
		testimonialRepo: NewTestimonialRepo(db),
		bannerRepo:      NewBannerRepo(db),
		userRepo:        NewUserRepo(db),
		sessionRepo:     NewSessionRepo(db),
		inquiryRepo:     NewInquiryRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) ServiceRepo() *ServiceRepo {
	return d.serviceRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TestimonialRepo() *TestimonialRepo {
	return d.testimonialRepo
}

func (d Database) BannerRepo() *BannerRepo {
	return d.bannerRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) SessionRepo() *SessionRepo {
	return d.sessionRepo
}

func (d Database) InquiryRepo() *InquiryRepo {
	return d.inquiryRepo
}

// GetDB returns the underlying database connection
func (d Database) GetDB() *gorm.DB {
	return d.db
}

func (d Database) Migrate() error {
	if d.db == nil {
		return errs.BadRequest("database is not initialized")
	}
	return models.Migrate(d.db)
}

// Ping checks the primary connection.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// withUpdatedAt copies fields and stamps updated_at.
func withUpdatedAt(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["updated_at"] = time.Now().UTC()
	return out
}

// updateFields applies a partial update to the row with id and reports
// not found when nothing matched.
func updateFields(ctx context.Context, db *gorm.DB, model any, entity string, id any, fields map[string]any) error {
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(withUpdatedAt(fields))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(entity)
	}
	return nil
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, entity string, id any) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(entity)
	}
	return nil
}

// notFoundAsNil turns gorm's record-not-found into a nil error so callers
// can check the returned pointer instead.
func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
