// Package cms is the content repository behind the public site and the
// admin panel: typed reads and writes of posts, services, projects,
// testimonials and banners, image upload, and session checks.
package cms

import (
	"context"
	"strings"
	"time"

	"github.com/getwebfast/site-backend/auth"
	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/models"
	"github.com/getwebfast/site-backend/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// NewID is the id the admin panel sends for records that do not exist yet.
const NewID = "new"

type Repository struct {
	db     database.Database
	bucket storage.Bucket
	auth   auth.Provider
	logger zerolog.Logger
	now    func() time.Time
}

// New wires the repository. bucket may be nil, in which case uploads fail
// and deletes skip image cleanup.
func New(db database.Database, bucket storage.Bucket, provider auth.Provider) *Repository {
	return &Repository{
		db:     db,
		bucket: bucket,
		auth:   provider,
		logger: log.With().Str("component", "cms").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Bucket returns the image store, or nil.
func (r *Repository) Bucket() storage.Bucket {
	return r.bucket
}

func isNew(id string) bool {
	id = strings.TrimSpace(id)
	return id == "" || id == NewID
}

// lookupID parses an id for a read or delete. A malformed id cannot name a
// stored record, so it reads as not found.
func lookupID(entity, id string) (uuid.UUID, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, errs.NewNotFound(entity)
	}
	return u, nil
}

func updateID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError("id", `must be a UUID or "new"`)
	}
	return u, nil
}

// removeImages deletes the objects behind urls that live in the bucket.
// Failures are logged and never reported to the caller.
func (r *Repository) removeImages(ctx context.Context, entity string, id uuid.UUID, urls ...string) {
	if r.bucket == nil {
		return
	}
	keys := storage.KeysFromPublicURLs(r.bucket, urls...)
	if len(keys) == 0 {
		return
	}
	if err := r.bucket.Remove(ctx, keys...); err != nil {
		r.logger.Warn().
			Err(err).
			Str("entity", entity).
			Str("id", id.String()).
			Str("bucket", r.bucket.Name()).
			Strs("keys", keys).
			Msg("Failed to remove images of deleted record")
		return
	}
	r.logger.Info().Str("entity", entity).Str("id", id.String()).Int("count", len(keys)).Msg("Removed images of deleted record")
}

// fields collects the columns of a partial update.
type fields map[string]any

func (f fields) str(column string, v *string) {
	if v != nil {
		f[column] = *v
	}
}

func (f fields) trimmed(column string, v *string) {
	if v != nil {
		f[column] = strings.TrimSpace(*v)
	}
}

func (f fields) list(column string, v *[]string) {
	if v != nil {
		f[column] = toJSONSlice(*v)
	}
}

func toJSONSlice(v []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(v))
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func requireText(field string, v *string) error {
	if v == nil || strings.TrimSpace(*v) == "" {
		return errs.NewMissingRequiredFieldError(field)
	}
	return nil
}

// slugFor returns the slug to store: the given one normalized, or one
// derived from fallback when none was given.
func slugFor(given *string, fallback string) (string, error) {
	source := fallback
	if given != nil && strings.TrimSpace(*given) != "" {
		source = *given
	}
	slug := models.Slugify(source)
	if slug == "" {
		return "", errs.NewInvalidFieldError("slug", "must contain letters or digits")
	}
	return slug, nil
}

func writeError(op, entity string, err error) error {
	return errs.NewDatabaseError(op, entity, err)
}

// slugWriteError reports a unique-index collision against the slug, the only
// unique column on slugged entities.
func slugWriteError(op, entity string, err error) error {
	dbErr := errs.NewDatabaseError(op, entity, err)
	if errs.IsAlreadyExists(dbErr) {
		return errs.NewUniqueConstraintViolationError(entity, "slug", err)
	}
	return dbErr
}
