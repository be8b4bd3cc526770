package database

import (
	"context"
	"testing"
	"time"

	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	d := New(db)
	require.NoError(t, d.Migrate())
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return d
}

func TestPostRepoOrderingAndPublished(t *testing.T) {
	ctx := context.Background()
	repo := newTestDatabase(t).PostRepo()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	old := &models.Post{Title: "Old", Slug: "old", PublishedAt: base, Status: models.PostStatusPublished}
	draft := &models.Post{Title: "Draft", Slug: "draft", PublishedAt: base.Add(48 * time.Hour), Status: models.PostStatusDraft}
	recent := &models.Post{Title: "Recent", Slug: "recent", PublishedAt: base.Add(24 * time.Hour), Status: models.PostStatusPublished}
	for _, p := range []*models.Post{old, draft, recent} {
		require.NoError(t, repo.Add(ctx, p))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"draft", "recent", "old"}, []string{all[0].Slug, all[1].Slug, all[2].Slug})

	published, err := repo.FindPublished(ctx, 0)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "recent", published[0].Slug)

	latest, err := repo.FindPublished(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, latest, 1)
}

func TestPostRepoUniqueSlug(t *testing.T) {
	ctx := context.Background()
	repo := newTestDatabase(t).PostRepo()

	require.NoError(t, repo.Add(ctx, &models.Post{Title: "A", Slug: "same", PublishedAt: time.Now()}))
	err := repo.Add(ctx, &models.Post{Title: "B", Slug: "same", PublishedAt: time.Now()})
	require.Error(t, err)
	assert.True(t, errs.IsAlreadyExists(errs.NewDatabaseError("create", "post", err)))
}

func TestUpdateFields(t *testing.T) {
	ctx := context.Background()
	repo := newTestDatabase(t).ServiceRepo()

	svc := &models.Service{Title: "Starter", Price: "$499", Features: []string{"one page"}}
	require.NoError(t, repo.Add(ctx, svc))
	before, err := repo.FindByID(ctx, svc.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.UpdateFields(ctx, svc.ID, map[string]any{"price": "$599"}))

	after, err := repo.FindByID(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "$599", after.Price)
	assert.Equal(t, "Starter", after.Title)
	assert.Equal(t, []string{"one page"}, []string(after.Features))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	err = repo.UpdateFields(ctx, uuid.New(), map[string]any{"price": "$1"})
	assert.True(t, errs.IsNotFound(err))
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)

	post, err := d.PostRepo().FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, post)

	project, err := d.ProjectRepo().FindBySlug(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, project)

	assert.True(t, errs.IsNotFound(d.TestimonialRepo().Delete(ctx, uuid.New())))
}

func TestBannerRepoActiveOrdering(t *testing.T) {
	ctx := context.Background()
	repo := newTestDatabase(t).BannerRepo()

	for _, b := range []*models.Banner{
		{Text: "third", Speed: 20, IsActive: true, OrderIndex: 3},
		{Text: "hidden", Speed: 20, IsActive: false, OrderIndex: 0},
		{Text: "first", Speed: 20, IsActive: true, OrderIndex: 1, Direction: models.BannerRight},
	} {
		require.NoError(t, repo.Add(ctx, b))
	}

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Text)
	assert.Equal(t, models.BannerRight, active[0].Direction)
	assert.Equal(t, "third", active[1].Text)
	assert.Equal(t, models.BannerLeft, active[1].Direction)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "hidden", all[0].Text)
	assert.False(t, all[0].IsActive)
}

func TestSessionRepo(t *testing.T) {
	ctx := context.Background()
	d := newTestDatabase(t)
	now := time.Now().UTC()

	user := &models.User{Email: "  Owner@Example.com ", PasswordHash: "x"}
	require.NoError(t, d.UserRepo().Add(ctx, user))

	found, err := d.UserRepo().FindByEmail(ctx, "owner@example.COM")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "owner@example.com", found.Email)

	live := &models.Session{UserID: user.ID, ExpiresAt: now.Add(time.Hour)}
	expired := &models.Session{UserID: user.ID, ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, d.SessionRepo().Add(ctx, live))
	require.NoError(t, d.SessionRepo().Add(ctx, expired))

	got, err := d.SessionRepo().FindValid(ctx, live.ID, now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.User.ID)

	got, err = d.SessionRepo().FindValid(ctx, expired.ID, now)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := d.SessionRepo().DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, d.SessionRepo().Delete(ctx, live.ID))
	got, err = d.SessionRepo().FindValid(ctx, live.ID, now)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]string
		want    string
		wantErr func(error) bool
	}{
		{
			name:   "supabase parts",
			config: map[string]string{"DB_TYPE": "supa", "SUPABASE_DB_HOST": "db.x.supabase.co", "SUPABASE_DB_PASSWORD": "pw"},
			want:   "host=db.x.supabase.co user=postgres password=pw dbname=postgres port=5432 sslmode=require",
		},
		{
			name:   "database url",
			config: map[string]string{"DB_TYPE": "postgres", "DATABASE_URL": "postgres://u:p@h/db"},
			want:   "postgres://u:p@h/db",
		},
		{name: "missing url", config: map[string]string{"DB_TYPE": "postgres"}, wantErr: errs.IsEnvironmentVariableError},
		{name: "missing supabase host", config: map[string]string{"DB_TYPE": "supa"}, wantErr: errs.IsEnvironmentVariableError},
		{name: "unknown type", config: map[string]string{"DB_TYPE": "oracle"}, wantErr: errs.IsConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PostgresDSN(tt.config)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnMismatchesCleanAfterMigrate(t *testing.T) {
	d := newTestDatabase(t)
	report, err := models.ColumnMismatches(d.GetDB())
	require.NoError(t, err)
	for table, cols := range report {
		assert.Empty(t, cols, table)
	}
}
