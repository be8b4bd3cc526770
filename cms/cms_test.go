package cms

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/getwebfast/site-backend/auth"
	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/models"
	"github.com/getwebfast/site-backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPublicBase = "https://x.supabase.co/storage/v1/object/public"

type memBucket struct {
	mu        sync.Mutex
	objects   map[string][]byte
	removed   []string
	removeErr error
	putErr    error
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}}
}

func (b *memBucket) Name() string { return storage.DefaultBucket }

func (b *memBucket) Put(_ context.Context, key, _ string, body io.Reader) error {
	if b.putErr != nil {
		return b.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *memBucket) Remove(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removed = append(b.removed, keys...)
	if b.removeErr != nil {
		return b.removeErr
	}
	for _, k := range keys {
		delete(b.objects, k)
	}
	return nil
}

func (b *memBucket) PublicURL(key string) string {
	return testPublicBase + "/" + storage.DefaultBucket + "/" + key
}

type testEnv struct {
	repo   *Repository
	bucket *memBucket
	auth   *auth.LocalProvider
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	d := database.New(db)
	require.NoError(t, d.Migrate())
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	provider := auth.NewLocalProvider(d, auth.LocalOptions{Secret: []byte("test"), TTL: time.Hour})
	require.NoError(t, provider.EnsureUser(context.Background(), "owner@getwebfast.com", "correct-horse"))

	bucket := newMemBucket()
	return testEnv{repo: New(d, bucket, provider), bucket: bucket, auth: provider}
}

func ptr[T any](v T) *T { return &v }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestSavePostInsertDefaults(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	before := time.Now().UTC().Add(-time.Second)

	post, err := env.repo.SavePost(ctx, PostInput{
		ID:      NewID,
		Title:   ptr("Why Your Site Needs Speed!"),
		Content: ptr(`<p onclick="x()">Fast</p><script>alert(1)</script>`),
		Tags:    ptr([]string{"performance", " ", "seo"}),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "why-your-site-needs-speed", post.Slug)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.False(t, post.PublishedAt.Before(before))
	assert.Equal(t, "<p>Fast</p>", post.Content)
	assert.Equal(t, []string{"performance", "seo"}, []string(post.Tags))

	_, err = env.repo.SavePost(ctx, PostInput{Title: ptr("  ")})
	assert.True(t, errs.IsMissingRequiredFieldError(err))

	bad := models.PostStatus("archived")
	_, err = env.repo.SavePost(ctx, PostInput{Title: ptr("x"), Status: &bad})
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestSavePostPartialUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.repo.SavePost(ctx, PostInput{
		Title:    ptr("Original"),
		Excerpt:  ptr("Short summary"),
		Category: ptr("Design"),
		SEO:      &SEOInput{MetaTitle: ptr("Meta"), MetaDescription: ptr("Desc")},
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	published := models.PostStatusPublished
	updated, err := env.repo.SavePost(ctx, PostInput{ID: created.ID.String(), Title: ptr("Renamed"), Status: &published})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, models.PostStatusPublished, updated.Status)
	assert.Equal(t, "original", updated.Slug, "slug is not rederived when not supplied")
	assert.Equal(t, "Short summary", updated.Excerpt)
	assert.Equal(t, "Design", updated.Category)
	assert.Equal(t, "Meta", updated.SEO.MetaTitle)
	assert.Equal(t, "Desc", updated.SEO.MetaDescription)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	_, err = env.repo.SavePost(ctx, PostInput{ID: "not-a-uuid", Title: ptr("x")})
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	url, err := env.repo.UploadImage(ctx, "cover.png", "image/png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	post, err := env.repo.SavePost(ctx, PostInput{Title: ptr("Doomed"), CoverImage: &url})
	require.NoError(t, err)

	require.NoError(t, env.repo.DeletePost(ctx, post.ID.String()))

	_, err = env.repo.GetPostByID(ctx, post.ID.String())
	assert.True(t, errs.IsNotFound(err))
	assert.Empty(t, env.bucket.objects)

	assert.True(t, errs.IsNotFound(env.repo.DeletePost(ctx, post.ID.String())))
}

func TestDeleteProjectRemovesOwnedImages(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	cover, err := env.repo.UploadImage(ctx, "cover.png", "image/png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	shot, err := env.repo.UploadImage(ctx, "shot.png", "image/png", bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	external := "https://images.unsplash.com/photo-123"

	project, err := env.repo.SaveProject(ctx, ProjectInput{
		Name:    ptr("Acme Site"),
		Image:   &cover,
		Gallery: ptr([]string{shot, external}),
	})
	require.NoError(t, err)

	require.NoError(t, env.repo.DeleteProject(ctx, project.ID.String()))

	coverKey, _ := storage.KeyFromPublicURL(env.bucket, cover)
	shotKey, _ := storage.KeyFromPublicURL(env.bucket, shot)
	assert.ElementsMatch(t, []string{coverKey, shotKey}, env.bucket.removed)
	assert.Empty(t, env.bucket.objects)

	_, err = env.repo.GetProjectByID(ctx, project.ID.String())
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteSucceedsWhenImageCleanupFails(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.bucket.removeErr = errors.New("storage down")

	testimonial, err := env.repo.SaveTestimonial(ctx, TestimonialInput{
		Name:  ptr("Dana"),
		Text:  ptr("Great work"),
		Image: ptr(testPublicBase + "/uploads/dana.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaxRating, testimonial.Rating)

	require.NoError(t, env.repo.DeleteTestimonial(ctx, testimonial.ID.String()))
	assert.Equal(t, []string{"dana.png"}, env.bucket.removed)

	_, err = env.repo.GetTestimonialByID(ctx, testimonial.ID.String())
	assert.True(t, errs.IsNotFound(err))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	session, ok, err := env.repo.Login(ctx, "owner@getwebfast.com", "correct-horse")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, env.repo.IsAuthenticated(ctx, session.Token))

	env.repo.Logout(ctx, session.Token)
	assert.False(t, env.repo.IsAuthenticated(ctx, session.Token))

	session, ok, err = env.repo.Login(ctx, "owner@getwebfast.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, session.Token)
	assert.False(t, env.repo.IsAuthenticated(ctx, session.Token))
}

func TestSignUpRefusals(t *testing.T) {
	env := newTestEnv(t)
	_, ok, err := env.repo.SignUp(context.Background(), "new@getwebfast.com", "long-enough")
	assert.False(t, ok)
	assert.ErrorIs(t, err, errs.ErrSignupDisabled)
}

func TestListServicesIsStable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, title := range []string{"Starter", "Growth", "Premium", "Care Plan"} {
		_, err := env.repo.SaveService(ctx, ServiceInput{Title: ptr(title)})
		require.NoError(t, err)
	}

	first, err := env.repo.ListServices(ctx)
	require.NoError(t, err)
	second, err := env.repo.ListServices(ctx)
	require.NoError(t, err)

	require.Len(t, first, 4)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.Equal(t, models.DefaultServiceIcon, first[0].Icon)
}

func TestSaveServiceValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	unknown := models.Icon("unicorn")
	_, err := env.repo.SaveService(ctx, ServiceInput{Title: ptr("x"), Icon: &unknown})
	assert.True(t, errs.IsInvalidFieldError(err))

	_, err = env.repo.SaveService(ctx, ServiceInput{Title: ptr("x"), DiscountPercent: ptr(120)})
	assert.True(t, errs.IsInvalidFieldError(err))

	rocket := models.IconRocket
	svc, err := env.repo.SaveService(ctx, ServiceInput{
		Title:     ptr("Launch"),
		Icon:      &rocket,
		IsPremium: ptr(true),
		Features:  ptr([]string{"Design", "Build"}),
	})
	require.NoError(t, err)

	updated, err := env.repo.SaveService(ctx, ServiceInput{ID: svc.ID.String(), IsPremium: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsPremium)
	assert.Equal(t, models.IconRocket, updated.Icon)
	assert.Equal(t, []string{"Design", "Build"}, []string(updated.Features))
}

func TestProjectSlugAndCategoryFilter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	acme, err := env.repo.SaveProject(ctx, ProjectInput{Name: ptr("Acme Site"), Category: ptr("Business")})
	require.NoError(t, err)
	assert.Equal(t, "acme-site", acme.Slug)

	_, err = env.repo.SaveProject(ctx, ProjectInput{Name: ptr("Dashboard"), Category: ptr("SaaS")})
	require.NoError(t, err)
	_, err = env.repo.SaveProject(ctx, ProjectInput{Name: ptr("Booking Tool"), Category: ptr("saas")})
	require.NoError(t, err)

	bySlug, err := env.repo.GetProjectBySlug(ctx, "acme-site")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, bySlug.ID)

	projects, err := env.repo.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, FilterProjectsByCategory(projects, AllCategories), 3)
	assert.Empty(t, FilterProjectsByCategory(projects, "all"))

	saas := FilterProjectsByCategory(projects, "SaaS")
	require.Len(t, saas, 1)
	assert.Equal(t, "Dashboard", saas[0].Name)

	lower := FilterProjectsByCategory(projects, "saas")
	require.Len(t, lower, 1)
	assert.Equal(t, "Booking Tool", lower[0].Name)
}

func TestDuplicateSlugIsConflict(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.repo.SavePost(ctx, PostInput{Title: ptr("Hello World")})
	require.NoError(t, err)

	_, err = env.repo.SavePost(ctx, PostInput{Title: ptr("Hello, World!")})
	require.Error(t, err)
	assert.True(t, errs.IsUniqueConstraintViolationError(err))

	var apiErr *errs.ApiErr
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Equal(t, "slug", apiErr.Field)

	other, err := env.repo.SavePost(ctx, PostInput{Title: ptr("Another Post")})
	require.NoError(t, err)
	_, err = env.repo.SavePost(ctx, PostInput{ID: other.ID.String(), Slug: ptr("hello-world")})
	assert.True(t, errs.IsUniqueConstraintViolationError(err))
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	data := pngBytes(t)

	first, err := env.repo.UploadImage(ctx, "photo.PNG", "image/png", bytes.NewReader(data))
	require.NoError(t, err)
	second, err := env.repo.UploadImage(ctx, "photo.PNG", "image/png", bytes.NewReader(data))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, testPublicBase+"/uploads/"))
	assert.True(t, strings.HasSuffix(first, ".png"))
	assert.NotEqual(t, first, second)
	assert.Len(t, env.bucket.objects, 2)

	_, err = env.repo.UploadImage(ctx, "notes.png", "image/png", strings.NewReader("plain text"))
	assert.True(t, errs.IsUnsupportedMediaTypeError(err))

	big := io.MultiReader(bytes.NewReader(data), bytes.NewReader(make([]byte, MaxUploadSize)))
	_, err = env.repo.UploadImage(ctx, "big.png", "image/png", big)
	assert.True(t, errs.IsMaxBodySizeExceededError(err))

	env.bucket.putErr = errors.New("Bucket not found")
	_, err = env.repo.UploadImage(ctx, "photo.png", "image/png", bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, errs.IsStorageError(err))
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.GetFullError(), "Bucket not found")

	noBucket := New(env.repo.db, nil, env.auth)
	_, err = noBucket.UploadImage(ctx, "photo.png", "image/png", bytes.NewReader(data))
	assert.Error(t, err)
}

func TestBanners(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	right := models.BannerRight
	shown, err := env.repo.SaveBanner(ctx, BannerInput{Text: ptr("Launch in 7 days"), Direction: &right, OrderIndex: ptr(2)})
	require.NoError(t, err)
	assert.True(t, shown.IsActive)
	assert.Equal(t, DefaultBannerSpeed, shown.Speed)

	hidden, err := env.repo.SaveBanner(ctx, BannerInput{Text: ptr("Old promo"), IsActive: ptr(false), OrderIndex: ptr(1)})
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	active, err := env.repo.ListBanners(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, shown.ID, active[0].ID)

	all, err := env.repo.ListAllBanners(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, hidden.ID, all[0].ID)

	up := models.BannerDirection("up")
	_, err = env.repo.SaveBanner(ctx, BannerInput{ID: shown.ID.String(), Direction: &up})
	assert.True(t, errs.IsInvalidFieldError(err))

	require.NoError(t, env.repo.DeleteBanner(ctx, hidden.ID.String()))
	assert.True(t, errs.IsNotFound(env.repo.DeleteBanner(ctx, hidden.ID.String())))
}

func TestPublishedPostsAndSlugLookup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	published := models.PostStatusPublished

	_, err := env.repo.SavePost(ctx, PostInput{Title: ptr("Live"), Status: &published})
	require.NoError(t, err)
	_, err = env.repo.SavePost(ctx, PostInput{Title: ptr("Hidden")})
	require.NoError(t, err)

	posts, err := env.repo.ListPublishedPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "live", posts[0].Slug)

	_, err = env.repo.GetPublishedPostBySlug(ctx, "hidden")
	assert.True(t, errs.IsNotFound(err))

	draft, err := env.repo.GetPostBySlug(ctx, "hidden")
	require.NoError(t, err)
	assert.Equal(t, "Hidden", draft.Title)

	all, err := env.repo.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFilterPosts(t *testing.T) {
	posts := []*models.Post{
		{Title: "Speed wins", Excerpt: "Why fast sites sell", Category: "Performance"},
		{Title: "Picking colors", Excerpt: "A design primer", Category: "Design"},
		{Title: "Core Web Vitals", Excerpt: "Measuring SPEED", Category: "Performance"},
		{Title: "Untitled", Category: ""},
	}

	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"no filter", "", "", []string{"Speed wins", "Picking colors", "Core Web Vitals", "Untitled"}},
		{"All category", "", "All", []string{"Speed wins", "Picking colors", "Core Web Vitals", "Untitled"}},
		{"category only", "", "Design", []string{"Picking colors"}},
		{"search title and excerpt", "speed", "", []string{"Speed wins", "Core Web Vitals"}},
		{"search and category", "primer", "Performance", []string{}},
		{"category is case-sensitive", "", "design", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, p := range FilterPosts(posts, tt.search, tt.category) {
				got = append(got, p.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"All", "Performance", "Design"}, PostCategories(posts))
}
