// Package site assembles the read models of the public pages.
package site

import (
	"context"

	"github.com/getwebfast/site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// LatestPostsOnLanding is how many published posts the landing page shows.
const LatestPostsOnLanding = 3

// Content is the subset of the content repository the landing page reads.
type Content interface {
	ListServices(ctx context.Context) ([]*models.Service, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	ListTestimonials(ctx context.Context) ([]*models.Testimonial, error)
	LatestPublishedPosts(ctx context.Context, limit int) ([]*models.Post, error)
	ListBanners(ctx context.Context) ([]*models.Banner, error)
}

// Landing is everything the home page renders.
type Landing struct {
	Banners      []*models.Banner      `json:"banners"`
	Services     []*models.Service     `json:"services"`
	Projects     []*models.Project     `json:"projects"`
	Testimonials []*models.Testimonial `json:"testimonials"`
	Posts        []*models.Post        `json:"posts"`
}

type Loader struct {
	content Content
	logger  zerolog.Logger
}

func NewLoader(content Content) *Loader {
	return &Loader{
		content: content,
		logger:  log.With().Str("component", "landing").Logger(),
	}
}

// LoadLanding fetches every section concurrently. A section that fails to
// load is logged and rendered empty; the page itself never fails.
func (l *Loader) LoadLanding(ctx context.Context) Landing {
	var page Landing
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page.Banners = section(l, "banners", func() ([]*models.Banner, error) { return l.content.ListBanners(gctx) })
		return nil
	})
	g.Go(func() error {
		page.Services = section(l, "services", func() ([]*models.Service, error) { return l.content.ListServices(gctx) })
		return nil
	})
	g.Go(func() error {
		page.Projects = section(l, "projects", func() ([]*models.Project, error) { return l.content.ListProjects(gctx) })
		return nil
	})
	g.Go(func() error {
		page.Testimonials = section(l, "testimonials", func() ([]*models.Testimonial, error) { return l.content.ListTestimonials(gctx) })
		return nil
	})
	g.Go(func() error {
		page.Posts = section(l, "posts", func() ([]*models.Post, error) {
			return l.content.LatestPublishedPosts(gctx, LatestPostsOnLanding)
		})
		return nil
	})

	// sections never return errors
	_ = g.Wait()
	return page
}

func section[T any](l *Loader, name string, load func() ([]T, error)) []T {
	items, err := load()
	if err != nil {
		l.logger.Warn().Err(err).Str("section", name).Msg("Landing section failed to load, rendering empty")
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}
