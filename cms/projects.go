package cms

import (
	"context"
	"fmt"
	"strings"

	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/models"
)

type ProjectInput struct {
	ID          string    `json:"id"`
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	BgClass     *string   `json:"bg_class"`
	Slug        *string   `json:"slug"`
	Client      *string   `json:"client"`
	Challenge   *string   `json:"challenge"`
	Solution    *string   `json:"solution"`
	Results     *string   `json:"results"`
	TechStack   *[]string `json:"tech_stack"`
	LiveURL     *string   `json:"live_url"`
	Gallery     *[]string `json:"gallery"`
}

func (r *Repository) ListProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := r.db.ProjectRepo().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *Repository) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	projectID, err := lookupID("project", id)
	if err != nil {
		return nil, err
	}
	project, err := r.db.ProjectRepo().FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	return project, nil
}

// GetProjectBySlug returns the project behind a case-study page.
func (r *Repository) GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	project, err := r.db.ProjectRepo().FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, fmt.Errorf("get project %q: %w", slug, err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	return project, nil
}

func (r *Repository) SaveProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if isNew(in.ID) {
		if err := requireText("name", in.Name); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*in.Name)
		slug, err := slugFor(in.Slug, name)
		if err != nil {
			return nil, err
		}
		project := &models.Project{
			Name:        name,
			Category:    strings.TrimSpace(deref(in.Category)),
			Description: deref(in.Description),
			Image:       strings.TrimSpace(deref(in.Image)),
			BgClass:     strings.TrimSpace(deref(in.BgClass)),
			Slug:        slug,
			Client:      strings.TrimSpace(deref(in.Client)),
			Challenge:   deref(in.Challenge),
			Solution:    deref(in.Solution),
			Results:     deref(in.Results),
			TechStack:   toJSONSlice(deref(in.TechStack)),
			LiveURL:     strings.TrimSpace(deref(in.LiveURL)),
			Gallery:     toJSONSlice(deref(in.Gallery)),
		}
		if err := r.db.ProjectRepo().Add(ctx, project); err != nil {
			return nil, slugWriteError("create", "project", err)
		}
		r.logger.Info().Str("id", project.ID.String()).Str("slug", project.Slug).Msg("Created project")
		return r.GetProjectByID(ctx, project.ID.String())
	}

	id, err := updateID(in.ID)
	if err != nil {
		return nil, err
	}
	f := fields{}
	if in.Name != nil {
		if err := requireText("name", in.Name); err != nil {
			return nil, err
		}
		f["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		slug, err := slugFor(in.Slug, deref(in.Name))
		if err != nil {
			return nil, err
		}
		f["slug"] = slug
	}
	f.trimmed("category", in.Category)
	f.str("description", in.Description)
	f.trimmed("image", in.Image)
	f.trimmed("bg_class", in.BgClass)
	f.trimmed("client", in.Client)
	f.str("challenge", in.Challenge)
	f.str("solution", in.Solution)
	f.str("results", in.Results)
	f.list("tech_stack", in.TechStack)
	f.trimmed("live_url", in.LiveURL)
	f.list("gallery", in.Gallery)

	if err := r.db.ProjectRepo().UpdateFields(ctx, id, f); err != nil {
		return nil, slugWriteError("update", "project", err)
	}
	return r.GetProjectByID(ctx, id.String())
}

// DeleteProject removes the project, then its cover and gallery images that
// live in the site bucket.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	project, err := r.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.ProjectRepo().Delete(ctx, project.ID); err != nil {
		return writeError("delete", "project", err)
	}
	r.removeImages(ctx, "project", project.ID, project.ImageURLs()...)
	return nil
}
