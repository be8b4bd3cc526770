package cms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/htmlsanitize"
	"github.com/getwebfast/site-backend/models"
)

// SEOInput patches the search metadata of a post.
type SEOInput struct {
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
}

// PostInput is a full or partial post. Nil fields were not supplied.
type PostInput struct {
	ID          string             `json:"id"`
	Title       *string            `json:"title"`
	Slug        *string            `json:"slug"`
	Excerpt     *string            `json:"excerpt"`
	Content     *string            `json:"content"`
	CoverImage  *string            `json:"coverImage"`
	Author      *string            `json:"author"`
	PublishedAt *time.Time         `json:"publishedAt"`
	Status      *models.PostStatus `json:"status"`
	Category    *string            `json:"category"`
	Tags        *[]string          `json:"tags"`
	ReadTime    *string            `json:"readTime"`
	SEO         *SEOInput          `json:"seo"`
}

// ListPosts returns every post, drafts included, newest first.
func (r *Repository) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := r.db.PostRepo().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListPublishedPosts returns what the public blog shows, newest first.
func (r *Repository) ListPublishedPosts(ctx context.Context) ([]*models.Post, error) {
	return r.LatestPublishedPosts(ctx, 0)
}

// LatestPublishedPosts returns at most limit published posts; limit <= 0
// means no limit.
func (r *Repository) LatestPublishedPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	posts, err := r.db.PostRepo().FindPublished(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

func (r *Repository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	postID, err := lookupID("post", id)
	if err != nil {
		return nil, err
	}
	post, err := r.db.PostRepo().FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	if post == nil {
		return nil, errs.NewNotFound("post")
	}
	return post, nil
}

// GetPostBySlug returns the post with slug whatever its status.
func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := r.db.PostRepo().FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, fmt.Errorf("get post %q: %w", slug, err)
	}
	if post == nil {
		return nil, errs.NewNotFound("post")
	}
	return post, nil
}

// GetPublishedPostBySlug hides drafts behind not found.
func (r *Repository) GetPublishedPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := r.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.Published() {
		return nil, errs.NewNotFound("post")
	}
	return post, nil
}

// SavePost inserts when in.ID is empty or "new" and otherwise updates only
// the supplied fields.
func (r *Repository) SavePost(ctx context.Context, in PostInput) (*models.Post, error) {
	if isNew(in.ID) {
		return r.insertPost(ctx, in)
	}
	return r.updatePost(ctx, in)
}

func (r *Repository) insertPost(ctx context.Context, in PostInput) (*models.Post, error) {
	if err := requireText("title", in.Title); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(*in.Title)

	slug, err := slugFor(in.Slug, title)
	if err != nil {
		return nil, err
	}

	status := models.PostStatusDraft
	if in.Status != nil && *in.Status != "" {
		status = *in.Status
	}
	if !status.Valid() {
		return nil, errs.NewInvalidFieldError("status", "must be draft or published")
	}

	publishedAt := r.now()
	if in.PublishedAt != nil && !in.PublishedAt.IsZero() {
		publishedAt = in.PublishedAt.UTC()
	}

	post := &models.Post{
		Title:       title,
		Slug:        slug,
		Excerpt:     htmlsanitize.StripTags(deref(in.Excerpt)),
		Content:     htmlsanitize.Sanitize(deref(in.Content)),
		CoverImage:  strings.TrimSpace(deref(in.CoverImage)),
		Author:      strings.TrimSpace(deref(in.Author)),
		PublishedAt: publishedAt,
		Status:      status,
		Category:    strings.TrimSpace(deref(in.Category)),
		Tags:        toJSONSlice(deref(in.Tags)),
		ReadTime:    strings.TrimSpace(deref(in.ReadTime)),
	}
	if in.SEO != nil {
		post.SEO = models.SEO{
			MetaTitle:       strings.TrimSpace(deref(in.SEO.MetaTitle)),
			MetaDescription: htmlsanitize.StripTags(deref(in.SEO.MetaDescription)),
		}
	}

	if err := r.db.PostRepo().Add(ctx, post); err != nil {
		return nil, slugWriteError("create", "post", err)
	}
	r.logger.Info().Str("id", post.ID.String()).Str("slug", post.Slug).Msg("Created post")
	return r.GetPostByID(ctx, post.ID.String())
}

func (r *Repository) updatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	id, err := updateID(in.ID)
	if err != nil {
		return nil, err
	}

	f := fields{}
	if in.Title != nil {
		if err := requireText("title", in.Title); err != nil {
			return nil, err
		}
		f["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		slug, err := slugFor(in.Slug, deref(in.Title))
		if err != nil {
			return nil, err
		}
		f["slug"] = slug
	}
	if in.Excerpt != nil {
		f["excerpt"] = htmlsanitize.StripTags(*in.Excerpt)
	}
	if in.Content != nil {
		f["content"] = htmlsanitize.Sanitize(*in.Content)
	}
	f.trimmed("cover_image", in.CoverImage)
	f.trimmed("author", in.Author)
	if in.PublishedAt != nil && !in.PublishedAt.IsZero() {
		f["published_at"] = in.PublishedAt.UTC()
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, errs.NewInvalidFieldError("status", "must be draft or published")
		}
		f["status"] = *in.Status
	}
	f.trimmed("category", in.Category)
	f.list("tags", in.Tags)
	f.trimmed("read_time", in.ReadTime)
	if in.SEO != nil {
		f.trimmed("seo_meta_title", in.SEO.MetaTitle)
		if in.SEO.MetaDescription != nil {
			f["seo_meta_description"] = htmlsanitize.StripTags(*in.SEO.MetaDescription)
		}
	}

	if err := r.db.PostRepo().UpdateFields(ctx, id, f); err != nil {
		return nil, slugWriteError("update", "post", err)
	}
	return r.GetPostByID(ctx, id.String())
}

// DeletePost removes the post, then its cover image when the image lives in
// the site bucket.
func (r *Repository) DeletePost(ctx context.Context, id string) error {
	post, err := r.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.PostRepo().Delete(ctx, post.ID); err != nil {
		return writeError("delete", "post", err)
	}
	r.removeImages(ctx, "post", post.ID, post.CoverImage)
	return nil
}
