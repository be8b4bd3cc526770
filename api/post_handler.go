package api

import (
	"net/http"

	"github.com/getwebfast/site-backend/cms"
	"github.com/getwebfast/site-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	content   *cms.Repository
}

func newPostHandler(content *cms.Repository) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		content:   content,
	}
}

// BlogResponse is the public blog index
type BlogResponse struct {
	Posts      []*models.Post `json:"posts"`
	Categories []string       `json:"categories"`
	Total      int            `json:"total"`
}

// getBlog lists published posts
// @Summary List published posts
// @Description Published posts, newest first, filtered by a search term over title and excerpt and by category. Categories are computed before filtering.
// @Tags Blog
// @Produce json
// @Param search query string false "Search term"
// @Param category query string false "Category, All for every category"
// @Success 200 {object} BlogResponse
// @Router /blog [get]
func (h postHandler) getBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.content.ListPublishedPosts(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to load published posts, serving empty blog")
			posts = []*models.Post{}
		}

		query := r.URL.Query()
		filtered := cms.FilterPosts(posts, query.Get("search"), query.Get("category"))

		h.responder.WriteJSON(w, BlogResponse{
			Posts:      filtered,
			Categories: cms.PostCategories(posts),
			Total:      len(filtered),
		})
	}
}

// getBlogPost returns one published post
// @Summary Get published post
// @Tags Blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.Post
// @Failure 404 {object} ErrorResponse "Not Found - no published post with that slug"
// @Router /blog/{slug} [get]
func (h postHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.content.GetPublishedPostBySlug(r.Context(), chi.URLParam(r, "slug"))
		writePublicItem(h.responder, w, "post", post, err)
	}
}

func (h postHandler) admin() adminResource[models.Post, cms.PostInput] {
	return adminResource[models.Post, cms.PostInput]{
		entity:    "post",
		responder: h.responder,
		logger:    h.logger,
		list:      h.content.ListPosts,
		get:       h.content.GetPostByID,
		save:      h.content.SavePost,
		remove:    h.content.DeletePost,
		setID:     func(in *cms.PostInput, id string) { in.ID = id },
	}
}
