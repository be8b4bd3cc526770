package api

import (
	"net/http"

	"github.com/getwebfast/site-backend/cms"
	"github.com/getwebfast/site-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	content   *cms.Repository
}

func newProjectHandler(content *cms.Repository) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		content:   content,
	}
}

// getProjects lists portfolio projects
// @Summary List projects
// @Description Portfolio projects in creation order, optionally limited to one category
// @Tags Projects
// @Produce json
// @Param category query string false "Category, All for every category"
// @Success 200 {array} models.Project
// @Router /projects [get]
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.content.ListProjects(r.Context())
		if err == nil {
			projects = cms.FilterProjectsByCategory(projects, r.URL.Query().Get("category"))
		}
		writePublicList(h.responder, w, "project", projects, err)
	}
}

// getProject returns a case study by slug
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{slug} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.content.GetProjectBySlug(r.Context(), chi.URLParam(r, "slug"))
		writePublicItem(h.responder, w, "project", project, err)
	}
}

func (h projectHandler) admin() adminResource[models.Project, cms.ProjectInput] {
	return adminResource[models.Project, cms.ProjectInput]{
		entity:    "project",
		responder: h.responder,
		logger:    h.logger,
		list:      h.content.ListProjects,
		get:       h.content.GetProjectByID,
		save:      h.content.SaveProject,
		remove:    h.content.DeleteProject,
		setID:     func(in *cms.ProjectInput, id string) { in.ID = id },
	}
}
