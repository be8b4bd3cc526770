package api

import (
	"net/http"

	"github.com/getwebfast/site-backend/cms"
	"github.com/getwebfast/site-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type serviceHandler struct {
	responder Responder
	logger    zerolog.Logger
	content   *cms.Repository
}

func newServiceHandler(content *cms.Repository) serviceHandler {
	logger := log.With().Str("handlerName", "serviceHandler").Logger()

	return serviceHandler{
		responder: NewResponder(logger),
		logger:    logger,
		content:   content,
	}
}

// getServices lists the service packages
// @Summary List services
// @Tags Services
// @Produce json
// @Success 200 {array} models.Service
// @Router /services [get]
func (h serviceHandler) getServices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := h.content.ListServices(r.Context())
		writePublicList(h.responder, w, "service", services, err)
	}
}

func (h serviceHandler) getService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service, err := h.content.GetServiceByID(r.Context(), chi.URLParam(r, "serviceID"))
		writePublicItem(h.responder, w, "service", service, err)
	}
}

func (h serviceHandler) admin() adminResource[models.Service, cms.ServiceInput] {
	return adminResource[models.Service, cms.ServiceInput]{
		entity:    "service",
		responder: h.responder,
		logger:    h.logger,
		list:      h.content.ListServices,
		get:       h.content.GetServiceByID,
		save:      h.content.SaveService,
		remove:    h.content.DeleteService,
		setID:     func(in *cms.ServiceInput, id string) { in.ID = id },
	}
}
