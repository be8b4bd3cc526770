package api

import (
	"net/http"

	"github.com/getwebfast/site-backend/cms"
	"github.com/getwebfast/site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type testimonialHandler struct {
	responder Responder
	logger    zerolog.Logger
	content   *cms.Repository
}

func newTestimonialHandler(content *cms.Repository) testimonialHandler {
	logger := log.With().Str("handlerName", "testimonialHandler").Logger()

	return testimonialHandler{
		responder: NewResponder(logger),
		logger:    logger,
		content:   content,
	}
}

func (h testimonialHandler) getTestimonials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testimonials, err := h.content.ListTestimonials(r.Context())
		writePublicList(h.responder, w, "testimonial", testimonials, err)
	}
}

func (h testimonialHandler) admin() adminResource[models.Testimonial, cms.TestimonialInput] {
	return adminResource[models.Testimonial, cms.TestimonialInput]{
		entity:    "testimonial",
		responder: h.responder,
		logger:    h.logger,
		list:      h.content.ListTestimonials,
		get:       h.content.GetTestimonialByID,
		save:      h.content.SaveTestimonial,
		remove:    h.content.DeleteTestimonial,
		setID:     func(in *cms.TestimonialInput, id string) { in.ID = id },
	}
}
