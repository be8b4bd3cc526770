package api

import (
	"net/http"

	"github.com/getwebfast/site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	inquiries *services.InquiryService
}

func newContactHandler(inquiries *services.InquiryService) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		inquiries: inquiries,
	}
}

// submitContact stores a contact form submission and notifies the owner
// @Summary Submit contact form
// @Tags Contact
// @Accept json
// @Produce json
// @Param inquiry body services.ContactInput true "Contact form"
// @Success 201 {object} models.Inquiry
// @Failure 400 {object} ErrorResponse "Bad Request - missing or invalid field"
// @Router /contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ContactInput
		if err := h.responder.decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		inquiry, err := h.inquiries.Submit(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteStatus(w, http.StatusCreated, inquiry)
	}
}

func (h contactHandler) getInquiries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inquiries, err := h.inquiries.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, inquiries)
	}
}
