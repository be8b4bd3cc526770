package api

import (
	"errors"
	"net/http"

	"github.com/getwebfast/site-backend/cms"
	"github.com/getwebfast/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	content   *cms.Repository
}

func newUploadHandler(content *cms.Repository) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		content:   content,
	}
}

// UploadResponse carries the public URL of a stored image
type UploadResponse struct {
	URL string `json:"url"`
}

// uploadImage stores the multipart field "file"
// @Summary Upload image
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PNG, JPEG, GIF or WebP image"
// @Success 201 {object} UploadResponse
// @Failure 413 {object} ErrorResponse "Request Entity Too Large"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type - not an image"
// @Failure 502 {object} ErrorResponse "Bad Gateway - storage rejected the upload"
// @Router /admin/uploads [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, cms.MaxUploadSize+multipartOverhead)
		if err := r.ParseMultipartForm(multipartOverhead); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(cms.MaxUploadSize))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart form", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		url, err := h.content.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteStatus(w, http.StatusCreated, UploadResponse{URL: url})
	}
}
