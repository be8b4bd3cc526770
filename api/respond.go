package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/getwebfast/site-backend/errs"
	"github.com/rs/zerolog"
)

// maxJSONBodySize bounds admin and contact payloads. Post bodies carry
// rich text, so this is generous.
const maxJSONBodySize = 2 << 20

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")

		truncatedJSON, err := json.Marshal(map[string]any{
			"error":        "Response too large",
			"message":      "The requested data exceeds the maximum response size",
			"maxSizeMB":    maxResponseSize / (1024 * 1024),
			"actualSizeMB": len(jsonData) / (1024 * 1024),
		})
		if err != nil {
			r.logger.Error().Err(err).Msg("error marshaling truncated response")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write(truncatedJSON)
		return
	}

	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteStatus writes data with a status other than 200.
func (r Responder) WriteStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	r.WriteJSON(w, data)
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// Unexpected errors are logged in full; the client only learns that
	// something went wrong.
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteStatus(w, http.StatusInternalServerError, map[string]any{
			"error":   "Internal Server Error",
			"message": "An unexpected error occurred",
			"status":  "error",
		})
		return
	}

	response := map[string]any{
		"error":  apiErr.Error(),
		"status": "error",
	}
	if apiErr.Field != "" {
		response["field"] = apiErr.Field
	}
	if apiErr.Details != "" {
		response["details"] = apiErr.Details
	}

	// Upstream failures (storage, notifications) carry the provider message
	// through; internal causes stay in the log.
	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
	}
	if apiErr.Cause != nil && apiErr.StatusCode != http.StatusInternalServerError {
		response["cause"] = apiErr.GetFullError()
	}

	r.WriteStatus(w, apiErr.StatusCode, response)
}

// decodeJSON reads a bounded JSON body into dst.
func (r Responder) decodeJSON(w http.ResponseWriter, req *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxJSONBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewMaxBodySizeExceededError(maxJSONBodySize)
		}
		r.logger.Error().Err(err).Msg("Failed to read request body")
		return errs.NewBadRequestError("failed to read request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		r.logger.Warn().Err(err).Int("bodySize", len(body)).Msg("Failed to decode request body")
		return errs.NewInvalidJSONError(err)
	}
	return nil
}
