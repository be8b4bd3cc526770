package api

import (
	"context"
	"net/http"
	"time"

	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/site"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type landingHandler struct {
	responder   Responder
	logger      zerolog.Logger
	loader      *site.Loader
	database    database.Database
	startupTime time.Time
}

func newLandingHandler(loader *site.Loader, db database.Database, startupTime time.Time) landingHandler {
	logger := log.With().Str("handlerName", "landingHandler").Logger()

	return landingHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		loader:      loader,
		database:    db,
		startupTime: startupTime,
	}
}

// getLanding returns every section of the home page in one response
// @Summary Landing page
// @Tags Site
// @Produce json
// @Success 200 {object} site.Landing
// @Router /landing [get]
func (h landingHandler) getLanding() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.loader.LoadLanding(r.Context()))
	}
}

// HealthResponse reports liveness and database reachability
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

func (h landingHandler) healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{
			Status:   "ok",
			Database: "ok",
			Uptime:   time.Since(h.startupTime).Round(time.Second).String(),
		}
		if err := h.database.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("Health check failed to reach database")
			resp.Status = "degraded"
			resp.Database = "unavailable"
			h.responder.WriteStatus(w, http.StatusServiceUnavailable, resp)
			return
		}
		h.responder.WriteJSON(w, resp)
	}
}
