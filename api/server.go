package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/getwebfast/site-backend/cms"
	"github.com/getwebfast/site-backend/config"
	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/services"
	"github.com/getwebfast/site-backend/site"
	"github.com/getwebfast/site-backend/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Dependencies are the components the API serves. LocalUploads is set only
// when images are kept on disk.
type Dependencies struct {
	Database     database.Database
	Content      *cms.Repository
	Landing      *site.Loader
	Inquiries    *services.InquiryService
	LocalUploads *storage.LocalBucket
}

// defaultAcceptedOrigins are the local dev servers of the site frontend.
var defaultAcceptedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, deps Dependencies) (Server, error) {
	if deps.Content == nil || deps.Landing == nil || deps.Inquiries == nil {
		return Server{}, fmt.Errorf("api: content, landing and inquiries are required")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	console := config.GetString(router.config, "LOG_FORMAT", "json") == "console"
	chiRouter.Use(ColoredHTTPLoggingMiddleware(requestLogger(console, os.Stderr)))

	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = defaultAcceptedOrigins
	}
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	handlers := initializeHandlers(deps, router.config, router.startupTime)
	setupRoutes(chiRouter, handlers, newAuthMiddleware(deps.Content))

	if deps.LocalUploads != nil {
		setupLocalUploadRoutes(chiRouter, deps.LocalUploads)
	}

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
