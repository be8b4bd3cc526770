package api

import (
	"time"

	"github.com/getwebfast/site-backend/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, c map[string]string, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		landingHandler:     newLandingHandler(deps.Landing, deps.Database, startupTime),
		postHandler:        newPostHandler(deps.Content),
		serviceHandler:     newServiceHandler(deps.Content),
		projectHandler:     newProjectHandler(deps.Content),
		testimonialHandler: newTestimonialHandler(deps.Content),
		bannerHandler:      newBannerHandler(deps.Content),
		authHandler:        newAuthHandler(deps.Content, config.GetBool(c, "COOKIE_SECURE", true)),
		uploadHandler:      newUploadHandler(deps.Content),
		contactHandler:     newContactHandler(deps.Inquiries),
	}
}
