package api

import (
	"net/http"
	"strings"

	"github.com/getwebfast/site-backend/storage"
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public site API and the admin API behind the
// auth middleware.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/healthz", handlers.landingHandler.healthz())
	r.Get("/landing", handlers.landingHandler.getLanding())

	r.Get("/banners", handlers.bannerHandler.getBanners())
	r.Get("/services", handlers.serviceHandler.getServices())
	r.Get("/services/{serviceID}", handlers.serviceHandler.getService())
	r.Get("/projects", handlers.projectHandler.getProjects())
	r.Get("/projects/{slug}", handlers.projectHandler.getProject())
	r.Get("/testimonials", handlers.testimonialHandler.getTestimonials())
	r.Get("/blog", handlers.postHandler.getBlog())
	r.Get("/blog/{slug}", handlers.postHandler.getBlogPost())
	r.Post("/contact", handlers.contactHandler.submitContact())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handlers.authHandler.login())
		r.Post("/signup", handlers.authHandler.signup())
		r.Post("/logout", handlers.authHandler.logout())
		r.Get("/session", handlers.authHandler.session())
	})

	// Authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		handlers.postHandler.admin().mount(r, "/posts")
		handlers.serviceHandler.admin().mount(r, "/services")
		handlers.projectHandler.admin().mount(r, "/projects")
		handlers.testimonialHandler.admin().mount(r, "/testimonials")
		handlers.bannerHandler.admin().mount(r, "/banners")

		r.Post("/uploads", handlers.uploadHandler.uploadImage())
		r.Get("/inquiries", handlers.contactHandler.getInquiries())
	})
}

// setupLocalUploadRoutes serves the files of a local bucket at the path its
// public URLs point to.
func setupLocalUploadRoutes(r chi.Router, bucket *storage.LocalBucket) {
	prefix := "/" + bucket.Name() + "/"
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(bucket.Dir())))
	r.Handle(prefix+"*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// no directory listings
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		files.ServeHTTP(w, r)
	}))
}
