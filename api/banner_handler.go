package api

import (
	"net/http"

	"github.com/getwebfast/site-backend/cms"
	"github.com/getwebfast/site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type bannerHandler struct {
	responder Responder
	logger    zerolog.Logger
	content   *cms.Repository
}

func newBannerHandler(content *cms.Repository) bannerHandler {
	logger := log.With().Str("handlerName", "bannerHandler").Logger()

	return bannerHandler{
		responder: NewResponder(logger),
		logger:    logger,
		content:   content,
	}
}

// getBanners lists the active marquee lines in display order
func (h bannerHandler) getBanners() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		banners, err := h.content.ListBanners(r.Context())
		writePublicList(h.responder, w, "banner", banners, err)
	}
}

// admin lists inactive lines too.
func (h bannerHandler) admin() adminResource[models.Banner, cms.BannerInput] {
	return adminResource[models.Banner, cms.BannerInput]{
		entity:    "banner",
		responder: h.responder,
		logger:    h.logger,
		list:      h.content.ListAllBanners,
		get:       h.content.GetBannerByID,
		save:      h.content.SaveBanner,
		remove:    h.content.DeleteBanner,
		setID:     func(in *cms.BannerInput, id string) { in.ID = id },
	}
}
