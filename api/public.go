package api

import (
	"net/http"

	"github.com/getwebfast/site-backend/errs"
)

// writePublicList serves a list to site visitors. A failed read is served
// as an empty list so the page still renders.
func writePublicList[T any](h Responder, w http.ResponseWriter, entity string, items []T, err error) {
	if err != nil {
		h.logger.Warn().Err(err).Str("entity", entity).Msg("Public list read failed, serving empty list")
		items = []T{}
	}
	if items == nil {
		items = []T{}
	}
	h.WriteJSON(w, items)
}

// writePublicItem serves one record to site visitors. Any failure reads as
// not found.
func writePublicItem[T any](h Responder, w http.ResponseWriter, entity string, item *T, err error) {
	if err != nil {
		if !errs.IsNotFound(err) {
			h.logger.Warn().Err(err).Str("entity", entity).Msg("Public read failed, serving not found")
		}
		h.WriteError(w, errs.NewNotFound(entity))
		return
	}
	if item == nil {
		h.WriteError(w, errs.NewNotFound(entity))
		return
	}
	h.WriteJSON(w, item)
}
