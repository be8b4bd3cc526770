package api

import (
	"context"
	"net/http"

	"github.com/getwebfast/site-backend/cms"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// adminResource serves the admin CRUD endpoints of one record kind. T is
// the stored model, In its partial input.
type adminResource[T any, In any] struct {
	entity    string
	responder Responder
	logger    zerolog.Logger
	list      func(ctx context.Context) ([]*T, error)
	get       func(ctx context.Context, id string) (*T, error)
	save      func(ctx context.Context, in In) (*T, error)
	remove    func(ctx context.Context, id string) error
	setID     func(in *In, id string)
}

func (a adminResource[T, In]) mount(r chi.Router, path string) {
	r.Get(path, a.listAll())
	r.Post(path, a.create())
	r.Get(path+"/{id}", a.getOne())
	r.Put(path+"/{id}", a.update())
	r.Delete(path+"/{id}", a.deleteOne())
}

func (a adminResource[T, In]) listAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := a.list(r.Context())
		if err != nil {
			a.responder.WriteError(w, err)
			return
		}
		a.responder.WriteJSON(w, items)
	}
}

func (a adminResource[T, In]) getOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := a.get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			a.responder.WriteError(w, err)
			return
		}
		a.responder.WriteJSON(w, item)
	}
}

func (a adminResource[T, In]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := a.responder.decodeJSON(w, r, &in); err != nil {
			a.responder.WriteError(w, err)
			return
		}
		a.setID(&in, cms.NewID)
		a.write(w, r, in, true)
	}
}

// update patches the record named in the path; the id "new" inserts.
func (a adminResource[T, In]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := a.responder.decodeJSON(w, r, &in); err != nil {
			a.responder.WriteError(w, err)
			return
		}
		id := chi.URLParam(r, "id")
		a.setID(&in, id)
		a.write(w, r, in, id == cms.NewID)
	}
}

func (a adminResource[T, In]) write(w http.ResponseWriter, r *http.Request, in In, created bool) {
	item, err := a.save(r.Context(), in)
	if err != nil {
		a.responder.WriteError(w, err)
		return
	}

	event := a.logger.Info().Str("entity", a.entity)
	if session, ok := ctxGetSession(r.Context()); ok {
		event = event.Str("userId", session.UserID)
	}
	if created {
		event.Msg("Created record")
		a.responder.WriteStatus(w, http.StatusCreated, item)
		return
	}
	event.Msg("Updated record")
	a.responder.WriteJSON(w, item)
}

func (a adminResource[T, In]) deleteOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := a.remove(r.Context(), id); err != nil {
			a.responder.WriteError(w, err)
			return
		}
		a.logger.Info().Str("entity", a.entity).Str("id", id).Msg("Deleted record")
		w.WriteHeader(http.StatusNoContent)
	}
}
