package api

import (
	"net/http"
	"time"

	"github.com/getwebfast/site-backend/auth"
	"github.com/getwebfast/site-backend/cms"
	"github.com/getwebfast/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	content      *cms.Repository
	secureCookie bool
}

func newAuthHandler(content *cms.Repository, secureCookie bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		content:      content,
		secureCookie: secureCookie,
	}
}

// Credentials is the login and signup payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse tells the admin panel whether it is signed in. Token is
// only set on login and signup, for clients that cannot keep cookies.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	Session       *auth.Session `json:"session,omitempty"`
	Token         string        `json:"token,omitempty"`
}

func (h authHandler) setSessionCookie(w http.ResponseWriter, session auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h authHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h authHandler) writeSession(w http.ResponseWriter, session auth.Session) {
	h.setSessionCookie(w, session)
	h.responder.WriteJSON(w, SessionResponse{
		Authenticated: true,
		Session:       &session,
		Token:         session.Token,
	})
}

// login signs an admin in
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body Credentials true "Email and password"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized - Email or password is incorrect"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := h.responder.decodeJSON(w, r, &creds); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, ok, err := h.content.Login(r.Context(), creds.Email, creds.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("auth", err))
			return
		}
		if !ok {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}
		h.writeSession(w, session)
	}
}

func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := h.responder.decodeJSON(w, r, &creds); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, ok, err := h.content.SignUp(r.Context(), creds.Email, creds.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !ok {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}
		h.writeSession(w, session)
	}
}

// logout always succeeds and leaves the caller anonymous
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := sessionToken(r); token != "" {
			h.content.Logout(r.Context(), token)
		}
		h.clearSessionCookie(w)
		h.responder.WriteJSON(w, SessionResponse{Authenticated: false})
	}
}

func (h authHandler) session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			h.responder.WriteJSON(w, SessionResponse{Authenticated: false})
			return
		}
		session, ok := h.content.CurrentSession(r.Context(), token)
		if !ok {
			h.clearSessionCookie(w)
			h.responder.WriteJSON(w, SessionResponse{Authenticated: false})
			return
		}
		h.responder.WriteJSON(w, SessionResponse{Authenticated: true, Session: &session})
	}
}
