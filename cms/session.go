package cms

import (
	"context"
	"errors"
	"fmt"

	"github.com/getwebfast/site-backend/auth"
	"github.com/getwebfast/site-backend/errs"
)

// Login returns ok=false for wrong credentials and an error only when the
// provider itself failed.
func (r *Repository) Login(ctx context.Context, email, password string) (auth.Session, bool, error) {
	session, err := r.auth.SignIn(ctx, email, password)
	switch {
	case err == nil:
		r.logger.Info().Str("userId", session.UserID).Msg("Admin signed in")
		return session, true, nil
	case errors.Is(err, auth.ErrInvalidCredentials):
		r.logger.Warn().Str("email", email).Msg("Rejected sign in")
		return auth.Session{}, false, nil
	default:
		return auth.Session{}, false, fmt.Errorf("sign in: %w", err)
	}
}

// SignUp reports refused registrations as API errors.
func (r *Repository) SignUp(ctx context.Context, email, password string) (auth.Session, bool, error) {
	session, err := r.auth.SignUp(ctx, email, password)
	switch {
	case err == nil:
		r.logger.Info().Str("userId", session.UserID).Msg("Admin signed up")
		return session, true, nil
	case errors.Is(err, auth.ErrInvalidCredentials):
		r.logger.Warn().Str("email", email).Msg("Rejected sign up")
		return auth.Session{}, false, nil
	case errors.Is(err, auth.ErrEmailTaken):
		return auth.Session{}, false, errs.NewConflictError("email already registered")
	case errors.Is(err, auth.ErrWeakPassword):
		return auth.Session{}, false, errs.NewInvalidFieldError("password", fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength))
	case errors.Is(err, auth.ErrSignupDisabled):
		return auth.Session{}, false, errs.NewSignupDisabledError()
	default:
		return auth.Session{}, false, fmt.Errorf("sign up: %w", err)
	}
}

// Logout always leaves the caller anonymous; provider failures are only
// logged.
func (r *Repository) Logout(ctx context.Context, token string) {
	if err := r.auth.SignOut(ctx, token); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to end session")
	}
}

// CurrentSession returns the session behind token, if any.
func (r *Repository) CurrentSession(ctx context.Context, token string) (auth.Session, bool) {
	session, err := r.auth.Validate(ctx, token)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidSession) {
			r.logger.Error().Err(err).Msg("Failed to validate session")
		}
		return auth.Session{}, false
	}
	return session, true
}

func (r *Repository) IsAuthenticated(ctx context.Context, token string) bool {
	_, ok := r.CurrentSession(ctx, token)
	return ok
}
