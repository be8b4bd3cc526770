// Package auth signs admins in and validates their sessions. A caller is
// either Anonymous (no valid session) or Authenticated.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getwebfast/site-backend/config"
	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/errs"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSignupDisabled     = errors.New("signup disabled")
	ErrWeakPassword       = errors.New("password too short")
)

const MinPasswordLength = 8

// Session is an authenticated login. Token is what the client presents on
// later requests.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Provider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	// SignOut ends the session behind token. Unknown or expired tokens are
	// not an error.
	SignOut(ctx context.Context, token string) error
	Validate(ctx context.Context, token string) (Session, error)
}

const (
	ProviderLocal   = "local"
	ProviderDescope = "descope"
)

// New builds the provider named by AUTH_PROVIDER.
func New(ctx context.Context, c map[string]string, db database.Database) (Provider, error) {
	switch name := strings.ToLower(config.GetString(c, "AUTH_PROVIDER", ProviderLocal)); name {
	case ProviderLocal:
		secret := config.GetString(c, "JWT_SECRET", "")
		if secret == "" {
			return nil, errs.NewEnvironmentVariableError("JWT_SECRET")
		}
		p := NewLocalProvider(db, LocalOptions{
			Secret:      []byte(secret),
			TTL:         time.Duration(config.GetInt(c, "SESSION_TTL_HOURS", 24*7)) * time.Hour,
			AllowSignup: config.GetBool(c, "ALLOW_SIGNUP", false),
		})
		if email := config.GetString(c, "ADMIN_EMAIL", ""); email != "" {
			if err := p.EnsureUser(ctx, email, config.GetString(c, "ADMIN_PASSWORD", "")); err != nil {
				return nil, errs.NewConfigError("ADMIN_EMAIL", err)
			}
		}
		return p, nil
	case ProviderDescope:
		projectID := config.GetString(c, "DESCOPE_PROJECT_ID", "")
		if projectID == "" {
			return nil, errs.NewEnvironmentVariableError("DESCOPE_PROJECT_ID")
		}
		return NewDescopeProvider(projectID, config.GetBool(c, "ALLOW_SIGNUP", false))
	default:
		return nil, errs.NewConfigInvalidError("AUTH_PROVIDER", fmt.Sprintf("unsupported provider %q", name))
	}
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: need at least %d characters", ErrWeakPassword, MinPasswordLength)
	}
	return nil
}
