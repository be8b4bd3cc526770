package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type descopePassword interface {
	SignIn(ctx context.Context, loginID, password string, w http.ResponseWriter) (*descope.AuthenticationInfo, error)
	SignUp(ctx context.Context, loginID string, user *descope.User, password string, w http.ResponseWriter) (*descope.AuthenticationInfo, error)
}

type descopeValidator interface {
	ValidateSessionWithToken(ctx context.Context, sessionToken string) (bool, *descope.Token, error)
}

// DescopeProvider hands password auth to a Descope project. Session tokens
// are Descope JWTs validated against the project keys; SignOut is a no-op
// because clearing the cookie is all the site needs.
type DescopeProvider struct {
	password    descopePassword
	validator   descopeValidator
	allowSignup bool
	logger      zerolog.Logger
}

func NewDescopeProvider(projectID string, allowSignup bool) (*DescopeProvider, error) {
	c, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("create descope client: %w", err)
	}
	return newDescopeProvider(c.Auth.Password(), c.Auth, allowSignup), nil
}

func newDescopeProvider(password descopePassword, validator descopeValidator, allowSignup bool) *DescopeProvider {
	return &DescopeProvider{
		password:    password,
		validator:   validator,
		allowSignup: allowSignup,
		logger:      log.With().Str("component", "descopeAuth").Logger(),
	}
}

func (p *DescopeProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	info, err := p.password.SignIn(ctx, email, password, nil)
	if err != nil {
		return Session{}, p.classify("sign in", err)
	}
	return sessionFromInfo(info, email)
}

func (p *DescopeProvider) SignUp(ctx context.Context, email, password string) (Session, error) {
	if !p.allowSignup {
		return Session{}, ErrSignupDisabled
	}
	if err := validatePassword(password); err != nil {
		return Session{}, err
	}
	info, err := p.password.SignUp(ctx, email, &descope.User{Email: email}, password, nil)
	if err != nil {
		return Session{}, p.classify("sign up", err)
	}
	return sessionFromInfo(info, email)
}

func (p *DescopeProvider) SignOut(context.Context, string) error {
	return nil
}

func (p *DescopeProvider) Validate(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidSession
	}
	ok, t, err := p.validator.ValidateSessionWithToken(ctx, token)
	if err != nil || !ok || t == nil {
		return Session{}, ErrInvalidSession
	}
	email, _ := t.Claims["email"].(string)
	return Session{
		Token:     token,
		UserID:    t.ID,
		Email:     email,
		ExpiresAt: time.Unix(t.Expiration, 0).UTC(),
	}, nil
}

// classify maps Descope rejections onto the provider errors. A duplicate
// login id is ErrEmailTaken, rate limiting stays a provider failure and any
// other API rejection is ErrInvalidCredentials.
func (p *DescopeProvider) classify(op string, err error) error {
	switch {
	case descope.IsError(err, descope.ErrUserAlreadyExists.Code):
		return ErrEmailTaken
	case descope.IsError(err, descope.ErrRateLimitExceeded.Code):
		p.logger.Warn().Err(err).Str("op", op).Msg("Descope rate limit hit")
		return fmt.Errorf("descope %s: %w", op, err)
	case descope.IsError(err):
		p.logger.Debug().Err(err).Str("op", op).Msg("Descope rejected credentials")
		return ErrInvalidCredentials
	}
	return fmt.Errorf("descope %s: %w", op, err)
}

func sessionFromInfo(info *descope.AuthenticationInfo, email string) (Session, error) {
	if info == nil || info.SessionToken == nil {
		return Session{}, errors.New("descope returned no session token")
	}
	s := Session{
		Token:     info.SessionToken.JWT,
		UserID:    info.SessionToken.ID,
		Email:     email,
		ExpiresAt: time.Unix(info.SessionToken.Expiration, 0).UTC(),
	}
	if info.User != nil && info.User.Email != "" {
		s.Email = info.User.Email
	}
	return s, nil
}
