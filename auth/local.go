package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type LocalOptions struct {
	Secret      []byte
	TTL         time.Duration
	AllowSignup bool
}

// LocalProvider keeps users and sessions in the site database. Tokens are
// HS256 JWTs whose jti is the session row id, so deleting the row revokes
// the token before it expires.
type LocalProvider struct {
	users       *database.UserRepo
	sessions    *database.SessionRepo
	secret      []byte
	ttl         time.Duration
	allowSignup bool
	now         func() time.Time
	compare     func(hash, password []byte) error
	logger      zerolog.Logger
}

// dummyHash stands in for the stored hash when the email is unknown, so
// sign in costs one bcrypt comparison either way.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("no-such-account"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
})

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewLocalProvider(db database.Database, opts LocalOptions) *LocalProvider {
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &LocalProvider{
		users:       db.UserRepo(),
		sessions:    db.SessionRepo(),
		secret:      opts.Secret,
		ttl:         opts.TTL,
		allowSignup: opts.AllowSignup,
		now:         func() time.Time { return time.Now().UTC() },
		compare:     bcrypt.CompareHashAndPassword,
		logger:      log.With().Str("component", "localAuth").Logger(),
	}
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		_ = p.compare(dummyHash(), []byte(password))
		return Session{}, ErrInvalidCredentials
	}
	if err := p.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return p.issue(ctx, user)
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (Session, error) {
	if !p.allowSignup {
		return Session{}, ErrSignupDisabled
	}
	user, err := p.createUser(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	return p.issue(ctx, user)
}

// EnsureUser creates the account if no user has this email yet.
func (p *LocalProvider) EnsureUser(ctx context.Context, email, password string) error {
	existing, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil
	}
	if _, err := p.createUser(ctx, email, password); err != nil {
		return err
	}
	p.logger.Info().Str("email", database.NormalizeEmail(email)).Msg("Created admin user")
	return nil
}

func (p *LocalProvider) createUser(ctx context.Context, email, password string) (*models.User, error) {
	if database.NormalizeEmail(email) == "" {
		return nil, ErrInvalidCredentials
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	existing, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := p.users.Add(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (p *LocalProvider) issue(ctx context.Context, user *models.User) (Session, error) {
	now := p.now()
	row := &models.Session{UserID: user.ID, ExpiresAt: now.Add(p.ttl)}
	if err := p.sessions.Add(ctx, row); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        row.ID.String(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(row.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}

	return Session{
		Token:     token,
		UserID:    user.ID.String(),
		Email:     user.Email,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (p *LocalProvider) parse(token string, opts ...jwt.ParserOption) (*sessionClaims, uuid.UUID, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, opts...)
	if err != nil {
		return nil, uuid.Nil, err
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("session id: %w", err)
	}
	return claims, id, nil
}

func (p *LocalProvider) Validate(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidSession
	}
	claims, id, err := p.parse(token)
	if err != nil {
		return Session{}, ErrInvalidSession
	}

	row, err := p.sessions.FindValid(ctx, id, p.now())
	if err != nil {
		return Session{}, fmt.Errorf("find session: %w", err)
	}
	if row == nil {
		return Session{}, ErrInvalidSession
	}

	return Session{
		Token:     token,
		UserID:    row.UserID.String(),
		Email:     claims.Email,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	// Expired tokens still name a row worth deleting.
	_, id, err := p.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := p.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired session rows.
func (p *LocalProvider) PurgeExpired(ctx context.Context) (int64, error) {
	return p.sessions.DeleteExpired(ctx, p.now())
}
