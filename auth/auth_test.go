package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/descope/go-sdk/descope"
	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/errs"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestLocalProvider(t *testing.T, allowSignup bool) *LocalProvider {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	d := database.New(db)
	require.NoError(t, d.Migrate())
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewLocalProvider(d, LocalOptions{
		Secret:      []byte("test-secret"),
		TTL:         time.Hour,
		AllowSignup: allowSignup,
	})
}

func TestLocalProviderSignInStates(t *testing.T) {
	ctx := context.Background()
	p := newTestLocalProvider(t, false)
	require.NoError(t, p.EnsureUser(ctx, "Owner@GetWebFast.com", "correct-horse"))
	require.NoError(t, p.EnsureUser(ctx, "owner@getwebfast.com", "ignored-second-time"))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"correct credentials", "owner@getwebfast.com", "correct-horse", nil},
		{"email is case insensitive", " OWNER@getwebfast.com ", "correct-horse", nil},
		{"wrong password", "owner@getwebfast.com", "wrong", ErrInvalidCredentials},
		{"unknown user", "nobody@getwebfast.com", "correct-horse", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := p.SignIn(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, s.Token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, s.Token)
			assert.Equal(t, "owner@getwebfast.com", s.Email)

			validated, err := p.Validate(ctx, s.Token)
			require.NoError(t, err)
			assert.Equal(t, s.UserID, validated.UserID)
		})
	}
}

func TestLocalProviderSignInHashesUnknownEmails(t *testing.T) {
	ctx := context.Background()
	p := newTestLocalProvider(t, false)
	require.NoError(t, p.EnsureUser(ctx, "owner@getwebfast.com", "correct-horse"))

	var hashes [][]byte
	p.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	_, err := p.SignIn(ctx, "owner@getwebfast.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "nobody@getwebfast.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, hashes, 2)
	known, err := bcrypt.Cost(hashes[0])
	require.NoError(t, err)
	unknown, err := bcrypt.Cost(hashes[1])
	require.NoError(t, err)
	assert.Equal(t, known, unknown)
}

func TestLocalProviderSignOutRevokesToken(t *testing.T) {
	ctx := context.Background()
	p := newTestLocalProvider(t, false)
	require.NoError(t, p.EnsureUser(ctx, "owner@getwebfast.com", "correct-horse"))

	s, err := p.SignIn(ctx, "owner@getwebfast.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, s.Token))
	_, err = p.Validate(ctx, s.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	assert.NoError(t, p.SignOut(ctx, s.Token), "second sign out is harmless")
	assert.NoError(t, p.SignOut(ctx, "garbage"))
	assert.NoError(t, p.SignOut(ctx, ""))
}

func TestLocalProviderRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	p := newTestLocalProvider(t, false)
	require.NoError(t, p.EnsureUser(ctx, "owner@getwebfast.com", "correct-horse"))
	s, err := p.SignIn(ctx, "owner@getwebfast.com", "correct-horse")
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        "00000000-0000-0000-0000-000000000000",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-jwt", forged} {
		_, err := p.Validate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	}

	p.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	_, err = p.Validate(ctx, s.Token)
	assert.ErrorIs(t, err, ErrInvalidSession, "expired")

	purged, err := p.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestLocalProviderSignUp(t *testing.T) {
	ctx := context.Background()

	closed := newTestLocalProvider(t, false)
	_, err := closed.SignUp(ctx, "new@getwebfast.com", "long-enough")
	assert.ErrorIs(t, err, ErrSignupDisabled)

	open := newTestLocalProvider(t, true)
	s, err := open.SignUp(ctx, "new@getwebfast.com", "long-enough")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)

	_, err = open.SignUp(ctx, "NEW@getwebfast.com", "long-enough")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = open.SignUp(ctx, "short@getwebfast.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

type fakeDescope struct {
	signInErr error
	token     *descope.Token
	valid     bool
}

func (f *fakeDescope) SignIn(_ context.Context, loginID, _ string, _ http.ResponseWriter) (*descope.AuthenticationInfo, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &descope.AuthenticationInfo{SessionToken: f.token}, nil
}

func (f *fakeDescope) SignUp(ctx context.Context, loginID string, _ *descope.User, password string, w http.ResponseWriter) (*descope.AuthenticationInfo, error) {
	return f.SignIn(ctx, loginID, password, w)
}

func (f *fakeDescope) ValidateSessionWithToken(_ context.Context, _ string) (bool, *descope.Token, error) {
	if !f.valid {
		return false, nil, errors.New("expired")
	}
	return true, f.token, nil
}

func TestDescopeProvider(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()
	fake := &fakeDescope{
		token: &descope.Token{JWT: "jwt", ID: "U123", Expiration: exp, Claims: map[string]any{"email": "owner@getwebfast.com"}},
		valid: true,
	}
	p := newDescopeProvider(fake, fake, false)

	s, err := p.SignIn(ctx, "owner@getwebfast.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", s.Token)
	assert.Equal(t, "U123", s.UserID)
	assert.Equal(t, exp, s.ExpiresAt.Unix())

	v, err := p.Validate(ctx, "jwt")
	require.NoError(t, err)
	assert.Equal(t, "owner@getwebfast.com", v.Email)

	fake.valid = false
	_, err = p.Validate(ctx, "jwt")
	assert.ErrorIs(t, err, ErrInvalidSession)

	fake.signInErr = &descope.Error{Code: "E062108", Description: "bad password"}
	_, err = p.SignIn(ctx, "owner@getwebfast.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	fake.signInErr = errors.New("dial tcp: timeout")
	_, err = p.SignIn(ctx, "owner@getwebfast.com", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	fake.signInErr = &descope.Error{Code: descope.ErrRateLimitExceeded.Code, Description: "too many requests"}
	_, err = p.SignIn(ctx, "owner@getwebfast.com", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignUp(ctx, "new@getwebfast.com", "long-enough")
	assert.ErrorIs(t, err, ErrSignupDisabled)

	withSignup := newDescopeProvider(fake, fake, true)
	fake.signInErr = &descope.Error{Code: descope.ErrUserAlreadyExists.Code, Description: "user already exists"}
	_, err = withSignup.SignUp(ctx, "owner@getwebfast.com", "long-enough")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestNewSelectsProvider(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	d := database.New(db)
	require.NoError(t, d.Migrate())

	_, err = New(ctx, map[string]string{}, d)
	assert.True(t, errs.IsEnvironmentVariableError(err), "local provider needs a secret")

	_, err = New(ctx, map[string]string{"JWT_SECRET": "s", "ADMIN_EMAIL": "owner@getwebfast.com", "ADMIN_PASSWORD": "short"}, d)
	assert.True(t, errs.IsConfigError(err), "admin password below the minimum")

	p, err := New(ctx, map[string]string{
		"JWT_SECRET":     "s",
		"ADMIN_EMAIL":    "owner@getwebfast.com",
		"ADMIN_PASSWORD": "correct-horse",
	}, d)
	require.NoError(t, err)
	_, err = p.SignIn(ctx, "owner@getwebfast.com", "correct-horse")
	assert.NoError(t, err)

	_, err = New(ctx, map[string]string{"AUTH_PROVIDER": "descope"}, d)
	assert.True(t, errs.IsEnvironmentVariableError(err), "descope needs a project id")

	_, err = New(ctx, map[string]string{"AUTH_PROVIDER": "ldap"}, d)
	assert.True(t, errs.IsConfigError(err))
}
