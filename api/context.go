package api

import (
	"context"

	"github.com/getwebfast/site-backend/auth"
)

type keyType string

const sessionKey keyType = "session"

// ctxWithSession adds the authenticated session to the context
func ctxWithSession(ctx context.Context, session auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// ctxGetSession retrieves the session set by the auth middleware
func ctxGetSession(ctx context.Context) (auth.Session, bool) {
	session, ok := ctx.Value(sessionKey).(auth.Session)
	return session, ok
}
