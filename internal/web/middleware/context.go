package middleware

import (
	"context"

	"github.com/mcoot/blogfront/internal/apiclient"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// RequestSession is the session bound to one browser request
type RequestSession struct {
	Manager   *session.Manager
	Client    *apiclient.Client
	Navigator *Navigator
}

// GetSession returns the request's session, or nil outside the Session middleware
func GetSession(ctx context.Context) *RequestSession {
	s, _ := ctx.Value(sessionContextKey).(*RequestSession)
	return s
}

// GetUser returns the signed-in identity, or nil when anonymous
func GetUser(ctx context.Context) *model.Identity {
	s := GetSession(ctx)
	if s == nil {
		return nil
	}
	id, ok := s.Manager.State().Identity()
	if !ok {
		return nil
	}
	return &id
}

// GetClient returns the request's authenticated backend client
func GetClient(ctx context.Context) *apiclient.Client {
	if s := GetSession(ctx); s != nil {
		return s.Client
	}
	return nil
}

// WithSession places s into ctx
func WithSession(ctx context.Context, s *RequestSession) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}
