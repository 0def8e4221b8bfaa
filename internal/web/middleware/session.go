package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/blogfront/internal/apiclient"
	basemw "github.com/mcoot/blogfront/internal/middleware"
	"github.com/mcoot/blogfront/internal/session"
	"github.com/mcoot/blogfront/internal/tokenstore"
)

// StoreFunc returns the credential store for one request
type StoreFunc func(w http.ResponseWriter, r *http.Request) tokenstore.Store

// SessionConfig holds what the Session middleware needs to build a session
type SessionConfig struct {
	// Client is the unauthenticated base client; each request derives its own
	Client  *apiclient.Client
	Store   StoreFunc
	Logger  *slog.Logger
	Options []session.Option
}

// Session gives every request its own resolved session.
// The browser's credential is looked up once, before the handler runs.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := apiclient.ContextWithRequestID(r.Context(), basemw.GetRequestID(r.Context()))

			nav := &Navigator{}
			store := cfg.Store(w, r)
			manager, client := session.Bind(cfg.Client, store, nav, cfg.Logger, cfg.Options...)
			manager.Initialize(ctx)

			ctx = WithSession(ctx, &RequestSession{
				Manager:   manager,
				Client:    client,
				Navigator: nav,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
