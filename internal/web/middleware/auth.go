package middleware

import (
	"net/http"
	"net/url"

	"github.com/mcoot/blogfront/internal/guard"
	"github.com/mcoot/blogfront/internal/session"
	"github.com/mcoot/blogfront/internal/web/templates/layout"
)

// Guard returns middleware that only lets a request through when the
// session satisfies opts. It must run inside Session.
//
// If the session is torn down while the handler runs, the guard records a
// navigation so the handler redirects instead of rendering.
func Guard(opts guard.Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if sess == nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			var (
				initial guard.Decision
				decided bool
			)
			stop := guard.Watch(sess.Manager, opts, func(d guard.Decision) {
				if !decided {
					initial, decided = d, true
					return
				}
				if d.Kind == guard.Redirect || d.Kind == guard.Forbidden {
					sess.Navigator.Navigate(r.Context(), d.Location)
				}
			})
			defer stop()

			switch initial.Kind {
			case guard.Render:
				next.ServeHTTP(w, r)
			case guard.Redirect:
				// Store original URL to redirect back after sign-in
				Redirect(w, r, initial.Location+"?next="+url.QueryEscape(r.URL.RequestURI()))
			case guard.Forbidden:
				Redirect(w, r, initial.Location)
			default:
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = layout.Loading().Render(r.Context(), w)
			}
		})
	}
}

// GuestOnly sends signed-in users to dest, for pages like login and register
func GuestOnly(dest string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := GetSession(r.Context()); sess != nil && session.IsAuthenticated(sess.Manager.State()) && r.Method == http.MethodGet {
				Redirect(w, r, dest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
