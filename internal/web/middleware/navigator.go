package middleware

import (
	"context"
	"net/http"
	"sync"
)

// Navigator records where the session wants the browser to go next.
// The last navigation in a request wins.
type Navigator struct {
	mu       sync.Mutex
	location string
}

// Navigate records path as the pending destination
func (n *Navigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.location = path
}

// Pending returns the recorded destination, if any
func (n *Navigator) Pending() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location, n.location != ""
}

// PendingRedirect returns the request session's recorded destination, if any
func PendingRedirect(ctx context.Context) (string, bool) {
	s := GetSession(ctx)
	if s == nil {
		return "", false
	}
	return s.Navigator.Pending()
}

// Redirect sends the browser to location, using HX-Redirect for htmx requests
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
