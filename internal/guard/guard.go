// Package guard decides whether a protected view may be shown.
package guard

import (
	"sync"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/session"
)

// Kind is what the caller should do with a protected view
type Kind int

const (
	// Loading shows a neutral placeholder; the session is not resolved yet
	Loading Kind = iota
	// Redirect sends an anonymous visitor to the login view
	Redirect
	// Forbidden sends a signed-in user lacking the role to the forbidden view
	Forbidden
	// Render shows the view
	Render
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Forbidden:
		return "forbidden"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is the outcome for one state. Location is set for Redirect and Forbidden.
type Decision struct {
	Kind     Kind
	Location string
	User     model.Identity
}

// Options configure a guard. The zero value admits any signed-in user.
type Options struct {
	// RequireRole is the minimum role; empty means any authenticated user
	RequireRole model.Role

	LoginPath     string
	ForbiddenPath string
}

// Default destinations
const (
	DefaultLoginPath     = "/login"
	DefaultForbiddenPath = "/403"
)

// RequireAdmin admits administrators only
func RequireAdmin() Options {
	return Options{RequireRole: model.RoleAdmin}
}

// RequireRole admits users holding at least role
func RequireRole(role model.Role) Options {
	return Options{RequireRole: role}
}

func (o Options) withDefaults() Options {
	if o.LoginPath == "" {
		o.LoginPath = DefaultLoginPath
	}
	if o.ForbiddenPath == "" {
		o.ForbiddenPath = DefaultForbiddenPath
	}
	return o
}

// Decide maps a session state to a guard decision
func Decide(st session.State, opts Options) Decision {
	opts = opts.withDefaults()

	switch st := st.(type) {
	case session.Authenticated:
		if opts.RequireRole != "" && !st.User.Role().AtLeast(opts.RequireRole) {
			return Decision{Kind: Forbidden, Location: opts.ForbiddenPath, User: st.User}
		}
		return Decision{Kind: Render, User: st.User}
	case session.Anonymous:
		return Decision{Kind: Redirect, Location: opts.LoginPath}
	default:
		return Decision{Kind: Loading}
	}
}

// Source publishes session state
type Source interface {
	Observe(fn func(session.State)) (current session.State, unsubscribe func())
}

// Watch calls fn with the current decision and again whenever it changes,
// until stop is called. Decisions arrive in commit order.
func Watch(src Source, opts Options, fn func(Decision)) (stop func()) {
	var (
		mu       sync.Mutex
		last     Decision
		emitted  bool
		notified bool
		stopped  bool
	)

	// deliver runs with mu held
	deliver := func(d Decision) {
		if stopped || (emitted && d == last) {
			return
		}
		last, emitted = d, true
		fn(d)
	}

	current, unsubscribe := src.Observe(func(st session.State) {
		d := Decide(st, opts)
		mu.Lock()
		defer mu.Unlock()
		notified = true
		deliver(d)
	})

	// A change that beat us here is newer than current
	mu.Lock()
	if !notified {
		deliver(Decide(current, opts))
	}
	mu.Unlock()

	return func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		unsubscribe()
	}
}
