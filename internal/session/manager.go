// Package session owns the sign-in lifecycle of one browsing context.
//
// A Manager starts Unresolved, is resolved once by Initialize, and afterwards
// changes only through Login, Register, Logout and HandleUnauthorized. The
// stored credential and the published state are always updated together.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/tokenstore"
)

// Backend is the remote half of authentication
type Backend interface {
	Me(ctx context.Context) (model.Identity, error)
	Login(ctx context.Context, email, password string) (model.AuthGrant, error)
	Register(ctx context.Context, email, username, password string) (model.AuthGrant, error)
}

var errEmptyGrant = errors.New("auth response did not include a user")

// Option configures a Manager
type Option func(*Manager)

// WithRoutes overrides the navigation targets
func WithRoutes(r Routes) Option {
	return func(m *Manager) {
		m.routes = r
	}
}

// WithTokenTTL overrides how long a new credential is kept
func WithTokenTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithMetrics records transitions
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// Manager is the session of one browsing context. It is safe for concurrent use.
type Manager struct {
	store   tokenstore.Store
	backend Backend
	nav     Navigator
	logger  *slog.Logger
	metrics *Metrics
	routes  Routes
	ttl     time.Duration

	initOnce sync.Once

	mu    sync.Mutex
	state State
	// epoch advances on every sign-out; in-flight logins from an older epoch are dropped
	epoch uint64
	subs  map[uint64]func(State)
	subID uint64

	// notifyMu keeps subscriber delivery in commit order
	notifyMu sync.Mutex
}

// NewManager creates an Unresolved session
func NewManager(store tokenstore.Store, backend Backend, nav Navigator, logger *slog.Logger, opts ...Option) *Manager {
	if nav == nil {
		nav = NavigatorFunc(func(context.Context, string) {})
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Manager{
		store:   store,
		backend: backend,
		nav:     nav,
		logger:  logger,
		routes:  DefaultRoutes(),
		ttl:     tokenstore.DefaultTTL,
		state:   Unresolved{},
		subs:    make(map[uint64]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe calls fn after every state change until the returned func is called.
// fn runs synchronously and must not call Login, Register, Logout or HandleUnauthorized.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	_, unsubscribe = m.Observe(fn)
	return unsubscribe
}

// Observe is Subscribe that also returns the state at the moment of
// subscribing. Every later call to fn carries a state committed after current.
func (m *Manager) Observe(fn func(State)) (current State, unsubscribe func()) {
	m.mu.Lock()
	current = m.state
	id := m.subID
	m.subID++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return current, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// commit publishes next and notifies subscribers. Caller holds m.mu; commit releases it.
func (m *Manager) commit(next State, cause string) {
	m.state = next
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	m.metrics.transition(next, cause)
	m.logger.Debug("session state changed",
		slog.String("state", next.String()),
		slog.String("cause", cause))

	for _, fn := range subs {
		fn(next)
	}
}

// Initialize resolves the session from the stored credential. Only the first
// call does any work; later calls return the current state.
// It never navigates and never fails: any lookup failure signs the user out.
func (m *Manager) Initialize(ctx context.Context) State {
	m.initOnce.Do(func() {
		m.resolve(ctx)
	})
	return m.State()
}

func (m *Manager) resolve(ctx context.Context) {
	m.mu.Lock()
	epoch := m.epoch
	m.mu.Unlock()

	if _, ok := m.store.Get(ctx); !ok {
		m.settle(ctx, epoch, Anonymous{}, false)
		return
	}

	id, err := m.backend.Me(ctx)
	if err != nil {
		m.logger.Info("identity lookup failed, continuing anonymously",
			slog.String("error", err.Error()))
		m.settle(ctx, epoch, Anonymous{}, true)
		return
	}
	m.settle(ctx, epoch, Authenticated{User: id}, false)
}

// settle applies the result of Initialize unless something else resolved the session first
func (m *Manager) settle(ctx context.Context, epoch uint64, next State, clearStore bool) {
	m.mu.Lock()
	if _, unresolved := m.state.(Unresolved); !unresolved || m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	if clearStore {
		// the lookup may have failed because ctx ended; the credential goes regardless
		if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
			m.logger.Warn("failed to clear credential", slog.String("error", err.Error()))
		}
	}
	m.commit(next, "initialize")
}

// Login signs in with email and password and navigates to the landing view.
// On failure nothing changes and the error is an *ActionError.
func (m *Manager) Login(ctx context.Context, email, password string) (model.Identity, error) {
	m.mu.Lock()
	epoch := m.epoch
	m.mu.Unlock()

	grant, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return model.Identity{}, newActionError("login", LoginFailedMessage, err)
	}
	return m.signIn(ctx, epoch, grant, "login", LoginFailedMessage, m.routes.Landing)
}

// Register creates an account, signs in, and navigates to the welcome view.
// On failure nothing changes and the error is an *ActionError.
func (m *Manager) Register(ctx context.Context, email, username, password string) (model.Identity, error) {
	m.mu.Lock()
	epoch := m.epoch
	m.mu.Unlock()

	grant, err := m.backend.Register(ctx, email, username, password)
	if err != nil {
		return model.Identity{}, newActionError("register", RegisterFailedMessage, err)
	}
	return m.signIn(ctx, epoch, grant, "register", RegisterFailedMessage, m.routes.Welcome)
}

func (m *Manager) signIn(ctx context.Context, epoch uint64, grant model.AuthGrant, op, fallback, dest string) (model.Identity, error) {
	if grant.Token == "" || (grant.User.ID == 0 && grant.User.Email == "") {
		return model.Identity{}, newActionError(op, fallback, errEmptyGrant)
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.metrics.supersede()
		m.logger.Info("discarding sign-in superseded by sign-out", slog.String("op", op))
		return model.Identity{}, ErrSuperseded
	}
	if err := m.store.Set(ctx, grant.Token, m.ttl); err != nil {
		m.mu.Unlock()
		m.logger.Error("failed to store credential", slog.String("error", err.Error()))
		return model.Identity{}, newActionError(op, fallback, err)
	}
	m.commit(Authenticated{User: grant.User}, op)

	m.nav.Navigate(ctx, dest)
	return grant.User, nil
}

// Logout forgets the credential and navigates to the public view.
// It makes no network call.
func (m *Manager) Logout(ctx context.Context) {
	m.signOut(ctx, "logout")
	m.nav.Navigate(ctx, m.routes.Public)
}

// HandleUnauthorized reacts to the backend rejecting the credential mid-session.
// It is ignored until Initialize has resolved.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	m.unauthorized(ctx, "")
}

// HandleRejected is HandleUnauthorized for a 401 answered to a request that
// carried token. It is ignored once the store holds a different credential.
func (m *Manager) HandleRejected(ctx context.Context, token string) {
	m.unauthorized(ctx, token)
}

func (m *Manager) unauthorized(ctx context.Context, token string) {
	m.mu.Lock()
	if _, unresolved := m.state.(Unresolved); unresolved {
		m.mu.Unlock()
		return
	}
	if token != "" {
		if current, ok := m.store.Get(ctx); ok && current != token {
			m.mu.Unlock()
			m.logger.Debug("ignoring 401 for a replaced credential")
			return
		}
	}
	m.clearAndCommit(ctx, "unauthorized")
	m.nav.Navigate(ctx, m.routes.Login)
}

func (m *Manager) signOut(ctx context.Context, cause string) {
	m.mu.Lock()
	m.clearAndCommit(ctx, cause)
}

// clearAndCommit ends the session. Caller holds m.mu; it is released.
func (m *Manager) clearAndCommit(ctx context.Context, cause string) {
	m.epoch++
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear credential", slog.String("error", err.Error()))
	}
	m.commit(Anonymous{}, cause)
}
