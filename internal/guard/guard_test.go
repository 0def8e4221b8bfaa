package guard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blogfront/internal/guard"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/session"
	"github.com/mcoot/blogfront/internal/testutil"
	"github.com/mcoot/blogfront/internal/tokenstore"
)

var (
	viewer = model.Identity{ID: 1, Username: "viewer"}
	editor = model.Identity{ID: 2, Username: "editor", RoleName: "editor"}
	admin  = model.Identity{ID: 3, Username: "admin", IsAdmin: true}
)

type DecideSuite struct {
	suite.Suite
}

func TestDecideSuite(t *testing.T) {
	suite.Run(t, new(DecideSuite))
}

func (s *DecideSuite) TestUnresolvedIsLoading() {
	d := guard.Decide(session.Unresolved{}, guard.RequireAdmin())
	s.Equal(guard.Loading, d.Kind)
	s.Empty(d.Location)
}

func (s *DecideSuite) TestAnonymousRedirectsToLogin() {
	d := guard.Decide(session.Anonymous{}, guard.Options{})
	s.Equal(guard.Redirect, d.Kind)
	s.Equal("/login", d.Location)
}

func (s *DecideSuite) TestAnonymousRedirectsToConfiguredPath() {
	d := guard.Decide(session.Anonymous{}, guard.Options{LoginPath: "/signin"})
	s.Equal("/signin", d.Location)
}

func (s *DecideSuite) TestAuthenticatedRenders() {
	d := guard.Decide(session.Authenticated{User: viewer}, guard.Options{})
	s.Equal(guard.Render, d.Kind)
	s.Equal(viewer, d.User)
}

func (s *DecideSuite) TestNonAdminForbiddenWhenAdminRequired() {
	d := guard.Decide(session.Authenticated{User: viewer}, guard.RequireAdmin())
	s.Equal(guard.Forbidden, d.Kind)
	s.Equal("/403", d.Location)
	s.NotEqual(guard.Render, d.Kind)
}

func (s *DecideSuite) TestAdminRendersWhenAdminRequired() {
	d := guard.Decide(session.Authenticated{User: admin}, guard.RequireAdmin())
	s.Equal(guard.Render, d.Kind)
}

func (s *DecideSuite) TestRoleHierarchy() {
	opts := guard.RequireRole(model.RoleEditor)
	s.Equal(guard.Forbidden, guard.Decide(session.Authenticated{User: viewer}, opts).Kind)
	s.Equal(guard.Render, guard.Decide(session.Authenticated{User: editor}, opts).Kind)
	s.Equal(guard.Render, guard.Decide(session.Authenticated{User: admin}, opts).Kind)
}

func (s *DecideSuite) TestKindString() {
	s.Equal("forbidden", guard.Forbidden.String())
	s.Equal("unknown", guard.Kind(42).String())
}

// staticBackend resolves every lookup to one identity
type staticBackend struct {
	user model.Identity
}

func (b staticBackend) Me(context.Context) (model.Identity, error) { return b.user, nil }

func (b staticBackend) Login(context.Context, string, string) (model.AuthGrant, error) {
	return model.AuthGrant{Token: "tok", User: b.user}, nil
}

func (b staticBackend) Register(context.Context, string, string, string) (model.AuthGrant, error) {
	return model.AuthGrant{Token: "tok", User: b.user}, nil
}

type WatchSuite struct {
	suite.Suite
	store   *tokenstore.Memory
	manager *session.Manager
	ctx     context.Context
	seen    []guard.Decision
}

func TestWatchSuite(t *testing.T) {
	suite.Run(t, new(WatchSuite))
}

func (s *WatchSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = tokenstore.NewMemory(nil)
	s.manager = session.NewManager(s.store, staticBackend{user: viewer}, nil, testutil.NopLogger())
	s.seen = nil
}

func (s *WatchSuite) record(d guard.Decision) {
	s.seen = append(s.seen, d)
}

func (s *WatchSuite) kinds() []guard.Kind {
	out := make([]guard.Kind, len(s.seen))
	for i, d := range s.seen {
		out[i] = d.Kind
	}
	return out
}

func (s *WatchSuite) TestEmitsCurrentDecisionImmediately() {
	stop := guard.Watch(s.manager, guard.Options{}, s.record)
	defer stop()

	s.Equal([]guard.Kind{guard.Loading}, s.kinds())
}

func (s *WatchSuite) TestLoadingThenRender() {
	s.Require().NoError(s.store.Set(s.ctx, "tok", time.Hour))
	stop := guard.Watch(s.manager, guard.Options{}, s.record)
	defer stop()

	s.manager.Initialize(s.ctx)

	s.Equal([]guard.Kind{guard.Loading, guard.Render}, s.kinds())
}

func (s *WatchSuite) TestBackgroundUnauthorizedRedirects() {
	s.Require().NoError(s.store.Set(s.ctx, "tok", time.Hour))
	s.manager.Initialize(s.ctx)

	stop := guard.Watch(s.manager, guard.Options{}, s.record)
	defer stop()
	s.manager.HandleUnauthorized(s.ctx)

	s.Equal([]guard.Kind{guard.Render, guard.Redirect}, s.kinds())
	s.Equal("/login", s.seen[1].Location)
}

func (s *WatchSuite) TestUnchangedDecisionNotRepeated() {
	s.manager.Initialize(s.ctx)
	stop := guard.Watch(s.manager, guard.RequireAdmin(), s.record)
	defer stop()

	// Anonymous -> Authenticated(viewer) -> Anonymous: redirect, forbidden, redirect
	_, err := s.manager.Login(s.ctx, "v@x.y", "pw")
	s.Require().NoError(err)
	_, err = s.manager.Login(s.ctx, "v@x.y", "pw")
	s.Require().NoError(err)
	s.manager.Logout(s.ctx)

	s.Equal([]guard.Kind{guard.Redirect, guard.Forbidden, guard.Redirect}, s.kinds())
}

func (s *WatchSuite) TestStopEndsUpdates() {
	stop := guard.Watch(s.manager, guard.Options{}, s.record)
	stop()
	stop()

	s.manager.Initialize(s.ctx)
	s.Equal([]guard.Kind{guard.Loading}, s.kinds())
}

// racingSource delivers a change before Observe returns the older state
type racingSource struct {
	current session.State
	change  session.State
}

func (r racingSource) Observe(fn func(session.State)) (session.State, func()) {
	fn(r.change)
	return r.current, func() {}
}

func (s *WatchSuite) TestChangeDuringSubscribeIsNotOverwritten() {
	src := racingSource{current: session.Unresolved{}, change: session.Authenticated{User: viewer}}

	stop := guard.Watch(src, guard.Options{}, s.record)
	defer stop()

	s.Equal([]guard.Kind{guard.Render}, s.kinds())
}

func (s *WatchSuite) TestConcurrentTransitionsEndOnLatest() {
	s.manager.Initialize(s.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 50 {
			_, _ = s.manager.Login(s.ctx, "v@x.y", "pw")
			s.manager.Logout(s.ctx)
		}
		_, _ = s.manager.Login(s.ctx, "v@x.y", "pw")
	}()

	var (
		mu   sync.Mutex
		last guard.Decision
	)
	stop := guard.Watch(s.manager, guard.Options{}, func(d guard.Decision) {
		mu.Lock()
		last = d
		mu.Unlock()
	})
	defer stop()
	<-done

	mu.Lock()
	defer mu.Unlock()
	s.Equal(guard.Render, last.Kind)
}
