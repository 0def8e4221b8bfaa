package tokenstore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blogfront/internal/dependencies/mocks"
	"github.com/mcoot/blogfront/internal/tokenstore"
	"github.com/mcoot/blogfront/internal/tokenstore/storetest"
)

// browser replays cookies across requests so each store call sees the last response
type browser struct {
	cfg tokenstore.CookieConfig
	rnd *mocks.MockRandom
	jar map[string]*http.Cookie
}

func newBrowser(cfg tokenstore.CookieConfig) *browser {
	return &browser{cfg: cfg, rnd: mocks.NewMockRandom(), jar: map[string]*http.Cookie{}}
}

func (b *browser) do(fn func(st *tokenstore.Cookie)) *http.Response {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range b.jar {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec := httptest.NewRecorder()
	fn(tokenstore.NewCookie(rec, req, b.cfg, b.rnd))

	resp := rec.Result()
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 {
			delete(b.jar, c.Name)
		} else {
			b.jar[c.Name] = c
		}
	}
	return resp
}

func (b *browser) Set(ctx context.Context, token string, ttl time.Duration) error {
	var err error
	b.do(func(st *tokenstore.Cookie) { err = st.Set(ctx, token, ttl) })
	return err
}

func (b *browser) Get(ctx context.Context) (string, bool) {
	var (
		token string
		ok    bool
	)
	b.do(func(st *tokenstore.Cookie) { token, ok = st.Get(ctx) })
	return token, ok
}

func (b *browser) Clear(ctx context.Context) error {
	var err error
	b.do(func(st *tokenstore.Cookie) { err = st.Clear(ctx) })
	return err
}

type CookieSuite struct {
	storetest.ContractSuite
}

func TestCookieSuite(t *testing.T) {
	s := new(CookieSuite)
	s.NewStore = func() tokenstore.Store {
		return newBrowser(tokenstore.DefaultCookieConfig())
	}
	suite.Run(t, s)
}

func TestSealedCookieSuite(t *testing.T) {
	s := new(CookieSuite)
	s.NewStore = func() tokenstore.Store {
		cfg := tokenstore.DefaultCookieConfig()
		cfg.Key = tokenstore.DeriveKey("test-secret")
		return newBrowser(cfg)
	}
	suite.Run(t, s)
}

type CookieBehaviorSuite struct {
	suite.Suite
	ctx context.Context
}

func TestCookieBehaviorSuite(t *testing.T) {
	suite.Run(t, new(CookieBehaviorSuite))
}

func (s *CookieBehaviorSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *CookieBehaviorSuite) TestCookieAttributes() {
	b := newBrowser(tokenstore.DefaultCookieConfig())
	resp := b.do(func(st *tokenstore.Cookie) {
		s.Require().NoError(st.Set(s.ctx, "tok-1", time.Hour))
	})

	cookies := resp.Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("token", cookies[0].Name)
	s.Equal("tok-1", cookies[0].Value)
	s.Equal(3600, cookies[0].MaxAge)
	s.True(cookies[0].HttpOnly)
	s.Equal(http.SameSiteLaxMode, cookies[0].SameSite)
}

func (s *CookieBehaviorSuite) TestExpiresFollowsClock() {
	cfg := tokenstore.DefaultCookieConfig()
	now := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	cfg.Clock = mocks.NewMockClock(now)
	b := newBrowser(cfg)

	resp := b.do(func(st *tokenstore.Cookie) {
		s.Require().NoError(st.Set(s.ctx, "tok-1", time.Hour))
	})

	cookies := resp.Cookies()
	s.Require().Len(cookies, 1)
	s.True(now.Add(time.Hour).Equal(cookies[0].Expires), "got %v", cookies[0].Expires)
}

func (s *CookieBehaviorSuite) TestWritesVisibleWithinRequest() {
	b := newBrowser(tokenstore.DefaultCookieConfig())
	s.Require().NoError(b.Set(s.ctx, "old", time.Hour))

	b.do(func(st *tokenstore.Cookie) {
		token, ok := st.Get(s.ctx)
		s.True(ok)
		s.Equal("old", token)

		s.Require().NoError(st.Clear(s.ctx))
		_, ok = st.Get(s.ctx)
		s.False(ok)

		s.Require().NoError(st.Set(s.ctx, "new", time.Hour))
		token, ok = st.Get(s.ctx)
		s.True(ok)
		s.Equal("new", token)
	})
}

func (s *CookieBehaviorSuite) TestSealedValueHidesToken() {
	cfg := tokenstore.DefaultCookieConfig()
	cfg.Key = tokenstore.DeriveKey("test-secret")
	b := newBrowser(cfg)

	s.Require().NoError(b.Set(s.ctx, "secret-token", time.Hour))
	s.Require().Contains(b.jar, "token")
	s.NotContains(b.jar["token"].Value, "secret-token")
}

func (s *CookieBehaviorSuite) TestTamperedSealedCookieIsAbsent() {
	cfg := tokenstore.DefaultCookieConfig()
	cfg.Key = tokenstore.DeriveKey("test-secret")
	b := newBrowser(cfg)

	s.Require().NoError(b.Set(s.ctx, "secret-token", time.Hour))
	b.jar["token"].Value = "AAAA" + b.jar["token"].Value[4:]

	_, ok := b.Get(s.ctx)
	s.False(ok)
}

func (s *CookieBehaviorSuite) TestCookieFromOtherKeyIsAbsent() {
	cfg := tokenstore.DefaultCookieConfig()
	cfg.Key = tokenstore.DeriveKey("first")
	b := newBrowser(cfg)
	s.Require().NoError(b.Set(s.ctx, "secret-token", time.Hour))

	b.cfg.Key = tokenstore.DeriveKey("second")
	_, ok := b.Get(s.ctx)
	s.False(ok)
}

func (s *CookieBehaviorSuite) TestDeriveKeyEmptySecret() {
	s.Nil(tokenstore.DeriveKey(""))
	s.Equal(tokenstore.DeriveKey("a"), tokenstore.DeriveKey("a"))
	s.NotEqual(tokenstore.DeriveKey("a"), tokenstore.DeriveKey("b"))
}
