package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blogfront/internal/apiclient"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/testutil/fakeapi"
	"github.com/mcoot/blogfront/internal/tokenstore"
)

type ClientSuite struct {
	suite.Suite
	api          *fakeapi.Server
	store        *tokenstore.Memory
	client       *apiclient.Client
	unauthorized atomic.Int32
	rejected     atomic.Value
	ctx          context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.api = fakeapi.New(s.T())
	s.api.Seed()
	s.api.AddUser("alice@example.com", "alice", "password123", model.RoleViewer)

	s.store = tokenstore.NewMemory(nil)
	s.unauthorized.Store(0)
	s.rejected = atomic.Value{}
	s.client = apiclient.New(s.api.URL).With(
		apiclient.WithRequestInterceptors(apiclient.Bearer(s.store)),
		apiclient.WithResponseInterceptors(apiclient.OnUnauthorized(func(_ context.Context, token string) {
			s.unauthorized.Add(1)
			s.rejected.Store(token)
		})),
	)
	s.ctx = context.Background()
}

func (s *ClientSuite) signIn() string {
	token := s.api.TokenFor("alice@example.com")
	s.Require().NoError(s.store.Set(s.ctx, token, time.Hour))
	return token
}

// Credential attachment

func (s *ClientSuite) TestBearerAttachedWhenTokenPresent() {
	token := s.signIn()

	_, err := s.client.ListCategories(s.ctx)
	s.Require().NoError(err)

	calls := s.api.CallsTo("/api/categories")
	s.Require().Len(calls, 1)
	s.Equal("Bearer "+token, calls[0].Authorization)
}

func (s *ClientSuite) TestNoAuthorizationWithoutToken() {
	_, err := s.client.ListCategories(s.ctx)
	s.Require().NoError(err)

	calls := s.api.CallsTo("/api/categories")
	s.Require().Len(calls, 1)
	s.Empty(calls[0].Authorization)
}

func (s *ClientSuite) TestAuthEndpointsSkipStoredToken() {
	s.signIn()

	_, err := s.client.Login(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	calls := s.api.CallsTo("/api/auth/login")
	s.Require().Len(calls, 1)
	s.Empty(calls[0].Authorization)
}

func (s *ClientSuite) TestTokenReadAtSendTime() {
	s.signIn()
	s.Require().NoError(s.store.Clear(s.ctx))

	_, err := s.client.ListTags(s.ctx)
	s.Require().NoError(err)
	s.Empty(s.api.CallsTo("/api/tags")[0].Authorization)
}

// Unauthorized handling

func (s *ClientSuite) TestUnauthorizedHandlerFiresOnceForCredentialed401() {
	token := s.signIn()
	s.api.Revoke(token)

	_, err := s.client.Me(s.ctx)
	s.Require().Error(err)
	s.Equal(http.StatusUnauthorized, apiclient.StatusOf(err))
	s.True(errors.Is(err, model.ErrUnauthorized))
	s.Equal(int32(1), s.unauthorized.Load())
	s.Equal(token, s.rejected.Load())
}

func (s *ClientSuite) TestUnauthorizedHandlerFiresForAnyCallSite() {
	s.signIn()
	s.api.FailNext(http.MethodGet, "/api/tags", http.StatusUnauthorized, "expired")

	_, err := s.client.ListTags(s.ctx)
	s.Require().Error(err)
	s.Equal(int32(1), s.unauthorized.Load())
}

func (s *ClientSuite) TestFailedLoginDoesNotFireHandler() {
	_, err := s.client.Login(s.ctx, "alice@example.com", "wrong")
	s.Require().Error(err)

	var apiErr *apiclient.APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusUnauthorized, apiErr.Status)
	s.Equal("Invalid email or password", apiErr.Message)
	s.Equal(int32(0), s.unauthorized.Load())
}

func (s *ClientSuite) TestFailedLoginWithStoredTokenDoesNotFireHandler() {
	s.signIn()

	_, err := s.client.Login(s.ctx, "alice@example.com", "wrong")
	s.Require().Error(err)
	s.Equal(int32(0), s.unauthorized.Load())
}

func (s *ClientSuite) TestForbiddenDoesNotFireHandler() {
	s.signIn()

	_, err := s.client.Stats(s.ctx)
	s.Require().Error(err)
	s.True(errors.Is(err, model.ErrForbidden))
	s.Equal(int32(0), s.unauthorized.Load())
}

func (s *ClientSuite) TestTransportErrorDoesNotFireHandler() {
	s.signIn()
	s.api.Close()

	_, err := s.client.Me(s.ctx)
	var transportErr *apiclient.TransportError
	s.Require().ErrorAs(err, &transportErr)
	s.Equal(0, apiclient.StatusOf(err))
	s.Equal(int32(0), s.unauthorized.Load())
}

// Binding

func (s *ClientSuite) TestWithDoesNotChangeParent() {
	var parentCalls, childCalls atomic.Int32
	parent := apiclient.New(s.api.URL, apiclient.WithRequestInterceptors(func(*http.Request) error {
		parentCalls.Add(1)
		return nil
	}))
	child := parent.With(apiclient.WithRequestInterceptors(func(*http.Request) error {
		childCalls.Add(1)
		return nil
	}))

	_, err := parent.ListTags(s.ctx)
	s.Require().NoError(err)
	_, err = child.ListTags(s.ctx)
	s.Require().NoError(err)

	s.Equal(int32(2), parentCalls.Load())
	s.Equal(int32(1), childCalls.Load())
}

func (s *ClientSuite) TestRequestInterceptorErrorAbortsCall() {
	boom := errors.New("boom")
	c := s.client.With(apiclient.WithRequestInterceptors(func(*http.Request) error { return boom }))

	_, err := c.ListTags(s.ctx)
	s.ErrorIs(err, boom)
	s.Empty(s.api.CallsTo("/api/tags"))
}

func (s *ClientSuite) TestRequestIDForwardedFromContext() {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(apiclient.RequestIDHeader)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, apiclient.WithRequestInterceptors(apiclient.RequestID()))
	_, err := c.ListTags(apiclient.ContextWithRequestID(s.ctx, "req-42"))
	s.Require().NoError(err)
	s.Equal("req-42", seen)

	_, err = c.ListTags(s.ctx)
	s.Require().NoError(err)
	s.Len(seen, 36)
}

func (s *ClientSuite) TestMetricsObserveRequests() {
	reg := prometheus.NewRegistry()
	c := apiclient.New(s.api.URL, apiclient.WithMetrics(apiclient.NewMetrics(reg)))

	_, err := c.ListTags(s.ctx)
	s.Require().NoError(err)

	count, err := promtest.GatherAndCount(reg, "blogfront_backend_request_duration_seconds")
	s.Require().NoError(err)
	s.Equal(1, count)
}
