package web_test

import (
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/blogfront/internal/factory"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/testutil/fakeapi"
)

func TestUnknownPathRendersNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/no/such/page")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "section.error-page[data-status='404']")
}

func TestBackendUnavailable(t *testing.T) {
	api := fakeapi.New(t)
	api.Close()
	ts := newWebTestServerWith(t, api, factory.NewTestApp(api.URL))

	rr := ts.get("/blog")

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "section.error-page", "Service Unavailable")
}

func TestBackendServerError(t *testing.T) {
	ts := newWebTestServer(t)
	ts.api.FailNext(http.MethodGet, "/api/tags", http.StatusInternalServerError, "database is on fire")

	rr := ts.get("/tags")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "section.error-page", "database is on fire")
}

func TestFlashShownOnce(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signInAs("bob", model.RoleViewer)

	rr := ts.get("/dashboard")
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, ".flash-success")

	rr = ts.get("/dashboard")
	doc = parseHTML(rr.Body)
	assertNotContainsElement(t, doc, ".flash")
}

func TestRequestIDEchoedAndForwarded(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/tags")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newWebTestServer(t)
	ts.get("/blog")

	rr := ts.get("/metrics")

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `blogfront_http_requests_total{code="200",method="GET",route="/blog"}`)
	assert.Contains(t, string(body), "blogfront_backend_request_duration_seconds")
}

func TestLoginRateLimited(t *testing.T) {
	api := fakeapi.New(t)
	app := factory.NewTestApp(api.URL)
	app.Settings.Session.LoginRatePerMin = 2
	ts := newWebTestServerWith(t, api, app)

	form := url.Values{"email": {"who@example.com"}, "password": {"wrong-password"}}
	for range 2 {
		rr := ts.post("/login", form)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := ts.post("/login", form)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))

	// Reading the form is never limited
	rr = ts.get("/login")
	assert.Equal(t, http.StatusOK, rr.Code)
}
