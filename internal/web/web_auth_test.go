package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/blogfront/internal/factory"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/testutil/fakeapi"
)

func TestHomeAnonymous(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "#nav-login")
	assertContainsElement(t, doc, "#nav-register")
	assertNotContainsElement(t, doc, "#nav-user")

	// No stored credential means no identity lookup
	assert.Empty(t, ts.api.CallsTo("/api/auth/me"))
}

func TestLogin(t *testing.T) {
	ts := newWebTestServer(t)
	email := ts.addUser("bob", model.RoleViewer)

	form := url.Values{"email": {email}, "password": {testPassword}}
	rr := ts.post("/login", form)

	// Should redirect to the landing view
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
	assert.True(t, ts.cookies.hasToken())

	rr = ts.followRedirect(rr)
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#nav-user", "bob")
	assertContainsText(t, doc, ".flash-success", "Welcome back, bob!")
	assertContainsText(t, doc, "#profile-email", email)
	assertNotContainsElement(t, doc, "#nav-login")
}

func TestLoginHTMXUsesHXRedirect(t *testing.T) {
	ts := newWebTestServer(t)
	email := ts.addUser("bob", model.RoleViewer)

	rr := ts.postHTMX("/login", url.Values{"email": {email}, "password": {testPassword}})

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("HX-Redirect"))
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newWebTestServer(t)
	email := ts.addUser("bob", model.RoleViewer)

	rr := ts.post("/login", url.Values{"email": {email}, "password": {"wrong-password"}})

	// Should re-render the form with the backend's message
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, ts.cookies.hasToken())

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".form-error", "Invalid email or password")
	assertContainsElement(t, doc, "#login-form")

	// Email is kept, password is not
	assert.Equal(t, email, doc.Find("#login-form input[name='email']").AttrOr("value", ""))
	assert.Empty(t, doc.Find("#login-form input[name='password']").AttrOr("value", ""))
}

func TestLoginValidation(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/login", url.Values{"email": {"not-an-email"}, "password": {""}})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "[data-field='email']", "Enter a valid email address")
	assertContainsText(t, doc, "[data-field='password']", "This field is required")

	// Nothing reached the backend
	assert.Empty(t, ts.api.CallsTo("/api/auth/login"))
}

func TestLoginRedirectsToNext(t *testing.T) {
	ts := newWebTestServer(t)
	email := ts.addUser("bob", model.RoleViewer)

	rr := ts.post("/login", url.Values{
		"email":    {email},
		"password": {testPassword},
		"next":     {"/account/password"},
	})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/account/password", rr.Header().Get("Location"))
}

func TestLoginIgnoresOffsiteNext(t *testing.T) {
	ts := newWebTestServer(t)
	email := ts.addUser("bob", model.RoleViewer)

	rr := ts.post("/login", url.Values{
		"email":    {email},
		"password": {testPassword},
		"next":     {"//evil.example.com/"},
	})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestLoginPageRedirectsSignedInUser(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signInAs("bob", model.RoleViewer)

	rr := ts.get("/login")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestRegister(t *testing.T) {
	ts := newWebTestServer(t)

	form := url.Values{
		"email":            {"alice@example.com"},
		"username":         {"alice"},
		"password":         {"secret123"},
		"password_confirm": {"secret123"},
	}
	rr := ts.post("/register", form)

	// Should redirect to the welcome view
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/welcome", rr.Header().Get("Location"))
	assert.True(t, ts.cookies.hasToken())

	rr = ts.followRedirect(rr)
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "#welcome")
	assertContainsText(t, doc, "#nav-user", "alice")
	assertContainsText(t, doc, ".flash-success", "Account created!")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	ts := newWebTestServer(t)

	form := url.Values{
		"email":            {"alice@example.com"},
		"username":         {"alice"},
		"password":         {"secret123"},
		"password_confirm": {"secret456"},
	}
	rr := ts.post("/register", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.False(t, ts.cookies.hasToken())

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "[data-field='password_confirm']", "Passwords do not match")
	assert.Empty(t, ts.api.CallsTo("/api/auth/register"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newWebTestServer(t)
	email := ts.addUser("alice", model.RoleViewer)

	form := url.Values{
		"email":            {email},
		"username":         {"alice2"},
		"password":         {"secret123"},
		"password_confirm": {"secret123"},
	}
	rr := ts.post("/register", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.False(t, ts.cookies.hasToken())

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".form-error", "Email already registered")
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signInAs("bob", model.RoleViewer)
	ts.api.ResetCalls()

	rr := ts.post("/logout", nil)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasToken())

	// Only the identity lookup of the logout request itself reached the backend
	for _, c := range ts.api.Calls() {
		assert.Equal(t, "/api/auth/me", c.Path)
	}

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-info", "You have been logged out")
	assertContainsElement(t, doc, "#nav-login")
}

func TestSessionRestoredFromStoredToken(t *testing.T) {
	ts := newWebTestServer(t)
	email := ts.addUser("carol", model.RoleViewer)
	ts.setToken(ts.api.TokenFor(email))

	rr := ts.get("/dashboard")

	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#profile-username", "carol")

	calls := ts.api.CallsTo("/api/auth/me")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Authorization, "Bearer ")
}

func TestExpiredTokenIsDiscarded(t *testing.T) {
	ts := newWebTestServer(t)
	email := ts.addUser("carol", model.RoleViewer)
	ts.setToken(ts.api.ExpiredTokenFor(email))

	rr := ts.get("/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasToken(), "rejected credential should be cleared")

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "#nav-login")
}

func TestUnreachableBackendClearsToken(t *testing.T) {
	api := fakeapi.New(t)
	email := api.AddUser("carol@example.com", "carol", testPassword, model.RoleViewer).Email
	token := api.TokenFor(email)
	api.Close()

	ts := newWebTestServerWith(t, api, factory.NewTestApp(api.URL))
	ts.setToken(token)

	// Any failed lookup signs out, reachable or not
	rr := ts.get("/login")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasToken())

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "#nav-login")
}

func TestServerErrorDuringLookupClearsToken(t *testing.T) {
	ts := newWebTestServer(t)
	email := ts.addUser("carol", model.RoleViewer)
	ts.setToken(ts.api.TokenFor(email))
	ts.api.FailNext(http.MethodGet, "/api/auth/me", http.StatusInternalServerError, "")

	rr := ts.get("/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasToken())
}

func TestGarbledCookieIsAnonymous(t *testing.T) {
	ts := newWebTestServer(t)
	ts.cookies.setRaw("token", "not-a-sealed-value")

	rr := ts.get("/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, ts.api.CallsTo("/api/auth/me"))
}
