package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/blogfront/internal/factory"
	"github.com/mcoot/blogfront/internal/model"
	"github.com/mcoot/blogfront/internal/testutil/fakeapi"
	"github.com/mcoot/blogfront/internal/web"
)

const testPassword = "correct-horse-battery"

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	api     *fakeapi.Server
	cookies *cookieJar
}

// newWebTestServer creates a new test server backed by a seeded fake blog API
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	api := fakeapi.New(t)
	api.Seed()
	app := factory.NewTestApp(api.URL)

	return newWebTestServerWith(t, api, app)
}

func newWebTestServerWith(t *testing.T, api *fakeapi.Server, app *factory.TestApp) *webTestServer {
	t.Helper()

	// No static files in tests
	router := web.NewRouter(app.RouterConfig(""))

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		api:     api,
		cookies: newCookieJar(app.Settings.Session.CookieName),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, false)
}

// getHTMX makes a GET request as an HTMX request
func (ts *webTestServer) getHTMX(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, true)
}

// post makes a POST request with form data (non-HTMX)
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, false)
}

// postHTMX makes a POST request with form data as an HTMX request
func (ts *webTestServer) postHTMX(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, true)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	tokenCookie string
	cookies     map[string]*http.Cookie
}

func newCookieJar(tokenCookie string) *cookieJar {
	return &cookieJar{
		tokenCookie: tokenCookie,
		cookies:     make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasToken returns true if the credential cookie is set
func (j *cookieJar) hasToken() bool {
	_, ok := j.cookies[j.tokenCookie]
	return ok
}

// setRaw places a cookie as if the browser already held it
func (j *cookieJar) setRaw(name, value string) {
	j.cookies[name] = &http.Cookie{Name: name, Value: value}
}

// Helper functions for common test operations

// addUser creates a backend account with the shared test password
func (ts *webTestServer) addUser(username string, role model.Role) string {
	ts.t.Helper()
	email := username + "@example.com"
	ts.api.AddUser(email, username, testPassword, role)
	return email
}

// signIn logs in through the login form
func (ts *webTestServer) signIn(email string) {
	ts.t.Helper()
	form := url.Values{"email": {email}, "password": {testPassword}}
	rr := ts.post("/login", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after login")
	require.True(ts.t, ts.cookies.hasToken(), "Expected credential cookie to be set")
}

// signInAs creates an account with role and signs in as it
func (ts *webTestServer) signInAs(username string, role model.Role) string {
	ts.t.Helper()
	email := ts.addUser(username, role)
	ts.signIn(email)
	return email
}

// followRedirect follows a redirect and returns the response
// Works with both traditional Location headers and HTMX HX-Redirect headers
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	// Check for HTMX redirect first
	location := rr.Header().Get("HX-Redirect")
	if location == "" {
		// Fall back to traditional redirect
		location = rr.Header().Get("Location")
	}
	require.NotEmpty(ts.t, location, "Expected Location or HX-Redirect header for redirect")
	// Browsers never send the fragment
	target, err := url.Parse(location)
	require.NoError(ts.t, err)
	return ts.get(target.RequestURI())
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}

// setToken stores token in the jar exactly as the server would seal it
func (ts *webTestServer) setToken(token string) {
	ts.t.Helper()
	rec := httptest.NewRecorder()
	store := ts.app.TokenStore(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(ts.t, store.Set(ts.t.Context(), token, ts.app.Settings.Session.TokenTTL))
	ts.cookies.extract(rec)
}
