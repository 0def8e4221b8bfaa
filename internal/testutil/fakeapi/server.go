// Package fakeapi is an in-process stand-in for the blog backend.
//
// It issues real HS256 tokens, keeps accounts and content in memory, records
// every call it receives, and can be told to fail or stall specific routes.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/mcoot/blogfront/internal/model"
)

// Call is one request the server received
type Call struct {
	Method        string
	Path          string
	Authorization string
}

type failure struct {
	status  int
	message string
}

// Server is a fake blog backend
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	secret   []byte
	accounts map[string]*account
	nextID   int64
	revoked  map[string]bool
	resets   map[string]string

	posts      []model.Post
	categories []model.Category
	tags       []model.Tag
	comments   []model.Comment

	calls    []Call
	failures map[string][]failure
	gates    map[string]*Gate
}

// New starts a fake backend that shuts down when t finishes
func New(t testing.TB) *Server {
	s := &Server{
		secret:   []byte("fakeapi-signing-key"),
		accounts: make(map[string]*account),
		nextID:   1,
		revoked:  make(map[string]bool),
		resets:   make(map[string]string),
		failures: make(map[string][]failure),
		gates:    make(map[string]*Gate),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(func() {
		s.mu.Lock()
		for _, g := range s.gates {
			g.Release()
		}
		s.mu.Unlock()
		s.Close()
	})
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	api := r.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.requireAuth(s.handleMe)).Methods(http.MethodGet)
	api.HandleFunc("/me", s.requireAuth(s.handleMe)).Methods(http.MethodGet)

	// Password
	api.HandleFunc("/password/forgot", s.handleForgot).Methods(http.MethodPost)
	api.HandleFunc("/password/verify-token", s.handleVerifyReset).Methods(http.MethodGet)
	api.HandleFunc("/password/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/password/change", s.requireAuth(s.handleChange)).Methods(http.MethodPost)

	// Public content
	api.HandleFunc("/posts", s.handleListPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts/slug/{slug}", s.handlePostBySlug).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id:[0-9]+}", s.handlePostByID).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id:[0-9]+}/comments", s.handleListComments).Methods(http.MethodGet)
	api.HandleFunc("/comments", s.handleCreateComment).Methods(http.MethodPost)
	api.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}", s.handleCategoryByID).Methods(http.MethodGet)
	api.HandleFunc("/tags", s.handleListTags).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)

	// Editing
	editor := s.requireRole(model.RoleEditor)
	api.HandleFunc("/posts", editor(s.handleCreatePost)).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id:[0-9]+}", editor(s.handleUpdatePost)).Methods(http.MethodPut)
	api.HandleFunc("/posts/{id:[0-9]+}", editor(s.handleDeletePost)).Methods(http.MethodDelete)
	api.HandleFunc("/categories", editor(s.handleCreateCategory)).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id:[0-9]+}", editor(s.handleDeleteCategory)).Methods(http.MethodDelete)
	api.HandleFunc("/tags", editor(s.handleCreateTag)).Methods(http.MethodPost)
	api.HandleFunc("/tags/{id:[0-9]+}", editor(s.handleDeleteTag)).Methods(http.MethodDelete)
	api.HandleFunc("/admin/stats", editor(s.handleStats)).Methods(http.MethodGet)
	api.HandleFunc("/admin/users", s.requireRole(model.RoleAdmin)(s.handleListUsers)).Methods(http.MethodGet)

	return r
}

// record logs each call, then applies any queued failure or gate for its route
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, r.URL.Path)

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		var fail *failure
		if queued := s.failures[key]; len(queued) > 0 {
			fail = &queued[0]
			s.failures[key] = queued[1:]
		}
		gate := s.gates[key]
		s.mu.Unlock()

		if gate != nil {
			gate.wait(r)
		}
		if fail != nil {
			if fail.message == "" {
				w.WriteHeader(fail.status)
				return
			}
			writeError(w, fail.status, fail.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routeKey(method, path string) string {
	return method + " " + strings.TrimSuffix(path, "/")
}

// FailNext makes the next request to method+path answer with status.
// An empty message sends no body.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := routeKey(method, path)
	s.failures[key] = append(s.failures[key], failure{status: status, message: message})
}

// Calls returns every request received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the requests received for path
func (s *Server) CallsTo(path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets recorded calls
func (s *Server) ResetCalls() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

// Gate stalls requests to a route until released
type Gate struct {
	// Started receives once per request that reaches the gate
	Started chan struct{}

	release chan struct{}
	once    sync.Once
}

func (g *Gate) wait(r *http.Request) {
	select {
	case g.Started <- struct{}{}:
	default:
	}
	select {
	case <-g.release:
	case <-r.Context().Done():
	}
}

// Release lets stalled and future requests through
func (g *Gate) Release() {
	g.once.Do(func() { close(g.release) })
}

// Hold stalls requests to method+path until the returned gate is released
func (s *Server) Hold(method, path string) *Gate {
	g := &Gate{Started: make(chan struct{}, 8), release: make(chan struct{})}
	s.mu.Lock()
	s.gates[routeKey(method, path)] = g
	s.mu.Unlock()
	return g
}
