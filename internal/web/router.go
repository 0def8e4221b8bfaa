package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/blogfront/internal/admin"
	"github.com/mcoot/blogfront/internal/guard"
	basemw "github.com/mcoot/blogfront/internal/middleware"
	"github.com/mcoot/blogfront/internal/web/handler"
	"github.com/mcoot/blogfront/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger  *slog.Logger
	Session middleware.SessionConfig
	// LoginRatePerMin throttles login and register submissions per client IP; zero disables
	LoginRatePerMin int
	// TrustProxy keys the throttle on X-Forwarded-For instead of the peer address
	TrustProxy   bool
	PostsPerPage int
	StaticDir    string // Path to static files directory
	// Metrics and MetricsHandler are optional
	Metrics        *basemw.HTTPMetrics
	MetricsHandler http.Handler
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	flashMiddleware := middleware.Flash()
	sessionMiddleware := middleware.Session(cfg.Session)
	authMiddleware := middleware.Guard(guard.Options{})
	guestMiddleware := middleware.GuestOnly("/dashboard")
	rateLimitMiddleware := middleware.RateLimit(cfg.LoginRatePerMin, cfg.TrustProxy, cfg.Logger)

	// Apply global middleware to all routes
	r.Use(basemw.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(basemw.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(basemw.Metrics(cfg.Metrics))
	}

	homeHandler := handler.NewHomeHandler(cfg.Logger)
	blogHandler := handler.NewBlogHandler(cfg.Logger, cfg.PostsPerPage)
	authHandler := handler.NewAuthHandler(cfg.Logger)
	passwordHandler := handler.NewPasswordHandler(cfg.Logger)

	r.NotFoundHandler = http.HandlerFunc(homeHandler.NotFound)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	// Every page below resolves the browser's session first
	site := r.NewRoute().Subrouter()
	site.Use(flashMiddleware)
	site.Use(sessionMiddleware)

	// Public pages
	site.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	site.HandleFunc("/403", homeHandler.Forbidden).Methods(http.MethodGet)
	site.HandleFunc("/blog", blogHandler.List).Methods(http.MethodGet)
	site.HandleFunc("/blog/{slug}", blogHandler.Show).Methods(http.MethodGet)
	site.HandleFunc("/blog/{slug}/comments", blogHandler.Comment).Methods(http.MethodPost)
	site.HandleFunc("/categories", blogHandler.Categories).Methods(http.MethodGet)
	site.HandleFunc("/category/{slug}", blogHandler.Category).Methods(http.MethodGet)
	site.HandleFunc("/tags", blogHandler.Tags).Methods(http.MethodGet)
	site.HandleFunc("/search", blogHandler.Search).Methods(http.MethodGet)
	site.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Sign-in and recovery, for visitors
	guest := site.NewRoute().Subrouter()
	guest.Use(guestMiddleware)
	guest.Use(rateLimitMiddleware)
	guest.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	guest.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	guest.HandleFunc("/register", authHandler.RegisterPage).Methods(http.MethodGet)
	guest.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	guest.HandleFunc("/forgot-password", passwordHandler.ForgotPage).Methods(http.MethodGet)
	guest.HandleFunc("/forgot-password", passwordHandler.Forgot).Methods(http.MethodPost)
	guest.HandleFunc("/reset-password", passwordHandler.ResetPage).Methods(http.MethodGet)
	guest.HandleFunc("/reset-password", passwordHandler.Reset).Methods(http.MethodPost)

	// Protected pages (require sign-in)
	protected := site.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/dashboard", authHandler.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/welcome", authHandler.Welcome).Methods(http.MethodGet)
	protected.HandleFunc("/account/password", passwordHandler.ChangePage).Methods(http.MethodGet)
	protected.HandleFunc("/account/password", passwordHandler.Change).Methods(http.MethodPost)

	admin.Register(site, cfg.Logger)

	return r
}
