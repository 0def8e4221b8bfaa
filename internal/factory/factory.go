package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mcoot/blogfront/internal/apiclient"
	"github.com/mcoot/blogfront/internal/config"
	"github.com/mcoot/blogfront/internal/dependencies/clock"
	"github.com/mcoot/blogfront/internal/dependencies/random"
	basemw "github.com/mcoot/blogfront/internal/middleware"
	"github.com/mcoot/blogfront/internal/session"
	"github.com/mcoot/blogfront/internal/tokenstore"
	redisvault "github.com/mcoot/blogfront/internal/tokenstore/redis"
	"github.com/mcoot/blogfront/internal/web"
	"github.com/mcoot/blogfront/internal/web/handler"
	"github.com/mcoot/blogfront/internal/web/middleware"
)

// UserAgent identifies the front end to the backend
const UserAgent = "blogfront/1.0"

// App contains all wired application components
type App struct {
	Settings *config.Config
	Logger   *slog.Logger

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Client is the unauthenticated backend client every session derives from
	Client *apiclient.Client

	// Vault is set when credentials are kept in Redis
	Vault *redisvault.Vault

	// Metrics
	Registry       *prometheus.Registry
	HTTPMetrics    *basemw.HTTPMetrics
	SessionMetrics *session.Metrics

	cookie tokenstore.CookieConfig
}

// Config holds configuration for the application factory
type Config struct {
	// Settings is the environment configuration (optional)
	// If nil, defaults are used
	Settings *config.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// HTTPClient replaces the backend transport (optional)
	HTTPClient *http.Client
	// RedisClient is used instead of dialling Settings.Redis.URL (optional)
	RedisClient *goredis.Client
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	settings := cfg.Settings
	if settings == nil {
		var err error
		settings, err = config.LoadFrom(context.Background(), map[string]string{})
		if err != nil {
			return nil, err
		}
	} else if err := settings.Validate(); err != nil {
		return nil, err
	}

	app := newWithDependencies(settings, clock.New(), random.New(), cfg.HTTPClient, logger)

	if settings.Session.TokenStore == config.TokenStoreRedis {
		vaultCfg := redisvault.DefaultConfig()
		vaultCfg.URL = settings.Redis.URL
		vaultCfg.PoolSize = settings.Redis.PoolSize
		vaultCfg.KeyPrefix = settings.Redis.KeyPrefix

		if cfg.RedisClient != nil {
			app.Vault = redisvault.NewWithClient(cfg.RedisClient, vaultCfg, app.Random, logger)
		} else {
			vault, err := redisvault.New(vaultCfg, app.Random, logger)
			if err != nil {
				return nil, fmt.Errorf("connecting to credential vault: %w", err)
			}
			app.Vault = vault
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(settings *config.Config, clk clock.Clock, rnd random.Random, hc *http.Client, logger *slog.Logger) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []apiclient.Option{
		apiclient.WithMePath(settings.MePath),
		apiclient.WithRequestInterceptors(apiclient.RequestID(), apiclient.UserAgent(UserAgent)),
	}
	if hc != nil {
		opts = append(opts, apiclient.WithHTTPClient(hc))
	}
	// Metrics wrap the final transport, so they go last
	opts = append(opts, apiclient.WithMetrics(apiclient.NewMetrics(registry)))

	return &App{
		Settings:       settings,
		Logger:         logger,
		Clock:          clk,
		Random:         rnd,
		Client:         apiclient.New(settings.APIURL, opts...),
		Registry:       registry,
		HTTPMetrics:    basemw.NewHTTPMetrics(registry),
		SessionMetrics: session.NewMetrics(registry),
		cookie: tokenstore.CookieConfig{
			Name:   settings.Session.CookieName,
			Path:   "/",
			Secure: settings.Session.CookieSecure,
			Key:    tokenstore.DeriveKey(settings.Session.CookieSecret),
			Clock:  clk,
		},
	}
}

// TokenStore returns the credential store for one browser request
func (a *App) TokenStore(w http.ResponseWriter, r *http.Request) tokenstore.Store {
	cookie := tokenstore.NewCookie(w, r, a.cookie, a.Random)
	if a.Vault != nil {
		return a.Vault.Bind(cookie)
	}
	return cookie
}

// SessionOptions are applied to every session
func (a *App) SessionOptions() []session.Option {
	return []session.Option{
		session.WithTokenTTL(a.Settings.Session.TokenTTL),
		session.WithMetrics(a.SessionMetrics),
	}
}

// RouterConfig wires the web router
func (a *App) RouterConfig(staticDir string) web.RouterConfig {
	return web.RouterConfig{
		Logger: a.Logger,
		Session: middleware.SessionConfig{
			Client:  a.Client,
			Store:   a.TokenStore,
			Logger:  a.Logger,
			Options: a.SessionOptions(),
		},
		LoginRatePerMin: a.Settings.Session.LoginRatePerMin,
		TrustProxy:      a.Settings.Server.TrustProxy,
		PostsPerPage:    handler.DefaultPostsPerPage,
		StaticDir:       staticDir,
		Metrics:         a.HTTPMetrics,
		MetricsHandler:  promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry}),
	}
}

// Close releases external connections
func (a *App) Close() error {
	if a.Vault != nil {
		return a.Vault.Close()
	}
	return nil
}
