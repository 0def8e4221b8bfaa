package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Token store backends
const (
	TokenStoreCookie = "cookie"
	TokenStoreRedis  = "redis"
)

// Config holds the blog front-end server configuration
type Config struct {
	APIURL   string `env:"BLOG_API_URL, default=http://localhost:8080"`
	MePath   string `env:"ME_PATH, default=/api/auth/me"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Server  ServerConfig
	Session SessionConfig
	Redis   RedisConfig
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Host            string        `env:"LISTEN_HOST"`
	Port            int           `env:"LISTEN_PORT, default=3000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT, default=15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT, default=30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=30s"`
	StaticDir       string        `env:"STATIC_DIR"`
	// TrustProxy honours X-Forwarded-For; set only behind a proxy that appends it
	TrustProxy bool `env:"TRUST_PROXY, default=false"`
}

// SessionConfig controls where the credential lives and how sign-in is throttled
type SessionConfig struct {
	TokenStore      string        `env:"TOKEN_STORE, default=cookie"`
	TokenTTL        time.Duration `env:"TOKEN_TTL, default=168h"`
	CookieName      string        `env:"COOKIE_NAME, default=token"`
	CookieSecret    string        `env:"COOKIE_SECRET"`
	CookieSecure    bool          `env:"COOKIE_SECURE, default=false"`
	LoginRatePerMin int           `env:"LOGIN_RATE_PER_MIN, default=10"`
}

// RedisConfig holds the credential vault connection settings
type RedisConfig struct {
	URL       string `env:"REDIS_URL"`
	PoolSize  int    `env:"REDIS_POOL_SIZE, default=10"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=blogfront"`
}

// Load reads configuration from the process environment
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from a fixed set of variables
func LoadFrom(ctx context.Context, env map[string]string) (*Config, error) {
	return load(ctx, envconfig.MapLookuper(env))
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations envconfig cannot express
func (c *Config) Validate() error {
	switch c.Session.TokenStore {
	case TokenStoreCookie:
	case TokenStoreRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL required when TOKEN_STORE=redis")
		}
	default:
		return fmt.Errorf("invalid TOKEN_STORE %q: must be 'cookie' or 'redis'", c.Session.TokenStore)
	}
	if !strings.HasPrefix(c.MePath, "/") {
		return fmt.Errorf("invalid ME_PATH %q: must start with /", c.MePath)
	}
	if c.Session.LoginRatePerMin < 0 {
		return errors.New("LOGIN_RATE_PER_MIN must not be negative")
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
