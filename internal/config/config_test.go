package config

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, "/api/auth/me", cfg.MePath)
	assert.Equal(t, TokenStoreCookie, cfg.Session.TokenStore)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TokenTTL)
	assert.Equal(t, "token", cfg.Session.CookieName)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, 10, cfg.Session.LoginRatePerMin)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), map[string]string{
		"BLOG_API_URL":  "https://api.example.com",
		"ME_PATH":       "/api/me",
		"LISTEN_HOST":   "127.0.0.1",
		"LISTEN_PORT":   "9000",
		"TOKEN_STORE":   "redis",
		"REDIS_URL":     "redis://localhost:6379/1",
		"COOKIE_SECURE": "true",
		"LOG_LEVEL":     "DEBUG",
		"TRUST_PROXY":   "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "/api/me", cfg.MePath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, TokenStoreRedis, cfg.Session.TokenStore)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.True(t, cfg.Server.TrustProxy)
}

func TestLoadRejectsInvalidCombinations(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"redis without url", map[string]string{"TOKEN_STORE": "redis"}},
		{"unknown store", map[string]string{"TOKEN_STORE": "localstorage"}},
		{"relative me path", map[string]string{"ME_PATH": "api/me"}},
		{"negative rate", map[string]string{"LOGIN_RATE_PER_MIN": "-1"}},
		{"bad port", map[string]string{"LISTEN_PORT": "eighty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), tt.env)
			assert.Error(t, err)
		})
	}
}
