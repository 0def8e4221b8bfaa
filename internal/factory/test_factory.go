package factory

import (
	"io"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mcoot/blogfront/internal/config"
	"github.com/mcoot/blogfront/internal/dependencies/mocks"
	redisvault "github.com/mcoot/blogfront/internal/tokenstore/redis"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App talking to apiURL with mocked dependencies.
// Rate limiting is off so tests can sign in repeatedly.
func NewTestApp(apiURL string) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	settings := &config.Config{
		APIURL:   apiURL,
		MePath:   "/api/auth/me",
		LogLevel: "info",
		Session: config.SessionConfig{
			TokenStore:   config.TokenStoreCookie,
			TokenTTL:     7 * 24 * time.Hour,
			CookieName:   "token",
			CookieSecret: "test-cookie-secret",
		},
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app := newWithDependencies(settings, mockClock, mockRandom, nil, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// UseRedis keeps credentials in a vault backed by client, as TOKEN_STORE=redis does
func (t *TestApp) UseRedis(client *goredis.Client) {
	t.Settings.Session.TokenStore = config.TokenStoreRedis
	t.Vault = redisvault.NewWithClient(client, redisvault.DefaultConfig(), t.Random, t.Logger)
}
