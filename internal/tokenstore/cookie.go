package tokenstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/mcoot/blogfront/internal/dependencies/clock"
	"github.com/mcoot/blogfront/internal/dependencies/random"
)

const (
	// DefaultCookieName is the cookie holding the credential
	DefaultCookieName = "token"

	nonceSize = 24
)

var errUnsealable = errors.New("cookie value could not be opened")

// CookieConfig controls how the credential cookie is written
type CookieConfig struct {
	Name   string
	Path   string
	Secure bool

	// Key seals the cookie value with secretbox when set
	Key *[32]byte

	// Clock stamps Expires; nil uses the system clock
	Clock clock.Clock
}

// DefaultCookieConfig returns an unsealed cookie named "token" scoped to /
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Name: DefaultCookieName,
		Path: "/",
	}
}

// DeriveKey turns a configured secret into a secretbox key.
// An empty secret yields nil, which leaves cookies unsealed.
func DeriveKey(secret string) *[32]byte {
	if secret == "" {
		return nil
	}
	key := blake2b.Sum256([]byte(secret))
	return &key
}

// Cookie stores the credential in a browser cookie for the span of one request.
// Writes are visible to later reads within the same request.
type Cookie struct {
	w   http.ResponseWriter
	r   *http.Request
	cfg CookieConfig
	rnd random.Random

	mu      sync.Mutex
	written bool
	value   string
}

// Ensure Cookie implements Store
var _ Store = (*Cookie)(nil)

// NewCookie binds a cookie store to one request/response pair
func NewCookie(w http.ResponseWriter, r *http.Request, cfg CookieConfig, rnd random.Random) *Cookie {
	if cfg.Name == "" {
		cfg.Name = DefaultCookieName
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if rnd == nil {
		rnd = random.New()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Cookie{w: w, r: r, cfg: cfg, rnd: rnd}
}

func (c *Cookie) Set(_ context.Context, token string, ttl time.Duration) error {
	value := token
	if c.cfg.Key != nil {
		sealed, err := c.seal(token)
		if err != nil {
			return err
		}
		value = sealed
	}

	cookie := &http.Cookie{
		Name:     c.cfg.Name,
		Value:    value,
		Path:     c.cfg.Path,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl / time.Second)
		cookie.Expires = c.cfg.Clock.Now().Add(ttl)
	}
	http.SetCookie(c.w, cookie)

	c.mu.Lock()
	c.written = true
	c.value = token
	c.mu.Unlock()
	return nil
}

func (c *Cookie) Get(_ context.Context) (string, bool) {
	c.mu.Lock()
	written, value := c.written, c.value
	c.mu.Unlock()

	if written {
		return value, value != ""
	}

	cookie, err := c.r.Cookie(c.cfg.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	if c.cfg.Key == nil {
		return cookie.Value, true
	}
	token, err := c.open(cookie.Value)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (c *Cookie) Clear(_ context.Context) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.cfg.Name,
		Value:    "",
		Path:     c.cfg.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	c.mu.Lock()
	c.written = true
	c.value = ""
	c.mu.Unlock()
	return nil
}

func (c *Cookie) seal(token string) (string, error) {
	raw, err := c.rnd.Bytes(nonceSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate cookie nonce: %w", err)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw)

	sealed := secretbox.Seal(nonce[:], []byte(token), &nonce, c.cfg.Key)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *Cookie) open(value string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(data) < nonceSize {
		return "", errUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])

	plain, ok := secretbox.Open(nil, data[nonceSize:], &nonce, c.cfg.Key)
	if !ok {
		return "", errUnsealable
	}
	return string(plain), nil
}
