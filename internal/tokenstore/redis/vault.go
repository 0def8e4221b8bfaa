// Package redis keeps credentials server-side in Redis.
// The browser only ever holds an opaque handle pointing at the stored token.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/blogfront/internal/dependencies/random"
	"github.com/mcoot/blogfront/internal/tokenstore"
)

// Vault is a shared Redis-backed credential store
type Vault struct {
	client *redis.Client
	cfg    Config
	rnd    random.Random
	logger *slog.Logger
}

// New connects to Redis and returns a Vault
func New(cfg Config, rnd random.Random, logger *slog.Logger) (*Vault, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg, rnd, logger), nil
}

// NewWithClient creates a Vault with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, rnd random.Random, logger *slog.Logger) *Vault {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	if cfg.HandleLength <= 0 {
		cfg.HandleLength = DefaultConfig().HandleLength
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Vault{
		client: client,
		cfg:    cfg,
		rnd:    rnd,
		logger: logger,
	}
}

// Close closes the Redis connection
func (v *Vault) Close() error {
	return v.client.Close()
}

// Bind returns a Store that keeps its handle in handles
func (v *Vault) Bind(handles tokenstore.Store) *Store {
	return &Store{vault: v, handles: handles}
}

// Store is a tokenstore.Store whose token lives in Redis
type Store struct {
	vault   *Vault
	handles tokenstore.Store
}

// Ensure Store implements the interface
var _ tokenstore.Store = (*Store)(nil)

// Set writes the new entry first and drops the previous one only after the
// handle points at it, so a failed write leaves the old credential usable.
func (s *Store) Set(ctx context.Context, token string, ttl time.Duration) error {
	v := s.vault

	if ttl < 0 {
		ttl = 0
	}
	old, hadOld := s.handles.Get(ctx)

	// Rotate the handle on every write so a leaked handle dies with its token
	handle := v.rnd.String(v.cfg.HandleLength, random.HandleAlphabet)
	key := tokenKey(v.cfg.KeyPrefix, handle)
	if err := v.client.Set(ctx, key, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	if err := s.handles.Set(ctx, handle, ttl); err != nil {
		_ = v.client.Del(ctx, key).Err()
		return fmt.Errorf("failed to store token handle: %w", err)
	}

	if hadOld && old != handle {
		if err := v.client.Del(ctx, tokenKey(v.cfg.KeyPrefix, old)).Err(); err != nil {
			v.logger.Warn("failed to drop previous vault entry", slog.String("error", err.Error()))
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context) (string, bool) {
	v := s.vault

	handle, ok := s.handles.Get(ctx)
	if !ok {
		return "", false
	}

	token, err := v.client.Get(ctx, tokenKey(v.cfg.KeyPrefix, handle)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired or revoked server-side; drop the stale handle
			_ = s.handles.Clear(ctx)
		} else {
			v.logger.Warn("failed to read token from vault", slog.String("error", err.Error()))
		}
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear always drops the handle; a failed delete is reported but the entry
// is unreachable and expires with its TTL.
func (s *Store) Clear(ctx context.Context) error {
	v := s.vault

	var delErr error
	if handle, ok := s.handles.Get(ctx); ok {
		if err := v.client.Del(ctx, tokenKey(v.cfg.KeyPrefix, handle)).Err(); err != nil {
			delErr = fmt.Errorf("failed to remove token: %w", err)
		}
	}
	return errors.Join(s.handles.Clear(ctx), delErr)
}
