// Package tokenstore holds the single opaque credential of a browsing context.
//
// Every backend satisfies the same contract: Set overwrites, Get never fails
// outward (absent covers never-set, cleared, expired and unreadable), and
// Clear is idempotent. Nothing in this package interprets the token.
package tokenstore

import (
	"context"
	"time"
)

// DefaultTTL is how long a stored credential stays retrievable
const DefaultTTL = 7 * 24 * time.Hour

// Store is a scoped slot holding at most one credential
type Store interface {
	// Set stores token until ttl elapses or Clear is called.
	// A ttl of zero or less keeps the token until Clear.
	Set(ctx context.Context, token string, ttl time.Duration) error

	// Get returns the current token, or false if there is none
	Get(ctx context.Context) (string, bool)

	// Clear removes the token. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
