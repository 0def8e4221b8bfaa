package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/blogfront/internal/dependencies/clock"
)

// Memory is a process-local Store
type Memory struct {
	mu        sync.Mutex
	clock     clock.Clock
	token     string
	expiresAt time.Time
}

// Ensure Memory implements Store
var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store
func NewMemory(clk clock.Clock) *Memory {
	if clk == nil {
		clk = clock.New()
	}
	return &Memory{clock: clk}
}

func (m *Memory) Set(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.expiresAt = time.Time{}
	if ttl > 0 {
		m.expiresAt = m.clock.Now().Add(ttl)
	}
	return nil
}

func (m *Memory) Get(_ context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" {
		return "", false
	}
	if clock.Expired(m.clock, m.expiresAt) {
		m.token = ""
		m.expiresAt = time.Time{}
		return "", false
	}
	return m.token, true
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.expiresAt = time.Time{}
	m.mu.Unlock()
	return nil
}
