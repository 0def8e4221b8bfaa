package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/blogfront/internal/dependencies/random"
)

// MockRandom returns queued values, then deterministic fallbacks
type MockRandom struct {
	mu sync.Mutex

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	// counter makes fallback strings unique
	counter int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Bytes returns n zero-valued bytes offset by a call counter
func (r *MockRandom) Bytes(n int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.counter + i)
	}
	return b, nil
}

// String returns the next queued result, or "handle-N" once the queue is drained
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stringIndex < len(r.StringResults) {
		result := r.StringResults[r.stringIndex]
		r.stringIndex++
		return result
	}
	r.counter++
	return fmt.Sprintf("handle-%d", r.counter)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	r.StringResults = append(r.StringResults, values...)
	r.mu.Unlock()
}
