package session_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mcoot/blogfront/internal/model"
)

// recordingNavigator remembers every navigation
type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	n.paths = append(n.paths, path)
	n.mu.Unlock()
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// stubBackend answers with canned results and counts calls.
// A non-nil hold channel stalls that call until it is closed.
type stubBackend struct {
	meResult     model.Identity
	meErr        error
	loginGrant   model.AuthGrant
	loginErr     error
	regGrant     model.AuthGrant
	regErr       error
	meHold       chan struct{}
	loginHold    chan struct{}
	started      chan struct{}
	meCalls      atomic.Int32
	loginCalls   atomic.Int32
	regCalls     atomic.Int32
	lastEmail    string
	lastUsername string
}

func newStubBackend() *stubBackend {
	return &stubBackend{started: make(chan struct{}, 4)}
}

func (b *stubBackend) Me(context.Context) (model.Identity, error) {
	b.meCalls.Add(1)
	if b.meHold != nil {
		b.started <- struct{}{}
		<-b.meHold
	}
	return b.meResult, b.meErr
}

func (b *stubBackend) Login(_ context.Context, email, _ string) (model.AuthGrant, error) {
	b.loginCalls.Add(1)
	b.lastEmail = email
	if b.loginHold != nil {
		b.started <- struct{}{}
		<-b.loginHold
	}
	return b.loginGrant, b.loginErr
}

func (b *stubBackend) Register(_ context.Context, email, username, _ string) (model.AuthGrant, error) {
	b.regCalls.Add(1)
	b.lastEmail = email
	b.lastUsername = username
	return b.regGrant, b.regErr
}

func (b *stubBackend) calls() int32 {
	return b.meCalls.Load() + b.loginCalls.Load() + b.regCalls.Load()
}

var (
	alice = model.Identity{ID: 1, Email: "a@b.com", Username: "alice"}
	bob   = model.Identity{ID: 2, Email: "bob@b.com", Username: "bob"}
)
