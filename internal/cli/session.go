package cli

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/blogfront/internal/apiclient"
	"github.com/mcoot/blogfront/internal/dependencies/clock"
	"github.com/mcoot/blogfront/internal/session"
	"github.com/mcoot/blogfront/internal/tokenstore"
)

// UserAgent identifies blogctl to the backend
const UserAgent = "blogctl/1.0"

// navigator remembers where the session last asked to go.
// A terminal has no views, so the destination is only reported.
type navigator struct {
	mu   sync.Mutex
	last string
}

func (n *navigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	n.last = path
	n.mu.Unlock()
}

func (n *navigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// Session is the CLI's signed-in state, persisted in the token file
type Session struct {
	Manager *session.Manager
	Client  *apiclient.Client
	Store   *tokenstore.File

	nav *navigator
}

// NewSession wires a session manager to the token file
func NewSession(cfg *Config, logger *slog.Logger) *Session {
	base := apiclient.New(cfg.ServerURL,
		apiclient.WithMePath(cfg.MePath),
		apiclient.WithRequestInterceptors(apiclient.RequestID(), apiclient.UserAgent(UserAgent)),
	)
	store := tokenstore.NewFile(cfg.TokenFile, clock.New(), logger)
	nav := &navigator{}
	manager, client := session.Bind(base, store, nav, logger)

	return &Session{
		Manager: manager,
		Client:  client,
		Store:   store,
		nav:     nav,
	}
}

// Destination is the view the last session operation pointed at
func (s *Session) Destination() string {
	return s.nav.Last()
}
