package session

import (
	"context"
	"log/slog"

	"github.com/mcoot/blogfront/internal/apiclient"
	"github.com/mcoot/blogfront/internal/tokenstore"
)

// Bind creates a Manager for store together with the client it talks through.
// The returned client sends the stored credential on every call and reports
// a rejected credential back to the Manager, whichever code made the call.
func Bind(base *apiclient.Client, store tokenstore.Store, nav Navigator, logger *slog.Logger, opts ...Option) (*Manager, *apiclient.Client) {
	var m *Manager
	client := base.With(
		apiclient.WithRequestInterceptors(apiclient.Bearer(store)),
		apiclient.WithResponseInterceptors(apiclient.OnUnauthorized(func(ctx context.Context, token string) {
			m.HandleRejected(ctx, token)
		})),
	)
	m = NewManager(store, client, nav, logger, opts...)
	return m, client
}
