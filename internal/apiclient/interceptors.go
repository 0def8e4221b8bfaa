package apiclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/blogfront/internal/tokenstore"
)

// RequestIDHeader carries a per-request correlation ID to the backend
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// ContextWithRequestID makes RequestID forward id instead of generating one
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Bearer attaches the stored credential, if any, as an Authorization header.
// Requests marked Anonymous are sent without it.
func Bearer(store tokenstore.Store) RequestInterceptor {
	return func(req *http.Request) error {
		if IsAnonymous(req) {
			return nil
		}
		if token, ok := store.Get(req.Context()); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// OnUnauthorized calls fn with the rejected credential when a credentialed
// request comes back 401. The response still surfaces to the caller as an APIError.
func OnUnauthorized(fn func(ctx context.Context, token string)) ResponseInterceptor {
	return func(resp *http.Response) error {
		if resp.StatusCode != http.StatusUnauthorized || resp.Request == nil {
			return nil
		}
		token, ok := strings.CutPrefix(resp.Request.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			return nil
		}
		fn(resp.Request.Context(), token)
		return nil
	}
}

// RequestID sets X-Request-ID from the context, or a fresh UUID
func RequestID() RequestInterceptor {
	return func(req *http.Request) error {
		if req.Header.Get(RequestIDHeader) != "" {
			return nil
		}
		id, _ := req.Context().Value(requestIDKey{}).(string)
		if id == "" {
			id = uuid.NewString()
		}
		req.Header.Set(RequestIDHeader, id)
		return nil
	}
}

// UserAgent sets the User-Agent header
func UserAgent(ua string) RequestInterceptor {
	return func(req *http.Request) error {
		req.Header.Set("User-Agent", ua)
		return nil
	}
}
