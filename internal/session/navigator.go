package session

import "context"

// Navigator moves the user to another view
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}

// Routes are the destinations the Manager navigates to
type Routes struct {
	// Landing is shown after login
	Landing string
	// Welcome is shown after registration
	Welcome string
	// Public is shown after logout
	Public string
	// Login is shown after a forced sign-out
	Login string
}

// DefaultRoutes returns the standard destinations
func DefaultRoutes() Routes {
	return Routes{
		Landing: "/dashboard",
		Welcome: "/welcome",
		Public:  "/",
		Login:   "/login",
	}
}
