package session

import "github.com/mcoot/blogfront/internal/model"

// State is the authentication status of a browsing context.
// Exactly one of Unresolved, Authenticated or Anonymous holds at any time.
type State interface {
	// Loading is true only before the first resolution
	Loading() bool

	// Identity returns the signed-in user, if any
	Identity() (model.Identity, bool)

	String() string

	isState()
}

// Unresolved is the state before Initialize has finished
type Unresolved struct{}

func (Unresolved) Loading() bool                    { return true }
func (Unresolved) Identity() (model.Identity, bool) { return model.Identity{}, false }
func (Unresolved) String() string                   { return "unresolved" }
func (Unresolved) isState()                         {}

// Authenticated is a confirmed signed-in user
type Authenticated struct {
	User model.Identity
}

func (Authenticated) Loading() bool                      { return false }
func (a Authenticated) Identity() (model.Identity, bool) { return a.User, true }
func (Authenticated) String() string                     { return "authenticated" }
func (Authenticated) isState()                           {}

// Anonymous is a confirmed signed-out visitor
type Anonymous struct{}

func (Anonymous) Loading() bool                    { return false }
func (Anonymous) Identity() (model.Identity, bool) { return model.Identity{}, false }
func (Anonymous) String() string                   { return "anonymous" }
func (Anonymous) isState()                         {}

// IsAuthenticated reports whether st carries a user
func IsAuthenticated(st State) bool {
	_, ok := st.(Authenticated)
	return ok
}
