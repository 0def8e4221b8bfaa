package model

import "strings"

// Role is the permission level of an identity in the admin console
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// rank orders roles from least to most privileged
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// ParseRole converts a backend role string, defaulting to viewer
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleEditor:
		return RoleEditor
	default:
		return RoleViewer
	}
}

// AtLeast reports whether r grants everything required grants
func (r Role) AtLeast(required Role) bool {
	return r.rank() >= required.rank()
}

// Identity is the authenticated user's profile as returned by the backend
type Identity struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	IsAdmin     bool   `json:"is_admin"`
	RoleName    string `json:"role,omitempty"`
}

// Role returns the effective role. The is_admin flag wins over the role field.
func (i Identity) Role() Role {
	if i.IsAdmin {
		return RoleAdmin
	}
	return ParseRole(i.RoleName)
}

// Name returns the display name, falling back to the username
func (i Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Username
}

// AuthGrant is what the backend returns for a successful login or registration
type AuthGrant struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}
