package users

import (
	"github.com/hconline/permission-manager/internal/rbac"
	"github.com/hconline/permission-manager/internal/shared"
)

// User represents a managed account together with its role graph.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Enabled      bool
	Roles        []rbac.Role
}

// HoldsRole reports whether the user holds a role with the given name.
func (u User) HoldsRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.HoldsRole(shared.AdminRoleName)
}

// Profile is the projection returned by read and update operations.
type Profile struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Enabled     bool     `json:"enabled"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// NewProfile projects a user onto its API representation. Role and
// permission names are recomputed from the current role set, never
// cached.
func NewProfile(u User) Profile {
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Enabled:     u.Enabled,
		Roles:       rbac.RoleNames(u.Roles),
		Permissions: rbac.PermissionNames(u.Roles),
	}
}
