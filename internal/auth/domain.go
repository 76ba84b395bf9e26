package auth

import "github.com/hconline/permission-manager/internal/rbac"

// User represents an account as loaded for credential verification,
// including the full role/permission graph needed to resolve authorities.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Enabled      bool
	Roles        []rbac.Role
}
