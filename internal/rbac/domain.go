package rbac

// Permission represents an atomic capability such as READ_USER.
type Permission struct {
	ID          int64
	Name        string
	Description string
}

// Role represents a named grouping of permissions.
type Role struct {
	ID          int64
	Name        string
	Description string
	Permissions []Permission
}
