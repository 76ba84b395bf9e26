package rbac

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed access to roles and permissions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetRolesByIDs fetches the roles with the given ids, each with its
// permission set. Missing ids are simply absent from the result; the
// service layer decides whether that is an error.
func (r *Repository) GetRolesByIDs(ctx context.Context, ids []int64) ([]Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
SELECT r.id, r.name, r.description, p.id, p.name, p.description
FROM roles r
LEFT JOIN role_permissions rp ON rp.role_id = r.id
LEFT JOIN permissions p ON p.id = rp.permission_id
WHERE r.id = ANY($1)
ORDER BY r.id, p.id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	index := make(map[int64]int)
	for rows.Next() {
		var role Role
		var permID *int64
		var permName, permDesc *string
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &permID, &permName, &permDesc); err != nil {
			return nil, err
		}
		i, ok := index[role.ID]
		if !ok {
			i = len(roles)
			index[role.ID] = i
			roles = append(roles, role)
		}
		if permID != nil {
			perm := Permission{ID: *permID}
			if permName != nil {
				perm.Name = *permName
			}
			if permDesc != nil {
				perm.Description = *permDesc
			}
			roles[i].Permissions = append(roles[i].Permissions, perm)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// ListRoles returns all roles ordered by name, each with its permissions.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `
SELECT r.id, r.name, r.description, p.id, p.name, p.description
FROM roles r
LEFT JOIN role_permissions rp ON rp.role_id = r.id
LEFT JOIN permissions p ON p.id = rp.permission_id
ORDER BY r.name, p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	index := make(map[int64]int)
	for rows.Next() {
		var role Role
		var permID *int64
		var permName, permDesc *string
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &permID, &permName, &permDesc); err != nil {
			return nil, err
		}
		i, ok := index[role.ID]
		if !ok {
			i = len(roles)
			index[role.ID] = i
			roles = append(roles, role)
		}
		if permID != nil {
			perm := Permission{ID: *permID}
			if permName != nil {
				perm.Name = *permName
			}
			if permDesc != nil {
				perm.Description = *permDesc
			}
			roles[i].Permissions = append(roles[i].Permissions, perm)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}
