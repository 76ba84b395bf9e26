package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hconline/permission-manager/internal/rbac"
	"github.com/hconline/permission-manager/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user by email together with its roles and the
// permissions each role grants.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, enabled FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	roles, err := loadUserRoles(ctx, r.pool, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return user, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// loadUserRoles loads the role/permission graph for one user in a single
// query.
func loadUserRoles(ctx context.Context, q queryer, userID int64) ([]rbac.Role, error) {
	rows, err := q.Query(ctx, `
SELECT r.id, r.name, r.description, p.id, p.name, p.description
FROM roles r
JOIN user_roles ur ON ur.role_id = r.id
LEFT JOIN role_permissions rp ON rp.role_id = r.id
LEFT JOIN permissions p ON p.id = rp.permission_id
WHERE ur.user_id = $1
ORDER BY r.id, p.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []rbac.Role
	index := make(map[int64]int)
	for rows.Next() {
		var role rbac.Role
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
			roles[i].Permissions = append(roles[i].Permissions, rbac.Permission{
				ID:          *permID,
				Name:        derefString(permName),
				Description: derefString(permDesc),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ Repository = (*PGRepository)(nil)
