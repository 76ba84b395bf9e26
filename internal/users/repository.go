package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hconline/permission-manager/internal/platform/db"
	"github.com/hconline/permission-manager/internal/rbac"
	"github.com/hconline/permission-manager/internal/shared"
)

// adminGuardLockKey is the advisory lock key serializing admin deletions.
const adminGuardLockKey int64 = 0x7065726D41444D // "permADM"

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetUser fetches one user with its role graph.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	return getUser(ctx, r.pool, id)
}

// WithTx runs fn inside one ReadCommitted transaction. ReadCommitted is
// load-bearing for the last-admin guard: the admin count executes after
// LockAdminGuard, and its per-statement snapshot must observe a deletion
// that committed while this transaction was waiting on the lock.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTxOptions(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) GetUser(ctx context.Context, id int64) (User, error) {
	return getUser(ctx, t.tx, id)
}

func (t *txRepository) LockAdminGuard(ctx context.Context) error {
	return db.AdvisoryLock(ctx, t.tx, adminGuardLockKey)
}

func (t *txRepository) CountUsersWithRole(ctx context.Context, roleName string) (int, error) {
	var count int
	err := t.tx.QueryRow(ctx, `
SELECT COUNT(DISTINCT ur.user_id)
FROM user_roles ur
JOIN roles r ON r.id = ur.role_id
WHERE r.name = $1`, roleName).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (t *txRepository) UpdateUser(ctx context.Context, user User) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE users SET email = $2, updated_at = NOW() WHERE id = $1`,
		user.ID, user.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, user.ID); err != nil {
		return err
	}
	for _, role := range user.Roles {
		if _, err := t.tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
			user.ID, role.ID); err != nil {
			return err
		}
	}
	return nil
}

func (t *txRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func getUser(ctx context.Context, q dbtx, id int64) (User, error) {
	var user User
	err := q.QueryRow(ctx,
		`SELECT id, username, email, password_hash, enabled FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	roles, err := loadRoles(ctx, q, user.ID)
	if err != nil {
		return User{}, err
	}
	user.Roles = roles
	return user, nil
}

func loadRoles(ctx context.Context, q dbtx, userID int64) ([]rbac.Role, error) {
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
			perm := rbac.Permission{ID: *permID}
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ RepositoryPort = (*Repository)(nil)
	_ TxRepository   = (*txRepository)(nil)
)
