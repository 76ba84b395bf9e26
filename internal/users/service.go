package users

import (
	"context"
	"strings"

	"github.com/hconline/permission-manager/internal/rbac"
	"github.com/hconline/permission-manager/internal/shared"
)

// TxRepository exposes the persistence operations that must share one
// transaction.
type TxRepository interface {
	GetUser(ctx context.Context, id int64) (User, error)
	CountUsersWithRole(ctx context.Context, roleName string) (int, error)
	UpdateUser(ctx context.Context, user User) error
	DeleteUser(ctx context.Context, id int64) error
	// LockAdminGuard serializes concurrent admin deletions for the
	// remainder of the transaction.
	LockAdminGuard(ctx context.Context) error
}

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetUser(ctx context.Context, id int64) (User, error)
}

// RolePort resolves role ids for reassignment.
type RolePort interface {
	ResolveRoles(ctx context.Context, ids []int64) ([]rbac.Role, error)
}

// Service enforces the user lifecycle rules: the policy table guards
// every operation, role reassignment is never self-service, and the
// last administrator can not be deleted.
type Service struct {
	repo  RepositoryPort
	roles RolePort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, roles RolePort) *Service {
	return &Service{repo: repo, roles: roles}
}

// GetUser returns the profile of one user, subject to the read policy.
func (s *Service) GetUser(ctx context.Context, actor shared.Identity, id int64) (Profile, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if err := rbac.Authorize(actor, rbac.ActionReadUser, id); err != nil {
		return Profile{}, err
	}
	return NewProfile(user), nil
}

// UpdateUserInput carries the optional changes of an update request.
type UpdateUserInput struct {
	Email   string
	RoleIDs []int64
}

// UpdateUser applies changes to a user. A present, non-blank email
// overwrites the stored one. A non-empty role id list replaces the
// entire role set; every id must resolve.
func (s *Service) UpdateUser(ctx context.Context, actor shared.Identity, id int64, input UpdateUserInput) (Profile, error) {
	var updated User
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		user, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if err := rbac.Authorize(actor, rbac.ActionUpdateUser, id); err != nil {
			return err
		}
		if email := strings.TrimSpace(input.Email); email != "" {
			user.Email = email
		}
		if len(input.RoleIDs) > 0 {
			if err := rbac.Authorize(actor, rbac.ActionAssignRoles, id); err != nil {
				return err
			}
			roles, err := s.roles.ResolveRoles(ctx, input.RoleIDs)
			if err != nil {
				return err
			}
			user.Roles = roles
		}
		if err := tx.UpdateUser(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	return NewProfile(updated), nil
}

// DeleteUser removes a user. Deleting a user who holds the admin role
// takes the advisory lock first and counts the remaining admins after
// it, so a deletion that waited on the lock counts the survivors of the
// deletion that held it; two concurrent deletions of the last two
// admins can not both observe a count above one.
func (s *Service) DeleteUser(ctx context.Context, actor shared.Identity, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		user, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if err := rbac.Authorize(actor, rbac.ActionDeleteUser, id); err != nil {
			return err
		}
		if user.IsAdmin() {
			if err := tx.LockAdminGuard(ctx); err != nil {
				return err
			}
			count, err := tx.CountUsersWithRole(ctx, shared.AdminRoleName)
			if err != nil {
				return err
			}
			if count <= 1 {
				return shared.ErrLastAdmin
			}
		}
		return tx.DeleteUser(ctx, id)
	})
}
