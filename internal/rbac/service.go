package rbac

import (
	"context"
	"fmt"

	"github.com/hconline/permission-manager/internal/shared"
)

// RepositoryPort describes the role lookups Service needs.
type RepositoryPort interface {
	GetRolesByIDs(ctx context.Context, ids []int64) ([]Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
}

// Service exposes role resolution to the rest of the system.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ResolveRoles fetches the roles for the given ids. Every id must
// resolve; a missing one fails the whole call with ErrRoleNotFound so a
// reassignment can never silently drop a grant.
func (s *Service) ResolveRoles(ctx context.Context, ids []int64) ([]Role, error) {
	roles, err := s.repo.GetRolesByIDs(ctx, dedupeIDs(ids))
	if err != nil {
		return nil, err
	}
	found := make(map[int64]struct{}, len(roles))
	for _, role := range roles {
		found[role.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("%w: id %d", shared.ErrRoleNotFound, id)
		}
	}
	return roles, nil
}

// ListRoles returns every role with its permission set.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
