package rbac

import (
	"sort"

	"github.com/hconline/permission-manager/internal/shared"
)

// ResolveAuthorities computes the flattened authority set for a set of
// roles: each role contributes its ROLE_<name> marker plus every
// permission it grants. The result is a set, so a permission granted by
// two roles appears once. The function is pure; callers must recompute
// it after any role mutation rather than cache it.
func ResolveAuthorities(roles []Role) shared.AuthoritySet {
	set := make(shared.AuthoritySet)
	for _, role := range roles {
		set.Add(shared.RoleAuthority(role.Name))
		for _, perm := range role.Permissions {
			set.Add(shared.Authority(perm.Name))
		}
	}
	return set
}

// RoleNames projects the deduplicated role names, sorted for stable
// API responses.
func RoleNames(roles []Role) []string {
	seen := make(map[string]struct{}, len(roles))
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		if _, ok := seen[role.Name]; ok {
			continue
		}
		seen[role.Name] = struct{}{}
		names = append(names, role.Name)
	}
	sort.Strings(names)
	return names
}

// PermissionNames projects the deduplicated permission names across
// roles, sorted for stable API responses.
func PermissionNames(roles []Role) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		for _, perm := range role.Permissions {
			if _, ok := seen[perm.Name]; ok {
				continue
			}
			seen[perm.Name] = struct{}{}
			names = append(names, perm.Name)
		}
	}
	sort.Strings(names)
	return names
}
