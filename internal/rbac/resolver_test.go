package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hconline/permission-manager/internal/shared"
)

var (
	readPerm   = Permission{ID: 1, Name: "READ_USER"}
	updatePerm = Permission{ID: 2, Name: "UPDATE_USER"}
	deletePerm = Permission{ID: 3, Name: "DELETE_USER"}
	auditPerm  = Permission{ID: 4, Name: "READ_AUDIT"}

	userRole    = Role{ID: 1, Name: "USER", Permissions: []Permission{readPerm}}
	supportRole = Role{ID: 2, Name: "SUPPORT", Permissions: []Permission{readPerm, auditPerm}}
	adminRole   = Role{ID: 3, Name: "ADMIN", Permissions: []Permission{readPerm, updatePerm, deletePerm, auditPerm}}
)

func TestResolveAuthoritiesEmitsMarkerAndPermissions(t *testing.T) {
	set := ResolveAuthorities([]Role{userRole})
	assert.Equal(t, []string{"READ_USER", "ROLE_USER"}, set.Strings())
}

func TestResolveAuthoritiesUnionDeduplicates(t *testing.T) {
	// READ_USER is granted by both roles but appears once.
	set := ResolveAuthorities([]Role{userRole, supportRole})
	assert.Equal(t, []string{"READ_AUDIT", "READ_USER", "ROLE_SUPPORT", "ROLE_USER"}, set.Strings())
}

func TestResolveAuthoritiesAdmin(t *testing.T) {
	set := ResolveAuthorities([]Role{adminRole})
	assert.True(t, set.Has(shared.RoleMarkerAdmin))
	for _, perm := range []shared.Authority{shared.PermReadUser, shared.PermUpdateUser, shared.PermDeleteUser, shared.PermReadAudit} {
		assert.True(t, set.Has(perm), "missing %s", perm)
	}
}

func TestResolveAuthoritiesNoRoles(t *testing.T) {
	assert.Empty(t, ResolveAuthorities(nil))
	assert.Empty(t, ResolveAuthorities([]Role{}))
}

func TestRoleNames(t *testing.T) {
	names := RoleNames([]Role{supportRole, adminRole, supportRole})
	assert.Equal(t, []string{"ADMIN", "SUPPORT"}, names)
	assert.Empty(t, RoleNames(nil))
}

func TestPermissionNames(t *testing.T) {
	names := PermissionNames([]Role{userRole, supportRole})
	assert.Equal(t, []string{"READ_AUDIT", "READ_USER"}, names)
}
