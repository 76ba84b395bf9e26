package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hconline/permission-manager/internal/shared"
)

func identityWith(userID int64, authorities ...shared.Authority) shared.Identity {
	return shared.Identity{UserID: userID, Authorities: shared.NewAuthoritySet(authorities...)}
}

func TestAuthorizeReadUser(t *testing.T) {
	cases := []struct {
		name   string
		actor  shared.Identity
		target int64
		allow  bool
	}{
		{
			name:   "self read with base permission",
			actor:  identityWith(1, shared.PermReadUser),
			target: 1,
			allow:  true,
		},
		{
			name:   "other read with base permission only",
			actor:  identityWith(1, shared.PermReadUser),
			target: 2,
			allow:  false,
		},
		{
			name:   "other read with audit authority",
			actor:  identityWith(1, shared.PermReadUser, shared.PermReadAudit),
			target: 2,
			allow:  true,
		},
		{
			name:   "other read with delete authority",
			actor:  identityWith(1, shared.PermReadUser, shared.PermDeleteUser),
			target: 2,
			allow:  true,
		},
		{
			name:   "self read without base permission",
			actor:  identityWith(1),
			target: 1,
			allow:  false,
		},
		{
			name:   "bypass without base permission still denied",
			actor:  identityWith(1, shared.PermReadAudit),
			target: 2,
			allow:  false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.actor, ActionReadUser, tc.target)
			if tc.allow {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, shared.ErrForbidden)
			}
		})
	}
}

func TestAuthorizeUpdateUser(t *testing.T) {
	actor := identityWith(1, shared.PermUpdateUser)
	assert.NoError(t, Authorize(actor, ActionUpdateUser, 1))
	assert.ErrorIs(t, Authorize(actor, ActionUpdateUser, 2), shared.ErrForbidden)

	admin := identityWith(1, shared.PermUpdateUser, shared.RoleMarkerAdmin)
	assert.NoError(t, Authorize(admin, ActionUpdateUser, 2))

	// The role marker alone does not substitute for the base permission.
	markerOnly := identityWith(1, shared.RoleMarkerAdmin)
	assert.ErrorIs(t, Authorize(markerOnly, ActionUpdateUser, 2), shared.ErrForbidden)
}

func TestAuthorizeAssignRolesNeverSelfService(t *testing.T) {
	actor := identityWith(1, shared.PermUpdateUser)
	// Ownership does not help here: role assignment has no self branch.
	assert.ErrorIs(t, Authorize(actor, ActionAssignRoles, 1), shared.ErrForbidden)
	assert.ErrorIs(t, Authorize(actor, ActionAssignRoles, 2), shared.ErrForbidden)

	admin := identityWith(1, shared.PermUpdateUser, shared.RoleMarkerAdmin)
	assert.NoError(t, Authorize(admin, ActionAssignRoles, 1))
	assert.NoError(t, Authorize(admin, ActionAssignRoles, 2))
}

func TestAuthorizeDeleteUser(t *testing.T) {
	actor := identityWith(1, shared.PermDeleteUser)
	// No self branch for deletion either.
	assert.ErrorIs(t, Authorize(actor, ActionDeleteUser, 1), shared.ErrForbidden)
	assert.ErrorIs(t, Authorize(actor, ActionDeleteUser, 2), shared.ErrForbidden)

	admin := identityWith(1, shared.PermDeleteUser, shared.RoleMarkerAdmin)
	assert.NoError(t, Authorize(admin, ActionDeleteUser, 2))
}

func TestAuthorizeReadAuditIgnoresTarget(t *testing.T) {
	auditor := identityWith(5, shared.PermReadAudit)
	assert.NoError(t, Authorize(auditor, ActionReadAudit, 0))
	assert.NoError(t, Authorize(auditor, ActionReadAudit, 99))

	assert.ErrorIs(t, Authorize(identityWith(5), ActionReadAudit, 0), shared.ErrForbidden)
}

func TestAuthorizeUnknownActionDenied(t *testing.T) {
	admin := identityWith(1, shared.RoleMarkerAdmin, shared.PermUpdateUser, shared.PermDeleteUser)
	assert.ErrorIs(t, Authorize(admin, Action("reboot"), 1), shared.ErrForbidden)
}

func TestAuthorizeEmptyIdentityDeniedEverywhere(t *testing.T) {
	var nobody shared.Identity
	for _, action := range []Action{ActionReadUser, ActionUpdateUser, ActionAssignRoles, ActionDeleteUser, ActionReadAudit} {
		assert.ErrorIs(t, Authorize(nobody, action, 1), shared.ErrForbidden, "action %s", action)
	}
}
