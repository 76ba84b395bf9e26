package rbac

import "github.com/hconline/permission-manager/internal/shared"

// Action enumerates the guarded operations.
type Action string

const (
	ActionReadUser    Action = "read_user"
	ActionUpdateUser  Action = "update_user"
	ActionAssignRoles Action = "assign_roles"
	ActionDeleteUser  Action = "delete_user"
	ActionReadAudit   Action = "read_audit"
)

// policyRule describes one row of the decision table: the base authority
// every actor needs, whether acting on one's own record is sufficient,
// and which authorities bypass the ownership restriction.
type policyRule struct {
	base        shared.Authority
	selfAllowed bool
	bypass      []shared.Authority
	targetless  bool
}

// policies is the complete decision table. Role reassignment and
// deletion are never self-service; profile reads are open to holders of
// a privileged read authority regardless of ownership.
var policies = map[Action]policyRule{
	ActionReadUser: {
		base:        shared.PermReadUser,
		selfAllowed: true,
		bypass:      []shared.Authority{shared.PermReadAudit, shared.PermDeleteUser},
	},
	ActionUpdateUser: {
		base:        shared.PermUpdateUser,
		selfAllowed: true,
		bypass:      []shared.Authority{shared.RoleMarkerAdmin},
	},
	ActionAssignRoles: {
		base:   shared.PermUpdateUser,
		bypass: []shared.Authority{shared.RoleMarkerAdmin},
	},
	ActionDeleteUser: {
		base:   shared.PermDeleteUser,
		bypass: []shared.Authority{shared.RoleMarkerAdmin},
	},
	ActionReadAudit: {
		base:       shared.PermReadAudit,
		targetless: true,
	},
}

// Authorize decides whether the actor may perform action on the target
// user. It is a pure function of the actor's authority set and the two
// ids; it consults no external state. Every denial is the uniform
// shared.ErrForbidden so callers cannot tell a missing authority from a
// failed ownership check.
func Authorize(actor shared.Identity, action Action, targetUserID int64) error {
	rule, ok := policies[action]
	if !ok {
		return shared.ErrForbidden
	}
	if !actor.HasAuthority(rule.base) {
		return shared.ErrForbidden
	}
	if rule.targetless {
		return nil
	}
	if rule.selfAllowed && actor.UserID == targetUserID {
		return nil
	}
	if actor.Authorities.HasAny(rule.bypass...) {
		return nil
	}
	return shared.ErrForbidden
}
