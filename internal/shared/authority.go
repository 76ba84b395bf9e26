package shared

import (
	"fmt"
	"sort"
	"strings"
)

// Authority is a single access-control token: either a permission name
// such as READ_USER or a role marker such as ROLE_ADMIN. The known values
// are the closed set below; ParseAuthority accepts additional values so
// new permissions can be granted without a code change, but rejects
// anything that does not look like an authority to keep typos from
// silently entering access decisions.
type Authority string

// Core permissions.
const (
	PermReadUser   Authority = "READ_USER"
	PermUpdateUser Authority = "UPDATE_USER"
	PermDeleteUser Authority = "DELETE_USER"
	PermReadAudit  Authority = "READ_AUDIT"
)

// Role markers.
const (
	RoleMarkerAdmin   Authority = "ROLE_ADMIN"
	RoleMarkerSupport Authority = "ROLE_SUPPORT"
	RoleMarkerUser    Authority = "ROLE_USER"
)

// RolePrefix is prepended to role names when they are emitted as authorities.
const RolePrefix = "ROLE_"

// AdminRoleName is the role whose holders count as administrators.
const AdminRoleName = "ADMIN"

// KnownAuthorities lists every authority the seeded system grants.
func KnownAuthorities() []Authority {
	return []Authority{
		PermReadUser,
		PermUpdateUser,
		PermDeleteUser,
		PermReadAudit,
		RoleMarkerAdmin,
		RoleMarkerSupport,
		RoleMarkerUser,
	}
}

// RoleAuthority returns the role-marker authority for a role name.
func RoleAuthority(roleName string) Authority {
	return Authority(RolePrefix + strings.ToUpper(strings.TrimSpace(roleName)))
}

// ParseAuthority validates a free-form string as an authority.
func ParseAuthority(s string) (Authority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("authority must not be empty")
	}
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case i > 0 && (r == '_' || (r >= '0' && r <= '9')):
		default:
			return "", fmt.Errorf("invalid authority %q", s)
		}
	}
	return Authority(s), nil
}

// IsRoleMarker reports whether the authority is a ROLE_ marker.
func (a Authority) IsRoleMarker() bool {
	return strings.HasPrefix(string(a), RolePrefix)
}

// AuthoritySet is a deduplicated set of authorities.
type AuthoritySet map[Authority]struct{}

// NewAuthoritySet builds a set from the given authorities.
func NewAuthoritySet(authorities ...Authority) AuthoritySet {
	set := make(AuthoritySet, len(authorities))
	for _, a := range authorities {
		set[a] = struct{}{}
	}
	return set
}

// AuthoritySetFromStrings parses and collects authorities, rejecting
// anything ParseAuthority does not accept.
func AuthoritySetFromStrings(values []string) (AuthoritySet, error) {
	set := make(AuthoritySet, len(values))
	for _, v := range values {
		a, err := ParseAuthority(v)
		if err != nil {
			return nil, err
		}
		set[a] = struct{}{}
	}
	return set, nil
}

// Add inserts an authority into the set.
func (s AuthoritySet) Add(a Authority) {
	s[a] = struct{}{}
}

// Has reports membership of a single authority.
func (s AuthoritySet) Has(a Authority) bool {
	_, ok := s[a]
	return ok
}

// HasAny reports whether at least one of the given authorities is present.
func (s AuthoritySet) HasAny(authorities ...Authority) bool {
	for _, a := range authorities {
		if s.Has(a) {
			return true
		}
	}
	return false
}

// Strings returns the members sorted, for stable projections and claims.
func (s AuthoritySet) Strings() []string {
	out := make([]string, 0, len(s))
	for a := range s {
		out = append(out, string(a))
	}
	sort.Strings(out)
	return out
}
