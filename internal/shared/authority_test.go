package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuthority(t *testing.T) {
	cases := []struct {
		in      string
		want    Authority
		wantErr bool
	}{
		{in: "READ_USER", want: PermReadUser},
		{in: "  ROLE_ADMIN ", want: RoleMarkerAdmin},
		{in: "PERM_V2", want: Authority("PERM_V2")},
		{in: "", wantErr: true},
		{in: "read_user", wantErr: true},
		{in: "_LEADING", wantErr: true},
		{in: "READ USER", wantErr: true},
		{in: "2FA", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseAuthority(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestRoleAuthority(t *testing.T) {
	assert.Equal(t, RoleMarkerAdmin, RoleAuthority("ADMIN"))
	assert.Equal(t, RoleMarkerSupport, RoleAuthority(" support "))
}

func TestAuthoritySetMembership(t *testing.T) {
	set := NewAuthoritySet(PermReadUser, PermReadUser, RoleMarkerUser)
	assert.Len(t, set, 2)
	assert.True(t, set.Has(PermReadUser))
	assert.False(t, set.Has(PermDeleteUser))
	assert.True(t, set.HasAny(PermDeleteUser, RoleMarkerUser))
	assert.False(t, set.HasAny(PermDeleteUser, RoleMarkerAdmin))
	assert.False(t, set.HasAny())

	set.Add(PermUpdateUser)
	assert.True(t, set.Has(PermUpdateUser))
}

func TestAuthoritySetStringsSorted(t *testing.T) {
	set := NewAuthoritySet(RoleMarkerUser, PermReadUser, PermDeleteUser)
	assert.Equal(t, []string{"DELETE_USER", "READ_USER", "ROLE_USER"}, set.Strings())
}

func TestAuthoritySetFromStrings(t *testing.T) {
	set, err := AuthoritySetFromStrings([]string{"READ_USER", "ROLE_ADMIN"})
	require.NoError(t, err)
	assert.True(t, set.Has(PermReadUser))
	assert.True(t, set.Has(RoleMarkerAdmin))

	_, err = AuthoritySetFromStrings([]string{"READ_USER", "oops"})
	assert.Error(t, err)
}

func TestIdentityHasAuthority(t *testing.T) {
	id := Identity{UserID: 7, Authorities: NewAuthoritySet(PermReadUser)}
	assert.True(t, id.HasAuthority(PermReadUser))
	assert.False(t, id.HasAuthority(RoleMarkerAdmin))

	var empty Identity
	assert.False(t, empty.HasAuthority(PermReadUser))
}
