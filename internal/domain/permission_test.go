package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPermission(t *testing.T) {
	d, ok := LookupPermission(PermGetWorkspace)
	require.True(t, ok)
	assert.Equal(t, ScopeWorkspace, d.Scope)

	d, ok = LookupPermission(PermDeleteGroup)
	require.True(t, ok)
	assert.Equal(t, ScopeGroup, d.Scope)

	_, ok = LookupPermission("launch_missiles")
	assert.False(t, ok)
}

func TestCatalogPartitions(t *testing.T) {
	ws := WorkspacePermissions()
	grp := GroupPermissions()

	assert.Len(t, ws, 11)
	assert.Len(t, grp, 9)
	for p := range ws {
		assert.False(t, grp.Contains(p), "scope overlap: %s", p)
	}
}

func TestGroupPermissionsForRole(t *testing.T) {
	admin := GroupPermissionsForRole(GroupRoleAdmin)
	assert.Equal(t, GroupPermissions().Sorted(), admin.Sorted())

	member := GroupPermissionsForRole(GroupRoleMember)
	assert.True(t, member.Contains(PermGetGroup))
	assert.True(t, member.Contains(PermGetGroupMembers))
	assert.False(t, member.Contains(PermDeleteGroup))
	assert.False(t, member.Contains(PermSetGroupPolicy))

	assert.Empty(t, GroupPermissionsForRole("stranger"))
}

func TestPermissionSetOps(t *testing.T) {
	a := NewPermissionSet(PermGetWorkspace)
	b := NewPermissionSet(PermGetGroups, PermGetWorkspace)

	a.Union(b)
	assert.Equal(t, []string{string(PermGetGroups), string(PermGetWorkspace)}, a.Sorted())

	c := b.Clone()
	c.Add(PermUpdateWorkspace)
	assert.False(t, b.Contains(PermUpdateWorkspace))
	assert.True(t, c.Contains(PermUpdateWorkspace))
}

func TestWorkspacePermissionsReturnsCopy(t *testing.T) {
	first := WorkspacePermissions()
	first.Add("poisoned")
	second := WorkspacePermissions()
	assert.False(t, second.Contains("poisoned"))
}
