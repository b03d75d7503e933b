package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workhub/internal/domain"
)

func TestResolveOwnerBypass(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	ws := env.createWorkspace(t, owner, "acme")

	effective, err := env.authz.ResolveEffectivePermissions(ctx, ws, owner.ID)
	require.NoError(t, err)

	// The owner holds the full workspace-scope catalog regardless of any
	// stored policy.
	assert.Equal(t, domain.WorkspacePermissions().Sorted(), effective.Sorted())

	// Even after an explicit narrow policy is stored for the owner.
	env.setPolicy(t, ws, accountHolder(owner), domain.PermGetWorkspace)
	effective, err = env.authz.ResolveEffectivePermissions(ctx, ws, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkspacePermissions().Sorted(), effective.Sorted())
}

func TestResolveDefaultDeny(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member)

	effective, err := env.authz.ResolveEffectivePermissions(ctx, ws, member.ID)
	require.NoError(t, err)
	assert.Empty(t, effective)

	assert.False(t, CheckAll(effective, domain.PermGetWorkspace))
	assert.False(t, CheckAny(effective, domain.PermGetWorkspace, domain.PermUpdateWorkspace))
}

func TestResolveUnionOfDirectAndGroupPolicies(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member)

	g1 := env.createGroup(t, ws, "readers", member)
	g2 := env.createGroup(t, ws, "writers", member)

	env.setPolicy(t, ws, accountHolder(member), domain.PermGetWorkspace)
	env.setPolicy(t, ws, groupHolder(g1), domain.PermGetWorkspaceMembers)
	env.setPolicy(t, ws, groupHolder(g2), domain.PermGetGroups, domain.PermGetWorkspace)

	effective, err := env.authz.ResolveEffectivePermissions(ctx, ws, member.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{
		string(domain.PermGetGroups),
		string(domain.PermGetWorkspace),
		string(domain.PermGetWorkspaceMembers),
	}, effective.Sorted())
}

func TestResolveIgnoresGroupsWithoutMembership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	other := env.createAccount(t, "other@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member, other)

	// member is not in the group; the group's policy must not leak.
	g := env.createGroup(t, ws, "privileged", other)
	env.setPolicy(t, ws, groupHolder(g), domain.PermDeleteWorkspace)

	effective, err := env.authz.ResolveEffectivePermissions(ctx, ws, member.ID)
	require.NoError(t, err)
	assert.False(t, effective.Contains(domain.PermDeleteWorkspace))
}

func TestCheckGatesVacuousTrue(t *testing.T) {
	empty := domain.PermissionSet{}
	assert.True(t, CheckAll(empty))
	assert.True(t, CheckAny(empty))

	set := domain.NewPermissionSet(domain.PermGetWorkspace)
	assert.True(t, CheckAll(set, domain.PermGetWorkspace))
	assert.False(t, CheckAll(set, domain.PermGetWorkspace, domain.PermUpdateWorkspace))
	assert.True(t, CheckAny(set, domain.PermGetWorkspace, domain.PermUpdateWorkspace))
	assert.False(t, CheckAny(set, domain.PermUpdateWorkspace))
}

func TestResolveGroupPermissionsByRole(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	admin := env.createAccount(t, "admin@test")
	member := env.createAccount(t, "member@test")
	outsider := env.createAccount(t, "outsider@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, admin, member, outsider)

	g := env.createGroup(t, ws, "eng")
	require.NoError(t, env.groups.AddMembers(ctx, g, domain.AddGroupMembersRequest{
		GroupID: g.ID,
		Members: []domain.GroupMemberInput{
			{AccountID: admin.ID, Role: domain.GroupRoleAdmin},
			{AccountID: member.ID},
		},
	}))

	// Owner bypasses to the full group scope.
	set, err := env.authz.ResolveGroupPermissions(ctx, ws, g, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupPermissions().Sorted(), set.Sorted())

	// Group admins hold the full group scope.
	set, err = env.authz.ResolveGroupPermissions(ctx, ws, g, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupPermissions().Sorted(), set.Sorted())

	// Plain members get the read-only subset.
	set, err = env.authz.ResolveGroupPermissions(ctx, ws, g, member.ID)
	require.NoError(t, err)
	assert.True(t, set.Contains(domain.PermGetGroup))
	assert.False(t, set.Contains(domain.PermDeleteGroup))
	assert.False(t, set.Contains(domain.PermAddGroupMembers))

	// Non-members resolve to the empty set.
	set, err = env.authz.ResolveGroupPermissions(ctx, ws, g, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, set)
}
