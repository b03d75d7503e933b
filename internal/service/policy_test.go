package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workhub/internal/domain"
)

func TestSetPolicyReplacesEntireSet(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member)

	env.setPolicy(t, ws, accountHolder(member),
		domain.PermGetWorkspace, domain.PermGetWorkspaceMembers)

	// The second write replaces, not merges.
	env.setPolicy(t, ws, accountHolder(member), domain.PermGetGroups)

	effective, err := env.authz.ResolveEffectivePermissions(ctx, ws, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{string(domain.PermGetGroups)}, effective.Sorted())
}

func TestSetPolicyIdempotent(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member)

	p1 := env.setPolicy(t, ws, accountHolder(member), domain.PermGetWorkspace)
	p2 := env.setPolicy(t, ws, accountHolder(member), domain.PermGetWorkspace)

	// Same record, same stored set. Only one policy row per holder.
	assert.Equal(t, p1.ID, p2.ID)
	assert.Equal(t, p1.Permissions.Sorted(), p2.Permissions.Sorted())

	list, err := env.policies.ListPolicies(ctx, ws)
	require.NoError(t, err)
	holders := 0
	for _, p := range list.Policies {
		if p.PolicyHolder.ID == member.ID {
			holders++
		}
	}
	assert.Equal(t, 1, holders)
}

func TestSetPolicyEmptySetRevokesAccess(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member)

	env.setPolicy(t, ws, accountHolder(member), domain.PermGetWorkspace)
	env.setPolicy(t, ws, accountHolder(member))

	effective, err := env.authz.ResolveEffectivePermissions(ctx, ws, member.ID)
	require.NoError(t, err)
	assert.Empty(t, effective)
}

func TestSetPolicyRejectsUnknownPermission(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member)

	env.setPolicy(t, ws, accountHolder(member), domain.PermGetWorkspace)

	// One bad name in the batch rejects the whole write.
	_, err := env.policies.SetPolicy(ctx, domain.SetPolicyRequest{
		WorkspaceID: ws.ID,
		Holder:      accountHolder(member),
		Permissions: []string{string(domain.PermGetGroups), "launch_missiles"},
	})
	var invalid *domain.InvalidPermissionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "launch_missiles", invalid.Name)

	// The prior stored policy is untouched.
	effective, err := env.authz.ResolveEffectivePermissions(ctx, ws, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{string(domain.PermGetWorkspace)}, effective.Sorted())
}

func TestSetPolicyRejectsGroupScopeNames(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member)

	// Group-scope permission names are not grantable in a workspace policy.
	_, err := env.policies.SetPolicy(ctx, domain.SetPolicyRequest{
		WorkspaceID: ws.ID,
		Holder:      accountHolder(member),
		Permissions: []string{string(domain.PermDeleteGroup)},
	})
	var invalid *domain.InvalidPermissionError
	require.ErrorAs(t, err, &invalid)
}

func TestSetPolicyRejectsHolderOutsideWorkspace(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	stranger := env.createAccount(t, "stranger@test")
	ws := env.createWorkspace(t, owner, "acme")

	_, err := env.policies.SetPolicy(ctx, domain.SetPolicyRequest{
		WorkspaceID: ws.ID,
		Holder:      accountHolder(stranger),
		Permissions: []string{string(domain.PermGetWorkspace)},
	})
	var notIn *domain.HolderNotInWorkspaceError
	require.ErrorAs(t, err, &notIn)

	// Same for a group from a different workspace.
	other := env.createWorkspace(t, owner, "other")
	foreign := env.createGroup(t, other, "foreign")
	_, err = env.policies.SetPolicy(ctx, domain.SetPolicyRequest{
		WorkspaceID: ws.ID,
		Holder:      groupHolder(foreign),
		Permissions: []string{string(domain.PermGetWorkspace)},
	})
	require.ErrorAs(t, err, &notIn)
}

func TestAddPermissionsBulkGrant(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	m1 := env.createAccount(t, "m1@test")
	m2 := env.createAccount(t, "m2@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, m1, m2)
	g := env.createGroup(t, ws, "eng", m1)

	written, err := env.policies.AddPermissions(ctx, domain.AddPermissionsRequest{
		WorkspaceID: ws.ID,
		Grants: []domain.PermissionGrant{
			{Type: domain.HolderAccount, ID: m1.ID, Permissions: []string{string(domain.PermGetWorkspace)}},
			{Type: domain.HolderAccount, ID: m2.ID, Permissions: []string{string(domain.PermGetGroups)}},
			{Type: domain.HolderGroup, ID: g.ID, Permissions: []string{string(domain.PermGetWorkspaceMembers)}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, written, 3)

	effective, err := env.authz.ResolveEffectivePermissions(ctx, ws, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		string(domain.PermGetWorkspace),
		string(domain.PermGetWorkspaceMembers),
	}, effective.Sorted())
}

func TestGetPolicyForAccountPackagesHolderInfo(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	ws := env.createWorkspace(t, owner, "acme")

	out, err := env.policies.GetPolicyForAccount(ctx, ws, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HolderAccount, out.PolicyHolder.Type)
	assert.Equal(t, "owner@test", out.PolicyHolder.Email)
	assert.Equal(t, domain.WorkspacePermissions().Sorted(), out.Permissions)
}

func TestListPoliciesInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	m1 := env.createAccount(t, "m1@test")
	m2 := env.createAccount(t, "m2@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, m1, m2)

	// Workspace creation stores the owner's policy first.
	env.setPolicy(t, ws, accountHolder(m1), domain.PermGetWorkspace)
	env.setPolicy(t, ws, accountHolder(m2), domain.PermGetWorkspace)

	list, err := env.policies.ListPolicies(ctx, ws)
	require.NoError(t, err)
	require.Len(t, list.Policies, 3)
	assert.Equal(t, owner.ID, list.Policies[0].PolicyHolder.ID)
	assert.Equal(t, m1.ID, list.Policies[1].PolicyHolder.ID)
	assert.Equal(t, m2.ID, list.Policies[2].PolicyHolder.ID)

	// A replace write does not move the record's position.
	env.setPolicy(t, ws, accountHolder(m1), domain.PermGetGroups)
	list, err = env.policies.ListPolicies(ctx, ws)
	require.NoError(t, err)
	assert.Equal(t, m1.ID, list.Policies[1].PolicyHolder.ID)
}
