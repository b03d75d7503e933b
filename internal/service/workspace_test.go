package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workhub/internal/domain"
)

func TestCreateWorkspaceInstallsOwnerPolicy(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	ws := env.createWorkspace(t, owner, "acme")

	ok, err := env.workspaces.workspaces.IsMember(ctx, ws.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := env.policyRepo.Find(ctx, ws.ID, accountHolder(owner))
	require.NoError(t, err)
	assert.Equal(t, domain.WorkspacePermissions().Sorted(), p.Permissions.Sorted())
}

func TestCreateWorkspaceUnknownOwner(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.workspaces.Create(ctx, "no-such-account", domain.CreateWorkspaceRequest{Name: "acme"})
	assert.True(t, domain.IsNotFound(err))
}

func TestCreateWorkspaceDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	env.createWorkspace(t, owner, "acme")

	_, err := env.workspaces.Create(ctx, owner.ID, domain.CreateWorkspaceRequest{Name: "acme"})
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestRemoveMemberCascades(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member)
	g := env.createGroup(t, ws, "eng", member)
	env.setPolicy(t, ws, accountHolder(member), domain.PermGetWorkspace)
	env.setPolicy(t, ws, groupHolder(g), domain.PermGetGroups)

	require.NoError(t, env.workspaces.RemoveMember(ctx, ws, member.ID))

	// Direct policy is gone.
	_, err := env.policyRepo.Find(ctx, ws.ID, accountHolder(member))
	assert.True(t, domain.IsNotFound(err))

	// Group membership is gone, so the group policy no longer applies.
	effective, err := env.authz.ResolveEffectivePermissions(ctx, ws, member.ID)
	require.NoError(t, err)
	assert.Empty(t, effective)

	// The group's own policy record survives for its remaining members.
	_, err = env.policyRepo.Find(ctx, ws.ID, groupHolder(g))
	require.NoError(t, err)
}

func TestRemoveOwnerRejected(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	ws := env.createWorkspace(t, owner, "acme")

	err := env.workspaces.RemoveMember(ctx, ws, owner.ID)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAddMembersValidatesBeforeWrite(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")

	_, err := env.workspaces.AddMembers(ctx, ws, domain.AddMembersRequest{
		AccountIDs: []string{member.ID, "no-such-account"},
	})
	assert.True(t, domain.IsNotFound(err))

	// No partial write: the valid account was not added either.
	ok, err := env.workspaces.workspaces.IsMember(ctx, ws.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createAccount(t, "owner@test")
	member := env.createAccount(t, "member@test")
	ws := env.createWorkspace(t, owner, "acme")
	env.addMember(t, ws, member)
	g := env.createGroup(t, ws, "eng", member)
	env.setPolicy(t, ws, groupHolder(g), domain.PermGetGroups)

	require.NoError(t, env.workspaces.Delete(ctx, ws))

	_, err := env.workspaces.GetByID(ctx, ws.ID)
	assert.True(t, domain.IsNotFound(err))
	_, err = env.groups.GetByID(ctx, g.ID)
	assert.True(t, domain.IsNotFound(err))

	stored, err := env.policyRepo.FindAll(ctx, ws.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
