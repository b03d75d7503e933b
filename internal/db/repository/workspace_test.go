package repository

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "workhub/internal/db"
	"workhub/internal/domain"
)

func setupWorkspaceRepo(t *testing.T) (*WorkspaceRepo, *AccountRepo, *sql.DB) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewWorkspaceRepo(writeDB), NewAccountRepo(writeDB), writeDB
}

func TestWorkspaceCRUD(t *testing.T) {
	workspaces, accounts, _ := setupWorkspaceRepo(t)

	owner, err := accounts.Create(ctx, &domain.Account{Email: "owner@test"})
	require.NoError(t, err)

	ws, err := workspaces.Create(ctx, &domain.Workspace{Name: "acme", Description: "demo", OwnerID: owner.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, ws.ID)

	got, err := workspaces.GetByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Name)
	assert.Equal(t, owner.ID, got.OwnerID)

	got.Name = "acme-2"
	updated, err := workspaces.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "acme-2", updated.Name)

	require.NoError(t, workspaces.Delete(ctx, ws.ID))
	_, err = workspaces.GetByID(ctx, ws.ID)
	assert.True(t, domain.IsNotFound(err))
	assert.True(t, domain.IsNotFound(workspaces.Delete(ctx, ws.ID)))
}

func TestWorkspaceCreateRejectsUnknownOwner(t *testing.T) {
	workspaces, _, _ := setupWorkspaceRepo(t)
	_, err := workspaces.Create(ctx, &domain.Workspace{Name: "acme", OwnerID: "ghost"})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestWorkspaceMembership(t *testing.T) {
	workspaces, accounts, _ := setupWorkspaceRepo(t)

	owner, err := accounts.Create(ctx, &domain.Account{Email: "owner@test"})
	require.NoError(t, err)
	member, err := accounts.Create(ctx, &domain.Account{Email: "member@test"})
	require.NoError(t, err)
	ws, err := workspaces.Create(ctx, &domain.Workspace{Name: "acme", OwnerID: owner.ID})
	require.NoError(t, err)

	require.NoError(t, workspaces.AddMember(ctx, ws.ID, member.ID))
	// Adding twice is a no-op.
	require.NoError(t, workspaces.AddMember(ctx, ws.ID, member.ID))

	ok, err := workspaces.IsMember(ctx, ws.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := workspaces.ListForAccount(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ws.ID, list[0].ID)

	require.NoError(t, workspaces.RemoveMember(ctx, ws.ID, member.ID))
	ok, err = workspaces.IsMember(ctx, ws.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkspaceDeleteCascadesRows(t *testing.T) {
	workspaces, accounts, writeDB := setupWorkspaceRepo(t)
	groups := NewGroupRepo(writeDB)
	policies := NewPolicyRepo(writeDB)

	owner, err := accounts.Create(ctx, &domain.Account{Email: "owner@test"})
	require.NoError(t, err)
	ws, err := workspaces.Create(ctx, &domain.Workspace{Name: "acme", OwnerID: owner.ID})
	require.NoError(t, err)
	g, err := groups.Create(ctx, &domain.Group{WorkspaceID: ws.ID, Name: "eng"})
	require.NoError(t, err)
	_, err = policies.Upsert(ctx, &domain.Policy{
		WorkspaceID: ws.ID, HolderType: domain.HolderGroup, HolderID: g.ID,
		Permissions: domain.NewPermissionSet(domain.PermGetWorkspace),
	})
	require.NoError(t, err)

	require.NoError(t, workspaces.Delete(ctx, ws.ID))

	_, err = groups.GetByID(ctx, g.ID)
	assert.True(t, domain.IsNotFound(err))
	stored, err := policies.FindAll(ctx, ws.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestGroupMembershipQueries(t *testing.T) {
	workspaces, accounts, writeDB := setupWorkspaceRepo(t)
	groups := NewGroupRepo(writeDB)

	owner, err := accounts.Create(ctx, &domain.Account{Email: "owner@test"})
	require.NoError(t, err)
	member, err := accounts.Create(ctx, &domain.Account{Email: "member@test"})
	require.NoError(t, err)
	ws, err := workspaces.Create(ctx, &domain.Workspace{Name: "acme", OwnerID: owner.ID})
	require.NoError(t, err)
	other, err := workspaces.Create(ctx, &domain.Workspace{Name: "other", OwnerID: owner.ID})
	require.NoError(t, err)

	g1, err := groups.Create(ctx, &domain.Group{WorkspaceID: ws.ID, Name: "eng"})
	require.NoError(t, err)
	g2, err := groups.Create(ctx, &domain.Group{WorkspaceID: other.ID, Name: "eng"})
	require.NoError(t, err)

	require.NoError(t, groups.AddMember(ctx, &domain.GroupMember{GroupID: g1.ID, AccountID: member.ID, Role: domain.GroupRoleMember}))
	require.NoError(t, groups.AddMember(ctx, &domain.GroupMember{GroupID: g2.ID, AccountID: member.ID, Role: domain.GroupRoleMember}))

	// Scoped to one workspace: the other workspace's group does not appear.
	ids, err := groups.ListGroupIDsForMember(ctx, ws.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{g1.ID}, ids)

	m, err := groups.GetMember(ctx, g1.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupRoleMember, m.Role)

	// Re-adding with a new role updates in place.
	require.NoError(t, groups.AddMember(ctx, &domain.GroupMember{GroupID: g1.ID, AccountID: member.ID, Role: domain.GroupRoleAdmin}))
	m, err = groups.GetMember(ctx, g1.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupRoleAdmin, m.Role)
}
