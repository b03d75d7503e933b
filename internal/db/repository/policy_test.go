package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "workhub/internal/db"
	"workhub/internal/domain"
)

var ctx = context.Background()

// setupPolicyRepo creates a workspace with an owner account and returns the
// wired repos.
func setupPolicyRepo(t *testing.T) (*PolicyRepo, *domain.Workspace) {
	t.Helper()

	writeDB, _ := internaldb.OpenTestSQLite(t)
	accounts := NewAccountRepo(writeDB)
	workspaces := NewWorkspaceRepo(writeDB)

	owner, err := accounts.Create(ctx, &domain.Account{Email: "owner@test"})
	require.NoError(t, err)
	ws, err := workspaces.Create(ctx, &domain.Workspace{Name: "acme", OwnerID: owner.ID})
	require.NoError(t, err)

	return NewPolicyRepo(writeDB), ws
}

func TestPolicyUpsertInsertsThenReplaces(t *testing.T) {
	repo, ws := setupPolicyRepo(t)
	holder := domain.HolderRef{Type: domain.HolderAccount, ID: "acc-1"}

	p1, err := repo.Upsert(ctx, &domain.Policy{
		WorkspaceID: ws.ID,
		HolderType:  holder.Type,
		HolderID:    holder.ID,
		Permissions: domain.NewPermissionSet(domain.PermGetWorkspace, domain.PermGetGroups),
	})
	require.NoError(t, err)

	p2, err := repo.Upsert(ctx, &domain.Policy{
		WorkspaceID: ws.ID,
		HolderType:  holder.Type,
		HolderID:    holder.ID,
		Permissions: domain.NewPermissionSet(domain.PermUpdateWorkspace),
	})
	require.NoError(t, err)

	// The conflict path keeps the original row and its id.
	assert.Equal(t, p1.ID, p2.ID)
	assert.Equal(t, []string{string(domain.PermUpdateWorkspace)}, p2.Permissions.Sorted())

	stored, err := repo.Find(ctx, ws.ID, holder)
	require.NoError(t, err)
	assert.Equal(t, []string{string(domain.PermUpdateWorkspace)}, stored.Permissions.Sorted())
}

func TestPolicyFindMissing(t *testing.T) {
	repo, ws := setupPolicyRepo(t)
	_, err := repo.Find(ctx, ws.ID, domain.HolderRef{Type: domain.HolderAccount, ID: "nope"})
	assert.True(t, domain.IsNotFound(err))
}

func TestPolicyHolderTypesDoNotCollide(t *testing.T) {
	repo, ws := setupPolicyRepo(t)

	// Same id as account and as group holder are distinct records.
	_, err := repo.Upsert(ctx, &domain.Policy{
		WorkspaceID: ws.ID, HolderType: domain.HolderAccount, HolderID: "x",
		Permissions: domain.NewPermissionSet(domain.PermGetWorkspace),
	})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, &domain.Policy{
		WorkspaceID: ws.ID, HolderType: domain.HolderGroup, HolderID: "x",
		Permissions: domain.NewPermissionSet(domain.PermGetGroups),
	})
	require.NoError(t, err)

	all, err := repo.FindAll(ctx, ws.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPolicyFindAllForHolders(t *testing.T) {
	repo, ws := setupPolicyRepo(t)

	for _, id := range []string{"g1", "g2", "g3"} {
		_, err := repo.Upsert(ctx, &domain.Policy{
			WorkspaceID: ws.ID, HolderType: domain.HolderGroup, HolderID: id,
			Permissions: domain.NewPermissionSet(domain.PermGetWorkspace),
		})
		require.NoError(t, err)
	}

	got, err := repo.FindAllForHolders(ctx, ws.ID, domain.HolderGroup, []string{"g1", "g3", "missing"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "g1", got[0].HolderID)
	assert.Equal(t, "g3", got[1].HolderID)

	// Empty holder list is not a query.
	got, err = repo.FindAllForHolders(ctx, ws.ID, domain.HolderGroup, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPolicyDelete(t *testing.T) {
	repo, ws := setupPolicyRepo(t)
	holder := domain.HolderRef{Type: domain.HolderAccount, ID: "acc-1"}

	_, err := repo.Upsert(ctx, &domain.Policy{
		WorkspaceID: ws.ID, HolderType: holder.Type, HolderID: holder.ID,
		Permissions: domain.PermissionSet{},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, ws.ID, holder))
	err = repo.Delete(ctx, ws.ID, holder)
	assert.True(t, domain.IsNotFound(err))
}

func TestPolicyEmptySetRoundTrips(t *testing.T) {
	repo, ws := setupPolicyRepo(t)
	holder := domain.HolderRef{Type: domain.HolderAccount, ID: "acc-1"}

	_, err := repo.Upsert(ctx, &domain.Policy{
		WorkspaceID: ws.ID, HolderType: holder.Type, HolderID: holder.ID,
		Permissions: domain.PermissionSet{},
	})
	require.NoError(t, err)

	stored, err := repo.Find(ctx, ws.ID, holder)
	require.NoError(t, err)
	assert.Empty(t, stored.Permissions)
	assert.NotNil(t, stored.Permissions)
}
