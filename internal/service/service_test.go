package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "workhub/internal/db"
	"workhub/internal/db/repository"
	"workhub/internal/domain"
)

// ctx is a package-level background context used by setup helpers.
var ctx = context.Background()

// testEnv wires all services against a temporary SQLite store.
type testEnv struct {
	accounts   *AccountService
	workspaces *WorkspaceService
	groups     *GroupService
	policies   *PolicyService
	authz      *AuthorizationService
	audit      *AuditService

	policyRepo domain.PolicyRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	writeDB, _ := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	workspaceRepo := repository.NewWorkspaceRepo(writeDB)
	groupRepo := repository.NewGroupRepo(writeDB)
	accountRepo := repository.NewAccountRepo(writeDB)
	policyRepo := repository.NewPolicyRepo(writeDB)
	auditRepo := repository.NewAuditRepo(writeDB)

	authz := NewAuthorizationService(groupRepo, policyRepo)

	return &testEnv{
		accounts:   NewAccountService(accountRepo, logger),
		workspaces: NewWorkspaceService(workspaceRepo, groupRepo, accountRepo, policyRepo, auditRepo, logger),
		groups:     NewGroupService(groupRepo, workspaceRepo, accountRepo, policyRepo, auditRepo, logger),
		policies:   NewPolicyService(workspaceRepo, groupRepo, accountRepo, policyRepo, authz, auditRepo, logger),
		authz:      authz,
		audit:      NewAuditService(auditRepo),
		policyRepo: policyRepo,
	}
}

func (e *testEnv) createAccount(t *testing.T, email string) *domain.Account {
	t.Helper()
	a, err := e.accounts.Create(ctx, domain.CreateAccountRequest{Email: email})
	require.NoError(t, err)
	return a
}

func (e *testEnv) createWorkspace(t *testing.T, owner *domain.Account, name string) *domain.Workspace {
	t.Helper()
	ws, err := e.workspaces.Create(ctx, owner.ID, domain.CreateWorkspaceRequest{Name: name})
	require.NoError(t, err)
	return ws
}

// addMember adds the account to the workspace and requires success.
func (e *testEnv) addMember(t *testing.T, ws *domain.Workspace, accounts ...*domain.Account) {
	t.Helper()
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	_, err := e.workspaces.AddMembers(ctx, ws, domain.AddMembersRequest{AccountIDs: ids})
	require.NoError(t, err)
}

// createGroup makes a group with the given members, acting as the owner.
func (e *testEnv) createGroup(t *testing.T, ws *domain.Workspace, name string, members ...*domain.Account) *domain.Group {
	t.Helper()
	g, err := e.groups.Create(ctx, domain.CreateGroupRequest{WorkspaceID: ws.ID, Name: name})
	require.NoError(t, err)
	if len(members) > 0 {
		req := domain.AddGroupMembersRequest{GroupID: g.ID}
		for _, m := range members {
			req.Members = append(req.Members, domain.GroupMemberInput{AccountID: m.ID})
		}
		require.NoError(t, e.groups.AddMembers(ctx, g, req))
	}
	return g
}

// setPolicy installs a permission set for the holder and requires success.
func (e *testEnv) setPolicy(t *testing.T, ws *domain.Workspace, holder domain.HolderRef, perms ...domain.Permission) *domain.Policy {
	t.Helper()
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	p, err := e.policies.SetPolicy(ctx, domain.SetPolicyRequest{
		WorkspaceID: ws.ID,
		Holder:      holder,
		Permissions: names,
	})
	require.NoError(t, err)
	return p
}

func accountHolder(a *domain.Account) domain.HolderRef {
	return domain.HolderRef{Type: domain.HolderAccount, ID: a.ID}
}

func groupHolder(g *domain.Group) domain.HolderRef {
	return domain.HolderRef{Type: domain.HolderGroup, ID: g.ID}
}
