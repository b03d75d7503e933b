package app

import (
	"context"
	"fmt"

	"workhub/internal/domain"
)

// Seed populates the store with a demo workspace: an owner, two engineers
// grouped together, a viewer with a narrow direct grant, and policies that
// exercise both holder types. Idempotent: it checks whether the workspace
// already exists.
func (a *App) Seed(ctx context.Context) error {
	accounts := a.Services.Account

	owner, err := accounts.EnsureAccount(ctx, "owner@acme.test", "Olive", "Owner")
	if err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}
	eng1, err := accounts.EnsureAccount(ctx, "eng1@acme.test", "Erin", "Engineer")
	if err != nil {
		return fmt.Errorf("seed eng1: %w", err)
	}
	eng2, err := accounts.EnsureAccount(ctx, "eng2@acme.test", "Evan", "Engineer")
	if err != nil {
		return fmt.Errorf("seed eng2: %w", err)
	}
	viewer, err := accounts.EnsureAccount(ctx, "viewer@acme.test", "Vic", "Viewer")
	if err != nil {
		return fmt.Errorf("seed viewer: %w", err)
	}

	// Already seeded when the demo workspace exists.
	if existing, err := a.Services.Workspace.ListForAccount(ctx, owner.ID); err == nil {
		for _, ws := range existing {
			if ws.Name == "acme" {
				return nil
			}
		}
	}

	ctx = domain.WithAccount(ctx, domain.ContextAccount{ID: owner.ID, Email: owner.Email})

	ws, err := a.Services.Workspace.Create(ctx, owner.ID, domain.CreateWorkspaceRequest{
		Name:        "acme",
		Description: "Demo workspace",
	})
	if err != nil {
		return fmt.Errorf("seed workspace: %w", err)
	}

	if _, err := a.Services.Workspace.AddMembers(ctx, ws, domain.AddMembersRequest{
		AccountIDs: []string{eng1.ID, eng2.ID, viewer.ID},
	}); err != nil {
		return fmt.Errorf("seed members: %w", err)
	}

	g, err := a.Services.Group.Create(ctx, domain.CreateGroupRequest{
		WorkspaceID: ws.ID,
		Name:        "engineering",
		Description: "Engineers",
	})
	if err != nil {
		return fmt.Errorf("seed group: %w", err)
	}
	if err := a.Services.Group.AddMembers(ctx, g, domain.AddGroupMembersRequest{
		GroupID: g.ID,
		Members: []domain.GroupMemberInput{
			{AccountID: eng1.ID, Role: domain.GroupRoleAdmin},
			{AccountID: eng2.ID},
		},
	}); err != nil {
		return fmt.Errorf("seed group members: %w", err)
	}

	if _, err := a.Services.Policy.SetPolicy(ctx, domain.SetPolicyRequest{
		WorkspaceID: ws.ID,
		Holder:      domain.HolderRef{Type: domain.HolderGroup, ID: g.ID},
		Permissions: []string{
			string(domain.PermGetWorkspace),
			string(domain.PermGetWorkspaceMembers),
			string(domain.PermGetGroups),
			string(domain.PermCreateGroup),
			string(domain.PermGetWorkspacePolicies),
		},
	}); err != nil {
		return fmt.Errorf("seed group policy: %w", err)
	}
	if _, err := a.Services.Policy.SetPolicy(ctx, domain.SetPolicyRequest{
		WorkspaceID: ws.ID,
		Holder:      domain.HolderRef{Type: domain.HolderAccount, ID: viewer.ID},
		Permissions: []string{string(domain.PermGetWorkspace)},
	}); err != nil {
		return fmt.Errorf("seed viewer policy: %w", err)
	}

	a.Logger.Info("demo data seeded", "workspace", ws.ID, "group", g.ID)
	return nil
}
