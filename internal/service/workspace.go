package service

import (
	"context"
	"log/slog"

	"workhub/internal/domain"
)

// WorkspaceService manages workspace lifecycle and membership. Mutations
// here carry out the cascade rules: removing a member deletes the member's
// direct policy and group memberships; deleting a workspace removes all of
// its sub-resources.
type WorkspaceService struct {
	workspaces domain.WorkspaceRepository
	groups     domain.GroupRepository
	accounts   domain.AccountRepository
	policies   domain.PolicyRepository
	audit      domain.AuditRepository
	logger     *slog.Logger
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(
	workspaces domain.WorkspaceRepository,
	groups domain.GroupRepository,
	accounts domain.AccountRepository,
	policies domain.PolicyRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *WorkspaceService {
	return &WorkspaceService{
		workspaces: workspaces,
		groups:     groups,
		accounts:   accounts,
		policies:   policies,
		audit:      audit,
		logger:     logger,
	}
}

// Create makes a new workspace owned by ownerID. The owner becomes the
// first member and receives a full-catalog direct policy record. The owner
// bypass in the resolution engine stays authoritative regardless of that
// record.
func (s *WorkspaceService) Create(ctx context.Context, ownerID string, req domain.CreateWorkspaceRequest) (*domain.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.Create(ctx, &domain.Workspace{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.workspaces.AddMember(ctx, ws.ID, ownerID); err != nil {
		return nil, err
	}
	if _, err := s.policies.Upsert(ctx, &domain.Policy{
		WorkspaceID: ws.ID,
		HolderType:  domain.HolderAccount,
		HolderID:    ownerID,
		Permissions: domain.WorkspacePermissions(),
	}); err != nil {
		return nil, err
	}

	s.logger.Info("workspace created", "workspace", ws.ID, "name", ws.Name, "owner", ownerID)
	return ws, nil
}

// GetByID returns the workspace with the given id.
func (s *WorkspaceService) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	return s.workspaces.GetByID(ctx, id)
}

// ListForAccount returns the workspaces the account belongs to.
func (s *WorkspaceService) ListForAccount(ctx context.Context, accountID string) ([]domain.Workspace, error) {
	return s.workspaces.ListForAccount(ctx, accountID)
}

// Update applies the non-nil fields of req to the workspace.
func (s *WorkspaceService) Update(ctx context.Context, ws *domain.Workspace, req domain.UpdateWorkspaceRequest) (*domain.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.Description != nil {
		ws.Description = *req.Description
	}
	return s.workspaces.Update(ctx, ws)
}

// Delete destroys the workspace. Groups, memberships, and policies cascade
// at the storage layer.
func (s *WorkspaceService) Delete(ctx context.Context, ws *domain.Workspace) error {
	if err := s.workspaces.Delete(ctx, ws.ID); err != nil {
		return err
	}
	actor, _ := domain.AccountFromContext(ctx)
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		ActorID:     actor.ID,
		Action:      "DELETE_WORKSPACE",
		WorkspaceID: ws.ID,
		Detail:      ws.Name,
		Status:      domain.AuditAllowed,
	})
	s.logger.Info("workspace deleted", "workspace", ws.ID, "name", ws.Name)
	return nil
}

// ListMemberAccounts returns the workspace's members with their account
// metadata, in join order.
func (s *WorkspaceService) ListMemberAccounts(ctx context.Context, ws *domain.Workspace) ([]domain.Account, error) {
	members, err := s.workspaces.ListMembers(ctx, ws.ID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(members))
	for _, m := range members {
		a, err := s.accounts.GetByID(ctx, m.AccountID)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

// AddMembers adds the given accounts to the workspace. Every account must
// exist; the batch is validated before any write. Accounts that are
// already members are skipped.
func (s *WorkspaceService) AddMembers(ctx context.Context, ws *domain.Workspace, req domain.AddMembersRequest) ([]domain.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	added := make([]domain.Account, 0, len(req.AccountIDs))
	for _, id := range req.AccountIDs {
		a, err := s.accounts.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		added = append(added, *a)
	}
	for _, a := range added {
		if err := s.workspaces.AddMember(ctx, ws.ID, a.ID); err != nil {
			return nil, err
		}
	}
	return added, nil
}

// RemoveMember removes an account from the workspace and cascades: the
// account's direct policy in the workspace is deleted, and the account is
// removed from every group in the workspace. The owner cannot be removed.
func (s *WorkspaceService) RemoveMember(ctx context.Context, ws *domain.Workspace, accountID string) error {
	if accountID == ws.OwnerID {
		return domain.ErrValidation("the workspace owner cannot be removed")
	}
	if err := s.workspaces.RemoveMember(ctx, ws.ID, accountID); err != nil {
		return err
	}

	holder := domain.HolderRef{Type: domain.HolderAccount, ID: accountID}
	if err := s.policies.Delete(ctx, ws.ID, holder); err != nil && !domain.IsNotFound(err) {
		return err
	}

	groupIDs, err := s.groups.ListGroupIDsForMember(ctx, ws.ID, accountID)
	if err != nil {
		return err
	}
	for _, gid := range groupIDs {
		if err := s.groups.RemoveMember(ctx, gid, accountID); err != nil && !domain.IsNotFound(err) {
			return err
		}
	}

	actor, _ := domain.AccountFromContext(ctx)
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		ActorID:     actor.ID,
		Action:      "REMOVE_MEMBER",
		WorkspaceID: ws.ID,
		Detail:      accountID,
		Status:      domain.AuditAllowed,
	})
	return nil
}
