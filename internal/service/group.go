package service

import (
	"context"
	"log/slog"

	"workhub/internal/domain"
)

// GroupMemberDetail pairs a group member's account record with its role.
type GroupMemberDetail struct {
	Account domain.Account
	Role    string
}

// GroupService manages groups and group membership inside a workspace.
type GroupService struct {
	groups     domain.GroupRepository
	workspaces domain.WorkspaceRepository
	accounts   domain.AccountRepository
	policies   domain.PolicyRepository
	audit      domain.AuditRepository
	logger     *slog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(
	groups domain.GroupRepository,
	workspaces domain.WorkspaceRepository,
	accounts domain.AccountRepository,
	policies domain.PolicyRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *GroupService {
	return &GroupService{
		groups:     groups,
		workspaces: workspaces,
		accounts:   accounts,
		policies:   policies,
		audit:      audit,
		logger:     logger,
	}
}

// Create makes a new group in the workspace. The creator is added as the
// group's first member with the admin role.
func (s *GroupService) Create(ctx context.Context, req domain.CreateGroupRequest) (*domain.Group, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	g, err := s.groups.Create(ctx, &domain.Group{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	if actor, ok := domain.AccountFromContext(ctx); ok {
		if err := s.groups.AddMember(ctx, &domain.GroupMember{
			GroupID:   g.ID,
			AccountID: actor.ID,
			Role:      domain.GroupRoleAdmin,
		}); err != nil {
			return nil, err
		}
	}
	s.logger.Info("group created", "group", g.ID, "workspace", g.WorkspaceID, "name", g.Name)
	return g, nil
}

// GetByID returns the group with the given id.
func (s *GroupService) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	return s.groups.GetByID(ctx, id)
}

// ListForWorkspace returns the workspace's groups.
func (s *GroupService) ListForWorkspace(ctx context.Context, workspaceID string) ([]domain.Group, error) {
	return s.groups.ListForWorkspace(ctx, workspaceID)
}

// Update applies the non-nil fields of req to the group.
func (s *GroupService) Update(ctx context.Context, g *domain.Group, req domain.UpdateGroupRequest) (*domain.Group, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	return s.groups.Update(ctx, g)
}

// Delete destroys the group and cascade-deletes its policy record, so no
// orphaned policy survives the holder.
func (s *GroupService) Delete(ctx context.Context, g *domain.Group) error {
	if err := s.groups.Delete(ctx, g.ID); err != nil {
		return err
	}
	holder := domain.HolderRef{Type: domain.HolderGroup, ID: g.ID}
	if err := s.policies.Delete(ctx, g.WorkspaceID, holder); err != nil && !domain.IsNotFound(err) {
		return err
	}
	actor, _ := domain.AccountFromContext(ctx)
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		ActorID:     actor.ID,
		Action:      "DELETE_GROUP",
		WorkspaceID: g.WorkspaceID,
		Detail:      g.Name,
		Status:      domain.AuditAllowed,
	})
	return nil
}

// ListMembers returns the group's members with account metadata and roles.
func (s *GroupService) ListMembers(ctx context.Context, g *domain.Group) ([]GroupMemberDetail, error) {
	members, err := s.groups.ListMembers(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	out := make([]GroupMemberDetail, 0, len(members))
	for _, m := range members {
		a, err := s.accounts.GetByID(ctx, m.AccountID)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, GroupMemberDetail{Account: *a, Role: m.Role})
	}
	return out, nil
}

// AddMembers adds accounts to the group. Every account must already be a
// member of the group's workspace; the batch is validated before any write.
func (s *GroupService) AddMembers(ctx context.Context, g *domain.Group, req domain.AddGroupMembersRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	for _, m := range req.Members {
		ok, err := s.workspaces.IsMember(ctx, g.WorkspaceID, m.AccountID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrValidation("account %q is not a member of the workspace", m.AccountID)
		}
	}
	for _, m := range req.Members {
		if err := s.groups.AddMember(ctx, &domain.GroupMember{
			GroupID:   g.ID,
			AccountID: m.AccountID,
			Role:      m.Role,
		}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveMember removes an account from the group. Group policies are held
// by the group itself, so nothing cascades beyond the membership row.
func (s *GroupService) RemoveMember(ctx context.Context, g *domain.Group, accountID string) error {
	return s.groups.RemoveMember(ctx, g.ID, accountID)
}

// SetMemberRole updates the role label of an existing group member.
func (s *GroupService) SetMemberRole(ctx context.Context, g *domain.Group, accountID, role string) error {
	if role != domain.GroupRoleMember && role != domain.GroupRoleAdmin {
		return domain.ErrValidation("role must be 'member' or 'admin'")
	}
	return s.groups.SetMemberRole(ctx, g.ID, accountID, role)
}
