package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"workhub/internal/domain"
)

// PolicyService is the policy mutation engine: replace-semantics grants,
// catalog validation, holder membership validation, and read-only policy
// introspection.
type PolicyService struct {
	workspaces domain.WorkspaceRepository
	groups     domain.GroupRepository
	accounts   domain.AccountRepository
	policies   domain.PolicyRepository
	authz      *AuthorizationService
	audit      domain.AuditRepository
	logger     *slog.Logger
}

// NewPolicyService creates a new PolicyService.
func NewPolicyService(
	workspaces domain.WorkspaceRepository,
	groups domain.GroupRepository,
	accounts domain.AccountRepository,
	policies domain.PolicyRepository,
	authz *AuthorizationService,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *PolicyService {
	return &PolicyService{
		workspaces: workspaces,
		groups:     groups,
		accounts:   accounts,
		policies:   policies,
		authz:      authz,
		audit:      audit,
		logger:     logger,
	}
}

// validatePermissions checks every requested name against the catalog and
// the workspace scope. The full list is validated before any write.
func validatePermissions(names []string) (domain.PermissionSet, error) {
	set := make(domain.PermissionSet, len(names))
	for _, n := range names {
		d, ok := domain.LookupPermission(domain.Permission(n))
		if !ok || d.Scope != domain.ScopeWorkspace {
			return nil, &domain.InvalidPermissionError{Name: n}
		}
		set.Add(d.Name)
	}
	return set, nil
}

// validateHolder checks that the holder currently belongs to the workspace:
// an account must be a member, a group must be one of the workspace's own
// groups.
func (s *PolicyService) validateHolder(ctx context.Context, workspaceID string, holder domain.HolderRef) error {
	switch holder.Type {
	case domain.HolderAccount:
		ok, err := s.workspaces.IsMember(ctx, workspaceID, holder.ID)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.HolderNotInWorkspaceError{Holder: holder}
		}
	case domain.HolderGroup:
		g, err := s.groups.GetByID(ctx, holder.ID)
		if err != nil {
			if domain.IsNotFound(err) {
				return &domain.HolderNotInWorkspaceError{Holder: holder}
			}
			return err
		}
		if g.WorkspaceID != workspaceID {
			return &domain.HolderNotInWorkspaceError{Holder: holder}
		}
	}
	return nil
}

// SetPolicy replaces the holder's entire permission set in the workspace.
// It is idempotent: repeated calls with the same input converge on the same
// stored state. Validation failures leave any prior stored policy unchanged.
func (s *PolicyService) SetPolicy(ctx context.Context, req domain.SetPolicyRequest) (*domain.Policy, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	perms, err := validatePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}
	if err := s.validateHolder(ctx, req.WorkspaceID, req.Holder); err != nil {
		return nil, err
	}

	p, err := s.policies.Upsert(ctx, &domain.Policy{
		WorkspaceID: req.WorkspaceID,
		HolderType:  req.Holder.Type,
		HolderID:    req.Holder.ID,
		Permissions: perms,
	})
	if err != nil {
		return nil, err
	}

	actor, _ := domain.AccountFromContext(ctx)
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		ActorID:     actor.ID,
		Action:      "SET_POLICY",
		WorkspaceID: req.WorkspaceID,
		Detail:      fmt.Sprintf("%s %s: %s", req.Holder.Type, req.Holder.ID, strings.Join(p.Permissions.Sorted(), ",")),
		Status:      domain.AuditAllowed,
	})
	s.logger.Info("policy set",
		"workspace", req.WorkspaceID,
		"holder_type", req.Holder.Type,
		"holder", req.Holder.ID,
		"permissions", len(p.Permissions))
	return p, nil
}

// AddPermissions applies a bulk grant as a batch of independent
// replace-semantics SetPolicy calls, one per holder. A failing entry aborts
// the batch; holders already written stay written (each upsert is atomic on
// its own key).
func (s *PolicyService) AddPermissions(ctx context.Context, req domain.AddPermissionsRequest) ([]domain.Policy, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	out := make([]domain.Policy, 0, len(req.Grants))
	for _, g := range req.Grants {
		p, err := s.SetPolicy(ctx, domain.SetPolicyRequest{
			WorkspaceID: req.WorkspaceID,
			Holder:      domain.HolderRef{Type: g.Type, ID: g.ID},
			Permissions: g.Permissions,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// GetPolicyForAccount resolves the account's effective permission set in the
// workspace and packages it with the account's identity record. Read-only.
func (s *PolicyService) GetPolicyForAccount(ctx context.Context, ws *domain.Workspace, accountID string) (*domain.PolicyOutput, error) {
	effective, err := s.authz.ResolveEffectivePermissions(ctx, ws, accountID)
	if err != nil {
		return nil, err
	}
	holder, err := s.holderInfo(ctx, domain.HolderRef{Type: domain.HolderAccount, ID: accountID})
	if err != nil {
		return nil, err
	}
	return &domain.PolicyOutput{
		Permissions:  effective.Sorted(),
		PolicyHolder: holder,
	}, nil
}

// ListPolicies returns every stored policy in the workspace with holder
// metadata, in insertion order.
func (s *PolicyService) ListPolicies(ctx context.Context, ws *domain.Workspace) (*domain.PolicyList, error) {
	stored, err := s.policies.FindAll(ctx, ws.ID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PolicyShort, 0, len(stored))
	for _, p := range stored {
		holder, err := s.holderInfo(ctx, p.Holder())
		if err != nil {
			return nil, err
		}
		out = append(out, domain.PolicyShort{
			ID:           p.ID,
			HolderType:   p.HolderType,
			PolicyHolder: holder,
			Permissions:  p.Permissions.Sorted(),
		})
	}
	return &domain.PolicyList{Policies: out}, nil
}

// DeleteHolderPolicy removes the holder's policy record if one exists.
// Used by the cascade paths (member removal, group deletion); a missing
// record is not an error there.
func (s *PolicyService) DeleteHolderPolicy(ctx context.Context, workspaceID string, holder domain.HolderRef) error {
	err := s.policies.Delete(ctx, workspaceID, holder)
	if err != nil && !domain.IsNotFound(err) {
		return err
	}
	return nil
}

func (s *PolicyService) holderInfo(ctx context.Context, holder domain.HolderRef) (domain.HolderInfo, error) {
	info := domain.HolderInfo{Type: holder.Type, ID: holder.ID}
	switch holder.Type {
	case domain.HolderAccount:
		a, err := s.accounts.GetByID(ctx, holder.ID)
		if err != nil {
			if domain.IsNotFound(err) {
				return info, nil
			}
			return info, err
		}
		info.Email = a.Email
		info.FirstName = a.FirstName
		info.LastName = a.LastName
	case domain.HolderGroup:
		g, err := s.groups.GetByID(ctx, holder.ID)
		if err != nil {
			if domain.IsNotFound(err) {
				return info, nil
			}
			return info, err
		}
		info.Name = g.Name
	}
	return info, nil
}
