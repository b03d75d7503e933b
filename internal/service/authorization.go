// Package service implements the business logic of the workspace
// permission layer: policy resolution, policy mutation, and workspace,
// group, and member management.
package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"workhub/internal/domain"
)

// AuthorizationService computes effective permission sets. It is the single
// authority for the owner bypass: no other code path compares an account
// against the workspace owner.
type AuthorizationService struct {
	groups   domain.GroupRepository
	policies domain.PolicyRepository
}

// NewAuthorizationService creates an AuthorizationService backed by domain
// repositories.
func NewAuthorizationService(groups domain.GroupRepository, policies domain.PolicyRepository) *AuthorizationService {
	return &AuthorizationService{groups: groups, policies: policies}
}

// ResolveEffectivePermissions computes the union of the account's direct
// policy and the policies of every workspace group the account belongs to.
//
// The workspace owner short-circuits to the full workspace-scope catalog.
// An account with no policies resolves to the empty set (default deny).
// Any storage failure aborts the whole resolution; no partial set is ever
// returned.
func (s *AuthorizationService) ResolveEffectivePermissions(ctx context.Context, ws *domain.Workspace, accountID string) (domain.PermissionSet, error) {
	if accountID == ws.OwnerID {
		return domain.WorkspacePermissions(), nil
	}

	var (
		direct        *domain.Policy
		groupPolicies []domain.Policy
	)

	// The direct-policy and group-policy reads are independent, so they
	// run concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.policies.Find(gctx, ws.ID, domain.HolderRef{Type: domain.HolderAccount, ID: accountID})
		if err != nil {
			if domain.IsNotFound(err) {
				return nil
			}
			return err
		}
		direct = p
		return nil
	})
	g.Go(func() error {
		groupIDs, err := s.groups.ListGroupIDsForMember(gctx, ws.ID, accountID)
		if err != nil {
			return err
		}
		if len(groupIDs) == 0 {
			return nil
		}
		groupPolicies, err = s.policies.FindAllForHolders(gctx, ws.ID, domain.HolderGroup, groupIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	effective := domain.PermissionSet{}
	if direct != nil {
		effective.Union(direct.Permissions)
	}
	for _, p := range groupPolicies {
		effective.Union(p.Permissions)
	}
	return effective, nil
}

// ResolveGroupPermissions computes the account's group-scope permission
// set for one group. The workspace owner bypasses to the full group scope;
// otherwise the set derives from the account's role label in the group.
// Non-members resolve to the empty set.
func (s *AuthorizationService) ResolveGroupPermissions(ctx context.Context, ws *domain.Workspace, g *domain.Group, accountID string) (domain.PermissionSet, error) {
	if accountID == ws.OwnerID {
		return domain.GroupPermissions(), nil
	}
	m, err := s.groups.GetMember(ctx, g.ID, accountID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.PermissionSet{}, nil
		}
		return nil, err
	}
	return domain.GroupPermissionsForRole(m.Role), nil
}

// CheckAll reports whether every required permission is present in the
// effective set. An empty requirement is vacuously true.
func CheckAll(effective domain.PermissionSet, required ...domain.Permission) bool {
	for _, p := range required {
		if !effective.Contains(p) {
			return false
		}
	}
	return true
}

// CheckAny reports whether at least one required permission is present in
// the effective set. An empty requirement is vacuously true, matching
// CheckAll so that gates with no requirement never deny.
func CheckAny(effective domain.PermissionSet, required ...domain.Permission) bool {
	if len(required) == 0 {
		return true
	}
	for _, p := range required {
		if effective.Contains(p) {
			return true
		}
	}
	return false
}
