package domain

import "time"

// HolderType discriminates the two kinds of policy holder.
type HolderType string

// Holder types.
const (
	HolderAccount HolderType = "account"
	HolderGroup   HolderType = "group"
)

// HolderRef identifies a policy holder: an account or a group.
// All lookups dispatch on Type explicitly.
type HolderRef struct {
	Type HolderType
	ID   string
}

// Validate checks that the reference is well-formed.
func (h HolderRef) Validate() error {
	if h.ID == "" {
		return ErrValidation("holder id is required")
	}
	if h.Type != HolderAccount && h.Type != HolderGroup {
		return ErrValidation("holder type must be 'account' or 'group'")
	}
	return nil
}

// Policy associates one holder with a set of permission names in one
// workspace. At most one record exists per (workspace, holder) pair.
type Policy struct {
	ID          string
	WorkspaceID string
	HolderType  HolderType
	HolderID    string
	Permissions PermissionSet
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Holder returns the policy's holder reference.
func (p *Policy) Holder() HolderRef {
	return HolderRef{Type: p.HolderType, ID: p.HolderID}
}

// SetPolicyRequest holds parameters for a replace-semantics policy write.
type SetPolicyRequest struct {
	WorkspaceID string
	Holder      HolderRef
	Permissions []string
}

// Validate checks that the request is well-formed.
func (r *SetPolicyRequest) Validate() error {
	if r.WorkspaceID == "" {
		return ErrValidation("workspace_id is required")
	}
	return r.Holder.Validate()
}

// PermissionGrant is one entry of a bulk-grant request: a holder and the
// permission set to install for it.
type PermissionGrant struct {
	Type        HolderType
	ID          string
	Permissions []string
}

// AddPermissionsRequest is a bulk grant: a batch of independent
// replace-semantics policy writes, one per holder.
type AddPermissionsRequest struct {
	WorkspaceID string
	Grants      []PermissionGrant
}

// Validate checks that the request is well-formed.
func (r *AddPermissionsRequest) Validate() error {
	if r.WorkspaceID == "" {
		return ErrValidation("workspace_id is required")
	}
	if len(r.Grants) == 0 {
		return ErrValidation("at least one grant is required")
	}
	for _, g := range r.Grants {
		if err := (HolderRef{Type: g.Type, ID: g.ID}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HolderInfo is the identity record packaged with policy reads. Account
// fields are set for account holders, group fields for group holders.
type HolderInfo struct {
	Type      HolderType `json:"type"`
	ID        string     `json:"id"`
	Email     string     `json:"email,omitempty"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	Name      string     `json:"name,omitempty"`
}

// PolicyOutput packages a resolved permission set with holder metadata.
type PolicyOutput struct {
	Permissions  []string   `json:"permissions"`
	PolicyHolder HolderInfo `json:"policy_holder"`
}

// PolicyShort is the list representation of one stored policy.
type PolicyShort struct {
	ID           string     `json:"id"`
	HolderType   HolderType `json:"policy_holder_type"`
	PolicyHolder HolderInfo `json:"policy_holder"`
	Permissions  []string   `json:"permissions"`
}

// PolicyList wraps all policies of one workspace.
type PolicyList struct {
	Policies []PolicyShort `json:"policies"`
}
