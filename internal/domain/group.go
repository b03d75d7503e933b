package domain

import "time"

// Group member roles.
const (
	GroupRoleMember = "member"
	GroupRoleAdmin  = "admin"
)

// Group is a named collection of accounts inside exactly one workspace.
type Group struct {
	ID          string
	WorkspaceID string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GroupMember records an account's membership in a group with a role label.
type GroupMember struct {
	GroupID   string
	AccountID string
	Role      string
	AddedAt   time.Time
}

// CreateGroupRequest holds parameters for creating a group in a workspace.
type CreateGroupRequest struct {
	WorkspaceID string
	Name        string
	Description string
}

// Validate checks that the request is well-formed.
func (r *CreateGroupRequest) Validate() error {
	if r.WorkspaceID == "" {
		return ErrValidation("workspace_id is required")
	}
	if r.Name == "" {
		return ErrValidation("group name is required")
	}
	return nil
}

// UpdateGroupRequest holds parameters for updating a group.
// Nil fields are left unchanged.
type UpdateGroupRequest struct {
	Name        *string
	Description *string
}

// Validate checks that the request is well-formed.
func (r *UpdateGroupRequest) Validate() error {
	if r.Name == nil && r.Description == nil {
		return ErrValidation("nothing to update")
	}
	if r.Name != nil && *r.Name == "" {
		return ErrValidation("group name cannot be empty")
	}
	return nil
}

// GroupMemberInput is one entry of an add-group-members request.
type GroupMemberInput struct {
	AccountID string
	Role      string
}

// AddGroupMembersRequest holds the accounts to add to a group.
type AddGroupMembersRequest struct {
	GroupID string
	Members []GroupMemberInput
}

// Validate checks that the request is well-formed. A missing role defaults
// to "member".
func (r *AddGroupMembersRequest) Validate() error {
	if r.GroupID == "" {
		return ErrValidation("group_id is required")
	}
	if len(r.Members) == 0 {
		return ErrValidation("at least one member is required")
	}
	for i := range r.Members {
		if r.Members[i].AccountID == "" {
			return ErrValidation("account id cannot be empty")
		}
		if r.Members[i].Role == "" {
			r.Members[i].Role = GroupRoleMember
		}
		if r.Members[i].Role != GroupRoleMember && r.Members[i].Role != GroupRoleAdmin {
			return ErrValidation("role must be 'member' or 'admin'")
		}
	}
	return nil
}
