package domain

import "time"

// Workspace is the top-level tenant container. The owning account
// implicitly holds every workspace-scope permission (owner bypass).
type Workspace struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkspaceMember records an account's membership in a workspace.
type WorkspaceMember struct {
	WorkspaceID string
	AccountID   string
	JoinedAt    time.Time
}

// CreateWorkspaceRequest holds parameters for creating a workspace.
type CreateWorkspaceRequest struct {
	Name        string
	Description string
}

// Validate checks that the request is well-formed.
func (r *CreateWorkspaceRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("workspace name is required")
	}
	return nil
}

// UpdateWorkspaceRequest holds parameters for updating a workspace.
// Nil fields are left unchanged.
type UpdateWorkspaceRequest struct {
	Name        *string
	Description *string
}

// Validate checks that the request is well-formed.
func (r *UpdateWorkspaceRequest) Validate() error {
	if r.Name == nil && r.Description == nil {
		return ErrValidation("nothing to update")
	}
	if r.Name != nil && *r.Name == "" {
		return ErrValidation("workspace name cannot be empty")
	}
	return nil
}

// AddMembersRequest holds the accounts to add to a workspace.
type AddMembersRequest struct {
	AccountIDs []string
}

// Validate checks that the request is well-formed.
func (r *AddMembersRequest) Validate() error {
	if len(r.AccountIDs) == 0 {
		return ErrValidation("at least one account id is required")
	}
	for _, id := range r.AccountIDs {
		if id == "" {
			return ErrValidation("account id cannot be empty")
		}
	}
	return nil
}
