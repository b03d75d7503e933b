package domain

import "context"

// WorkspaceRepository persists workspaces and their memberships.
type WorkspaceRepository interface {
	Create(ctx context.Context, w *Workspace) (*Workspace, error)
	GetByID(ctx context.Context, id string) (*Workspace, error)
	GetByName(ctx context.Context, name string) (*Workspace, error)
	ListForAccount(ctx context.Context, accountID string) ([]Workspace, error)
	Update(ctx context.Context, w *Workspace) (*Workspace, error)
	// Delete removes the workspace. Groups, group memberships, workspace
	// memberships, and policies cascade at the storage layer.
	Delete(ctx context.Context, id string) error

	ListMembers(ctx context.Context, workspaceID string) ([]WorkspaceMember, error)
	AddMember(ctx context.Context, workspaceID, accountID string) error
	RemoveMember(ctx context.Context, workspaceID, accountID string) error
	IsMember(ctx context.Context, workspaceID, accountID string) (bool, error)
}

// GroupRepository persists groups and their memberships.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	GetByID(ctx context.Context, id string) (*Group, error)
	ListForWorkspace(ctx context.Context, workspaceID string) ([]Group, error)
	Update(ctx context.Context, g *Group) (*Group, error)
	// Delete removes the group. Its memberships cascade at the storage
	// layer; the group's policy is cascade-deleted by the caller.
	Delete(ctx context.Context, id string) error

	ListMembers(ctx context.Context, groupID string) ([]GroupMember, error)
	GetMember(ctx context.Context, groupID, accountID string) (*GroupMember, error)
	AddMember(ctx context.Context, m *GroupMember) error
	RemoveMember(ctx context.Context, groupID, accountID string) error
	SetMemberRole(ctx context.Context, groupID, accountID, role string) error
	// ListGroupIDsForMember returns the ids of this workspace's groups the
	// account belongs to.
	ListGroupIDsForMember(ctx context.Context, workspaceID, accountID string) ([]string, error)
}

// AccountRepository persists account records.
type AccountRepository interface {
	Create(ctx context.Context, a *Account) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	List(ctx context.Context, page PageRequest) ([]Account, int64, error)
}

// PolicyRepository is the policy store adapter. Writes are
// replace-semantics, keyed by (workspace_id, holder_type, holder_id).
type PolicyRepository interface {
	// Find returns the holder's policy in the workspace, or NotFoundError.
	Find(ctx context.Context, workspaceID string, holder HolderRef) (*Policy, error)
	// FindAll returns every policy in the workspace in insertion order.
	FindAll(ctx context.Context, workspaceID string) ([]Policy, error)
	// FindAllForHolders returns the policies of the given holders in the
	// workspace. Holders without a policy contribute nothing.
	FindAllForHolders(ctx context.Context, workspaceID string, holderType HolderType, holderIDs []string) ([]Policy, error)
	// Upsert replaces the holder's entire permission set.
	Upsert(ctx context.Context, p *Policy) (*Policy, error)
	// Delete removes the holder's policy. Returns NotFoundError when no
	// record exists.
	Delete(ctx context.Context, workspaceID string, holder HolderRef) error
}

// AuditRepository appends and reads audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, page PageRequest) ([]AuditEntry, int64, error)
}
