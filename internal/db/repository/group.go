package repository

import (
	"context"
	"database/sql"

	"workhub/internal/domain"
)

var _ domain.GroupRepository = (*GroupRepo)(nil)

// GroupRepo implements domain.GroupRepository using SQLite.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo creates a new GroupRepo.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

const groupColumns = "id, workspace_id, name, description, created_at, updated_at"

func scanGroup(row interface{ Scan(...any) error }) (*domain.Group, error) {
	var g domain.Group
	if err := row.Scan(&g.ID, &g.WorkspaceID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &g, nil
}

// Create inserts a new group.
func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	if g.ID == "" {
		g.ID = domain.NewID()
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO groups (id, workspace_id, name, description)
		 VALUES (?, ?, ?, ?)
		 RETURNING `+groupColumns,
		g.ID, g.WorkspaceID, g.Name, g.Description)
	return scanGroup(row)
}

// GetByID returns the group with the given id.
func (r *GroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = ?`, id)
	return scanGroup(row)
}

// ListForWorkspace returns the workspace's groups in creation order.
func (r *GroupRepo) ListForWorkspace(ctx context.Context, workspaceID string) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE workspace_id = ?
		 ORDER BY created_at, id`,
		workspaceID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, mapDBError(rows.Err())
}

// Update persists name and description changes.
func (r *GroupRepo) Update(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE groups
		 SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?
		 RETURNING `+groupColumns,
		g.Name, g.Description, g.ID)
	return scanGroup(row)
}

// Delete removes the group. Its memberships cascade via foreign keys.
func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("group %q not found", id)
	}
	return nil
}

// ListMembers returns the group's members in join order.
func (r *GroupRepo) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT group_id, account_id, role, added_at
		 FROM group_members WHERE group_id = ?
		 ORDER BY added_at, account_id`,
		groupID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []domain.GroupMember
	for rows.Next() {
		var m domain.GroupMember
		if err := rows.Scan(&m.GroupID, &m.AccountID, &m.Role, &m.AddedAt); err != nil {
			return nil, mapDBError(err)
		}
		out = append(out, m)
	}
	return out, mapDBError(rows.Err())
}

// GetMember returns the group membership row for the account.
func (r *GroupRepo) GetMember(ctx context.Context, groupID, accountID string) (*domain.GroupMember, error) {
	var m domain.GroupMember
	err := r.db.QueryRowContext(ctx,
		`SELECT group_id, account_id, role, added_at
		 FROM group_members WHERE group_id = ? AND account_id = ?`,
		groupID, accountID).Scan(&m.GroupID, &m.AccountID, &m.Role, &m.AddedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &m, nil
}

// AddMember adds an account to the group. Re-adding an existing member
// updates its role.
func (r *GroupRepo) AddMember(ctx context.Context, m *domain.GroupMember) error {
	role := m.Role
	if role == "" {
		role = domain.GroupRoleMember
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, account_id, role) VALUES (?, ?, ?)
		 ON CONFLICT (group_id, account_id) DO UPDATE SET role = excluded.role`,
		m.GroupID, m.AccountID, role)
	return mapDBError(err)
}

// RemoveMember removes an account from the group.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID, accountID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND account_id = ?`,
		groupID, accountID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("account %q is not a member of group %q", accountID, groupID)
	}
	return nil
}

// SetMemberRole updates the role label of an existing group member.
func (r *GroupRepo) SetMemberRole(ctx context.Context, groupID, accountID, role string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE group_members SET role = ? WHERE group_id = ? AND account_id = ?`,
		role, groupID, accountID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("account %q is not a member of group %q", accountID, groupID)
	}
	return nil
}

// ListGroupIDsForMember returns the ids of the workspace's groups the
// account belongs to.
func (r *GroupRepo) ListGroupIDsForMember(ctx context.Context, workspaceID, accountID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE g.workspace_id = ? AND m.account_id = ?
		 ORDER BY g.created_at, g.id`,
		workspaceID, accountID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapDBError(err)
		}
		ids = append(ids, id)
	}
	return ids, mapDBError(rows.Err())
}
