package repository

import (
	"context"
	"database/sql"

	"workhub/internal/domain"
)

var _ domain.WorkspaceRepository = (*WorkspaceRepo)(nil)

// WorkspaceRepo implements domain.WorkspaceRepository using SQLite.
type WorkspaceRepo struct {
	db *sql.DB
}

// NewWorkspaceRepo creates a new WorkspaceRepo.
func NewWorkspaceRepo(db *sql.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

const workspaceColumns = "id, name, description, owner_id, created_at, updated_at"

func scanWorkspace(row interface{ Scan(...any) error }) (*domain.Workspace, error) {
	var w domain.Workspace
	if err := row.Scan(&w.ID, &w.Name, &w.Description, &w.OwnerID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &w, nil
}

// Create inserts a new workspace.
func (r *WorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error) {
	if w.ID == "" {
		w.ID = domain.NewID()
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO workspaces (id, name, description, owner_id)
		 VALUES (?, ?, ?, ?)
		 RETURNING `+workspaceColumns,
		w.ID, w.Name, w.Description, w.OwnerID)
	return scanWorkspace(row)
}

// GetByID returns the workspace with the given id.
func (r *WorkspaceRepo) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = ?`, id)
	return scanWorkspace(row)
}

// GetByName returns the workspace with the given (unique) name.
func (r *WorkspaceRepo) GetByName(ctx context.Context, name string) (*domain.Workspace, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE name = ?`, name)
	return scanWorkspace(row)
}

// ListForAccount returns every workspace the account is a member of,
// in membership insertion order.
func (r *WorkspaceRepo) ListForAccount(ctx context.Context, accountID string) ([]domain.Workspace, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT w.id, w.name, w.description, w.owner_id, w.created_at, w.updated_at
		 FROM workspaces w
		 JOIN workspace_members m ON m.workspace_id = w.id
		 WHERE m.account_id = ?
		 ORDER BY m.joined_at, w.id`,
		accountID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []domain.Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, mapDBError(rows.Err())
}

// Update persists name and description changes.
func (r *WorkspaceRepo) Update(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE workspaces
		 SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?
		 RETURNING `+workspaceColumns,
		w.Name, w.Description, w.ID)
	return scanWorkspace(row)
}

// Delete removes the workspace. Memberships, groups, group memberships,
// and policies cascade via foreign keys.
func (r *WorkspaceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("workspace %q not found", id)
	}
	return nil
}

// ListMembers returns the workspace's members in join order.
func (r *WorkspaceRepo) ListMembers(ctx context.Context, workspaceID string) ([]domain.WorkspaceMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT workspace_id, account_id, joined_at
		 FROM workspace_members WHERE workspace_id = ?
		 ORDER BY joined_at, account_id`,
		workspaceID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []domain.WorkspaceMember
	for rows.Next() {
		var m domain.WorkspaceMember
		if err := rows.Scan(&m.WorkspaceID, &m.AccountID, &m.JoinedAt); err != nil {
			return nil, mapDBError(err)
		}
		out = append(out, m)
	}
	return out, mapDBError(rows.Err())
}

// AddMember adds an account to the workspace. Adding an existing member
// is a no-op.
func (r *WorkspaceRepo) AddMember(ctx context.Context, workspaceID, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace_members (workspace_id, account_id) VALUES (?, ?)
		 ON CONFLICT (workspace_id, account_id) DO NOTHING`,
		workspaceID, accountID)
	return mapDBError(err)
}

// RemoveMember removes an account from the workspace.
func (r *WorkspaceRepo) RemoveMember(ctx context.Context, workspaceID, accountID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM workspace_members WHERE workspace_id = ? AND account_id = ?`,
		workspaceID, accountID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("account %q is not a member of workspace %q", accountID, workspaceID)
	}
	return nil
}

// IsMember reports whether the account belongs to the workspace.
func (r *WorkspaceRepo) IsMember(ctx context.Context, workspaceID, accountID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM workspace_members WHERE workspace_id = ? AND account_id = ?`,
		workspaceID, accountID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapDBError(err)
	}
	return true, nil
}
