package repository

import (
	"context"
	"database/sql"

	"workhub/internal/domain"
)

var _ domain.PolicyRepository = (*PolicyRepo)(nil)

// PolicyRepo implements domain.PolicyRepository using SQLite. One row
// exists per (workspace, holder) pair; the UNIQUE constraint in the schema
// enforces the no-duplicate-policy invariant and Upsert relies on it for
// per-key atomicity.
type PolicyRepo struct {
	db *sql.DB
}

// NewPolicyRepo creates a new PolicyRepo.
func NewPolicyRepo(db *sql.DB) *PolicyRepo {
	return &PolicyRepo{db: db}
}

const policyColumns = "id, workspace_id, holder_type, holder_id, permissions, created_at, updated_at"

func scanPolicy(row interface{ Scan(...any) error }) (*domain.Policy, error) {
	var (
		p   domain.Policy
		raw string
	)
	if err := row.Scan(&p.ID, &p.WorkspaceID, &p.HolderType, &p.HolderID, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	perms, err := decodePermissions(raw)
	if err != nil {
		return nil, domain.ErrStorage(err, "corrupt policy record %s", p.ID)
	}
	p.Permissions = perms
	return &p, nil
}

// Find returns the holder's policy in the workspace.
func (r *PolicyRepo) Find(ctx context.Context, workspaceID string, holder domain.HolderRef) (*domain.Policy, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+policyColumns+` FROM policies
		 WHERE workspace_id = ? AND holder_type = ? AND holder_id = ?`,
		workspaceID, holder.Type, holder.ID)
	return scanPolicy(row)
}

// FindAll returns every policy in the workspace in insertion order.
func (r *PolicyRepo) FindAll(ctx context.Context, workspaceID string) ([]domain.Policy, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+policyColumns+` FROM policies
		 WHERE workspace_id = ? ORDER BY rowid`,
		workspaceID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return collectPolicies(rows)
}

// FindAllForHolders returns the policies of the given holders in the
// workspace, in insertion order.
func (r *PolicyRepo) FindAllForHolders(ctx context.Context, workspaceID string, holderType domain.HolderType, holderIDs []string) ([]domain.Policy, error) {
	if len(holderIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(holderIDs)+2)
	args = append(args, workspaceID, holderType)
	for _, id := range holderIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+policyColumns+` FROM policies
		 WHERE workspace_id = ? AND holder_type = ? AND holder_id IN (`+sqlPlaceholders(len(holderIDs))+`)
		 ORDER BY rowid`,
		args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return collectPolicies(rows)
}

// Upsert replaces the holder's entire permission set in a single atomic
// statement.
func (r *PolicyRepo) Upsert(ctx context.Context, p *domain.Policy) (*domain.Policy, error) {
	if p.ID == "" {
		p.ID = domain.NewID()
	}
	raw, err := encodePermissions(p.Permissions)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO policies (id, workspace_id, holder_type, holder_id, permissions)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (workspace_id, holder_type, holder_id)
		 DO UPDATE SET permissions = excluded.permissions, updated_at = CURRENT_TIMESTAMP
		 RETURNING `+policyColumns,
		p.ID, p.WorkspaceID, p.HolderType, p.HolderID, raw)
	return scanPolicy(row)
}

// Delete removes the holder's policy.
func (r *PolicyRepo) Delete(ctx context.Context, workspaceID string, holder domain.HolderRef) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM policies WHERE workspace_id = ? AND holder_type = ? AND holder_id = ?`,
		workspaceID, holder.Type, holder.ID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("no policy for %s %q in workspace %q", holder.Type, holder.ID, workspaceID)
	}
	return nil
}

func collectPolicies(rows *sql.Rows) ([]domain.Policy, error) {
	var out []domain.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, mapDBError(rows.Err())
}
