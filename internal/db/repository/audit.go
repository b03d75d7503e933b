package repository

import (
	"context"
	"database/sql"

	"workhub/internal/domain"
)

var _ domain.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implements domain.AuditRepository using SQLite.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert appends an audit entry.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (actor_id, action, workspace_id, detail, status)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ActorID, e.Action, e.WorkspaceID, e.Detail, e.Status)
	return mapDBError(err)
}

// List returns a page of audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.AuditEntry, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor_id, action, workspace_id, detail, status, created_at
		 FROM audit_log ORDER BY id DESC LIMIT ? OFFSET ?`,
		page.Limit(), page.Start())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.WorkspaceID, &e.Detail, &e.Status, &e.CreatedAt); err != nil {
			return nil, 0, mapDBError(err)
		}
		out = append(out, e)
	}
	return out, total, mapDBError(rows.Err())
}
