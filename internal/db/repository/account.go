package repository

import (
	"context"
	"database/sql"

	"workhub/internal/domain"
)

var _ domain.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implements domain.AccountRepository using SQLite.
type AccountRepo struct {
	db *sql.DB
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

const accountColumns = "id, email, first_name, last_name, created_at"

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &a, nil
}

// Create inserts a new account record.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if a.ID == "" {
		a.ID = domain.NewID()
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO accounts (id, email, first_name, last_name)
		 VALUES (?, ?, ?, ?)
		 RETURNING `+accountColumns,
		a.ID, a.Email, a.FirstName, a.LastName)
	return scanAccount(row)
}

// GetByID returns the account with the given id.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// GetByEmail returns the account with the given email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

// List returns a page of accounts ordered by creation time.
func (r *AccountRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Account, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id LIMIT ? OFFSET ?`,
		page.Limit(), page.Start())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *a)
	}
	return out, total, mapDBError(rows.Err())
}
