package service

import (
	"context"
	"log/slog"

	"workhub/internal/domain"
)

// AccountService manages the account records this service keeps for holder
// metadata. Identities originate in the external identity provider; records
// are provisioned on first sight of a token (JIT).
type AccountService struct {
	accounts domain.AccountRepository
	logger   *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts domain.AccountRepository, logger *slog.Logger) *AccountService {
	return &AccountService{accounts: accounts, logger: logger}
}

// Create registers a new account record.
func (s *AccountService) Create(ctx context.Context, req domain.CreateAccountRequest) (*domain.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.accounts.Create(ctx, &domain.Account{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
}

// EnsureAccount returns the account for the given email, provisioning a
// record on first sight.
func (s *AccountService) EnsureAccount(ctx context.Context, email, firstName, lastName string) (*domain.Account, error) {
	a, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		return a, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}
	a, err = s.accounts.Create(ctx, &domain.Account{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account provisioned", "account", a.ID, "email", email)
	return a, nil
}

// GetByID returns the account with the given id.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// List returns a page of accounts.
func (s *AccountService) List(ctx context.Context, page domain.PageRequest) ([]domain.Account, int64, error) {
	return s.accounts.List(ctx, page)
}
