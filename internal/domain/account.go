package domain

import "time"

// Account is a user identity. Accounts are not owned by this service;
// authentication and profile management happen elsewhere. We keep the id
// and display fields so policy reads can return holder metadata.
type Account struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// CreateAccountRequest holds parameters for registering an account record.
type CreateAccountRequest struct {
	Email     string
	FirstName string
	LastName  string
}

// Validate checks that the request is well-formed.
func (r *CreateAccountRequest) Validate() error {
	if r.Email == "" {
		return ErrValidation("email is required")
	}
	return nil
}
