package domain

import "context"

type accountKey struct{}

// ContextAccount carries the authenticated identity through request context.
type ContextAccount struct {
	ID    string
	Email string
}

// WithAccount stores a ContextAccount in the context.
func WithAccount(ctx context.Context, a ContextAccount) context.Context {
	return context.WithValue(ctx, accountKey{}, a)
}

// AccountFromContext extracts the ContextAccount from the context.
func AccountFromContext(ctx context.Context) (ContextAccount, bool) {
	a, ok := ctx.Value(accountKey{}).(ContextAccount)
	return a, ok
}
