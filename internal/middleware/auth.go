package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"workhub/internal/domain"
)

// AccountResolver turns validated token claims into an account record,
// provisioning one on first sight. Implemented by service.AccountService.
type AccountResolver interface {
	EnsureAccount(ctx context.Context, email, firstName, lastName string) (*domain.Account, error)
}

// Auth returns an HTTP middleware that validates the Bearer token and
// stores the resolved account identity in the request context. Requests
// without a valid token get 401.
func Auth(validator TokenValidator, resolver AccountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "missing Bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}

			email := claims.Email
			if email == "" {
				// Dev tokens may carry the email in the subject.
				email = claims.Subject
			}
			if email == "" {
				writeUnauthorized(w, "token has no usable identity claim")
				return
			}

			account, err := resolver.EnsureAccount(r.Context(), email, claims.GivenName, claims.Surname)
			if err != nil {
				writeUnauthorized(w, "could not resolve account")
				return
			}

			ctx := domain.WithAccount(r.Context(), domain.ContextAccount{
				ID:    account.ID,
				Email: account.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized: " + msg,
	})
}
