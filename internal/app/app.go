// Package app provides application-level wiring and dependency injection
// for the workhub service following hexagonal architecture.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"workhub/internal/api"
	"workhub/internal/config"
	"workhub/internal/db/repository"
	"workhub/internal/middleware"
	"workhub/internal/service"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the root logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers that the API handler and router need.
type Services struct {
	Account       *service.AccountService
	Workspace     *service.WorkspaceService
	Group         *service.GroupService
	Policy        *service.PolicyService
	Authorization *service.AuthorizationService
	Audit         *service.AuditService
}

// App holds the fully-wired application.
type App struct {
	Services Services
	Handler  *api.Handler
	Logger   *slog.Logger
	cfg      *config.Config
}

// New wires all repositories and services from the provided deps.
func New(deps Deps) *App {
	workspaceRepo := repository.NewWorkspaceRepo(deps.WriteDB)
	groupRepo := repository.NewGroupRepo(deps.WriteDB)
	accountRepo := repository.NewAccountRepo(deps.WriteDB)
	policyRepo := repository.NewPolicyRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)

	authzSvc := service.NewAuthorizationService(groupRepo, policyRepo)
	accountSvc := service.NewAccountService(accountRepo, deps.Logger.With("component", "accounts"))
	workspaceSvc := service.NewWorkspaceService(
		workspaceRepo, groupRepo, accountRepo, policyRepo, auditRepo,
		deps.Logger.With("component", "workspaces"),
	)
	groupSvc := service.NewGroupService(
		groupRepo, workspaceRepo, accountRepo, policyRepo, auditRepo,
		deps.Logger.With("component", "groups"),
	)
	policySvc := service.NewPolicyService(
		workspaceRepo, groupRepo, accountRepo, policyRepo, authzSvc, auditRepo,
		deps.Logger.With("component", "policies"),
	)
	auditSvc := service.NewAuditService(auditRepo)

	handler := api.NewHandler(
		accountSvc, workspaceSvc, groupSvc, policySvc, authzSvc, auditSvc,
		deps.Logger.With("component", "api"),
	)

	return &App{
		Services: Services{
			Account:       accountSvc,
			Workspace:     workspaceSvc,
			Group:         groupSvc,
			Policy:        policySvc,
			Authorization: authzSvc,
			Audit:         auditSvc,
		},
		Handler: handler,
		Logger:  deps.Logger,
		cfg:     deps.Cfg,
	}
}

// Router builds the chi router: request ID, logging, rate limiting, and CORS
// on everything; Bearer auth on the /v1 API routes.
func (a *App) Router(ctx context.Context) (chi.Router, error) {
	validator, err := a.tokenValidator(ctx)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: a.cfg.RateLimitRPS,
		Burst:             a.cfg.RateLimitBurst,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(validator, a.Services.Account))
		a.Handler.Routes(r)
	})

	return r, nil
}

// tokenValidator picks the token validation strategy from config: OIDC
// discovery when an issuer is configured, shared-secret HS256 otherwise.
func (a *App) tokenValidator(ctx context.Context) (middleware.TokenValidator, error) {
	if a.cfg.Auth.OIDCEnabled() {
		v, err := middleware.NewOIDCValidator(ctx, a.cfg.Auth.IssuerURL, a.cfg.Auth.Audience, a.cfg.Auth.AllowedIssuers)
		if err != nil {
			return nil, fmt.Errorf("configure OIDC validator: %w", err)
		}
		a.Logger.Info("token validation via OIDC", "issuer", a.cfg.Auth.IssuerURL)
		return v, nil
	}
	v, err := middleware.NewHS256Validator(a.cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("configure HS256 validator: %w", err)
	}
	return v, nil
}
