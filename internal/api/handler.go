// Package api implements the HTTP handlers for the workspace permission
// service. Handlers translate between JSON and domain types; every gated
// route resolves the caller's effective permission set once and consults
// the check gate before touching the resource.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"workhub/internal/domain"
	"workhub/internal/service"
)

// Handler carries the wired services for all API routes.
type Handler struct {
	accounts   *service.AccountService
	workspaces *service.WorkspaceService
	groups     *service.GroupService
	policies   *service.PolicyService
	authz      *service.AuthorizationService
	audit      *service.AuditService
	logger     *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	accounts *service.AccountService,
	workspaces *service.WorkspaceService,
	groups *service.GroupService,
	policies *service.PolicyService,
	authz *service.AuthorizationService,
	audit *service.AuditService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accounts:   accounts,
		workspaces: workspaces,
		groups:     groups,
		policies:   policies,
		authz:      authz,
		audit:      audit,
		logger:     logger,
	}
}

// Routes mounts all authenticated API routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/workspaces", func(r chi.Router) {
		r.Get("/", h.ListWorkspaces)
		r.Post("/", h.CreateWorkspace)
		r.Route("/{workspaceID}", func(r chi.Router) {
			r.Get("/", h.GetWorkspace)
			r.Patch("/", h.UpdateWorkspace)
			r.Delete("/", h.DeleteWorkspace)

			r.Get("/groups", h.ListGroups)
			r.Post("/groups", h.CreateGroup)

			r.Get("/members", h.ListMembers)
			r.Post("/members", h.AddMembers)
			r.Delete("/members/{accountID}", h.RemoveMember)

			r.Get("/policies", h.ListPolicies)
			r.Get("/policy", h.GetPolicy)
			r.Put("/policy", h.SetPolicy)
			r.Post("/permissions", h.AddPermissions)
		})
	})

	r.Route("/groups/{groupID}", func(r chi.Router) {
		r.Get("/", h.GetGroup)
		r.Patch("/", h.UpdateGroup)
		r.Delete("/", h.DeleteGroup)

		r.Get("/members", h.ListGroupMembers)
		r.Post("/members", h.AddGroupMembers)
		r.Delete("/members/{accountID}", h.RemoveGroupMember)
		r.Put("/members/{accountID}/role", h.SetGroupMemberRole)
	})

	r.Get("/audit", h.ListAudit)
}

// caller returns the authenticated account from the request context.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.ContextAccount, bool) {
	account, ok := domain.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no authenticated account")
	}
	return account, ok
}

// workspaceFromRequest loads the workspace named by the URL. Writes 404 on
// a missing workspace.
func (h *Handler) workspaceFromRequest(w http.ResponseWriter, r *http.Request) (*domain.Workspace, bool) {
	ws, err := h.workspaces.GetByID(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return ws, true
}

// requireWorkspacePermission resolves the caller's effective permission set
// in the workspace and checks the required permission. A false gate result
// is recorded as a denial and written as 403.
func (h *Handler) requireWorkspacePermission(w http.ResponseWriter, r *http.Request, ws *domain.Workspace, required domain.Permission) (domain.PermissionSet, bool) {
	account, ok := h.caller(w, r)
	if !ok {
		return nil, false
	}
	effective, err := h.authz.ResolveEffectivePermissions(r.Context(), ws, account.ID)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if !service.CheckAll(effective, required) {
		h.audit.RecordDenial(r.Context(), ws.ID, string(required))
		writeError(w, http.StatusForbidden, "permission denied: "+string(required))
		return nil, false
	}
	return effective, true
}

// requireGroupPermission checks the caller's group-scope permission for one
// group, derived from the group role (workspace owner bypasses).
func (h *Handler) requireGroupPermission(w http.ResponseWriter, r *http.Request, ws *domain.Workspace, g *domain.Group, required domain.Permission) bool {
	account, ok := h.caller(w, r)
	if !ok {
		return false
	}
	effective, err := h.authz.ResolveGroupPermissions(r.Context(), ws, g, account.ID)
	if err != nil {
		writeDomainError(w, err)
		return false
	}
	if !service.CheckAll(effective, required) {
		h.audit.RecordDenial(r.Context(), ws.ID, string(required))
		writeError(w, http.StatusForbidden, "permission denied: "+string(required))
		return false
	}
	return true
}

// pageFromQuery parses offset/limit query parameters.
func pageFromQuery(r *http.Request) domain.PageRequest {
	var page domain.PageRequest
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Offset = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Size = n
		}
	}
	return page
}

// ListAudit returns a page of audit entries, newest first.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	entries, total, err := h.audit.List(r.Context(), pageFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = auditEntryResponse{
			ID:          e.ID,
			ActorID:     e.ActorID,
			Action:      e.Action,
			WorkspaceID: e.WorkspaceID,
			Detail:      e.Detail,
			Status:      e.Status,
			CreatedAt:   e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, auditListResponse{Entries: out, Total: total})
}
