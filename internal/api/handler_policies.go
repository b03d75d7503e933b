package api

import (
	"net/http"

	"workhub/internal/domain"
)

// ListPolicies returns every stored policy in the workspace with holder
// metadata, in insertion order.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermGetWorkspacePolicies); !ok {
		return
	}
	list, err := h.policies.ListPolicies(r.Context(), ws)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetPolicy resolves and returns the effective permission set for one
// account in the workspace. The account_id query parameter selects the
// subject; it defaults to the caller, and reading someone else's policy
// requires the policy-read permission.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	account, ok := h.caller(w, r)
	if !ok {
		return
	}

	subject := r.URL.Query().Get("account_id")
	if subject == "" {
		subject = account.ID
	}
	if subject != account.ID {
		if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermGetWorkspacePolicy); !ok {
			return
		}
	}

	out, err := h.policies.GetPolicyForAccount(r.Context(), ws, subject)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SetPolicy installs a holder's permission set in the workspace, replacing
// whatever set was stored before.
func (h *Handler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermSetWorkspacePolicy); !ok {
		return
	}
	var body setPolicyBody
	if !decodeJSON(w, r, &body) {
		return
	}
	p, err := h.policies.SetPolicy(r.Context(), domain.SetPolicyRequest{
		WorkspaceID: ws.ID,
		Holder:      domain.HolderRef{Type: body.HolderType, ID: body.HolderID},
		Permissions: body.Permissions,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPolicyResponse(p))
}

// AddPermissions applies a bulk grant: one replace-semantics policy write
// per listed holder.
func (h *Handler) AddPermissions(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermSetWorkspacePolicy); !ok {
		return
	}
	var body addPermissionsBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req := domain.AddPermissionsRequest{WorkspaceID: ws.ID}
	for _, g := range body.Permissions {
		req.Grants = append(req.Grants, domain.PermissionGrant{Type: g.Type, ID: g.ID, Permissions: g.Permissions})
	}
	written, err := h.policies.AddPermissions(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := policyBatchResponse{Policies: make([]policyResponse, len(written))}
	for i := range written {
		out.Policies[i] = toPolicyResponse(&written[i])
	}
	writeJSON(w, http.StatusOK, out)
}
