package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workhub/internal/domain"
	"workhub/internal/service"
)

// ListWorkspaces returns the workspaces the caller belongs to. Membership is
// the only gate for listing.
func (h *Handler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	account, ok := h.caller(w, r)
	if !ok {
		return
	}
	list, err := h.workspaces.ListForAccount(r.Context(), account.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := workspaceListResponse{Workspaces: make([]workspaceResponse, len(list))}
	for i := range list {
		out.Workspaces[i] = toWorkspaceResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateWorkspace creates a workspace owned by the caller.
func (h *Handler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	account, ok := h.caller(w, r)
	if !ok {
		return
	}
	var body createWorkspaceBody
	if !decodeJSON(w, r, &body) {
		return
	}
	ws, err := h.workspaces.Create(r.Context(), account.ID, domain.CreateWorkspaceRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkspaceResponse(ws))
}

// GetWorkspace returns one workspace. The include query parameter expands
// sub-resources (groups, members, policies, or all); each expansion is gated
// by its own permission against the caller's already-resolved set.
func (h *Handler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	effective, ok := h.requireWorkspacePermission(w, r, ws, domain.PermGetWorkspace)
	if !ok {
		return
	}

	out := toWorkspaceResponse(ws)
	for _, inc := range parseInclude(r.URL.Query().Get("include")) {
		switch inc {
		case "groups":
			if !service.CheckAll(effective, domain.PermGetGroups) {
				continue
			}
			groups, err := h.groups.ListForWorkspace(r.Context(), ws.ID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			out.Groups = make([]groupResponse, len(groups))
			for i := range groups {
				out.Groups[i] = toGroupResponse(&groups[i])
			}
		case "members":
			if !service.CheckAll(effective, domain.PermGetWorkspaceMembers) {
				continue
			}
			accounts, err := h.workspaces.ListMemberAccounts(r.Context(), ws)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			out.Members = make([]accountResponse, len(accounts))
			for i := range accounts {
				out.Members[i] = toAccountResponse(&accounts[i])
			}
		case "policies":
			if !service.CheckAll(effective, domain.PermGetWorkspacePolicies) {
				continue
			}
			policies, err := h.policies.ListPolicies(r.Context(), ws)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			out.Policies = policies
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// parseInclude splits the include parameter; "all" expands to every
// sub-resource.
func parseInclude(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "all" {
			return []string{"groups", "members", "policies"}
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UpdateWorkspace applies a partial update to the workspace.
func (h *Handler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermUpdateWorkspace); !ok {
		return
	}
	var body updateWorkspaceBody
	if !decodeJSON(w, r, &body) {
		return
	}
	updated, err := h.workspaces.Update(r.Context(), ws, domain.UpdateWorkspaceRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkspaceResponse(updated))
}

// DeleteWorkspace destroys the workspace and everything under it.
func (h *Handler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermDeleteWorkspace); !ok {
		return
	}
	if err := h.workspaces.Delete(r.Context(), ws); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMembers returns the workspace's member accounts.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermGetWorkspaceMembers); !ok {
		return
	}
	accounts, err := h.workspaces.ListMemberAccounts(r.Context(), ws)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := memberListResponse{Members: make([]accountResponse, len(accounts))}
	for i := range accounts {
		out.Members[i] = toAccountResponse(&accounts[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// AddMembers adds existing accounts to the workspace.
func (h *Handler) AddMembers(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermAddWorkspaceMembers); !ok {
		return
	}
	var body addMembersBody
	if !decodeJSON(w, r, &body) {
		return
	}
	added, err := h.workspaces.AddMembers(r.Context(), ws, domain.AddMembersRequest{AccountIDs: body.AccountIDs})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := memberListResponse{Members: make([]accountResponse, len(added))}
	for i := range added {
		out.Members[i] = toAccountResponse(&added[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// RemoveMember removes an account from the workspace, cascading to the
// account's direct policy and group memberships.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermRemoveWorkspaceMember); !ok {
		return
	}
	if err := h.workspaces.RemoveMember(r.Context(), ws, chi.URLParam(r, "accountID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
