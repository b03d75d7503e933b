package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workhub/internal/domain"
)

// ListGroups returns the workspace's groups.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermGetGroups); !ok {
		return
	}
	groups, err := h.groups.ListForWorkspace(r.Context(), ws.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := groupListResponse{Groups: make([]groupResponse, len(groups))}
	for i := range groups {
		out.Groups[i] = toGroupResponse(&groups[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateGroup creates a group in the workspace. The caller becomes the
// group's first admin.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspaceFromRequest(w, r)
	if !ok {
		return
	}
	if _, ok := h.requireWorkspacePermission(w, r, ws, domain.PermCreateGroup); !ok {
		return
	}
	var body createGroupBody
	if !decodeJSON(w, r, &body) {
		return
	}
	g, err := h.groups.Create(r.Context(), domain.CreateGroupRequest{
		WorkspaceID: ws.ID,
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(g))
}

// groupFromRequest loads the group named by the URL together with its
// workspace. Writes 404 when either is missing.
func (h *Handler) groupFromRequest(w http.ResponseWriter, r *http.Request) (*domain.Workspace, *domain.Group, bool) {
	g, err := h.groups.GetByID(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeDomainError(w, err)
		return nil, nil, false
	}
	ws, err := h.workspaces.GetByID(r.Context(), g.WorkspaceID)
	if err != nil {
		writeDomainError(w, err)
		return nil, nil, false
	}
	return ws, g, true
}

// GetGroup returns one group.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	ws, g, ok := h.groupFromRequest(w, r)
	if !ok {
		return
	}
	if !h.requireGroupPermission(w, r, ws, g, domain.PermGetGroup) {
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(g))
}

// UpdateGroup applies a partial update to the group.
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	ws, g, ok := h.groupFromRequest(w, r)
	if !ok {
		return
	}
	if !h.requireGroupPermission(w, r, ws, g, domain.PermUpdateGroup) {
		return
	}
	var body updateGroupBody
	if !decodeJSON(w, r, &body) {
		return
	}
	updated, err := h.groups.Update(r.Context(), g, domain.UpdateGroupRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(updated))
}

// DeleteGroup destroys the group and its policy record.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	ws, g, ok := h.groupFromRequest(w, r)
	if !ok {
		return
	}
	if !h.requireGroupPermission(w, r, ws, g, domain.PermDeleteGroup) {
		return
	}
	if err := h.groups.Delete(r.Context(), g); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGroupMembers returns the group's members with roles.
func (h *Handler) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	ws, g, ok := h.groupFromRequest(w, r)
	if !ok {
		return
	}
	if !h.requireGroupPermission(w, r, ws, g, domain.PermGetGroupMembers) {
		return
	}
	members, err := h.groups.ListMembers(r.Context(), g)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := groupMemberListResponse{Members: make([]groupMemberResponse, len(members))}
	for i, m := range members {
		out.Members[i] = groupMemberResponse{
			accountResponse: toAccountResponse(&m.Account),
			Role:            m.Role,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// AddGroupMembers adds workspace members to the group.
func (h *Handler) AddGroupMembers(w http.ResponseWriter, r *http.Request) {
	ws, g, ok := h.groupFromRequest(w, r)
	if !ok {
		return
	}
	if !h.requireGroupPermission(w, r, ws, g, domain.PermAddGroupMembers) {
		return
	}
	var body addGroupMembersBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req := domain.AddGroupMembersRequest{GroupID: g.ID}
	for _, m := range body.Members {
		req.Members = append(req.Members, domain.GroupMemberInput{AccountID: m.AccountID, Role: m.Role})
	}
	if err := h.groups.AddMembers(r.Context(), g, req); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveGroupMember removes an account from the group.
func (h *Handler) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	ws, g, ok := h.groupFromRequest(w, r)
	if !ok {
		return
	}
	if !h.requireGroupPermission(w, r, ws, g, domain.PermRemoveGroupMember) {
		return
	}
	if err := h.groups.RemoveMember(r.Context(), g, chi.URLParam(r, "accountID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetGroupMemberRole updates an existing member's role label.
func (h *Handler) SetGroupMemberRole(w http.ResponseWriter, r *http.Request) {
	ws, g, ok := h.groupFromRequest(w, r)
	if !ok {
		return
	}
	if !h.requireGroupPermission(w, r, ws, g, domain.PermSetGroupPolicy) {
		return
	}
	var body setRoleBody
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.groups.SetMemberRole(r.Context(), g, chi.URLParam(r, "accountID"), body.Role); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
