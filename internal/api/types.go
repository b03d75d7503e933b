package api

import (
	"encoding/json"
	"net/http"
	"time"

	"workhub/internal/domain"
)

// Request bodies.

type createWorkspaceBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateWorkspaceBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type addMembersBody struct {
	AccountIDs []string `json:"account_ids"`
}

type createGroupBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateGroupBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type groupMemberBody struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
}

type addGroupMembersBody struct {
	Members []groupMemberBody `json:"members"`
}

type setRoleBody struct {
	Role string `json:"role"`
}

type setPolicyBody struct {
	HolderType  domain.HolderType `json:"policy_holder_type"`
	HolderID    string            `json:"policy_holder_id"`
	Permissions []string          `json:"permissions"`
}

type grantBody struct {
	Type        domain.HolderType `json:"type"`
	ID          string            `json:"id"`
	Permissions []string          `json:"permissions"`
}

type addPermissionsBody struct {
	Permissions []grantBody `json:"permissions"`
}

// Response bodies.

type workspaceResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	OwnerID     string             `json:"owner_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Groups      []groupResponse    `json:"groups,omitempty"`
	Members     []accountResponse  `json:"members,omitempty"`
	Policies    *domain.PolicyList `json:"policies,omitempty"`
}

type workspaceListResponse struct {
	Workspaces []workspaceResponse `json:"workspaces"`
}

type accountResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type memberListResponse struct {
	Members []accountResponse `json:"members"`
}

type groupResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type groupListResponse struct {
	Groups []groupResponse `json:"groups"`
}

type groupMemberResponse struct {
	accountResponse
	Role string `json:"role"`
}

type groupMemberListResponse struct {
	Members []groupMemberResponse `json:"members"`
}

type policyResponse struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspace_id"`
	HolderType  domain.HolderType `json:"policy_holder_type"`
	HolderID    string            `json:"policy_holder_id"`
	Permissions []string          `json:"permissions"`
}

type policyBatchResponse struct {
	Policies []policyResponse `json:"policies"`
}

type auditEntryResponse struct {
	ID          int64     `json:"id"`
	ActorID     string    `json:"actor_id,omitempty"`
	Action      string    `json:"action"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type auditListResponse struct {
	Entries []auditEntryResponse `json:"entries"`
	Total   int64                `json:"total"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func toWorkspaceResponse(ws *domain.Workspace) workspaceResponse {
	return workspaceResponse{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
		OwnerID:     ws.OwnerID,
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
	}
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

func toGroupResponse(g *domain.Group) groupResponse {
	return groupResponse{
		ID:          g.ID,
		WorkspaceID: g.WorkspaceID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toPolicyResponse(p *domain.Policy) policyResponse {
	return policyResponse{
		ID:          p.ID,
		WorkspaceID: p.WorkspaceID,
		HolderType:  p.HolderType,
		HolderID:    p.HolderID,
		Permissions: p.Permissions.Sorted(),
	}
}
