package domain

import "sort"

// Permission is the name of a grantable action.
type Permission string

// PermissionScope partitions the catalog by resource kind.
type PermissionScope string

// Permission scopes.
const (
	ScopeWorkspace PermissionScope = "workspace"
	ScopeGroup     PermissionScope = "group"
)

// Workspace-scope permissions.
const (
	PermGetWorkspace          Permission = "get_workspace"
	PermUpdateWorkspace       Permission = "update_workspace"
	PermDeleteWorkspace       Permission = "delete_workspace"
	PermGetWorkspaceMembers   Permission = "get_workspace_members"
	PermAddWorkspaceMembers   Permission = "add_workspace_members"
	PermRemoveWorkspaceMember Permission = "remove_workspace_member"
	PermGetGroups             Permission = "get_groups"
	PermCreateGroup           Permission = "create_group"
	PermGetWorkspacePolicies  Permission = "get_workspace_policies"
	PermGetWorkspacePolicy    Permission = "get_workspace_policy"
	PermSetWorkspacePolicy    Permission = "set_workspace_policy"
)

// Group-scope permissions.
const (
	PermGetGroup          Permission = "get_group"
	PermUpdateGroup       Permission = "update_group"
	PermDeleteGroup       Permission = "delete_group"
	PermGetGroupMembers   Permission = "get_group_members"
	PermAddGroupMembers   Permission = "add_group_members"
	PermRemoveGroupMember Permission = "remove_group_member"
	PermGetGroupPolicies  Permission = "get_group_policies"
	PermGetGroupPolicy    Permission = "get_group_policy"
	PermSetGroupPolicy    Permission = "set_group_policy"
)

// PermissionDescriptor is a catalog entry for one grantable action.
type PermissionDescriptor struct {
	Name        Permission
	Scope       PermissionScope
	Description string
}

// catalog is the process-wide permission table. It is populated once at
// package init and never mutated afterwards, so concurrent reads need no
// synchronization.
var catalog = map[Permission]PermissionDescriptor{}

var workspaceScope = []PermissionDescriptor{
	{PermGetWorkspace, ScopeWorkspace, "read workspace info"},
	{PermUpdateWorkspace, ScopeWorkspace, "update workspace name and description"},
	{PermDeleteWorkspace, ScopeWorkspace, "delete the workspace"},
	{PermGetWorkspaceMembers, ScopeWorkspace, "list workspace members"},
	{PermAddWorkspaceMembers, ScopeWorkspace, "add members to the workspace"},
	{PermRemoveWorkspaceMember, ScopeWorkspace, "remove a member from the workspace"},
	{PermGetGroups, ScopeWorkspace, "list groups in the workspace"},
	{PermCreateGroup, ScopeWorkspace, "create a group in the workspace"},
	{PermGetWorkspacePolicies, ScopeWorkspace, "list all workspace policies"},
	{PermGetWorkspacePolicy, ScopeWorkspace, "read a holder's workspace policy"},
	{PermSetWorkspacePolicy, ScopeWorkspace, "set a holder's workspace policy"},
}

var groupScope = []PermissionDescriptor{
	{PermGetGroup, ScopeGroup, "read group info"},
	{PermUpdateGroup, ScopeGroup, "update group name and description"},
	{PermDeleteGroup, ScopeGroup, "delete the group"},
	{PermGetGroupMembers, ScopeGroup, "list group members"},
	{PermAddGroupMembers, ScopeGroup, "add members to the group"},
	{PermRemoveGroupMember, ScopeGroup, "remove a member from the group"},
	{PermGetGroupPolicies, ScopeGroup, "list all group policies"},
	{PermGetGroupPolicy, ScopeGroup, "read a holder's group policy"},
	{PermSetGroupPolicy, ScopeGroup, "set a holder's group policy"},
}

func init() {
	for _, d := range workspaceScope {
		catalog[d.Name] = d
	}
	for _, d := range groupScope {
		catalog[d.Name] = d
	}
}

// LookupPermission returns the catalog entry for the named action.
func LookupPermission(name Permission) (PermissionDescriptor, bool) {
	d, ok := catalog[name]
	return d, ok
}

// WorkspacePermissions returns the full workspace-scope permission set.
// This is the set an owner implicitly holds.
func WorkspacePermissions() PermissionSet {
	s := make(PermissionSet, len(workspaceScope))
	for _, d := range workspaceScope {
		s[d.Name] = struct{}{}
	}
	return s
}

// GroupPermissions returns the full group-scope permission set.
func GroupPermissions() PermissionSet {
	s := make(PermissionSet, len(groupScope))
	for _, d := range groupScope {
		s[d.Name] = struct{}{}
	}
	return s
}

// GroupPermissionsForRole maps a group role label to the group-scope
// permissions it carries. Admins hold the full group scope; plain members
// hold the read-only subset.
func GroupPermissionsForRole(role string) PermissionSet {
	switch role {
	case GroupRoleAdmin:
		return GroupPermissions()
	case GroupRoleMember:
		return NewPermissionSet(PermGetGroup, PermGetGroupMembers, PermGetGroupPolicies, PermGetGroupPolicy)
	default:
		return PermissionSet{}
	}
}

// PermissionSet is an unordered set of permission names.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from the given names.
func NewPermissionSet(names ...Permission) PermissionSet {
	s := make(PermissionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether the set holds the named permission.
func (s PermissionSet) Contains(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Add inserts a permission into the set.
func (s PermissionSet) Add(p Permission) {
	s[p] = struct{}{}
}

// Union merges other into s and returns s.
func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	for p := range other {
		s[p] = struct{}{}
	}
	return s
}

// Clone returns a copy of the set.
func (s PermissionSet) Clone() PermissionSet {
	c := make(PermissionSet, len(s))
	for p := range s {
		c[p] = struct{}{}
	}
	return c
}

// Sorted returns the permission names in lexical order. List outputs use
// this so responses are stable across calls.
func (s PermissionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}
