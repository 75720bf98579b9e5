package domain

import "fmt"

// ResourceType identifies a record kind subject to ownership checks.
type ResourceType string

const (
	ResourceTask    ResourceType = "task"
	ResourceProject ResourceType = "project"
	ResourceComment ResourceType = "comment"
)

// ResourceSpec describes how ownership is evaluated for one resource type.
// Adding a resource type means adding a registry entry (and its lookup in
// the ownership repository), not changing the guard logic.
type ResourceSpec struct {
	Type ResourceType
	// PermissionCategory is the category whose ".edit" permission grants
	// access regardless of ownership.
	PermissionCategory string
	// AssigneeGrantsAccess is true when being the record's assignee counts
	// as ownership (tasks only).
	AssigneeGrantsAccess bool
}

// EditPermission returns the edit-level permission for the category.
func (s ResourceSpec) EditPermission() Permission {
	return Permission(s.PermissionCategory + ".edit")
}

// resourceRegistry is the fixed enumeration of ownership-checked types.
var resourceRegistry = map[ResourceType]ResourceSpec{
	ResourceTask:    {Type: ResourceTask, PermissionCategory: "tasks", AssigneeGrantsAccess: true},
	ResourceProject: {Type: ResourceProject, PermissionCategory: "projects"},
	ResourceComment: {Type: ResourceComment, PermissionCategory: "comments"},
}

// ResourceSpecFor returns the registry entry for a resource type.
func ResourceSpecFor(t ResourceType) (ResourceSpec, error) {
	spec, ok := resourceRegistry[t]
	if !ok {
		return ResourceSpec{}, fmt.Errorf("unknown resource type %q", t)
	}
	return spec, nil
}

// Ownership holds the minimal ownership fields of one record, loaded scoped
// to the requesting context's organization.
type Ownership struct {
	OwnerID    int64
	AssigneeID *int64 // nil for types without assignees
	// CreatedByClientID is set for records a portal client created (tickets).
	CreatedByClientID *int64
}
