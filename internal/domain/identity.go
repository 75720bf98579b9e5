package domain

import "time"

// Membership status values. Only MembershipActive grants access; some
// endpoints tolerate MembershipPending (accepted invite flows).
const (
	MembershipPending   = "pending"
	MembershipActive    = "active"
	MembershipSuspended = "suspended"
	MembershipLeft      = "left"
)

// Claim is the identity data extracted from a verified member credential.
// It is not trusted until cross-checked against current store state: the
// membership may have been revoked or moved since the token was issued.
type Claim struct {
	SubjectID      int64
	OrganizationID int64
	MembershipID   int64
}

// User is the minimal user row the core needs.
type User struct {
	ID       int64
	Email    string
	Active   bool
	JoinedAt time.Time
}

// Organization is the tenant a context is bound to.
type Organization struct {
	ID   int64
	Slug string
	// PlanSlug is the legacy per-organization plan column, consulted only
	// when no subscription row exists.
	PlanSlug string
}

// Membership ties a user to an organization with a role.
type Membership struct {
	ID             int64
	UserID         int64
	OrganizationID int64
	RoleID         int64
	Status         string
}

// Role names a permission set within one organization.
type Role struct {
	ID             int64
	OrganizationID int64
	Name           string
	Permissions    PermissionSet
}

// AuthContext is the fully resolved, request-scoped authorization state.
// It is valid for exactly one organization and is immutable after
// construction; cross-organization access requires re-resolution.
type AuthContext struct {
	User         User
	Organization Organization
	Membership   Membership
	Role         Role
	Permissions  PermissionSet
}

// Active reports whether the membership currently grants access.
func (c *AuthContext) Active() bool {
	return c.Membership.Status == MembershipActive
}

// UserID is a convenience accessor for handlers.
func (c *AuthContext) UserID() int64 { return c.User.ID }

// OrganizationID is a convenience accessor for handlers.
func (c *AuthContext) OrganizationID() int64 { return c.Organization.ID }
