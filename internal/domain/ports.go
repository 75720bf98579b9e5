package domain

import "context"

// MembershipRecord is the joined row the identity resolver loads in one
// logical lookup: membership + role + organization + user.
type MembershipRecord struct {
	User           User
	Organization   Organization
	Membership     Membership
	RoleID         int64
	RoleName       string
	RawPermissions []byte // stored JSON array of permission strings
}

// MembershipRepository loads member identity state.
type MembershipRepository interface {
	// GetByID returns the joined record for a membership id, or an
	// UnknownPrincipalError when no row matches.
	GetByID(ctx context.Context, membershipID int64) (*MembershipRecord, error)
}

// SubscriptionRepository loads and persists entitlement state.
type SubscriptionRepository interface {
	// GetCurrent returns the newest subscription with status active or
	// trialing joined to its plan, or (nil, nil) when none exists.
	GetCurrent(ctx context.Context, orgID int64) (*Subscription, *Plan, error)
	// GetPlanBySlug returns the plan row for a slug, or (nil, nil) when the
	// slug is unknown.
	GetPlanBySlug(ctx context.Context, slug string) (*Plan, error)
	// GetOrganizationPlanSlug returns the legacy plan column of the
	// organization row, empty when unset.
	GetOrganizationPlanSlug(ctx context.Context, orgID int64) (string, error)
	// UpsertFallback persists the fallback entitlement computed from the
	// legacy column. Must be idempotent under concurrent duplicate attempts.
	UpsertFallback(ctx context.Context, orgID, planID int64) error
}

// OwnershipRepository loads the minimal ownership fields of one record,
// scoped to an organization. Absence and cross-tenant rows are
// indistinguishable: both return NotFoundOrDeniedError.
type OwnershipRepository interface {
	GetOwnership(ctx context.Context, t ResourceType, id, orgID int64) (*Ownership, error)
}

// ClientRepository loads portal-client identity state.
type ClientRepository interface {
	GetContactByID(ctx context.Context, contactID int64) (*ClientContact, error)
}
