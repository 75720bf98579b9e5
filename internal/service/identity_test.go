package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflask/internal/domain"
)

func TestResolveBuildsFullContext(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	userID := seedUser(t, db, "alice@acme.test")
	roleID := seedRole(t, db, orgID, "member", `["tasks.*","projects.view"]`)
	memID := seedMembership(t, db, userID, orgID, roleID, domain.MembershipActive)

	ac, err := newIdentity(db).Resolve(ctx, domain.Claim{
		SubjectID: userID, OrganizationID: orgID, MembershipID: memID,
	})
	require.NoError(t, err)

	assert.Equal(t, userID, ac.UserID())
	assert.Equal(t, orgID, ac.OrganizationID())
	assert.Equal(t, "acme", ac.Organization.Slug)
	assert.Equal(t, "member", ac.Role.Name)
	assert.True(t, ac.Active())
	assert.True(t, ac.Permissions.Has("tasks.edit"))
	assert.True(t, ac.Permissions.Has("projects.view"))
	assert.False(t, ac.Permissions.Has("projects.edit"))
}

func TestResolveUnknownMembership(t *testing.T) {
	db, ctx := setupDB(t)

	_, err := newIdentity(db).Resolve(ctx, domain.Claim{
		SubjectID: 1, OrganizationID: 1, MembershipID: 999,
	})
	var unknownErr *domain.UnknownPrincipalError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, domain.ReasonUnknownPrincipal, unknownErr.Reason)
}

func TestResolveCrossTenantClaimRejected(t *testing.T) {
	db, ctx := setupDB(t)
	orgA := seedOrg(t, db, "org-a", "free")
	orgB := seedOrg(t, db, "org-b", "free")
	userID := seedUser(t, db, "mallory@a.test")
	roleID := seedRole(t, db, orgA, "member", `["*"]`)
	memID := seedMembership(t, db, userID, orgA, roleID, domain.MembershipActive)

	// Claim names org B but the membership belongs to org A: the context
	// must never be silently substituted.
	_, err := newIdentity(db).Resolve(ctx, domain.Claim{
		SubjectID: userID, OrganizationID: orgB, MembershipID: memID,
	})
	var unknownErr *domain.UnknownPrincipalError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, domain.ReasonCrossTenantMismatch, unknownErr.Reason)
}

func TestResolveSubjectMismatchRejected(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	userID := seedUser(t, db, "alice@acme.test")
	otherID := seedUser(t, db, "bob@acme.test")
	roleID := seedRole(t, db, orgID, "member", `[]`)
	memID := seedMembership(t, db, userID, orgID, roleID, domain.MembershipActive)

	_, err := newIdentity(db).Resolve(ctx, domain.Claim{
		SubjectID: otherID, OrganizationID: orgID, MembershipID: memID,
	})
	var unknownErr *domain.UnknownPrincipalError
	assert.True(t, errors.As(err, &unknownErr))
}

func TestResolveMalformedPermissionsFailClosed(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	userID := seedUser(t, db, "alice@acme.test")
	roleID := seedRole(t, db, orgID, "broken", `{"oops": true}`)
	memID := seedMembership(t, db, userID, orgID, roleID, domain.MembershipActive)

	ac, err := newIdentity(db).Resolve(ctx, domain.Claim{
		SubjectID: userID, OrganizationID: orgID, MembershipID: memID,
	})
	require.NoError(t, err, "parse failure degrades to zero permissions, not an error")
	assert.Empty(t, ac.Permissions)
	assert.False(t, ac.Permissions.Has("tasks.view"))
}

func TestResolveSurfacesMembershipStatus(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	userID := seedUser(t, db, "alice@acme.test")
	roleID := seedRole(t, db, orgID, "member", `[]`)
	memID := seedMembership(t, db, userID, orgID, roleID, domain.MembershipPending)

	ac, err := newIdentity(db).Resolve(ctx, domain.Claim{
		SubjectID: userID, OrganizationID: orgID, MembershipID: memID,
	})
	require.NoError(t, err)
	assert.False(t, ac.Active())
	assert.Equal(t, domain.MembershipPending, ac.Membership.Status)
}
