// Package service implements the identity, entitlement, ownership, and
// client-identity resolvers on top of the domain repository ports.
package service

import (
	"context"
	"log/slog"

	"taskflask/internal/domain"
)

// IdentityService resolves verified member claims into full authorization
// contexts. One context is built per request and never shared.
type IdentityService struct {
	memberships domain.MembershipRepository
	logger      *slog.Logger
}

func NewIdentityService(memberships domain.MembershipRepository, logger *slog.Logger) *IdentityService {
	return &IdentityService{memberships: memberships, logger: logger}
}

// Resolve loads the member/org/role/permission state for a verified claim.
// The membership's organization must match the claim's organization exactly;
// a mismatch is reported as an unknown principal so replayed credentials
// learn nothing about other tenants.
//
// A role whose stored permission payload fails to parse resolves with an
// empty permission set: the request proceeds with zero permissions.
func (s *IdentityService) Resolve(ctx context.Context, claim domain.Claim) (*domain.AuthContext, error) {
	rec, err := s.memberships.GetByID(ctx, claim.MembershipID)
	if err != nil {
		return nil, err
	}

	if rec.Membership.OrganizationID != claim.OrganizationID {
		s.logger.Warn("credential organization does not match membership",
			"membership_id", claim.MembershipID,
			"claim_org", claim.OrganizationID,
			"membership_org", rec.Membership.OrganizationID)
		return nil, domain.ErrCrossTenantMismatch("membership %d does not belong to organization %d",
			claim.MembershipID, claim.OrganizationID)
	}
	if rec.Membership.UserID != claim.SubjectID {
		return nil, domain.ErrUnknownPrincipal("membership %d does not belong to subject %d",
			claim.MembershipID, claim.SubjectID)
	}

	perms, err := domain.ParsePermissions(rec.RawPermissions)
	if err != nil {
		s.logger.Warn("role permissions failed to parse, treating as empty",
			"role_id", rec.RoleID, "error", err)
	}

	return &domain.AuthContext{
		User:         rec.User,
		Organization: rec.Organization,
		Membership:   rec.Membership,
		Role: domain.Role{
			ID:             rec.RoleID,
			OrganizationID: rec.Membership.OrganizationID,
			Name:           rec.RoleName,
			Permissions:    perms,
		},
		Permissions: perms,
	}, nil
}
