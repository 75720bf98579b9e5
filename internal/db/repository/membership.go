// Package repository implements the domain store ports over database/sql.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskflask/internal/domain"
)

// MembershipRepo loads member identity state via single-round-trip joins.
type MembershipRepo struct {
	db *sql.DB
}

func NewMembershipRepo(db *sql.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// GetByID loads the membership + role + organization + user join in one
// lookup. A missing row yields UnknownPrincipalError.
func (r *MembershipRepo) GetByID(ctx context.Context, membershipID int64) (*domain.MembershipRecord, error) {
	const q = `
		SELECT m.id, m.user_id, m.organization_id, m.role_id, m.status,
		       u.email, u.is_active, u.created_at,
		       o.slug, o.subscription_plan,
		       r.name, r.permissions
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		JOIN organizations o ON o.id = m.organization_id
		JOIN roles r ON r.id = m.role_id
		WHERE m.id = ?`

	var (
		rec      domain.MembershipRecord
		isActive int64
		rawPerms string
	)
	err := r.db.QueryRowContext(ctx, q, membershipID).Scan(
		&rec.Membership.ID, &rec.Membership.UserID, &rec.Membership.OrganizationID,
		&rec.Membership.RoleID, &rec.Membership.Status,
		&rec.User.Email, &isActive, &rec.User.JoinedAt,
		&rec.Organization.Slug, &rec.Organization.PlanSlug,
		&rec.RoleName, &rawPerms,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnknownPrincipal("membership %d not found", membershipID)
	}
	if err != nil {
		return nil, fmt.Errorf("load membership %d: %w", membershipID, err)
	}

	rec.User.ID = rec.Membership.UserID
	rec.User.Active = isActive != 0
	rec.Organization.ID = rec.Membership.OrganizationID
	rec.RoleID = rec.Membership.RoleID
	rec.RawPermissions = []byte(rawPerms)
	return &rec, nil
}

// GetForUserAndOrg returns the membership row for a user in an
// organization, used by the login flow to mint a credential.
func (r *MembershipRepo) GetForUserAndOrg(ctx context.Context, userID, orgID int64) (*domain.Membership, error) {
	const q = `
		SELECT id, user_id, organization_id, role_id, status
		FROM memberships
		WHERE user_id = ? AND organization_id = ?`

	var m domain.Membership
	err := r.db.QueryRowContext(ctx, q, userID, orgID).Scan(
		&m.ID, &m.UserID, &m.OrganizationID, &m.RoleID, &m.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnknownPrincipal("no membership for user %d in organization %d", userID, orgID)
	}
	if err != nil {
		return nil, fmt.Errorf("load membership for user %d: %w", userID, err)
	}
	return &m, nil
}
