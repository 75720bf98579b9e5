package service

import (
	"context"

	"taskflask/internal/domain"
)

// OwnershipService evaluates resource-ownership checks against the
// registered resource types.
type OwnershipService struct {
	ownership domain.OwnershipRepository
}

func NewOwnershipService(ownership domain.OwnershipRepository) *OwnershipService {
	return &OwnershipService{ownership: ownership}
}

// Authorize allows access to a record when the caller owns it, is its
// assignee (for types where assignees count), or holds the edit-level
// permission for the resource category. Denials and genuine absence both
// return NotFoundOrDeniedError.
func (s *OwnershipService) Authorize(ctx context.Context, ac *domain.AuthContext, t domain.ResourceType, resourceID int64) error {
	spec, err := domain.ResourceSpecFor(t)
	if err != nil {
		return err
	}

	own, err := s.ownership.GetOwnership(ctx, t, resourceID, ac.OrganizationID())
	if err != nil {
		return err
	}

	if own.OwnerID == ac.UserID() {
		return nil
	}
	if spec.AssigneeGrantsAccess && own.AssigneeID != nil && *own.AssigneeID == ac.UserID() {
		return nil
	}
	if ac.Permissions.Has(spec.EditPermission()) {
		return nil
	}
	return &domain.NotFoundOrDeniedError{ResourceType: string(t), ResourceID: resourceID}
}

// AuthorizeClient allows a portal client access to a record only when that
// client contact created it. Client callers have no permission fallback.
func (s *OwnershipService) AuthorizeClient(ctx context.Context, cc *domain.ClientContext, t domain.ResourceType, resourceID int64) error {
	if _, err := domain.ResourceSpecFor(t); err != nil {
		return err
	}

	own, err := s.ownership.GetOwnership(ctx, t, resourceID, cc.OrganizationID())
	if err != nil {
		return err
	}

	if own.CreatedByClientID != nil && *own.CreatedByClientID == cc.Contact.ID {
		return nil
	}
	return &domain.NotFoundOrDeniedError{ResourceType: string(t), ResourceID: resourceID}
}
