package service

import (
	"context"

	"taskflask/internal/domain"
)

// ClientIdentityService resolves verified client-portal claims. It mirrors
// the member identity resolver but reads the client-contact table and never
// joins roles or permissions: portal callers are scoped purely by tenant
// and own-record ownership.
type ClientIdentityService struct {
	clients domain.ClientRepository
}

func NewClientIdentityService(clients domain.ClientRepository) *ClientIdentityService {
	return &ClientIdentityService{clients: clients}
}

// Resolve loads the client contact for a verified claim. The contact's
// organization must match the claim's organization exactly.
func (s *ClientIdentityService) Resolve(ctx context.Context, claim domain.ClientClaim) (*domain.ClientContext, error) {
	contact, err := s.clients.GetContactByID(ctx, claim.ContactID)
	if err != nil {
		return nil, err
	}
	if contact.OrganizationID != claim.OrganizationID {
		return nil, domain.ErrCrossTenantMismatch("client contact %d does not belong to organization %d",
			claim.ContactID, claim.OrganizationID)
	}
	if !contact.Active {
		return nil, domain.ErrUnknownPrincipal("client contact %d is inactive", claim.ContactID)
	}
	return &domain.ClientContext{Contact: *contact}, nil
}
