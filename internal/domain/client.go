package domain

// ClientClaim is the identity data extracted from a verified client-portal
// credential. Client credentials live in a disjoint token space from member
// credentials; neither resolves through the other's path.
type ClientClaim struct {
	ContactID      int64
	OrganizationID int64
}

// ClientContact is an external portal caller: a contact person at a CRM
// client. Structurally parallel to User but never carries a role or
// permission set; it is scoped purely by tenant and own-record ownership.
type ClientContact struct {
	ID             int64
	Email          string
	OrganizationID int64
	ClientID       int64 // the CRM client company this contact belongs to
	Active         bool
}

// ClientContext is the resolved, request-scoped state for a portal caller.
// It supports only organization-scope and own-record ownership checks,
// never permission or feature checks.
type ClientContext struct {
	Contact ClientContact
}

// OrganizationID is a convenience accessor for handlers.
func (c *ClientContext) OrganizationID() int64 { return c.Contact.OrganizationID }
