package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskflask/internal/domain"
)

// ClientRepo loads portal-client identity state.
type ClientRepo struct {
	db *sql.DB
}

func NewClientRepo(db *sql.DB) *ClientRepo {
	return &ClientRepo{db: db}
}

// GetContactByID returns the client contact row, or UnknownPrincipalError
// when no row matches.
func (r *ClientRepo) GetContactByID(ctx context.Context, contactID int64) (*domain.ClientContact, error) {
	const q = `
		SELECT id, email, organization_id, client_id, is_active
		FROM client_contacts WHERE id = ?`

	var (
		c        domain.ClientContact
		isActive int64
	)
	err := r.db.QueryRowContext(ctx, q, contactID).Scan(
		&c.ID, &c.Email, &c.OrganizationID, &c.ClientID, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnknownPrincipal("client contact %d not found", contactID)
	}
	if err != nil {
		return nil, fmt.Errorf("load client contact %d: %w", contactID, err)
	}
	c.Active = isActive != 0
	return &c, nil
}

// GetContactByEmail returns the contact row plus stored password hash for
// the portal login flow.
func (r *ClientRepo) GetContactByEmail(ctx context.Context, email string) (*domain.ClientContact, string, error) {
	const q = `
		SELECT id, email, organization_id, client_id, is_active, password_hash
		FROM client_contacts WHERE email = ?`

	var (
		c        domain.ClientContact
		isActive int64
		hash     string
	)
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&c.ID, &c.Email, &c.OrganizationID, &c.ClientID, &isActive, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", domain.ErrUnknownPrincipal("no client contact for email")
	}
	if err != nil {
		return nil, "", fmt.Errorf("load client contact by email: %w", err)
	}
	c.Active = isActive != 0
	return &c, hash, nil
}
