package service

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflask/internal/db/repository"
	"taskflask/internal/domain"
)

func seedContact(t *testing.T, db *sql.DB, orgID int64, email string, active bool) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO clients (organization_id, name) VALUES (?, 'client')`, orgID)
	require.NoError(t, err)
	clientID, _ := res.LastInsertId()

	activeFlag := 0
	if active {
		activeFlag = 1
	}
	res, err = db.Exec(`
		INSERT INTO client_contacts (client_id, organization_id, email, password_hash, is_active)
		VALUES (?, ?, ?, 'x', ?)`, clientID, orgID, email, activeFlag)
	require.NoError(t, err)
	contactID, _ := res.LastInsertId()
	return contactID
}

func TestResolveClientContext(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	contactID := seedContact(t, db, orgID, "c@globex.test", true)

	svc := NewClientIdentityService(repository.NewClientRepo(db))
	cc, err := svc.Resolve(ctx, domain.ClientClaim{ContactID: contactID, OrganizationID: orgID})
	require.NoError(t, err)

	assert.Equal(t, contactID, cc.Contact.ID)
	assert.Equal(t, orgID, cc.OrganizationID())
	assert.Equal(t, "c@globex.test", cc.Contact.Email)
}

func TestResolveClientCrossTenantRejected(t *testing.T) {
	db, ctx := setupDB(t)
	orgA := seedOrg(t, db, "org-a", "free")
	orgB := seedOrg(t, db, "org-b", "free")
	contactID := seedContact(t, db, orgA, "c@globex.test", true)

	svc := NewClientIdentityService(repository.NewClientRepo(db))
	_, err := svc.Resolve(ctx, domain.ClientClaim{ContactID: contactID, OrganizationID: orgB})

	var unknownErr *domain.UnknownPrincipalError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, domain.ReasonCrossTenantMismatch, unknownErr.Reason)
}

func TestResolveInactiveClientRejected(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	contactID := seedContact(t, db, orgID, "gone@globex.test", false)

	svc := NewClientIdentityService(repository.NewClientRepo(db))
	_, err := svc.Resolve(ctx, domain.ClientClaim{ContactID: contactID, OrganizationID: orgID})

	var unknownErr *domain.UnknownPrincipalError
	assert.True(t, errors.As(err, &unknownErr))
}
