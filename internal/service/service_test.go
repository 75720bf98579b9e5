package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "taskflask/internal/db"
	"taskflask/internal/db/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupDB opens a migrated temp SQLite database.
func setupDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return writeDB, context.Background()
}

// seedOrg inserts an organization and returns its id.
func seedOrg(t *testing.T, db *sql.DB, slug, planSlug string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO organizations (slug, name, subscription_plan) VALUES (?, ?, ?)`,
		slug, slug, planSlug)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// seedUser inserts a user and returns its id.
func seedUser(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO users (email, password_hash) VALUES (?, 'x')`, email)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// seedRole inserts a role with a raw permissions payload and returns its id.
func seedRole(t *testing.T, db *sql.DB, orgID int64, name, permissionsJSON string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO roles (organization_id, name, permissions) VALUES (?, ?, ?)`,
		orgID, name, permissionsJSON)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// seedMembership inserts a membership and returns its id.
func seedMembership(t *testing.T, db *sql.DB, userID, orgID, roleID int64, status string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO memberships (user_id, organization_id, role_id, status) VALUES (?, ?, ?, ?)`,
		userID, orgID, roleID, status)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// seedTask inserts a task and returns its id.
func seedTask(t *testing.T, db *sql.DB, orgID, reporterID int64, assigneeID *int64) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO tasks (organization_id, reporter_id, assignee_id, title) VALUES (?, ?, ?, 'a task')`,
		orgID, reporterID, assigneeID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func newIdentity(db *sql.DB) *IdentityService {
	return NewIdentityService(repository.NewMembershipRepo(db), testLogger())
}

func newEntitlements(db *sql.DB) *EntitlementService {
	return NewEntitlementService(repository.NewSubscriptionRepo(db), testLogger())
}

func newOwnership(db *sql.DB) *OwnershipService {
	return NewOwnershipService(repository.NewOwnershipRepo(db))
}
