package service

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflask/internal/domain"
)

func seedSubscription(t *testing.T, db *sql.DB, orgID int64, planSlug, status string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO subscriptions (organization_id, plan_id, status)
		SELECT ?, id, ? FROM plans WHERE slug = ?`, orgID, status, planSlug)
	require.NoError(t, err)
}

func TestResolveFromActiveSubscription(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	seedSubscription(t, db, orgID, domain.PlanPro, domain.SubscriptionActive)

	ent, err := newEntitlements(db).Resolve(ctx, orgID)
	require.NoError(t, err)

	assert.Equal(t, domain.PlanPro, ent.PlanSlug)
	assert.True(t, ent.HasFeature("analytics"))
	assert.False(t, ent.HasFeature("sso"))

	// Pro resolves to exactly its stored list: no inheritance applies.
	assert.ElementsMatch(t, []string{
		"time_tracking", "custom_branding", "analytics",
		"priority_support", "advanced_permissions",
	}, ent.FeatureList())
}

func TestFreeResolvesToExactlyStoredList(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	seedSubscription(t, db, orgID, domain.PlanFree, domain.SubscriptionActive)

	ent, err := newEntitlements(db).Resolve(ctx, orgID)
	require.NoError(t, err)
	assert.Empty(t, ent.FeatureList())
}

func TestResolveTrialingCounts(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	seedSubscription(t, db, orgID, domain.PlanEnterprise, domain.SubscriptionTrialing)

	ent, err := newEntitlements(db).Resolve(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanEnterprise, ent.PlanSlug)
}

func TestEnterpriseResolvesSupersetOfProBaseline(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "bigcorp", "free")
	seedSubscription(t, db, orgID, domain.PlanEnterprise, domain.SubscriptionActive)

	ent, err := newEntitlements(db).Resolve(ctx, orgID)
	require.NoError(t, err)

	for _, f := range []string{"time_tracking", "custom_branding", "analytics",
		"priority_support", "advanced_permissions", "sso", "audit_log"} {
		assert.True(t, ent.HasFeature(f), "enterprise should include %q", f)
	}
}

func TestFallbackToLegacyPlanColumn(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "pro")

	ent, err := newEntitlements(db).Resolve(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPro, ent.PlanSlug)

	// The fallback is persisted: a subscription row now exists.
	var count int64
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM subscriptions WHERE organization_id = ? AND status = 'active'`,
		orgID).Scan(&count))
	assert.Equal(t, int64(1), count)
}

func TestFallbackPersistenceIsIdempotent(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	svc := newEntitlements(db)

	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(ctx, orgID)
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM subscriptions WHERE organization_id = ?`, orgID).Scan(&count))
	assert.Equal(t, int64(1), count, "duplicate fallback attempts must collapse into one row")
}

func TestNoEntitlementContext(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "ghost", "nonexistent-plan")

	_, err := newEntitlements(db).Resolve(ctx, orgID)
	var noEnt *domain.NoEntitlementError
	assert.True(t, errors.As(err, &noEnt))
}

func TestHasFeatureFreePlanNoSubscriptionRow(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")

	// No subscription row, legacy column says free: analytics is denied and
	// nothing panics or errors.
	assert.False(t, newEntitlements(db).HasFeature(ctx, orgID, "analytics"))
}

func TestHasFeatureFailsClosedOnResolutionFailure(t *testing.T) {
	db, ctx := setupDB(t)
	orgID := seedOrg(t, db, "acme", "free")
	svc := newEntitlements(db)

	// Simulate an unreachable store.
	require.NoError(t, db.Close())

	assert.False(t, svc.HasFeature(ctx, orgID, "analytics"))
}
