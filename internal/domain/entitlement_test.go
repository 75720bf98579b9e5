package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnterpriseInheritsProBaseline(t *testing.T) {
	features := ResolveFeatures(PlanEnterprise, []string{"sso", "audit_log"})

	for _, f := range []string{"sso", "audit_log", "time_tracking", "custom_branding",
		"analytics", "priority_support", "advanced_permissions"} {
		assert.Contains(t, features, f)
	}
}

func TestEnterpriseWithEmptyRawListStillGetsBaseline(t *testing.T) {
	features := ResolveFeatures(PlanEnterprise, nil)

	assert.Len(t, features, 5)
	assert.Contains(t, features, "analytics")
}

func TestFreeAndProGetRawListExactly(t *testing.T) {
	free := ResolveFeatures(PlanFree, nil)
	assert.Empty(t, free)

	pro := ResolveFeatures(PlanPro, []string{"analytics", "time_tracking"})
	assert.Len(t, pro, 2)
	assert.Contains(t, pro, "analytics")
	assert.NotContains(t, pro, "priority_support")
}

func TestEntitlementHasFeature(t *testing.T) {
	ent := &Entitlement{
		PlanSlug: PlanPro,
		Features: ResolveFeatures(PlanPro, []string{"analytics"}),
	}

	assert.True(t, ent.HasFeature("analytics"))
	assert.False(t, ent.HasFeature("sso"))
}
