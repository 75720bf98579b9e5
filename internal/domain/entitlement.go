package domain

import "time"

// Plan slugs.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Subscription status values that count as current.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
)

// proBaselineFeatures is the fixed, versioned feature set every enterprise
// organization inherits on top of its raw plan features.
var proBaselineFeatures = []string{
	"time_tracking",
	"custom_branding",
	"analytics",
	"priority_support",
	"advanced_permissions",
}

// planInheritance declares which tiers a plan inherits features from.
// Inheritance is one level deep and hardcoded; the table form exists so a
// future tier lands here instead of as a scattered special case.
var planInheritance = map[string][]string{
	PlanEnterprise: {PlanPro},
}

// inheritedBaselines maps an inherited tier name to its baseline feature
// set. Only the pro baseline exists today.
var inheritedBaselines = map[string][]string{
	PlanPro: proBaselineFeatures,
}

// Plan is a billing plan row with its raw feature list.
type Plan struct {
	ID       int64
	Slug     string
	Name     string
	Features []string
}

// Subscription ties an organization to a plan.
type Subscription struct {
	ID             int64
	OrganizationID int64
	PlanID         int64
	Status         string
	StartedAt      time.Time
}

// Entitlement is the resolved feature set an organization's current plan
// grants. Request-scoped; never cached across requests.
type Entitlement struct {
	OrganizationID int64
	PlanSlug       string
	PlanName       string
	Features       map[string]struct{}
}

// HasFeature reports whether the resolved set includes the feature tag.
func (e *Entitlement) HasFeature(tag string) bool {
	_, ok := e.Features[tag]
	return ok
}

// FeatureList returns the resolved features as a plain slice.
func (e *Entitlement) FeatureList() []string {
	out := make([]string, 0, len(e.Features))
	for f := range e.Features {
		out = append(out, f)
	}
	return out
}

// ResolveFeatures computes the effective feature set for a plan: the raw
// list plus any inherited tier baselines per the planInheritance table.
func ResolveFeatures(planSlug string, raw []string) map[string]struct{} {
	features := make(map[string]struct{}, len(raw))
	for _, f := range raw {
		features[f] = struct{}{}
	}
	for _, tier := range planInheritance[planSlug] {
		for _, f := range inheritedBaselines[tier] {
			features[f] = struct{}{}
		}
	}
	return features
}
