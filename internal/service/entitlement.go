package service

import (
	"context"
	"log/slog"

	"taskflask/internal/domain"
)

// EntitlementService resolves an organization's current plan and effective
// feature set. Resolution is fresh on every request; there is no
// cross-request cache, so a plan change takes effect immediately.
type EntitlementService struct {
	subscriptions domain.SubscriptionRepository
	logger        *slog.Logger
}

func NewEntitlementService(subscriptions domain.SubscriptionRepository, logger *slog.Logger) *EntitlementService {
	return &EntitlementService{subscriptions: subscriptions, logger: logger}
}

// Resolve determines the organization's entitlement:
//  1. the newest active/trialing subscription's plan, when one exists;
//  2. otherwise the organization row's legacy plan slug, persisting the
//     fallback as a subscription row so later requests resolve normally;
//  3. otherwise NoEntitlementError.
//
// Enterprise plans gain the pro baseline on top of their raw feature list;
// every other plan resolves to its raw list unmodified.
func (s *EntitlementService) Resolve(ctx context.Context, orgID int64) (*domain.Entitlement, error) {
	_, plan, err := s.subscriptions.GetCurrent(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if plan == nil {
		slug, err := s.subscriptions.GetOrganizationPlanSlug(ctx, orgID)
		if err != nil {
			return nil, err
		}
		if slug != "" {
			plan, err = s.subscriptions.GetPlanBySlug(ctx, slug)
			if err != nil {
				return nil, err
			}
		}
		if plan == nil {
			return nil, &domain.NoEntitlementError{OrganizationID: orgID}
		}

		// Persist the fallback so subsequent requests take the subscription
		// path. The upsert is idempotent under concurrent duplicates.
		if err := s.subscriptions.UpsertFallback(ctx, orgID, plan.ID); err != nil {
			s.logger.Warn("persist fallback entitlement failed",
				"organization_id", orgID, "plan", plan.Slug, "error", err)
		}
	}

	return &domain.Entitlement{
		OrganizationID: orgID,
		PlanSlug:       plan.Slug,
		PlanName:       plan.Name,
		Features:       domain.ResolveFeatures(plan.Slug, plan.Features),
	}, nil
}

// HasFeature reports whether the organization's resolved feature set
// includes the tag. It never returns an error: any resolution failure,
// including an unreachable store, denies the feature. Feature gates fail
// closed while authentication fails loud.
func (s *EntitlementService) HasFeature(ctx context.Context, orgID int64, tag string) bool {
	ent, err := s.Resolve(ctx, orgID)
	if err != nil {
		s.logger.Warn("entitlement resolution failed, denying feature",
			"organization_id", orgID, "feature", tag, "error", err)
		return false
	}
	return ent.HasFeature(tag)
}
