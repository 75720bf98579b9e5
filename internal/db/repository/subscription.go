package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"taskflask/internal/domain"
)

// SubscriptionRepo loads and persists entitlement state.
type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// GetCurrent returns the newest active or trialing subscription joined to
// its plan, or (nil, nil, nil) when the organization has none.
func (r *SubscriptionRepo) GetCurrent(ctx context.Context, orgID int64) (*domain.Subscription, *domain.Plan, error) {
	const q = `
		SELECT s.id, s.organization_id, s.plan_id, s.status, s.started_at,
		       p.id, p.slug, p.name, p.features
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.organization_id = ? AND s.status IN ('active', 'trialing')
		ORDER BY s.started_at DESC, s.id DESC
		LIMIT 1`

	var (
		sub         domain.Subscription
		plan        domain.Plan
		rawFeatures string
	)
	err := r.db.QueryRowContext(ctx, q, orgID).Scan(
		&sub.ID, &sub.OrganizationID, &sub.PlanID, &sub.Status, &sub.StartedAt,
		&plan.ID, &plan.Slug, &plan.Name, &rawFeatures)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load current subscription for organization %d: %w", orgID, err)
	}
	if err := json.Unmarshal([]byte(rawFeatures), &plan.Features); err != nil {
		return nil, nil, fmt.Errorf("parse features for plan %q: %w", plan.Slug, err)
	}
	return &sub, &plan, nil
}

// GetPlanBySlug returns the plan row for a slug, or (nil, nil) when unknown.
func (r *SubscriptionRepo) GetPlanBySlug(ctx context.Context, slug string) (*domain.Plan, error) {
	const q = `SELECT id, slug, name, features FROM plans WHERE slug = ?`

	var (
		plan        domain.Plan
		rawFeatures string
	)
	err := r.db.QueryRowContext(ctx, q, slug).Scan(&plan.ID, &plan.Slug, &plan.Name, &rawFeatures)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load plan %q: %w", slug, err)
	}
	if err := json.Unmarshal([]byte(rawFeatures), &plan.Features); err != nil {
		return nil, fmt.Errorf("parse features for plan %q: %w", slug, err)
	}
	return &plan, nil
}

// GetOrganizationPlanSlug returns the legacy subscription_plan column of
// the organization row, empty when the organization does not exist.
func (r *SubscriptionRepo) GetOrganizationPlanSlug(ctx context.Context, orgID int64) (string, error) {
	const q = `SELECT subscription_plan FROM organizations WHERE id = ?`

	var slug string
	err := r.db.QueryRowContext(ctx, q, orgID).Scan(&slug)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load plan slug for organization %d: %w", orgID, err)
	}
	return slug, nil
}

// UpsertFallback persists the fallback entitlement computed from the legacy
// column. The partial unique index on (organization_id) for current
// subscriptions makes concurrent duplicate attempts collapse into one row.
func (r *SubscriptionRepo) UpsertFallback(ctx context.Context, orgID, planID int64) error {
	const q = `
		INSERT INTO subscriptions (organization_id, plan_id, status)
		VALUES (?, ?, 'active')
		ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, q, orgID, planID); err != nil {
		return fmt.Errorf("persist fallback subscription for organization %d: %w", orgID, err)
	}
	return nil
}
