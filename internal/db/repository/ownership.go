package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskflask/internal/domain"
)

// ownershipQueries maps each registered resource type to its minimal
// ownership lookup. Every query is scoped to the organization so a row
// from another tenant scans identically to an absent one.
var ownershipQueries = map[domain.ResourceType]string{
	domain.ResourceTask: `
		SELECT reporter_id, assignee_id, created_by_client_id
		FROM tasks WHERE id = ? AND organization_id = ?`,
	domain.ResourceProject: `
		SELECT owner_id, NULL, NULL
		FROM projects WHERE id = ? AND organization_id = ?`,
	domain.ResourceComment: `
		SELECT author_id, NULL, NULL
		FROM comments WHERE id = ? AND organization_id = ?`,
}

// OwnershipRepo loads the minimal ownership fields per resource type.
type OwnershipRepo struct {
	db *sql.DB
}

func NewOwnershipRepo(db *sql.DB) *OwnershipRepo {
	return &OwnershipRepo{db: db}
}

// GetOwnership returns the ownership fields of one record scoped to the
// organization. Absent rows and rows belonging to other tenants both yield
// NotFoundOrDeniedError.
func (r *OwnershipRepo) GetOwnership(ctx context.Context, t domain.ResourceType, id, orgID int64) (*domain.Ownership, error) {
	q, ok := ownershipQueries[t]
	if !ok {
		return nil, fmt.Errorf("unknown resource type %q", t)
	}

	var (
		own      domain.Ownership
		assignee sql.NullInt64
		clientID sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, id, orgID).Scan(&own.OwnerID, &assignee, &clientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundOrDeniedError{ResourceType: string(t), ResourceID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %d ownership: %w", t, id, err)
	}
	if assignee.Valid {
		own.AssigneeID = &assignee.Int64
	}
	if clientID.Valid {
		own.CreatedByClientID = &clientID.Int64
	}
	return &own, nil
}
