package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskflask/internal/domain"
)

// UserRepo loads user rows for the login flow.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByEmail returns the user row plus stored password hash.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	const q = `
		SELECT id, email, is_active, created_at, password_hash
		FROM users WHERE email = ?`

	var (
		u        domain.User
		isActive int64
		hash     string
	)
	err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Email, &isActive, &u.JoinedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", domain.ErrUnknownPrincipal("no user for email")
	}
	if err != nil {
		return nil, "", fmt.Errorf("load user by email: %w", err)
	}
	u.Active = isActive != 0
	return &u, hash, nil
}
