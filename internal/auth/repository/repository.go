// Package repository persists dashboard users in Postgres.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prombaza_backend/platform/apperr"
)

// User is a dashboard operator account.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Store is the persistence contract the auth service depends on.
type Store interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, username, passwordHash string) (User, error)
	Count(ctx context.Context) (int, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	const op = "auth.repository.GetByUsername"

	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound(op, "user not found")
	}
	if err != nil {
		return User{}, apperr.Internal(op, err)
	}
	return user, nil
}

func (r *Repository) Create(ctx context.Context, username, passwordHash string) (User, error) {
	const op = "auth.repository.Create"

	var user User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at
	`, username, passwordHash).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return User{}, apperr.Internal(op, err)
	}
	return user, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	const op = "auth.repository.Count"

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, apperr.Internal(op, err)
	}
	return count, nil
}
