package postgres

import (
	"context"
	"fmt"

	"github.com/GitAbdalla/booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	const stmt = `
INSERT INTO users (id, email, password_hash, credits, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`

	_, err := r.pool.Exec(ctx, stmt,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Credits,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (domain.User, error) {
	const query = `
SELECT id, email, password_hash, credits, role, created_at, updated_at
FROM users
WHERE id = $1`

	return r.getOne(ctx, query, userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
SELECT id, email, password_hash, credits, role, created_at, updated_at
FROM users
WHERE email = $1`

	return r.getOne(ctx, query, email)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
SELECT id, email, password_hash, credits, role, created_at, updated_at
FROM users
ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Credits, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate users: %w", rows.Err())
	}
	return users, nil
}

// SetCredits overwrites the balance. Admin surface only; the engine adjusts
// balances through its own locked transaction instead.
func (r *UserRepository) SetCredits(ctx context.Context, userID string, credits int) error {
	const stmt = `UPDATE users SET credits = $2, updated_at = NOW() WHERE id = $1`
	return r.updateCredits(ctx, stmt, userID, credits)
}

func (r *UserRepository) AddCredits(ctx context.Context, userID string, amount int) error {
	const stmt = `UPDATE users SET credits = credits + $2, updated_at = NOW() WHERE id = $1`
	return r.updateCredits(ctx, stmt, userID, amount)
}

func (r *UserRepository) updateCredits(ctx context.Context, stmt, userID string, amount int) error {
	tag, err := r.pool.Exec(ctx, stmt, userID, amount)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update credits: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Credits, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.User{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
