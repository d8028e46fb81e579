package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GitAbdalla/booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClassRepository struct {
	pool *pgxpool.Pool
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func (r *ClassRepository) Create(ctx context.Context, class domain.Class) error {
	const stmt = `
INSERT INTO classes (id, name, description, start_time, end_time, capacity, current_bookings, credits_required, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

	_, err := r.pool.Exec(ctx, stmt,
		class.ID,
		class.Name,
		class.Description,
		class.StartTime,
		class.EndTime,
		class.Capacity,
		class.CurrentBookings,
		class.CreditsRequired,
		class.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

func (r *ClassRepository) GetByID(ctx context.Context, classID string) (domain.Class, error) {
	const query = `
SELECT id, name, description, start_time, end_time, capacity, current_bookings, credits_required, created_at, updated_at
FROM classes
WHERE id = $1`

	c, err := scanClass(r.pool.QueryRow(ctx, query, classID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Class{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Class{}, domain.ErrClassNotFound
		}
		return domain.Class{}, fmt.Errorf("get class: %w", err)
	}
	return c, nil
}

// List applies the optional start-time range and fullness filters, ordered
// by start time ascending.
func (r *ClassRepository) List(ctx context.Context, filter domain.ClassFilter) ([]domain.Class, error) {
	var (
		conds []string
		args  []any
	)
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, "start_time >= $"+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, "start_time <= $"+strconv.Itoa(len(args)))
	}
	switch filter.Availability {
	case domain.AvailabilityAvailable:
		conds = append(conds, "current_bookings < capacity")
	case domain.AvailabilityFull:
		conds = append(conds, "current_bookings >= capacity")
	}

	query := `
SELECT id, name, description, start_time, end_time, capacity, current_bookings, credits_required, created_at, updated_at
FROM classes`
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nORDER BY start_time ASC"

	return r.list(ctx, query, args...)
}

func (r *ClassRepository) ListUpcoming(ctx context.Context, now time.Time) ([]domain.Class, error) {
	const query = `
SELECT id, name, description, start_time, end_time, capacity, current_bookings, credits_required, created_at, updated_at
FROM classes
WHERE start_time >= $1
ORDER BY start_time ASC`

	return r.list(ctx, query, now)
}

func (r *ClassRepository) list(ctx context.Context, query string, args ...any) ([]domain.Class, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []domain.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate classes: %w", rows.Err())
	}
	return classes, nil
}
