package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/GitAbdalla/booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetUserForUpdate takes the exclusive row lock on the user. Lock order is
// always user before class; both engine paths honor it.
func (r *BookingRepository) GetUserForUpdate(ctx context.Context, userID string) (domain.User, error) {
	const query = `
SELECT id, email, password_hash, credits, role, created_at, updated_at
FROM users
WHERE id = $1
FOR UPDATE`

	var u domain.User
	err := r.queryRow(ctx, query, userID).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Credits, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.User{}, domain.ErrInvalidID
		}
		if isLockConflict(err) {
			return domain.User{}, domain.ErrStoreConflict
		}
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user for update: %w", err)
	}
	return u, nil
}

func (r *BookingRepository) GetClassForUpdate(ctx context.Context, classID string) (domain.Class, error) {
	const query = `
SELECT id, name, description, start_time, end_time, capacity, current_bookings, credits_required, created_at, updated_at
FROM classes
WHERE id = $1
FOR UPDATE`

	c, err := scanClass(r.queryRow(ctx, query, classID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Class{}, domain.ErrInvalidID
		}
		if isLockConflict(err) {
			return domain.Class{}, domain.ErrStoreConflict
		}
		if err == pgx.ErrNoRows {
			return domain.Class{}, domain.ErrClassNotFound
		}
		return domain.Class{}, fmt.Errorf("get class for update: %w", err)
	}
	return c, nil
}

func (r *BookingRepository) GetClass(ctx context.Context, classID string) (domain.Class, error) {
	const query = `
SELECT id, name, description, start_time, end_time, capacity, current_bookings, credits_required, created_at, updated_at
FROM classes
WHERE id = $1`

	c, err := scanClass(r.queryRow(ctx, query, classID))
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

func (r *BookingRepository) GetBookingForUpdate(ctx context.Context, bookingID string) (domain.Booking, error) {
	const query = `
SELECT id, user_id, class_id, credits_used, status, booked_at, cancelled_at, created_at, updated_at
FROM bookings
WHERE id = $1
FOR UPDATE`

	b, err := scanBooking(r.queryRow(ctx, query, bookingID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Booking{}, domain.ErrInvalidID
		}
		if isLockConflict(err) {
			return domain.Booking{}, domain.ErrStoreConflict
		}
		if err == pgx.ErrNoRows {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking for update: %w", err)
	}
	return b, nil
}

// FindOverlappingActive returns any active booking by the user on a class
// whose [start_time, end_time) window intersects [start, end). The target
// class itself is excluded so an exact repeat surfaces as a duplicate, not
// an overlap.
func (r *BookingRepository) FindOverlappingActive(ctx context.Context, userID, classID string, start, end time.Time) (*domain.Booking, error) {
	const query = `
SELECT b.id, b.user_id, b.class_id, b.credits_used, b.status, b.booked_at, b.cancelled_at, b.created_at, b.updated_at
FROM bookings b
JOIN classes c ON c.id = b.class_id
WHERE b.user_id = $1
  AND b.class_id <> $2
  AND b.status = 'active'
  AND c.start_time < $4
  AND c.end_time > $3
LIMIT 1`

	b, err := scanBooking(r.queryRow(ctx, query, userID, classID, start, end))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) FindActiveByUserAndClass(ctx context.Context, userID, classID string) (*domain.Booking, error) {
	const query = `
SELECT id, user_id, class_id, credits_used, status, booked_at, cancelled_at, created_at, updated_at
FROM bookings
WHERE user_id = $1 AND class_id = $2 AND status = 'active'`

	b, err := scanBooking(r.queryRow(ctx, query, userID, classID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, user_id, class_id, credits_used, status, booked_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6, $6)`

	_, err := r.exec(ctx, stmt,
		booking.ID,
		booking.UserID,
		booking.ClassID,
		booking.CreditsUsed,
		booking.Status,
		booking.BookedAt,
	)
	if err != nil {
		// The partial unique index on active (user_id, class_id) backstops
		// the application-level duplicate check.
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBooking
		}
		if isForeignKeyViolation(err) {
			return domain.ErrClassNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) MarkCancelled(ctx context.Context, bookingID string, cancelledAt time.Time) error {
	const stmt = `
UPDATE bookings
SET status = 'cancelled', cancelled_at = $2, updated_at = $2
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, bookingID, cancelledAt)
	if err != nil {
		return fmt.Errorf("mark booking cancelled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// SetUserCredits writes the absolute balance computed against the locked
// row. The caller must hold the user row lock in the same transaction.
func (r *BookingRepository) SetUserCredits(ctx context.Context, userID string, credits int) error {
	const stmt = `UPDATE users SET credits = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.exec(ctx, stmt, userID, credits)
	if err != nil {
		return fmt.Errorf("set user credits: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *BookingRepository) IncrementOccupancy(ctx context.Context, classID string) error {
	const stmt = `
UPDATE classes
SET current_bookings = current_bookings + 1, updated_at = NOW()
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, classID)
	if err != nil {
		return fmt.Errorf("increment occupancy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClassNotFound
	}
	return nil
}

// DecrementOccupancy floors at zero so inconsistent state can never drive
// the counter negative.
func (r *BookingRepository) DecrementOccupancy(ctx context.Context, classID string) error {
	const stmt = `
UPDATE classes
SET current_bookings = GREATEST(current_bookings - 1, 0), updated_at = NOW()
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, classID)
	if err != nil {
		return fmt.Errorf("decrement occupancy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClassNotFound
	}
	return nil
}

func (r *BookingRepository) GetBookingDetail(ctx context.Context, bookingID string) (domain.BookingDetail, error) {
	const query = `
SELECT ` + bookingDetailColumns + `
FROM bookings b
JOIN users u ON u.id = b.user_id
JOIN classes c ON c.id = b.class_id
WHERE b.id = $1`

	d, err := scanBookingDetail(r.queryRow(ctx, query, bookingID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.BookingDetail{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.BookingDetail{}, domain.ErrBookingNotFound
		}
		return domain.BookingDetail{}, fmt.Errorf("get booking detail: %w", err)
	}
	return d, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.BookingDetail, error) {
	const query = `
SELECT ` + bookingDetailColumns + `
FROM bookings b
JOIN users u ON u.id = b.user_id
JOIN classes c ON c.id = b.class_id
WHERE b.user_id = $1
ORDER BY b.created_at DESC`

	return r.listDetails(ctx, query, userID)
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]domain.BookingDetail, error) {
	const query = `
SELECT ` + bookingDetailColumns + `
FROM bookings b
JOIN users u ON u.id = b.user_id
JOIN classes c ON c.id = b.class_id
ORDER BY b.created_at DESC`

	return r.listDetails(ctx, query)
}

const bookingDetailColumns = `
b.id, b.user_id, b.class_id, b.credits_used, b.status, b.booked_at, b.cancelled_at, b.created_at, b.updated_at,
u.id, u.email, u.credits, u.role, u.created_at, u.updated_at,
c.id, c.name, c.description, c.start_time, c.end_time, c.capacity, c.current_bookings, c.credits_required, c.created_at, c.updated_at`

func (r *BookingRepository) listDetails(ctx context.Context, query string, args ...any) ([]domain.BookingDetail, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var details []domain.BookingDetail
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		details = append(details, d)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate bookings: %w", rows.Err())
	}
	return details, nil
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.ClassID, &b.CreditsUsed, &b.Status, &b.BookedAt, &b.CancelledAt, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func scanClass(row pgx.Row) (domain.Class, error) {
	var c domain.Class
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.StartTime, &c.EndTime, &c.Capacity, &c.CurrentBookings, &c.CreditsRequired, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanBookingDetail(row pgx.Row) (domain.BookingDetail, error) {
	var d domain.BookingDetail
	var u domain.User
	var c domain.Class
	err := row.Scan(
		&d.ID, &d.UserID, &d.ClassID, &d.CreditsUsed, &d.Status, &d.BookedAt, &d.CancelledAt, &d.CreatedAt, &d.UpdatedAt,
		&u.ID, &u.Email, &u.Credits, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		&c.ID, &c.Name, &c.Description, &c.StartTime, &c.EndTime, &c.Capacity, &c.CurrentBookings, &c.CreditsRequired, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.BookingDetail{}, err
	}
	d.User = &u
	d.Class = &c
	return d, nil
}

func (r *BookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *BookingRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
