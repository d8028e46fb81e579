package app

import (
	"context"
	"time"

	"github.com/GitAbdalla/booking-system/internal/clock"
	"github.com/GitAbdalla/booking-system/internal/domain"
	"github.com/google/uuid"
)

// BookingRepository is the capability set the reservation engine needs:
// fetch-and-lock users/classes/bookings, the overlap and duplicate probes,
// and the mutations applied against the locked rows.
type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetUserForUpdate(ctx context.Context, userID string) (domain.User, error)
	GetClassForUpdate(ctx context.Context, classID string) (domain.Class, error)
	GetClass(ctx context.Context, classID string) (domain.Class, error)
	GetBookingForUpdate(ctx context.Context, bookingID string) (domain.Booking, error)
	FindOverlappingActive(ctx context.Context, userID, classID string, start, end time.Time) (*domain.Booking, error)
	FindActiveByUserAndClass(ctx context.Context, userID, classID string) (*domain.Booking, error)
	CreateBooking(ctx context.Context, booking domain.Booking) error
	MarkCancelled(ctx context.Context, bookingID string, cancelledAt time.Time) error
	SetUserCredits(ctx context.Context, userID string, credits int) error
	IncrementOccupancy(ctx context.Context, classID string) error
	DecrementOccupancy(ctx context.Context, classID string) error
	GetBookingDetail(ctx context.Context, bookingID string) (domain.BookingDetail, error)
	ListByUser(ctx context.Context, userID string) ([]domain.BookingDetail, error)
	ListAll(ctx context.Context) ([]domain.BookingDetail, error)
}

// refundWindow is how long before class start a cancellation still refunds
// its credits. The comparison is strict: exactly at the boundary does not
// qualify.
const refundWindow = 2 * time.Hour

// BookingService is the reservation engine. It is stateless; every
// operation runs as one transaction with exclusive row locks on the rows it
// mutates, acquired before any validation.
type BookingService struct {
	repo  BookingRepository
	clock clock.Clock
}

func NewBookingService(repo BookingRepository, clk clock.Clock) *BookingService {
	return &BookingService{
		repo:  repo,
		clock: clk,
	}
}

// CreateBooking reserves a slot on a class, charging the user the class's
// required credits. Lock order is user then class; validations and both
// mutations run against the locked rows, so concurrent attempts on the same
// user or class serialize and can never read stale balances or occupancy.
func (s *BookingService) CreateBooking(ctx context.Context, userID, classID string) (domain.BookingDetail, error) {
	now := s.clock.Now()
	var bookingID string

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetUserForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		class, err := s.repo.GetClassForUpdate(txCtx, classID)
		if err != nil {
			return err
		}

		if user.Credits < class.CreditsRequired {
			return domain.InsufficientCreditsError{
				Required:  class.CreditsRequired,
				Available: user.Credits,
			}
		}
		if class.CurrentBookings >= class.Capacity {
			return domain.ErrClassFull
		}

		overlapping, err := s.repo.FindOverlappingActive(txCtx, userID, classID, class.StartTime, class.EndTime)
		if err != nil {
			return err
		}
		if overlapping != nil {
			return domain.ErrOverlappingBooking
		}

		existing, err := s.repo.FindActiveByUserAndClass(txCtx, userID, classID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateBooking
		}

		booking := domain.Booking{
			ID:          uuid.NewString(),
			UserID:      userID,
			ClassID:     classID,
			CreditsUsed: class.CreditsRequired,
			Status:      domain.BookingStatusActive,
			BookedAt:    now,
		}
		if err := s.repo.CreateBooking(txCtx, booking); err != nil {
			return err
		}

		if err := s.repo.SetUserCredits(txCtx, userID, user.Credits-class.CreditsRequired); err != nil {
			return err
		}
		if err := s.repo.IncrementOccupancy(txCtx, classID); err != nil {
			return err
		}

		bookingID = booking.ID
		return nil
	})
	if err != nil {
		return domain.BookingDetail{}, err
	}

	return s.repo.GetBookingDetail(ctx, bookingID)
}

// CancelBooking flips an active booking to cancelled and refunds its
// credits when the class starts more than the refund window from now.
// Occupancy is decremented either way, floored at zero.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID string) (domain.BookingDetail, error) {
	now := s.clock.Now()

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.GetBookingForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		class, err := s.repo.GetClass(txCtx, booking.ClassID)
		if err != nil {
			return err
		}

		if booking.UserID != userID {
			return domain.ErrForbidden
		}
		if booking.Status == domain.BookingStatusCancelled {
			return domain.ErrBookingAlreadyCancelled
		}
		if booking.Status == domain.BookingStatusCompleted {
			return domain.ErrBookingCompleted
		}

		canRefund := class.StartTime.Sub(now) > refundWindow

		if err := s.repo.MarkCancelled(txCtx, bookingID, now); err != nil {
			return err
		}

		if canRefund {
			user, err := s.repo.GetUserForUpdate(txCtx, userID)
			if err != nil {
				return err
			}
			if err := s.repo.SetUserCredits(txCtx, userID, user.Credits+booking.CreditsUsed); err != nil {
				return err
			}
		}

		return s.repo.DecrementOccupancy(txCtx, booking.ClassID)
	})
	if err != nil {
		return domain.BookingDetail{}, err
	}

	return s.repo.GetBookingDetail(ctx, bookingID)
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (domain.BookingDetail, error) {
	return s.repo.GetBookingDetail(ctx, bookingID)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.BookingDetail, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *BookingService) ListAllBookings(ctx context.Context) ([]domain.BookingDetail, error) {
	return s.repo.ListAll(ctx)
}
