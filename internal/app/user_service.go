package app

import (
	"context"

	"github.com/GitAbdalla/booking-system/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, userID string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetCredits(ctx context.Context, userID string, credits int) error
	AddCredits(ctx context.Context, userID string, amount int) error
}

// BookingLister is what the profile endpoint needs from the booking side.
type BookingLister interface {
	ListByUser(ctx context.Context, userID string) ([]domain.BookingDetail, error)
}

type UserService struct {
	repo     UserRepository
	bookings BookingLister
}

func NewUserService(repo UserRepository, bookings BookingLister) *UserService {
	return &UserService{
		repo:     repo,
		bookings: bookings,
	}
}

// Profile is a user together with their booking history.
type Profile struct {
	User     domain.User
	Bookings []domain.BookingDetail
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{User: user, Bookings: bookings}, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// SetCredits is the admin balance override. Engine-driven debits and
// refunds go through the booking transaction instead.
func (s *UserService) SetCredits(ctx context.Context, userID string, credits int) (domain.User, error) {
	if credits < 0 {
		return domain.User{}, domain.ErrInvalidCredits
	}
	if err := s.repo.SetCredits(ctx, userID, credits); err != nil {
		return domain.User{}, err
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *UserService) AddCredits(ctx context.Context, userID string, amount int) (domain.User, error) {
	if amount < 0 {
		return domain.User{}, domain.ErrInvalidCredits
	}
	if err := s.repo.AddCredits(ctx, userID, amount); err != nil {
		return domain.User{}, err
	}
	return s.repo.GetByID(ctx, userID)
}
