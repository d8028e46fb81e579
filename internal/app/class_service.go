package app

import (
	"context"
	"time"

	"github.com/GitAbdalla/booking-system/internal/clock"
	"github.com/GitAbdalla/booking-system/internal/domain"
	"github.com/google/uuid"
)

type ClassRepository interface {
	Create(ctx context.Context, class domain.Class) error
	GetByID(ctx context.Context, classID string) (domain.Class, error)
	List(ctx context.Context, filter domain.ClassFilter) ([]domain.Class, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]domain.Class, error)
}

type ClassService struct {
	repo  ClassRepository
	clock clock.Clock
}

func NewClassService(repo ClassRepository, clk clock.Clock) *ClassService {
	return &ClassService{
		repo:  repo,
		clock: clk,
	}
}

type CreateClassInput struct {
	Name            string
	Description     string
	StartTime       time.Time
	EndTime         time.Time
	Capacity        int
	CreditsRequired int
}

func (s *ClassService) CreateClass(ctx context.Context, in CreateClassInput) (domain.Class, error) {
	if !in.EndTime.After(in.StartTime) {
		return domain.Class{}, domain.ErrInvalidTimeRange
	}
	if in.StartTime.Before(s.clock.Now()) {
		return domain.Class{}, domain.ErrClassInPast
	}
	if in.Capacity < 1 {
		return domain.Class{}, domain.ErrInvalidCapacity
	}
	creditsRequired := in.CreditsRequired
	if creditsRequired == 0 {
		creditsRequired = 1
	}
	if creditsRequired < 1 {
		return domain.Class{}, domain.ErrInvalidCredits
	}

	class := domain.Class{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Description:     in.Description,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Capacity:        in.Capacity,
		CurrentBookings: 0,
		CreditsRequired: creditsRequired,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return domain.Class{}, err
	}
	return class, nil
}

func (s *ClassService) GetClass(ctx context.Context, classID string) (domain.Class, error) {
	return s.repo.GetByID(ctx, classID)
}

func (s *ClassService) ListClasses(ctx context.Context, filter domain.ClassFilter) ([]domain.Class, error) {
	return s.repo.List(ctx, filter)
}

func (s *ClassService) ListUpcoming(ctx context.Context) ([]domain.Class, error) {
	return s.repo.ListUpcoming(ctx, s.clock.Now())
}

// CheckAvailability derives the occupancy snapshot for a class. Pure read;
// no locks.
func (s *ClassService) CheckAvailability(ctx context.Context, classID string) (domain.Availability, error) {
	class, err := s.repo.GetByID(ctx, classID)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.Availability{
		Available:       !class.IsFull(),
		AvailableSlots:  class.AvailableSlots(),
		Capacity:        class.Capacity,
		CurrentBookings: class.CurrentBookings,
	}, nil
}
