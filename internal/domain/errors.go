package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrClassNotFound           = errors.New("class not found")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrEmailTaken              = errors.New("email already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrClassFull               = errors.New("class is full")
	ErrOverlappingBooking      = errors.New("you already have a booking that overlaps with this class time")
	ErrDuplicateBooking        = errors.New("you have already booked this class")
	ErrForbidden               = errors.New("you can only cancel your own bookings")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
	ErrBookingCompleted        = errors.New("cannot cancel a completed booking")
	ErrClassInPast             = errors.New("cannot create a class in the past")
	ErrInvalidTimeRange        = errors.New("end time must be after start time")
	ErrInvalidCapacity         = errors.New("capacity must be at least 1")
	ErrInvalidCredits          = errors.New("credits must not be negative")
	ErrInvalidID               = errors.New("invalid id")

	// ErrStoreConflict marks lock timeouts, deadlocks and serialization
	// failures from the store. Transient; safe to retry with the same input.
	ErrStoreConflict = errors.New("storage conflict, retry the request")
)

// InsufficientCreditsError carries the amounts so the message can state what
// was required and what the user actually had.
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits. Required: %d, Available: %d", e.Required, e.Available)
}
