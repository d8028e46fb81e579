package domain

import "time"

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a reservation of one class slot paid for with credits.
// CreditsUsed snapshots the class price at booking time so later price
// changes never affect existing bookings.
type Booking struct {
	ID          string
	UserID      string
	ClassID     string
	CreditsUsed int
	Status      BookingStatus
	BookedAt    time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingDetail is a booking joined with its user and class rows. User is
// nil on projections that only join the class.
type BookingDetail struct {
	Booking
	User  *User
	Class *Class
}
