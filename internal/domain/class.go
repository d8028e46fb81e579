package domain

import "time"

// Class is a time-slotted session with limited capacity. CurrentBookings is
// the occupancy counter and is only ever mutated under its row lock.
type Class struct {
	ID              string
	Name            string
	Description     string
	StartTime       time.Time
	EndTime         time.Time
	Capacity        int
	CurrentBookings int
	CreditsRequired int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c Class) IsFull() bool {
	return c.CurrentBookings >= c.Capacity
}

func (c Class) AvailableSlots() int {
	if c.CurrentBookings >= c.Capacity {
		return 0
	}
	return c.Capacity - c.CurrentBookings
}

// Overlaps reports whether the class time window intersects [start, end).
func (c Class) Overlaps(start, end time.Time) bool {
	return c.StartTime.Before(end) && c.EndTime.After(start)
}

type AvailabilityFilter string

const (
	AvailabilityAll       AvailabilityFilter = "all"
	AvailabilityAvailable AvailabilityFilter = "available"
	AvailabilityFull      AvailabilityFilter = "full"
)

// ClassFilter narrows class listings by start-time range and fullness.
type ClassFilter struct {
	From         *time.Time
	To           *time.Time
	Availability AvailabilityFilter
}

// Availability is the derived occupancy snapshot for a class.
type Availability struct {
	Available       bool
	AvailableSlots  int
	Capacity        int
	CurrentBookings int
}
