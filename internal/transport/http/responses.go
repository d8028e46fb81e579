package http

import (
	"time"

	"github.com/GitAbdalla/booking-system/internal/domain"
)

// userResponse never carries the password hash.
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Credits   int       `json:"credits"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Credits:   u.Credits,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type classResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Capacity        int       `json:"capacity"`
	CurrentBookings int       `json:"current_bookings"`
	CreditsRequired int       `json:"credits_required"`
	IsFull          bool      `json:"is_full"`
	AvailableSlots  int       `json:"available_slots"`
}

func toClassResponse(c domain.Class) classResponse {
	return classResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		Capacity:        c.Capacity,
		CurrentBookings: c.CurrentBookings,
		CreditsRequired: c.CreditsRequired,
		IsFull:          c.IsFull(),
		AvailableSlots:  c.AvailableSlots(),
	}
}

type bookingResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	ClassID     string         `json:"class_id"`
	CreditsUsed int            `json:"credits_used"`
	Status      string         `json:"status"`
	BookedAt    time.Time      `json:"booked_at"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
	User        *userResponse  `json:"user,omitempty"`
	Class       *classResponse `json:"class,omitempty"`
}

func toBookingResponse(d domain.BookingDetail) bookingResponse {
	resp := bookingResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		ClassID:     d.ClassID,
		CreditsUsed: d.CreditsUsed,
		Status:      string(d.Status),
		BookedAt:    d.BookedAt,
		CancelledAt: d.CancelledAt,
	}
	if d.User != nil {
		u := toUserResponse(*d.User)
		resp.User = &u
	}
	if d.Class != nil {
		c := toClassResponse(*d.Class)
		resp.Class = &c
	}
	return resp
}

func toBookingResponses(details []domain.BookingDetail) []bookingResponse {
	out := make([]bookingResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toBookingResponse(d))
	}
	return out
}
