package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User holds the credit balance spent on bookings. Credits never go negative.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Credits      int
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
