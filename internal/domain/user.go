package domain

import "time"

// User is a registered account. PasswordHash is bcrypt and never serialized.
type User struct {
	ID                string     `json:"id"`
	FullName          string     `json:"full_name"`
	PhoneNumber       string     `json:"phone_number"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	IsAdmin           bool       `json:"isAdmin"`
	Active            bool       `json:"active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	PasswordChangedAt *time.Time `json:"password_changed_at"`
}
