package domain

import (
	"errors"
	"time"
)

var (
	ErrUserExists         = errors.New("user already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrNotConfirmed       = errors.New("account not confirmed")
	ErrAlreadyConfirmed   = errors.New("account already confirmed")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// User models an account holder. Email is the login key and is unique
// across all users; PasswordHash is a bcrypt digest and is never exposed.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Confirmed    bool      `json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
