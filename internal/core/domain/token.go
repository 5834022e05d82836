package domain

import (
	"errors"
	"time"
)

// TokenPurpose distinguishes what a one-time code may be spent on.
type TokenPurpose string

const (
	PurposeConfirmation  TokenPurpose = "confirmation"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// TokenTTL is the validity window of a one-time code.
const TokenTTL = 10 * time.Minute

var (
	ErrTokenInvalid = errors.New("token not valid")
	ErrTokenExpired = errors.New("token expired")
)

// Token is a short-lived, single-use code bound to exactly one user.
// Value is the lookup key; a token is deleted on first successful use
// and never validates again afterwards.
type Token struct {
	Value     string       `json:"token"`
	UserID    string       `json:"user_id"`
	Purpose   TokenPurpose `json:"purpose"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Expired reports whether the token's validity window has elapsed at now.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
