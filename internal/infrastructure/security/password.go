package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when a hash is requested for an empty string.
var ErrEmptyPassword = errors.New("password must not be empty")

// PasswordCodec performs one-way password hashing with bcrypt and
// constant-time verification. Plaintext never leaves this package.
type PasswordCodec struct {
	cost int
}

// NewPasswordCodec returns a codec with the given bcrypt cost.
// Non-positive cost falls back to bcrypt.DefaultCost.
func NewPasswordCodec(cost int) *PasswordCodec {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordCodec{cost: cost}
}

// Hash derives a salted digest from plaintext.
func (c *PasswordCodec) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch or a
// malformed digest yields false, never an error.
func (c *PasswordCodec) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
