package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// tokenRange covers the six-digit codes 100000-999999.
var tokenRange = big.NewInt(900000)

// TokenGenerator produces short, human-enterable one-time codes from
// a CSPRNG. Outputs are not predictable from prior outputs; collision
// handling is the token store's concern via its unique-key constraint.
type TokenGenerator struct{}

func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{}
}

// Generate returns a random six-digit numeric code.
func (g *TokenGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, tokenRange)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
