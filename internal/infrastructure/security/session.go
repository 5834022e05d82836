package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSessionMalformed = errors.New("session token malformed")
	ErrSessionExpired   = errors.New("session token expired")
	ErrSessionInvalid   = errors.New("session token signature invalid")
)

const defaultSessionTTL = 24 * time.Hour

// SessionConfig carries the signing key and validity window for
// session tokens. Both come from process configuration, never from
// globals.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// SessionSigner issues and verifies stateless HS256 session tokens
// binding a user id. Validity is determined entirely by the embedded
// signature and expiry; no store is consulted.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionSigner(cfg SessionConfig) *SessionSigner {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionSigner{secret: []byte(cfg.Secret), ttl: ttl, now: time.Now}
}

// Issue signs a session token for the given user id.
func (s *SessionSigner) Issue(userID string) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded user id.
// Failures map to ErrSessionMalformed, ErrSessionExpired or
// ErrSessionInvalid.
func (s *SessionSigner) Verify(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "", ErrSessionMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrSessionExpired
	case err != nil:
		return "", ErrSessionInvalid
	case !parsed.Valid:
		return "", ErrSessionInvalid
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrSessionMalformed
	}
	return sub, nil
}
