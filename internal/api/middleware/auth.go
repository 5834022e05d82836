package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ccontapub/accounts-api/internal/infrastructure/security"
)

// SessionVerifier abstracts stateless session token verification.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// Session validates the bearer session token and injects the user id
// into context. Verification is purely cryptographic — no store lookup.
func Session(verifier SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			userID, err := verifier.Verify(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, security.ErrSessionExpired):
					return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
				case errors.Is(err, security.ErrSessionMalformed):
					return echo.NewHTTPError(http.StatusUnauthorized, "malformed token")
				default:
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}
