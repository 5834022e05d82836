package ports

import (
	"context"

	"github.com/ccontapub/accounts-api/internal/core/domain"
)

// AuthService orchestrates the account credential lifecycle: registration
// with email confirmation, login, and the forgot-password flow.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) error
	ConfirmAccount(ctx context.Context, tokenValue string) error
	Login(ctx context.Context, email, password string) (string, error)
	ResendConfirmation(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, tokenValue string) error
	ApplyPasswordReset(ctx context.Context, tokenValue, newPassword string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
