package ports

import (
	"context"

	"github.com/ccontapub/accounts-api/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Uniqueness of the email key is enforced by the store itself; Create
// must resolve a registration race to exactly one winner and fail the
// rest with domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Confirm flips the confirmed flag. The transition is monotonic:
	// there is no operation that sets it back to false.
	Confirm(ctx context.Context, id string) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// TokenRepository defines the persistence contract for one-time codes.
// The token value is the unique key; expiry is enforced by the store.
type TokenRepository interface {
	Save(ctx context.Context, token *domain.Token) error
	FindByValue(ctx context.Context, value string) (*domain.Token, error)
	// Delete consumes a token. It returns domain.ErrTokenInvalid when the
	// value is already gone, so that concurrent consumers of the same
	// code resolve to exactly one winner.
	Delete(ctx context.Context, value string) error
}
