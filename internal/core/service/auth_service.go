package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ccontapub/accounts-api/internal/core/domain"
	"github.com/ccontapub/accounts-api/internal/core/ports"
)

// PasswordCodec abstracts one-way password hashing and verification.
type PasswordCodec interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// CodeGenerator produces one-time code values.
type CodeGenerator interface {
	Generate() (string, error)
}

// SessionSigner issues stateless signed session tokens.
type SessionSigner interface {
	Issue(userID string) (string, error)
}

// AuthService implements the account credential lifecycle flows.
type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenRepository
	notifier  ports.Notifier
	passwords PasswordCodec
	codes     CodeGenerator
	sessions  SessionSigner
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenRepository,
	notifier ports.Notifier,
	passwords PasswordCodec,
	codes CodeGenerator,
	sessions SessionSigner,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		notifier:  notifier,
		passwords: passwords,
		codes:     codes,
		sessions:  sessions,
		log:       log,
		now:       time.Now,
	}
}

// Register creates an unconfirmed account, issues a confirmation code
// and dispatches it to the new address. Exactly one account can ever
// exist per email; a duplicate attempt fails with ErrUserExists.
func (s *AuthService) Register(ctx context.Context, email, password, name string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		s.log.Warn().Str("email", email).Msg("registration for existing email")
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("register: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index is the authority on duplicates; a lost race
	// surfaces here as ErrUserExists even after the check above.
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	if err := s.issueCode(ctx, created, domain.PurposeConfirmation); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("account created")
	return nil
}

// ConfirmAccount consumes a confirmation code and marks the referenced
// user confirmed. The transition is one-way and the code never
// validates again.
func (s *AuthService) ConfirmAccount(ctx context.Context, tokenValue string) error {
	tok, err := s.consumableToken(ctx, tokenValue, domain.PurposeConfirmation)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("confirm account: %w", err)
	}

	if err := s.users.Confirm(ctx, user.ID); err != nil {
		return fmt.Errorf("confirm account: %w", err)
	}

	// Whoever deletes the code wins; a concurrent confirm with the
	// same value fails from here on.
	if err := s.tokens.Delete(ctx, tok.Value); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("confirm account: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("account confirmed")
	return nil
}

// Login verifies credentials and returns a signed session token. An
// unconfirmed account never receives a session, regardless of password
// correctness; instead a fresh confirmation code is dispatched.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if !user.Confirmed {
		// Outstanding codes stay valid; the user may still hold one.
		if err := s.issueCode(ctx, user, domain.PurposeConfirmation); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to reissue confirmation code")
		}
		return "", domain.ErrNotConfirmed
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		s.log.Warn().Str("user_id", user.ID).Msg("login with incorrect password")
		return "", domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user authenticated")
	return session, nil
}

// ResendConfirmation issues a new confirmation code for an unconfirmed
// account.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("resend confirmation: %w", err)
	}

	if user.Confirmed {
		return domain.ErrAlreadyConfirmed
	}

	if err := s.issueCode(ctx, user, domain.PurposeConfirmation); err != nil {
		return fmt.Errorf("resend confirmation: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("confirmation code reissued")
	return nil
}

// RequestPasswordReset issues a reset code for the account, independent
// of its confirmation state.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("request password reset: %w", err)
	}

	if err := s.issueCode(ctx, user, domain.PurposePasswordReset); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset code issued")
	return nil
}

// ValidateResetToken checks a reset code without consuming it, so the
// client can show the new-password form before committing.
func (s *AuthService) ValidateResetToken(ctx context.Context, tokenValue string) error {
	_, err := s.consumableToken(ctx, tokenValue, domain.PurposePasswordReset)
	return err
}

// ApplyPasswordReset rehashes the password of the user referenced by
// the reset code and consumes the code.
func (s *AuthService) ApplyPasswordReset(ctx context.Context, tokenValue, newPassword string) error {
	tok, err := s.consumableToken(ctx, tokenValue, domain.PurposePasswordReset)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("apply password reset: %w", err)
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("apply password reset: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("apply password reset: %w", err)
	}

	if err := s.tokens.Delete(ctx, tok.Value); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("apply password reset: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset applied")
	return nil
}

// CurrentUser resolves the account behind an already-verified session.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

// issueCode creates and persists a one-time code for the user, then
// hands it to the notifier. Delivery is best effort: a notification
// failure is logged but never rolls the persisted code back.
func (s *AuthService) issueCode(ctx context.Context, user *domain.User, purpose domain.TokenPurpose) error {
	value, err := s.codes.Generate()
	if err != nil {
		return err
	}

	now := s.now().UTC()
	tok := &domain.Token{
		Value:     value,
		UserID:    user.ID,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.TokenTTL),
	}
	if err := s.tokens.Save(ctx, tok); err != nil {
		return err
	}

	n := ports.Notification{Email: user.Email, Name: user.Name, Token: value}
	var sendErr error
	switch purpose {
	case domain.PurposePasswordReset:
		sendErr = s.notifier.SendPasswordReset(ctx, n)
	default:
		sendErr = s.notifier.SendConfirmation(ctx, n)
	}
	if sendErr != nil {
		s.log.Warn().Err(sendErr).Str("user_id", user.ID).Str("purpose", string(purpose)).Msg("notification dispatch failed")
	}
	return nil
}

// consumableToken looks a code up and rejects it when missing, expired
// or presented for the wrong purpose. Expired codes are purged on
// sight.
func (s *AuthService) consumableToken(ctx context.Context, value string, purpose domain.TokenPurpose) (*domain.Token, error) {
	tok, err := s.tokens.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("lookup token: %w", err)
	}

	if tok.Expired(s.now().UTC()) {
		if delErr := s.tokens.Delete(ctx, tok.Value); delErr != nil && !errors.Is(delErr, domain.ErrTokenInvalid) {
			s.log.Warn().Err(delErr).Msg("failed to purge expired token")
		}
		return nil, domain.ErrTokenInvalid
	}

	if tok.Purpose != purpose {
		s.log.Warn().Str("purpose", string(tok.Purpose)).Msg("token presented for wrong purpose")
		return nil, domain.ErrTokenInvalid
	}

	return tok, nil
}
