package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ccontapub/accounts-api/internal/core/domain"
)

const tokenKeyPrefix = "token:"

// TokenRepository persists one-time codes in Redis. The key carries the
// code value so uniqueness and expiry are both enforced by Redis itself:
// SET NX rejects a colliding value and the key TTL matches the token's
// validity window. DEL keycount makes consumption single-winner under
// concurrency.
type TokenRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{client: client, now: time.Now}
}

type tokenRecord struct {
	UserID    string `json:"user_id"`
	Purpose   string `json:"purpose"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// Save stores the token under its value with a TTL equal to the
// remaining validity window.
func (r *TokenRepository) Save(ctx context.Context, tok *domain.Token) error {
	ttl := tok.ExpiresAt.Sub(r.now().UTC())
	if ttl <= 0 {
		return fmt.Errorf("save token: already expired")
	}

	payload, err := json.Marshal(tokenRecord{
		UserID:    tok.UserID,
		Purpose:   string(tok.Purpose),
		CreatedAt: tok.CreatedAt.Unix(),
		ExpiresAt: tok.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(tok.Value), payload, ttl).Result()
	if err != nil {
		return storageErr("save token", err)
	}
	if !ok {
		// A live token already holds this value. The generator's space
		// makes this rare; the caller treats it as a failed issue.
		return fmt.Errorf("save token: value collision")
	}
	return nil
}

func (r *TokenRepository) FindByValue(ctx context.Context, value string) (*domain.Token, error) {
	payload, err := r.client.Get(ctx, r.key(value)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, storageErr("find token", err)
	}

	var rec tokenRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("find token: decode: %w", err)
	}

	return &domain.Token{
		Value:     value,
		UserID:    rec.UserID,
		Purpose:   domain.TokenPurpose(rec.Purpose),
		CreatedAt: time.Unix(rec.CreatedAt, 0).UTC(),
		ExpiresAt: time.Unix(rec.ExpiresAt, 0).UTC(),
	}, nil
}

// Delete consumes a token. Exactly one concurrent caller observes a
// keycount of 1; the rest get domain.ErrTokenInvalid.
func (r *TokenRepository) Delete(ctx context.Context, value string) error {
	n, err := r.client.Del(ctx, r.key(value)).Result()
	if err != nil {
		return storageErr("delete token", err)
	}
	if n == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}

func (r *TokenRepository) key(value string) string {
	return tokenKeyPrefix + value
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
}
