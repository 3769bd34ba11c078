package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mall/internal/apperrors"

	"github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "verify:"

// RedisCodeStore is a Redis implementation of CodeStore. Expiry is delegated
// to the key TTL.
type RedisCodeStore struct {
	client *redis.Client
}

// NewRedisCodeStore creates a new instance of RedisCodeStore.
func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

// Set stores the code hash for the phone, replacing any previous code.
func (s *RedisCodeStore) Set(ctx context.Context, phone, codeHash string, ttl time.Duration) error {
	if err := s.client.Set(ctx, codeKeyPrefix+phone, codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

// Get returns the stored code hash, or not-found once the key has expired.
func (s *RedisCodeStore) Get(ctx context.Context, phone string) (string, error) {
	val, err := s.client.Get(ctx, codeKeyPrefix+phone).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.NotFound("verification code", phone)
		}
		return "", fmt.Errorf("failed to read verification code: %w", err)
	}
	return val, nil
}

// Delete consumes the code after a successful verification.
func (s *RedisCodeStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, codeKeyPrefix+phone).Err(); err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return nil
}
