package repositories

import (
	"context"
	"time"
)

// CodeStore holds phone verification codes (bcrypt hashes, never plaintext)
// with an expiry. The Redis-backed implementation keeps codes across process
// restarts and visible to every replica.
type CodeStore interface {
	Set(ctx context.Context, phone, codeHash string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}
