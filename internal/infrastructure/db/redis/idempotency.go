package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which email a registration Idempotency-Key was
// used with. Key format: idem:register:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the email recorded for key and whether the key exists.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	email, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.Code("IDEMPOTENCY_LOOKUP_FAILED").With("key", key).Wrap(err)
	}
	return email, true, nil
}

// Remember records key for email (expires after the store TTL). An existing
// key is left untouched so the first registration wins.
func (s *IdempotencyStore) Remember(ctx context.Context, key, email string) error {
	if err := s.client.SetNX(ctx, s.key(key), email, s.ttl).Err(); err != nil {
		return oops.Code("IDEMPOTENCY_REMEMBER_FAILED").With("key", key).Wrap(err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:register:" + key
}
