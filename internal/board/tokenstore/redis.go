package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "corkboard:refresh:"

	// defaultCallTimeout bounds every store call so a slow Redis cannot
	// stall the request pipeline. A timed-out lookup surfaces as
	// ErrUnavailable, which the refresh path treats as a rejection.
	defaultCallTimeout = 3 * time.Second
)

// RedisStore backs the token store with an external Redis, the durable
// cache this service is deployed against. Redis gives us per-key atomic
// SET/GET/DEL and native TTLs, which is the whole contract.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisStore wraps an existing client. The client's lifecycle belongs
// to the caller.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, timeout: defaultCallTimeout}
}

func (s *RedisStore) Put(ctx context.Context, username, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, redisKeyPrefix+username, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, username string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	value, err := s.client.Get(ctx, redisKeyPrefix+username).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return value, nil
}

func (s *RedisStore) Delete(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, redisKeyPrefix+username).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
