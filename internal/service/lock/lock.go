package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// Lock is a single-holder lease on a Redis key.
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// New constructs a lock. A non-positive ttl falls back to thirty seconds.
func New(client *redis.Client, key string, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Lock{client: client, key: key, ttl: ttl}
}

// TryAcquire takes the lease if it is free. The returned token must be passed
// to Release.
func (l *Lock) TryAcquire(ctx context.Context) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("lock acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lease if it is still held by token.
func (l *Lock) Release(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Int(); err != nil {
		return fmt.Errorf("lock release: %w", err)
	}
	return nil
}
