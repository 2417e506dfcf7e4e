// Package cache stores computed dashboard snapshots in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// SnapshotCache keeps JSON-encoded snapshots under a shared key prefix.
type SnapshotCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSnapshotCache constructs a cache. A non-positive ttl falls back to one minute.
func NewSnapshotCache(client *redis.Client, prefix string, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if prefix == "" {
		prefix = "callanalytics"
	}
	return &SnapshotCache{client: client, prefix: prefix, ttl: ttl}
}

// Get decodes the cached value for key into dst. The boolean is false on a miss.
func (c *SnapshotCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("snapshot cache: get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("snapshot cache: decode: %w", err)
	}
	return true, nil
}

// Set stores value under key for the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("snapshot cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, c.fullKey(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("snapshot cache: set: %w", err)
	}
	return nil
}

// InvalidateAll drops every snapshot, returning how many keys were removed.
func (c *SnapshotCache) InvalidateAll(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	pattern := c.prefix + ":snapshot:*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return removed, fmt.Errorf("snapshot cache: scan: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Unlink(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("snapshot cache: unlink: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (c *SnapshotCache) fullKey(key string) string {
	return c.prefix + ":snapshot:" + key
}

// Key derives a stable cache key for a view and its parameters.
func Key(view string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "\x1f")))
	return view + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}
