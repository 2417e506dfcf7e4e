package redis

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/acme/call-analytics/internal/config"
)

// Client owns the connection pool shared by the snapshot cache and the warmer lock.
type Client struct {
	inner *redis.Client
}

// NewClient connects to the configured server and verifies it answers.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	c := &Client{inner: redis.NewClient(options(cfg))}
	if err := c.Ping(ctx); err != nil {
		_ = c.inner.Close()
		return nil, err
	}
	return c, nil
}

func options(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	return opts
}

// Ping round-trips a PING.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.inner.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping %s: %w", c.inner.Options().Addr, err)
	}
	return nil
}

// Close releases the pool.
func (c *Client) Close() error {
	if c.inner == nil {
		return nil
	}
	return c.inner.Close()
}

// Inner exposes the go-redis client for the cache and lock packages.
func (c *Client) Inner() *redis.Client {
	return c.inner
}
