package redis

import (
	"testing"
	"time"

	"github.com/acme/call-analytics/internal/config"
)

func TestOptionsMapsConfig(t *testing.T) {
	opts := options(config.RedisConfig{
		Address:      "cache:6379",
		DB:           2,
		ReadTimeout:  time.Second,
		PoolSize:     7,
		MinIdleConns: 1,
	})
	if opts.Addr != "cache:6379" || opts.DB != 2 || opts.PoolSize != 7 || opts.MinIdleConns != 1 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.ReadTimeout != time.Second {
		t.Fatalf("read timeout = %v", opts.ReadTimeout)
	}
	if opts.DialTimeout != 5*time.Second {
		t.Fatalf("dial timeout default = %v", opts.DialTimeout)
	}
}
