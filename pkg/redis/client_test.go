package redis

import (
	"testing"
	"time"

	"github.com/shoploop/shoploop-backend/pkg/config"
)

func TestBuildKeyNamespacing(t *testing.T) {
	c := &Client{}
	if got := c.IdempotencyKey("user|POST|/api/v1/orders", "abc"); got != "sl:idempotency:user|POST|/api/v1/orders:abc" {
		t.Fatalf("unexpected idempotency key: %s", got)
	}
	if got := c.RateLimitKey("rl:ip:login:1.2.3.4"); got != "sl:rate_limit:rl:ip:login:1.2.3.4" {
		t.Fatalf("unexpected rate limit key: %s", got)
	}
	if got := c.AccessSessionKey("jti-1"); got != "sl:session:access:jti-1" {
		t.Fatalf("unexpected session key: %s", got)
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	c := &Client{}
	if got := c.buildKey("a", "", "b"); got != "sl:a:b" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address set")
	}
}

func TestOptionsFromConfigAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:      "localhost:6379",
		Password:     "secret",
		DB:           2,
		PoolSize:     5,
		MinIdleConns: 1,
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("optionsFromConfig returned error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 || opts.PoolSize != 5 {
		t.Fatalf("options not applied: %+v", opts)
	}
}

func TestOptionsFromConfigURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@localhost:6380/1"})
	if err != nil {
		t.Fatalf("optionsFromConfig returned error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 1 {
		t.Fatalf("url options not parsed: %+v", opts)
	}
}
