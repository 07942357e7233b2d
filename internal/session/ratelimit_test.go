package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRateLimiterWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	limiter := NewRateLimiter(rdb, 2, time.Minute)
	ctx := context.Background()

	if !limiter.Allow(ctx, "client") {
		t.Fatal("first request should be allowed")
	}
	if !limiter.Allow(ctx, "client") {
		t.Fatal("second request should be allowed")
	}
	if limiter.Allow(ctx, "client") {
		t.Fatal("third request should be limited")
	}

	// Other keys are counted independently.
	if !limiter.Allow(ctx, "other") {
		t.Fatal("different key should be allowed")
	}

	// The counter expires with the window.
	mr.FastForward(time.Minute + time.Second)
	if !limiter.Allow(ctx, "client") {
		t.Fatal("request after window should be allowed again")
	}
}

func TestRateLimiterHealsOrphanedCounter(t *testing.T) {
	mr, rdb := newTestRedis(t)
	limiter := NewRateLimiter(rdb, 10, time.Minute)
	ctx := context.Background()

	// A counter without a TTL, as left behind by a crash between INCR
	// and EXPIRE, must pick up an expiry on the next request instead of
	// limiting the key forever.
	if err := mr.Set("ratelimit:stuck", "3"); err != nil {
		t.Fatalf("failed to seed counter: %v", err)
	}

	if !limiter.Allow(ctx, "stuck") {
		t.Fatal("request under the limit should be allowed")
	}
	if ttl := mr.TTL("ratelimit:stuck"); ttl != time.Minute {
		t.Errorf("orphaned counter TTL = %v, want %v", ttl, time.Minute)
	}

	mr.FastForward(time.Minute + time.Second)
	if mr.Exists("ratelimit:stuck") {
		t.Error("counter should expire after the window")
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	// Point the client at a port nothing listens on: every command
	// fails, and the limiter must allow the request anyway.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	limiter := NewRateLimiter(rdb, 1, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow(context.Background(), "client-key") {
			t.Fatal("limiter must fail open when its store is unreachable")
		}
	}
}

func TestMint(t *testing.T) {
	a, b := Mint(), Mint()
	if a == "" || b == "" {
		t.Fatal("minted session ids must not be empty")
	}
	if a == b {
		t.Error("minted session ids must be unique")
	}
	if len(a) != 36 {
		t.Errorf("minted id length = %d, want 36-character UUID form", len(a))
	}
}
