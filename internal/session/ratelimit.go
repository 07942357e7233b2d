package session

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// RateLimiter is a fixed-window counter on redis. It fails open: if the
// backing store is unreachable the request is allowed through. That is
// a deliberate availability-over-strictness tradeoff — an outage of the
// advisory limiter must not take voting down with it.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	k := "ratelimit:" + key
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		log.Warnf("rate limiter unavailable, allowing request: %v", err)
		return true
	}
	// TTL < 0 means the key has no expiry: either it is fresh, or a
	// crash between INCR and EXPIRE left an orphaned counter that would
	// otherwise limit this key forever.
	ttl, err := l.rdb.TTL(ctx, k).Result()
	if err != nil {
		log.Warnf("rate limiter ttl check failed for %s: %v", k, err)
	} else if ttl < 0 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			log.Warnf("rate limiter expire failed for %s: %v", k, err)
		}
	}
	return n <= int64(l.limit)
}
