// Package rate throttles the unauthenticated auth endpoints with Redis
// fixed-window counters.
package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrRateLimited means the key has exhausted its window budget.
	ErrRateLimited = errors.New("rate: too many attempts")
	// ErrRedisUnavailable wraps Redis transport failures so callers can
	// fail open or closed explicitly.
	ErrRedisUnavailable = errors.New("rate: redis unavailable")
)

// Config holds the per-window budget.
type Config struct {
	Limit  int
	Window time.Duration
	Prefix string
}

// Limiter counts hits per key in a fixed window. A fresh key starts a
// window; the TTL is set only on the first hit so the window never
// slides.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "store:rate:"
	}
	return &Limiter{redis: redisClient, config: cfg}
}

// Allow records one hit for key and reports whether it is still within
// budget, along with the time until the window resets.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := l.config.Prefix + key

	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, redisKey, l.config.Window).Err(); err != nil {
			return false, 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if count > int64(l.config.Limit) {
		ttl, err := l.redis.TTL(ctx, redisKey).Result()
		if err != nil {
			ttl = l.config.Window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

// Reset clears the counter for key. Used after a successful login so a
// user who finally typed the right password is not locked out.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, l.config.Prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
