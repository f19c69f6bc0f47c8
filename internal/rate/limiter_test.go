package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, Config{Limit: limit, Window: window}), mr
}

func TestAllowWithinBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !allowed {
			t.Fatalf("hit %d denied within budget", i+1)
		}
	}

	allowed, retryAfter, err := limiter.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if allowed {
		t.Fatal("fourth hit allowed over budget of 3")
	}
	if retryAfter <= 0 {
		t.Fatalf("retryAfter = %v, want positive", retryAfter)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if allowed, _, _ := limiter.Allow(ctx, "1.2.3.4"); !allowed {
		t.Fatal("first key denied")
	}
	if allowed, _, _ := limiter.Allow(ctx, "5.6.7.8"); !allowed {
		t.Fatal("second key throttled by first key's budget")
	}
}

func TestWindowResets(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if allowed, _, _ := limiter.Allow(ctx, "1.2.3.4"); !allowed {
		t.Fatal("first hit denied")
	}
	if allowed, _, _ := limiter.Allow(ctx, "1.2.3.4"); allowed {
		t.Fatal("second hit allowed over budget of 1")
	}

	mr.FastForward(2 * time.Minute)

	if allowed, _, _ := limiter.Allow(ctx, "1.2.3.4"); !allowed {
		t.Fatal("hit denied after window reset")
	}
}

func TestResetClearsCounter(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if allowed, _, _ := limiter.Allow(ctx, "1.2.3.4"); !allowed {
		t.Fatal("first hit denied")
	}
	if err := limiter.Reset(ctx, "1.2.3.4"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if allowed, _, _ := limiter.Allow(ctx, "1.2.3.4"); !allowed {
		t.Fatal("hit denied after Reset")
	}
}

func TestRedisFailureSurfacesTypedError(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	_, _, err := limiter.Allow(context.Background(), "1.2.3.4")
	if err == nil {
		t.Fatal("expected error with Redis down")
	}
}
