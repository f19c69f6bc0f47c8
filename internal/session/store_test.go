package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, ""), mr
}

func TestPutGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "user-1", "refresh-token-a", time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "refresh-token-a" {
		t.Fatalf("Get = %q, want refresh-token-a", got)
	}
}

func TestPutOverwritesPriorSession(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "user-1", "first-login", time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "user-1", "second-login", time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "second-login" {
		t.Fatalf("Get = %q, want second-login", got)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Get(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get = %v, want ErrNotFound", err)
	}
}

func TestEntryExpiresWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "user-1", "refresh-token-a", time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after TTL = %v, want ErrNotFound", err)
	}
}

func TestEvictIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "user-1", "refresh-token-a", time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Evict(ctx, "user-1"); err != nil {
		t.Fatalf("Evict failed: %v", err)
	}
	if err := store.Evict(ctx, "user-1"); err != nil {
		t.Fatalf("second Evict failed: %v", err)
	}
	if _, err := store.Get(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Evict = %v, want ErrNotFound", err)
	}
}

func TestPutRejectsMissingParameters(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "", "tok", time.Hour); err == nil {
		t.Fatal("expected error for empty user id")
	}
	if err := store.Put(ctx, "user-1", "", time.Hour); err == nil {
		t.Fatal("expected error for empty token")
	}
	if err := store.Put(ctx, "user-1", "tok", 0); err == nil {
		t.Fatal("expected error for zero TTL")
	}
}
