// Package session tracks the single currently-valid refresh token per
// user in Redis. The cache is advisory state, not the system of record:
// losing it only forces re-login.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when no refresh token is cached for the
// user, either because none was stored or the TTL elapsed.
var ErrNotFound = errors.New("session not found")

const defaultPrefix = "store:session:"

// Store maps user id -> current refresh token with a TTL equal to the
// refresh-token lifetime. One entry per user: Put overwrites, which is
// how a second login revokes the first device's session.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{redis: client, prefix: prefix}
}

// Put stores the mapping, overwriting any prior value for userID.
// Last write wins: two concurrent logins race and exactly one refresh
// token remains valid, which is accepted behavior.
func (s *Store) Put(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	if userID == "" || refreshToken == "" || ttl <= 0 {
		return errors.New("session: missing parameters")
	}
	return s.redis.Set(ctx, s.prefix+userID, refreshToken, ttl).Err()
}

// Get returns the cached refresh token for userID.
func (s *Store) Get(ctx context.Context, userID string) (string, error) {
	val, err := s.redis.Get(ctx, s.prefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

// Evict removes the mapping. Absent keys are not an error.
func (s *Store) Evict(ctx context.Context, userID string) error {
	return s.redis.Del(ctx, s.prefix+userID).Err()
}
