// Package storage is the system of record: typed repositories over one
// pgx connection pool for users, addresses, products, variations,
// product images, cart items, and orders.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes surfaced as typed sentinels.
const (
	pgUniqueViolation = "23505"
)

var (
	// ErrNotFound is returned when the referenced row does not exist or
	// is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail and ErrDuplicatePhone surface the users table
	// uniqueness constraints.
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicatePhone = errors.New("phone number already registered")
	// ErrDuplicate covers the remaining unique constraints (cart item
	// per product, variation type per product).
	ErrDuplicate = errors.New("duplicated entry")
)

// Store holds the connection pool. Constructed once in main and injected;
// Close releases the pool on shutdown.
type Store struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool. Used by tests.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func mapRowError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrDuplicateEmail
	case "users_phone_number_key":
		return ErrDuplicatePhone
	default:
		return ErrDuplicate
	}
}
