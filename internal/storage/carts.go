package storage

import (
	"context"

	"github.com/google/uuid"
)

const cartColumns = `id, owner_id, product_id, variation_id, quantity, created_at, updated_at`

func scanCartItem(row interface{ Scan(...any) error }) (*CartItem, error) {
	var c CartItem
	err := row.Scan(&c.ID, &c.OwnerID, &c.ProductID, &c.VariationID, &c.Quantity, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapRowError(err)
	}
	return &c, nil
}

// AddCartItem inserts an item. The (owner, product) unique constraint
// keeps one line per product in a cart; a second add surfaces
// ErrDuplicate.
func (s *Store) AddCartItem(ctx context.Context, item CartItem) (*CartItem, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO cart_items (owner_id, product_id, variation_id, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING `+cartColumns+`
	`, item.OwnerID, item.ProductID, item.VariationID, item.Quantity)

	out, err := scanCartItem(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return out, nil
}

func (s *Store) ListCartItems(ctx context.Context, ownerID uuid.UUID) ([]CartItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+cartColumns+`
		FROM cart_items
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CartItem
	for rows.Next() {
		c, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *Store) FindCartItem(ctx context.Context, ownerID, id uuid.UUID) (*CartItem, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+cartColumns+`
		FROM cart_items
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	return scanCartItem(row)
}

// UpdateCartItem changes quantity and/or the chosen variation.
func (s *Store) UpdateCartItem(ctx context.Context, ownerID, id uuid.UUID, quantity *int, variationID *uuid.UUID) (*CartItem, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE cart_items
		SET quantity     = COALESCE($3, quantity),
		    variation_id = COALESCE($4, variation_id),
		    updated_at   = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+cartColumns+`
	`, id, ownerID, quantity, variationID)
	return scanCartItem(row)
}

func (s *Store) DeleteCartItem(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM cart_items WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
