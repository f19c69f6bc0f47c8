package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const orderColumns = `id, client_id, seller_id, address_id, product_id, variation_id, quantity, total, payment_mode, payment_id, tracking_id, order_status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.ClientID,
		&o.SellerID,
		&o.AddressID,
		&o.ProductID,
		&o.VariationID,
		&o.Quantity,
		&o.Total,
		&o.PaymentMode,
		&o.PaymentID,
		&o.TrackingID,
		&o.OrderStatus,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, mapRowError(err)
	}
	return &o, nil
}

// PlaceOrder records the order and drops the originating cart line in one
// transaction, so a retried checkout cannot double-place from the same
// cart item.
func (s *Store) PlaceOrder(ctx context.Context, in NewOrder, cartItemID uuid.UUID) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: begin place order: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (client_id, seller_id, address_id, product_id, variation_id, quantity, total, payment_mode, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+orderColumns+`
	`, in.ClientID, in.SellerID, in.AddressID, in.ProductID, in.VariationID,
		in.Quantity, in.Total, in.PaymentMode, in.PaymentID)

	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM cart_items WHERE id = $1 AND owner_id = $2
	`, cartItemID, in.ClientID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Store) ListClientOrders(ctx context.Context, clientID uuid.UUID) ([]Order, error) {
	return s.listOrders(ctx, "client_id", clientID)
}

func (s *Store) ListSellerOrders(ctx context.Context, sellerID uuid.UUID) ([]Order, error) {
	return s.listOrders(ctx, "seller_id", sellerID)
}

func (s *Store) listOrders(ctx context.Context, ownerCol string, id uuid.UUID) ([]Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE `+ownerCol+` = $1
		ORDER BY created_at DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (s *Store) FindClientOrder(ctx context.Context, clientID, id uuid.UUID) (*Order, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND client_id = $2
	`, id, clientID)
	return scanOrder(row)
}

// UpdateSellerOrder patches the seller-editable fields of an order the
// seller fulfils.
func (s *Store) UpdateSellerOrder(ctx context.Context, sellerID, id uuid.UUID, upd OrderUpdate) (*Order, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE orders
		SET tracking_id  = COALESCE($3, tracking_id),
		    order_status = COALESCE($4, order_status),
		    updated_at   = now()
		WHERE id = $1 AND seller_id = $2
		RETURNING `+orderColumns+`
	`, id, sellerID, upd.TrackingID, upd.OrderStatus)
	return scanOrder(row)
}

func (s *Store) DeleteSellerOrder(ctx context.Context, sellerID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM orders WHERE id = $1 AND seller_id = $2
	`, id, sellerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
