package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const productColumns = `id, owner_id, seller, name, description, brand, category, sub_category, expiry, currency, marked_price, selling_price, is_available, created_at, updated_at`

// Whitelists for ListProducts. Anything outside these maps is rejected
// before the value is interpolated into SQL.
var (
	productFilterFields = map[string]string{
		"name":        "name",
		"brand":       "brand",
		"category":    "category",
		"subCategory": "sub_category",
	}
	productSortFields = map[string]string{
		"createdAt":    "created_at",
		"sellingPrice": "selling_price",
		"name":         "name",
	}
)

const defaultListLimit = 20

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Seller,
		&p.Name,
		&p.Description,
		&p.Brand,
		&p.Category,
		&p.SubCategory,
		&p.Expiry,
		&p.Currency,
		&p.MarkedPrice,
		&p.SellingPrice,
		&p.IsAvailable,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, mapRowError(err)
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, in NewProduct) (*Product, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (owner_id, seller, name, description, brand, category, sub_category, expiry, currency, marked_price, selling_price, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+productColumns+`
	`, in.OwnerID, in.Seller, in.Name, in.Description, in.Brand, in.Category,
		in.SubCategory, in.Expiry, in.Currency, in.MarkedPrice, in.SellingPrice, in.IsAvailable)
	return scanProduct(row)
}

// FindProduct loads one product together with its variations and image ids.
func (s *Store) FindProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	if p.Variations, err = s.ListVariations(ctx, id); err != nil {
		return nil, err
	}
	if p.ImageIDs, err = s.ListProductImageIDs(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts returns a page of products. Filter and sort fields outside
// the whitelists fall back to no filter and newest-first.
func (s *Store) ListProducts(ctx context.Context, f ListFilter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}

	if col, ok := productFilterFields[f.Field]; ok && f.Value != "" {
		args = append(args, f.Value)
		query += fmt.Sprintf(" WHERE %s = $%d", col, len(args))
	}

	sortCol, ok := productSortFields[f.SortField]
	if !ok {
		sortCol, f.SortDesc = "created_at", true
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortCol, dir)

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if f.Skip > 0 {
		args = append(args, f.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ListSellerProducts returns everything the seller has listed, newest first.
func (s *Store) ListSellerProducts(ctx context.Context, ownerID uuid.UUID) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateProduct patches an owned product. The owner scope in the WHERE
// clause makes a foreign product indistinguishable from a missing one.
func (s *Store) UpdateProduct(ctx context.Context, ownerID, id uuid.UUID, upd ProductUpdate) (*Product, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE products
		SET name          = COALESCE($3, name),
		    description   = COALESCE($4, description),
		    brand         = COALESCE($5, brand),
		    category      = COALESCE($6, category),
		    sub_category  = COALESCE($7, sub_category),
		    expiry        = COALESCE($8, expiry),
		    currency      = COALESCE($9, currency),
		    marked_price  = COALESCE($10, marked_price),
		    selling_price = COALESCE($11, selling_price),
		    is_available  = COALESCE($12, is_available),
		    updated_at    = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+productColumns+`
	`, id, ownerID, upd.Name, upd.Description, upd.Brand, upd.Category,
		upd.SubCategory, upd.Expiry, upd.Currency, upd.MarkedPrice,
		upd.SellingPrice, upd.IsAvailable)
	return scanProduct(row)
}

// DeleteProduct removes an owned product; variations and images cascade,
// cart references are cleared first so the rows do not dangle.
func (s *Store) DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("storage: begin product delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE product_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
