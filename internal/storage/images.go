package storage

import (
	"context"

	"github.com/google/uuid"
)

// CreateProductImage attaches the already-resized image bytes to an owned
// product.
func (s *Store) CreateProductImage(ctx context.Context, ownerID, productID uuid.UUID, image []byte) (*ProductImage, error) {
	var img ProductImage
	err := s.pool.QueryRow(ctx, `
		INSERT INTO product_images (product_id, image)
		SELECT p.id, $3
		FROM products p
		WHERE p.id = $1 AND p.owner_id = $2
		RETURNING id, product_id, created_at
	`, productID, ownerID, image).Scan(&img.ID, &img.ProductID, &img.CreatedAt)
	if err != nil {
		return nil, mapRowError(err)
	}
	img.Image = image
	return &img, nil
}

// GetProductImage returns the raw bytes for serving. Images are public;
// no owner scope.
func (s *Store) GetProductImage(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var image []byte
	err := s.pool.QueryRow(ctx, `SELECT image FROM product_images WHERE id = $1`, id).Scan(&image)
	if err != nil {
		return nil, mapRowError(err)
	}
	return image, nil
}

func (s *Store) ListProductImageIDs(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM product_images WHERE product_id = $1 ORDER BY created_at
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) DeleteProductImage(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM product_images i
		USING products p
		WHERE i.id = $1 AND i.product_id = p.id AND p.owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
