package storage

import (
	"context"

	"github.com/google/uuid"
)

const variationColumns = `id, product_id, variation_type, variants`

func scanVariation(row interface{ Scan(...any) error }) (*Variation, error) {
	var v Variation
	err := row.Scan(&v.ID, &v.ProductID, &v.VariationType, &v.Variants)
	if err != nil {
		return nil, mapRowError(err)
	}
	return &v, nil
}

// CreateVariation adds a variation type to an owned product. A second
// variation with the same type on the same product trips the unique
// constraint and surfaces as ErrDuplicate.
func (s *Store) CreateVariation(ctx context.Context, ownerID uuid.UUID, v Variation) (*Variation, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO variations (product_id, variation_type, variants)
		SELECT p.id, $3, $4
		FROM products p
		WHERE p.id = $1 AND p.owner_id = $2
		RETURNING `+variationColumns+`
	`, v.ProductID, ownerID, v.VariationType, v.Variants)

	out, err := scanVariation(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return out, nil
}

func (s *Store) ListVariations(ctx context.Context, productID uuid.UUID) ([]Variation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+variationColumns+`
		FROM variations
		WHERE product_id = $1
		ORDER BY variation_type
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Variation
	for rows.Next() {
		v, err := scanVariation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (s *Store) FindVariation(ctx context.Context, id uuid.UUID) (*Variation, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+variationColumns+`
		FROM variations
		WHERE id = $1
	`, id)
	return scanVariation(row)
}

// AmendVariation appends addVariants and removes delVariants from the
// variant list in one statement. Ownership is enforced through the
// product join.
func (s *Store) AmendVariation(ctx context.Context, ownerID, id uuid.UUID, addVariants, delVariants []string) (*Variation, error) {
	if addVariants == nil {
		addVariants = []string{}
	}
	if delVariants == nil {
		delVariants = []string{}
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE variations v
		SET variants = (
			SELECT COALESCE(array_agg(DISTINCT e), '{}')
			FROM unnest(v.variants || $3::text[]) AS e
			WHERE e <> ALL ($4::text[])
		)
		FROM products p
		WHERE v.id = $1 AND v.product_id = p.id AND p.owner_id = $2
		RETURNING v.id, v.product_id, v.variation_type, v.variants
	`, id, ownerID, addVariants, delVariants)
	return scanVariation(row)
}

func (s *Store) DeleteVariation(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM variations v
		USING products p
		WHERE v.id = $1 AND v.product_id = p.id AND p.owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
