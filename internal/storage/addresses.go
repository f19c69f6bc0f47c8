package storage

import (
	"context"

	"github.com/google/uuid"
)

const addressColumns = `id, owner_id, line1, line2, postal_code, post_office, district, state, country, address_of, created_at, updated_at`

func scanAddress(row interface{ Scan(...any) error }) (*Address, error) {
	var a Address
	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Line1,
		&a.Line2,
		&a.PostalCode,
		&a.PostOffice,
		&a.District,
		&a.State,
		&a.Country,
		&a.AddressOf,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, mapRowError(err)
	}
	return &a, nil
}

func (s *Store) CreateAddress(ctx context.Context, a Address) (*Address, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO addresses (owner_id, line1, line2, postal_code, post_office, district, state, country, address_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+addressColumns+`
	`, a.OwnerID, a.Line1, a.Line2, a.PostalCode, a.PostOffice, a.District, a.State, a.Country, a.AddressOf)
	return scanAddress(row)
}

// ListAddresses returns every address the owner has saved, newest first.
func (s *Store) ListAddresses(ctx context.Context, ownerID uuid.UUID) ([]Address, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// FindAddress scopes the lookup to the owner so one user can never read
// another's address by guessing ids.
func (s *Store) FindAddress(ctx context.Context, ownerID, id uuid.UUID) (*Address, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	return scanAddress(row)
}

func (s *Store) UpdateAddress(ctx context.Context, ownerID, id uuid.UUID, upd AddressUpdate) (*Address, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE addresses
		SET line1       = COALESCE($3, line1),
		    line2       = COALESCE($4, line2),
		    postal_code = COALESCE($5, postal_code),
		    post_office = COALESCE($6, post_office),
		    district    = COALESCE($7, district),
		    state       = COALESCE($8, state),
		    country     = COALESCE($9, country),
		    address_of  = COALESCE($10, address_of),
		    updated_at  = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+addressColumns+`
	`, id, ownerID, upd.Line1, upd.Line2, upd.PostalCode, upd.PostOffice,
		upd.District, upd.State, upd.Country, upd.AddressOf)
	return scanAddress(row)
}

func (s *Store) DeleteAddress(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM addresses WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
