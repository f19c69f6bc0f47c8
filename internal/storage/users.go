package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const userColumns = `id, name, email, phone_number, password_hash, status, roles, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PhoneNumber,
		&u.PasswordHash,
		&u.Status,
		&u.Roles,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, mapRowError(err)
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (s *Store) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, phone_number, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns+`
	`, in.Name, in.Email, in.PhoneNumber, in.PasswordHash)

	user, err := scanUser(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of upd and returns the updated
// record. Uniqueness violations on email/phone surface as the same
// sentinels CreateUser uses.
func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET name          = COALESCE($2, name),
		    email         = COALESCE($3, email),
		    phone_number  = COALESCE($4, phone_number),
		    password_hash = COALESCE($5, password_hash),
		    updated_at    = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, upd.Name, upd.Email, upd.PhoneNumber, upd.PasswordHash)

	user, err := scanUser(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return user, nil
}

// AppendUserRole grants role to the user. The append is idempotent at the
// SQL level; callers check membership first for conflict semantics.
func (s *Store) AppendUserRole(ctx context.Context, id uuid.UUID, role string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET roles = array_append(roles, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY (roles))
		RETURNING `+userColumns+`
	`, id, role)
	return scanUser(row)
}

func (s *Store) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetUserAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var avatar []byte
	err := s.pool.QueryRow(ctx, `SELECT avatar FROM users WHERE id = $1`, id).Scan(&avatar)
	if err != nil {
		return nil, mapRowError(err)
	}
	return avatar, nil
}

// SetUserAvatar stores the resized JPEG bytes; nil clears the avatar.
func (s *Store) SetUserAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1
	`, id, avatar)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUserCascade removes the user and every dependent owned record in
// one transaction: cart items, addresses, products (variations and
// images fall with their product via FK cascade), then the user row.
func (s *Store) DeleteUserCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("storage: begin cascade delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `
		DELETE FROM cart_items
		WHERE owner_id = $1
		   OR product_id IN (SELECT id FROM products WHERE owner_id = $1)
	`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM addresses WHERE owner_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE owner_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}
