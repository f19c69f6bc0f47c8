package auth

import "errors"

// Sentinel errors returned by the Service. Callers map these onto
// transport responses; the messages never leak which internal check
// failed beyond what the client is entitled to know.
var (
	// ErrValidation covers malformed input: empty fields, bad email
	// shape, short passwords. Wrapped with a field-specific message.
	ErrValidation = errors.New("validation failed")

	// ErrEmailTaken and ErrPhoneTaken report registration conflicts.
	ErrEmailTaken = errors.New("email already registered")
	ErrPhoneTaken = errors.New("phone number already registered")

	// ErrAlreadySeller reports a repeated seller promotion.
	ErrAlreadySeller = errors.New("account already holds the seller role")

	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password, without distinguishing the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionInvalid is returned when a refresh token fails
	// verification, does not match the cached session, or belongs to a
	// user that no longer exists.
	ErrSessionInvalid = errors.New("session invalid")

	// ErrUserNotFound reports a lookup miss where the caller named the
	// account explicitly (forgot password, account deletion).
	ErrUserNotFound = errors.New("user not found")
)
