// Package auth orchestrates the account lifecycle: registration, seller
// promotion, login, token refresh, logout, password reset, and account
// deletion. It owns the failure taxonomy; transport layers translate the
// sentinels in errors.go into status codes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/google/uuid"

	"github.com/thelocalstore/store-api/internal/password"
	"github.com/thelocalstore/store-api/internal/session"
	"github.com/thelocalstore/store-api/internal/storage"
	"github.com/thelocalstore/store-api/internal/token"
)

// MinPasswordLength applies to registration and password reset.
const MinPasswordLength = 6

// UserStore is the slice of the storage layer the orchestrator needs.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*storage.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*storage.User, error)
	CreateUser(ctx context.Context, in storage.NewUser) (*storage.User, error)
	AppendUserRole(ctx context.Context, id uuid.UUID, role string) (*storage.User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	DeleteUserCascade(ctx context.Context, id uuid.UUID) error
}

// Mailer dispatches the password-reset mail. Failures propagate to the
// caller; there is no retry.
type Mailer interface {
	SendPasswordResetMail(ctx context.Context, to, name, resetURI string) error
}

// Service holds the injected collaborators. Construct once, share freely.
type Service struct {
	users  UserStore
	tokens *token.Service
	cache  *session.Store
	hasher *password.Argon2
	mailer Mailer
	logger *slog.Logger
}

func NewService(users UserStore, tokens *token.Service, cache *session.Store, hasher *password.Argon2, mailer Mailer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:  users,
		tokens: tokens,
		cache:  cache,
		hasher: hasher,
		mailer: mailer,
		logger: logger,
	}
}

// Profile is the registration input.
type Profile struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
}

func (p Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: malformed email", ErrValidation)
	}
	if p.PhoneNumber == "" {
		return fmt.Errorf("%w: phone number is required", ErrValidation)
	}
	if len(p.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	return nil
}

// Register creates the account with the default role set. Email and
// phone uniqueness come back from the store as typed conflicts.
func (s *Service) Register(ctx context.Context, p Profile) (*storage.User, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, storage.NewUser{
		Name:         p.Name,
		Email:        p.Email,
		PhoneNumber:  p.PhoneNumber,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, storage.ErrDuplicateEmail):
		return nil, ErrEmailTaken
	case errors.Is(err, storage.ErrDuplicatePhone):
		return nil, ErrPhoneTaken
	case err != nil:
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// PromoteToSeller re-authenticates with email+password and appends the
// seller role.
func (s *Service) PromoteToSeller(ctx context.Context, email, pass string) (*storage.User, error) {
	user, err := s.authenticate(ctx, email, pass)
	if err != nil {
		return nil, err
	}
	if user.HasRole(storage.RoleSeller) {
		return nil, ErrAlreadySeller
	}

	promoted, err := s.users.AppendUserRole(ctx, user.ID, storage.RoleSeller)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user promoted to seller", "user_id", user.ID)
	return promoted, nil
}

// TokenPair is what a successful Login yields.
type TokenPair struct {
	Access  string
	Refresh string
}

// Login verifies the credentials, issues both tokens, and caches the
// refresh token. The cache write overwrites any prior session, so a
// second login revokes the first device's refresh token.
func (s *Service) Login(ctx context.Context, email, pass string) (*storage.User, TokenPair, error) {
	user, err := s.authenticate(ctx, email, pass)
	if err != nil {
		return nil, TokenPair{}, err
	}

	access, err := s.tokens.Issue(token.Access, user.ID.String())
	if err != nil {
		return nil, TokenPair{}, err
	}
	refresh, err := s.tokens.Issue(token.Refresh, user.ID.String())
	if err != nil {
		return nil, TokenPair{}, err
	}

	if err := s.cache.Put(ctx, user.ID.String(), refresh, s.tokens.TTL(token.Refresh)); err != nil {
		return nil, TokenPair{}, fmt.Errorf("auth: cache session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccess mints a new access token for a live session. The
// presented refresh token must verify, match the cached value exactly,
// and belong to a user that still exists; every failure collapses to
// ErrSessionInvalid.
func (s *Service) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.Verify(token.Refresh, refreshToken)
	if err != nil {
		return "", ErrSessionInvalid
	}

	cached, err := s.cache.Get(ctx, userID)
	if errors.Is(err, session.ErrNotFound) {
		return "", ErrSessionInvalid
	}
	if err != nil {
		return "", fmt.Errorf("auth: read session: %w", err)
	}
	if cached != refreshToken {
		return "", ErrSessionInvalid
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return "", ErrSessionInvalid
	}
	if _, err := s.users.FindUserByID(ctx, uid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrSessionInvalid
		}
		return "", err
	}

	return s.tokens.Issue(token.Access, userID)
}

// Logout evicts the cached session. An already-dead token still counts
// as a successful logout from the client's point of view.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	userID, err := s.tokens.Verify(token.Refresh, refreshToken)
	if err != nil {
		return ErrSessionInvalid
	}
	return s.cache.Evict(ctx, userID)
}

// ForgotPassword issues a reset token and mails the reset link. A mail
// dispatch failure propagates so the client knows no mail went out.
func (s *Service) ForgotPassword(ctx context.Context, email, resetURIBase string) error {
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	reset, err := s.tokens.Issue(token.Reset, user.ID.String())
	if err != nil {
		return err
	}

	resetURI := fmt.Sprintf("%s/%s", resetURIBase, reset)
	if err := s.mailer.SendPasswordResetMail(ctx, user.Email, user.Name, resetURI); err != nil {
		return fmt.Errorf("auth: send reset mail: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset mail sent", "user_id", user.ID)
	return nil
}

// ResetPassword replaces the password and terminates any live refresh
// session, forcing a fresh login with the new credentials.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	userID, err := s.tokens.Verify(token.Reset, resetToken)
	if err != nil {
		return ErrSessionInvalid
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ErrSessionInvalid
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	if err := s.users.UpdateUserPassword(ctx, uid, hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.cache.Evict(ctx, userID); err != nil {
		return fmt.Errorf("auth: evict session: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset", "user_id", uid)
	return nil
}

// DeleteAccount removes the user and everything they own, then evicts
// the session.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.DeleteUserCascade(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.cache.Evict(ctx, userID.String()); err != nil {
		return fmt.Errorf("auth: evict session: %w", err)
	}

	s.logger.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}

// HashPassword validates and hashes a password for a profile update.
func (s *Service) HashPassword(pass string) (string, error) {
	if len(pass) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return hash, nil
}

// authenticate resolves email+password to a user, collapsing unknown
// email and wrong password into one error.
func (s *Service) authenticate(ctx context.Context, email, pass string) (*storage.User, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(pass, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("auth: verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
