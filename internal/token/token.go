// Package token issues and verifies the three signed credentials used by
// the auth lifecycle: short-lived access tokens, server-tracked refresh
// tokens, and single-purpose password-reset tokens. Each kind signs with
// its own secret and TTL; a token minted for one kind never verifies
// under another.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind selects which secret and TTL a token is issued or verified with.
type Kind string

const (
	Access  Kind = "access"
	Refresh Kind = "refresh"
	Reset   Kind = "reset"
)

var (
	// ErrExpired is returned when a token's embedded expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned when the signature or structure does not
	// check out under the kind's secret.
	ErrInvalid = errors.New("invalid token")
)

// Config carries the per-kind secrets and lifetimes.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	ResetSecret   []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration

	Issuer string
}

// Service signs and parses tokens. Safe for concurrent use.
type Service struct {
	config Config
}

func NewService(cfg Config) (*Service, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 || len(cfg.ResetSecret) == 0 {
		return nil, errors.New("token: all three kind secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) ||
		string(cfg.AccessSecret) == string(cfg.ResetSecret) ||
		string(cfg.RefreshSecret) == string(cfg.ResetSecret) {
		return nil, errors.New("token: kind secrets must be distinct")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 || cfg.ResetTTL <= 0 {
		return nil, errors.New("token: invalid TTL configuration")
	}
	return &Service{config: cfg}, nil
}

// Issue signs {sub: userID} with the secret and expiry configured for kind.
func (s *Service) Issue(kind Kind, userID string) (string, error) {
	secret, ttl, err := s.kindConfig(kind)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    s.config.Issuer,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify parses tokenStr under kind's secret and returns the subject.
// Expiry failures surface as ErrExpired, everything else as ErrInvalid,
// so callers can distinguish "prompt re-login" from "reject outright".
func (s *Service) Verify(kind Kind, tokenStr string) (string, error) {
	secret, _, err := s.kindConfig(kind)
	if err != nil {
		return "", err
	}
	if tokenStr == "" {
		return "", ErrInvalid
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.config.Issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalid
	}

	return claims.Subject, nil
}

// TTL reports the configured lifetime for kind. Used to align cookie and
// session-cache expiries with the embedded token expiry.
func (s *Service) TTL(kind Kind) time.Duration {
	_, ttl, err := s.kindConfig(kind)
	if err != nil {
		return 0
	}
	return ttl
}

func (s *Service) kindConfig(kind Kind) ([]byte, time.Duration, error) {
	switch kind {
	case Access:
		return s.config.AccessSecret, s.config.AccessTTL, nil
	case Refresh:
		return s.config.RefreshSecret, s.config.RefreshTTL, nil
	case Reset:
		return s.config.ResetSecret, s.config.ResetTTL, nil
	default:
		return nil, 0, fmt.Errorf("token: unknown kind %q", kind)
	}
}
