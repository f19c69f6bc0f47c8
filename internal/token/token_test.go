package token

import (
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		ResetSecret:   []byte("reset-secret-for-tests"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		ResetTTL:      10 * time.Minute,
		Issuer:        "store-api-test",
	}
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc := newTestService(t, testConfig())

	for _, kind := range []Kind{Access, Refresh, Reset} {
		tok, err := svc.Issue(kind, "user-42")
		if err != nil {
			t.Fatalf("Issue(%s) failed: %v", kind, err)
		}
		subject, err := svc.Verify(kind, tok)
		if err != nil {
			t.Fatalf("Verify(%s) failed: %v", kind, err)
		}
		if subject != "user-42" {
			t.Fatalf("Verify(%s) subject = %q, want user-42", kind, subject)
		}
	}
}

func TestVerifyRejectsCrossKindTokens(t *testing.T) {
	svc := newTestService(t, testConfig())

	refresh, err := svc.Issue(Refresh, "user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(Access, refresh); !errors.Is(err, ErrInvalid) {
		t.Fatalf("access-verify of refresh token: got %v, want ErrInvalid", err)
	}
	if _, err := svc.Verify(Reset, refresh); !errors.Is(err, ErrInvalid) {
		t.Fatalf("reset-verify of refresh token: got %v, want ErrInvalid", err)
	}
}

func TestVerifyDistinguishesExpiredFromInvalid(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTTL = time.Millisecond
	svc := newTestService(t, cfg)

	tok, err := svc.Issue(Access, "user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := svc.Verify(Access, tok); !errors.Is(err, ErrExpired) {
		t.Fatalf("expired token: got %v, want ErrExpired", err)
	}
	if _, err := svc.Verify(Access, "not-a-token"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("garbage token: got %v, want ErrInvalid", err)
	}
	if _, err := svc.Verify(Access, ""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("empty token: got %v, want ErrInvalid", err)
	}
}

func TestNewServiceRejectsSharedSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	if _, err := NewService(cfg); err == nil {
		t.Fatal("expected error for shared secrets")
	}
}

func TestNewServiceRejectsMissingSecret(t *testing.T) {
	cfg := testConfig()
	cfg.ResetSecret = nil
	if _, err := NewService(cfg); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestNewServiceRejectsZeroTTL(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshTTL = 0
	if _, err := NewService(cfg); err == nil {
		t.Fatal("expected error for zero TTL")
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	svc := newTestService(t, testConfig())

	other := testConfig()
	other.Issuer = "someone-else"
	otherSvc := newTestService(t, other)

	tok, err := otherSvc.Issue(Access, "user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := svc.Verify(Access, tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("wrong issuer: got %v, want ErrInvalid", err)
	}
}

func TestTTLReportsConfiguredLifetime(t *testing.T) {
	cfg := testConfig()
	svc := newTestService(t, cfg)

	if got := svc.TTL(Refresh); got != cfg.RefreshTTL {
		t.Fatalf("TTL(Refresh) = %v, want %v", got, cfg.RefreshTTL)
	}
	if got := svc.TTL(Kind("bogus")); got != 0 {
		t.Fatalf("TTL(bogus) = %v, want 0", got)
	}
}
