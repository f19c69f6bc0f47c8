package password

import (
	"strings"
	"testing"
)

// Low-cost parameters keep the test suite fast.
func testHasher(t *testing.T) *Argon2 {
	t.Helper()
	h, err := NewArgon2(Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher(t)

	encoded, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("encoded hash %q missing argon2id prefix", encoded)
	}

	ok, err := h.Verify("secret1", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("correct password did not verify")
	}

	ok, err = h.Verify("wrong-password", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHashProducesUniqueSalts(t *testing.T) {
	h := testHasher(t)

	first, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h := testHasher(t)
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := testHasher(t)

	for _, malformed := range []string{
		"",
		"plainly not a hash",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
	} {
		if _, err := h.Verify("secret1", malformed); err == nil {
			t.Fatalf("expected error for malformed hash %q", malformed)
		}
	}
}

func TestVerifyUsesEmbeddedParameters(t *testing.T) {
	// A hash produced under one parameter set must verify under a hasher
	// configured differently, since the parameters travel with the hash.
	weak := testHasher(t)
	encoded, err := weak.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	strong, err := NewArgon2(DefaultConfig())
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	ok, err := strong.Verify("secret1", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("hash did not verify under a differently configured hasher")
	}
}

func TestNewArgon2RejectsWeakParameters(t *testing.T) {
	weak := Config{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16}
	if _, err := NewArgon2(weak); err == nil {
		t.Fatal("expected error for below-minimum memory")
	}
}
