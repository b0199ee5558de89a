package crypto

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"golang.org/x/crypto/pbkdf2"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	// Verify format: hex(16 byte salt):hex(32 byte digest)
	parts := strings.Split(hash, ":")
	if len(parts) != 2 {
		t.Fatalf("HashPassword() expected 2 parts, got %d: %q", len(parts), hash)
	}
	if len(parts[0]) != 32 {
		t.Errorf("HashPassword() salt hex length = %d, want 32", len(parts[0]))
	}
	if len(parts[1]) != 64 {
		t.Errorf("HashPassword() digest hex length = %d, want 64", len(parts[1]))
	}
}

func TestVerifyPasswordCorrect(t *testing.T) {
	password := "my-secure-password"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	if !VerifyPassword(password, hash) {
		t.Error("VerifyPassword() returned false for correct password")
	}
}

func TestVerifyPasswordWrong(t *testing.T) {
	hash, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	if VerifyPassword("wrong-password", hash) {
		t.Error("VerifyPassword() returned true for wrong password")
	}
}

func TestHashPasswordProducesDifferentHashes(t *testing.T) {
	password := "same-password"

	hash1, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("HashPassword() produced identical hashes for same password (salt should differ)")
	}
}

func TestVerifyPasswordKnownVector(t *testing.T) {
	salt := []byte("0123456789abcdef")
	digest := pbkdf2.Key([]byte("password1234"), salt, 100_000, 32, sha256.New)
	stored := hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest)

	if !VerifyPassword("password1234", stored) {
		t.Error("VerifyPassword() rejected a hash with the documented parameters")
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no delimiter", "abcdef"},
		{"bad salt hex", "zz:abcd"},
		{"bad digest hex", "abcd:zz"},
		{"empty salt", ":abcd"},
		{"empty digest", "abcd:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifyPassword("password", tt.stored) {
				t.Errorf("VerifyPassword() = true for %q", tt.stored)
			}
		})
	}
}

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "password1234")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	ok, err := h.Verify(ctx, "password1234", hash)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if !ok {
		t.Error("Verify() returned false for correct password")
	}

	ok, err = h.Verify(ctx, "password12345", hash)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if ok {
		t.Error("Verify() returned true for wrong password")
	}
}

func TestHasherCancelled(t *testing.T) {
	h := NewHasher(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.Hash(ctx, "password1234"); err == nil {
		t.Error("Hash() expected error for cancelled context")
	}
}
