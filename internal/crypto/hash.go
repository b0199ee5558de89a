package crypto

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/sync/semaphore"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2SaltLength = 16
	pbkdf2KeyLength  = sha256.Size
)

// HashPassword derives a PBKDF2-HMAC-SHA256 digest with a fresh random salt.
// The result is encoded as hex(salt):hex(digest).
func HashPassword(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest), nil
}

// VerifyPassword reports whether password matches a hash produced by
// HashPassword. Malformed stored values never match.
func VerifyPassword(password, stored string) bool {
	saltHex, digestHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil || len(digest) == 0 {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, len(digest), sha256.New)

	return subtle.ConstantTimeCompare(digest, candidate) == 1
}

// Hasher runs password hashing on a bounded number of goroutines so a burst of
// logins cannot monopolise every CPU.
type Hasher struct {
	sem *semaphore.Weighted
}

// NewHasher allows up to workers concurrent derivations. Zero or less means
// GOMAXPROCS.
func NewHasher(workers int) *Hasher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{sem: semaphore.NewWeighted(int64(workers))}
}

// Hash is HashPassword bounded by the worker limit. It returns ctx.Err() if
// the caller gives up first.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	type result struct {
		hash string
		err  error
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}

	done := make(chan result, 1)
	go func() {
		defer h.sem.Release(1)
		hash, err := HashPassword(password)
		done <- result{hash, err}
	}()

	select {
	case r := <-done:
		return r.hash, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Verify is VerifyPassword bounded by the worker limit.
func (h *Hasher) Verify(ctx context.Context, password, stored string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}

	done := make(chan bool, 1)
	go func() {
		defer h.sem.Release(1)
		done <- VerifyPassword(password, stored)
	}()

	select {
	case ok := <-done:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
