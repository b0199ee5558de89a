// Package lock provides named, transaction-scoped PostgreSQL advisory locks.
package lock

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrTimeout is returned when the lock could not be obtained before the
// deadline.
var ErrTimeout = errors.New("failed to obtain the advisory lock")

// Querier runs a single-row query. *sql.Tx satisfies it.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Key derives the 64-bit lock identifier for name: the first eight bytes of
// its SHA-256 digest read as a little-endian signed integer.
func Key(name string) int64 {
	sum := sha256.Sum256([]byte(name))
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}

// Locker acquires advisory locks with a bounded retry policy.
type Locker struct {
	// Timeout is used when Acquire is called with a zero timeout.
	Timeout   time.Duration
	MinJitter time.Duration
	MaxJitter time.Duration

	Now    func() time.Time
	Sleep  func(ctx context.Context, d time.Duration) error
	Jitter func(lo, hi time.Duration) time.Duration
}

// NewLocker returns a Locker with 100-200ms retry jitter.
func NewLocker(timeout time.Duration) *Locker {
	return &Locker{
		Timeout:   timeout,
		MinJitter: 100 * time.Millisecond,
		MaxJitter: 200 * time.Millisecond,
		Now:       time.Now,
		Sleep:     sleepContext,
		Jitter:    uniformJitter,
	}
}

// Acquire takes the lock for name inside the transaction behind q. It tries
// at least once and keeps retrying until timeout elapses. The lock is held
// until the transaction ends; there is no explicit unlock.
func (l *Locker) Acquire(ctx context.Context, q Querier, name string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = l.Timeout
	}
	key := Key(name)
	deadline := l.Now().Add(timeout)

	for !l.Now().After(deadline) {
		var obtained bool
		if err := q.QueryRowContext(ctx, `SELECT pg_try_advisory_xact_lock($1)`, key).Scan(&obtained); err != nil {
			return fmt.Errorf("trying advisory lock %q: %w", name, err)
		}
		if obtained {
			return nil
		}

		if err := l.Sleep(ctx, l.Jitter(l.MinJitter, l.MaxJitter)); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w (ident: %s)", ErrTimeout, name)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func uniformJitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}
