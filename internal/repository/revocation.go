package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const revokedLoginPrefix = "revoked_login:"

// RevocationStore remembers login sessions whose tokens were revoked before
// they expired.
type RevocationStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke marks a login session revoked until expireAt. Sessions that already
// expired need no entry.
func (s *RevocationStore) Revoke(ctx context.Context, accountLoginID uuid.UUID, expireAt time.Time) error {
	ttl := expireAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedLoginPrefix+accountLoginID.String(), 1, ttl).Err()
}

// IsRevoked reports whether the login session was revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, accountLoginID uuid.UUID) (bool, error) {
	err := s.client.Get(ctx, revokedLoginPrefix+accountLoginID.String()).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
