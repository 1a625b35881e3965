package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "auth:revoked:"

// TokenRepository tracks revoked login sessions in Redis. A session lands
// here when the idle monitor expires it or the user logs out; the auth
// middleware rejects tokens whose session ID is present.
type TokenRepository struct {
	Redis *redis.Client
}

func NewTokenRepository(rdb *redis.Client) *TokenRepository {
	return &TokenRepository{Redis: rdb}
}

func (r *TokenRepository) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	return r.Redis.Set(ctx, revokedKeyPrefix+sessionID, "1", ttl).Err()
}

func (r *TokenRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.Redis.Exists(ctx, revokedKeyPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
