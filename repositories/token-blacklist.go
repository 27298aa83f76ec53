package repositories

import (
	"context"
	"time"

	"taskboard/logging"

	"github.com/redis/go-redis/v9"
)

const revokedTokenKeyPrefix = "blacklist:access_token:"

// TokenBlacklist records revoked token ids until they would have expired.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

// RedisTokenBlacklist fails safe: a nil receiver or an unreachable Redis
// behaves like an empty blacklist.
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist returns nil when addr is empty.
func NewRedisTokenBlacklist(addr, password string, db int) *RedisTokenBlacklist {
	if addr == "" {
		return nil
	}
	return &RedisTokenBlacklist{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (b *RedisTokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if b == nil || b.client == nil || ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, revokedTokenKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		logging.Logger.Warnf("Event ID: TOKEN_REVOKE_FAILED, Description: Could not store revoked token: %v", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, tokenID string) bool {
	if b == nil || b.client == nil {
		return false
	}
	n, err := b.client.Exists(ctx, revokedTokenKeyPrefix+tokenID).Result()
	if err != nil {
		logging.Logger.Warnf("Event ID: TOKEN_BLACKLIST_UNAVAILABLE, Description: Treating token as valid, blacklist lookup failed: %v", err)
		return false
	}
	return n > 0
}

func (b *RedisTokenBlacklist) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
