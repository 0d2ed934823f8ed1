package security

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist stores revoked token ids until their natural expiry. Logout
// writes here; the JWT middleware consults it on every protected request.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist builds a redis-backed denylist.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

func denylistKey(tokenID string) string {
	return fmt.Sprintf("auth:revoked:%s", tokenID)
}

// Revoke marks the token id as invalid for the given remaining lifetime.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if d == nil || d.client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	return d.client.Set(ctx, denylistKey(tokenID), "1", ttl).Err()
}

// IsRevoked reports whether the token id has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if d == nil || d.client == nil {
		return false, nil
	}

	_, err := d.client.Get(ctx, denylistKey(tokenID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
