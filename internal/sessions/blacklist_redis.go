package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// package-level Redis client used for the admin token blacklist (optional)
var blacklistClient *redis.Client

const blacklistPrefix = "blacklist:admin:"

// SetBlacklistClient configures the Redis client used for blacklist operations.
// Safe to call with nil to disable revocation.
func SetBlacklistClient(c *redis.Client) {
	blacklistClient = c
}

// Enabled reports whether revoked tokens are tracked.
func Enabled() bool { return blacklistClient != nil }

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistPrefix + hex.EncodeToString(sum[:])
}

// RevokeToken blacklists the token until expiresAt. Tokens that already expired are ignored.
// If no Redis client is configured, this is a no-op and returns nil.
func RevokeToken(ctx context.Context, token string, expiresAt time.Time) error {
	if blacklistClient == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return blacklistClient.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

// IsRevoked returns true when the token exists in the Redis blacklist.
// If no Redis client is configured, returns (false, nil).
func IsRevoked(ctx context.Context, token string) (bool, error) {
	if blacklistClient == nil {
		return false, nil
	}
	exists, err := blacklistClient.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
