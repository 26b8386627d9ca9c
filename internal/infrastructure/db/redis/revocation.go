package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/todoapp/todo-api/internal/core/ports"
)

// RevocationList is a token denylist backed by Redis.
// Key format: revoked:<hex sha256 of the token>. Keys expire when the token
// would have expired anyway, so the list never outgrows live sessions.
type RevocationList struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevocationList wraps the given client.
func NewRevocationList(client *redis.Client) ports.TokenRevoker {
	return &RevocationList{client: client, now: time.Now}
}

// Revoke denylists token until the given instant. A token already past it is a no-op.
func (l *RevocationList) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := until.Sub(l.now())
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether token is on the denylist.
func (l *RevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (l *RevocationList) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(sum[:])
}
