package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList remembers logged out token ids until they expire
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevocationList keeps revoked ids in process memory
type MemoryRevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationList creates an empty revocation list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *MemoryRevocationList) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, until := range l.entries {
		if !until.After(now) {
			delete(l.entries, id)
		}
	}
	l.entries[tokenID] = now.Add(ttl)
	return nil
}

func (l *MemoryRevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.entries[tokenID]
	return ok && until.After(l.now()), nil
}

// RedisRevocationList shares revoked ids between back office instances
type RedisRevocationList struct {
	client redis.Cmdable
}

// NewRedisRevocationList creates a revocation list stored in redis
func NewRedisRevocationList(client redis.Cmdable) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func revokedKey(tokenID string) string {
	return fmt.Sprintf("revoked_token:%s", tokenID)
}

func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := l.client.Set(ctx, revokedKey(tokenID), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
