package notification

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

// RedisStore keeps toasts in a redis list per session so every back office
// instance behind a load balancer sees them.
type RedisStore struct {
	client redis.Cmdable
	logger *zap.Logger
}

var _ outbound.ToastStore = (*RedisStore)(nil)

// NewRedisStore creates a toast store on client
func NewRedisStore(client redis.Cmdable, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.Named("toasts"),
	}
}

func toastKey(sessionID string) string {
	return fmt.Sprintf("toasts:%s", sessionID)
}

// Push appends toast to the session's list and refreshes its expiry
func (s *RedisStore) Push(ctx context.Context, sessionID string, toast outbound.Toast) error {
	payload, err := json.Marshal(toast)
	if err != nil {
		return fmt.Errorf("failed to encode toast: %w", err)
	}

	key := toastKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, outbound.ToastTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push toast: %w", err)
	}
	return nil
}

// Pop reads and deletes the session's list atomically
func (s *RedisStore) Pop(ctx context.Context, sessionID string) ([]outbound.Toast, error) {
	key := toastKey(sessionID)
	pipe := s.client.TxPipeline()
	values := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to pop toasts: %w", err)
	}

	raw := values.Val()
	if len(raw) == 0 {
		return nil, nil
	}

	toasts := make([]outbound.Toast, 0, len(raw))
	for _, item := range raw {
		var toast outbound.Toast
		if err := json.Unmarshal([]byte(item), &toast); err != nil {
			s.logger.Warn("Dropping undecodable toast", zap.String("session_id", sessionID), zap.Error(err))
			continue
		}
		toasts = append(toasts, toast)
	}
	return toasts, nil
}
