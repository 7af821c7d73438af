// Package redis builds the shared redis client used for toasts and token revocation
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
)

// NewClient connects to the configured redis server and verifies it answers
func NewClient(cfg *config.Config, logger *zap.Logger) (redis.UniversalClient, error) {
	redisCfg := cfg.Redis

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{cfg.RedisAddr()},
		Password:     redisCfg.Password,
		DB:           redisCfg.Database,
		MaxRetries:   redisCfg.MaxRetries,
		PoolSize:     redisCfg.PoolSize,
		DialTimeout:  redisCfg.DialTimeout,
		ReadTimeout:  redisCfg.ReadTimeout,
		WriteTimeout: redisCfg.WriteTimeout,
		PoolTimeout:  10 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client initialized successfully",
		zap.String("host", redisCfg.Host),
		zap.Int("port", redisCfg.Port),
		zap.Int("database", redisCfg.Database),
	)

	return client, nil
}
