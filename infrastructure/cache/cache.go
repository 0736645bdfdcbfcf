package cache

import (
	"context"
	"fmt"
	"time"

	"subtitle-widget/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects to redis and verifies the connection with a ping.
func NewCache(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.GetLogger().WithField("addr", addr).Info("Redis client initialized")
	return client, nil
}
