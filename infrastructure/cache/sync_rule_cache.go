package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"subtitle-widget/domain/model"
	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

const syncRuleKey = "youtube_sync_rule"

// CachedSyncRuleRepository serves the sync rule from redis, reading through to
// the database on a miss. A nil client disables caching.
type CachedSyncRuleRepository struct {
	repository.ISyncRule
	client *redis.Client
	ttl    time.Duration
}

func NewCachedSyncRuleRepository(repo repository.ISyncRule, client *redis.Client, ttl time.Duration) repository.ISyncRule {
	return &CachedSyncRuleRepository{ISyncRule: repo, client: client, ttl: ttl}
}

func (c *CachedSyncRuleRepository) Get(ctx context.Context) (*model.SyncRule, error) {
	if c.client == nil {
		return c.ISyncRule.Get(ctx)
	}

	raw, err := c.client.Get(ctx, syncRuleKey).Bytes()
	if err == nil {
		var rule model.SyncRule
		if jsonErr := json.Unmarshal(raw, &rule); jsonErr == nil {
			return &rule, nil
		}
		logger.GetLogger().WithField("key", syncRuleKey).Warn("Discarding undecodable cached sync rule")
	} else if !errors.Is(err, redis.Nil) {
		logger.GetLogger().WithField("error", err).Warn("Redis unavailable, reading sync rule from database")
		return c.ISyncRule.Get(ctx)
	}

	rule, err := c.ISyncRule.Get(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(rule); err == nil {
		if err := c.client.Set(ctx, syncRuleKey, payload, c.ttl).Err(); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to cache sync rule")
		}
	}
	return rule, nil
}

func (c *CachedSyncRuleRepository) Save(ctx context.Context, rule *model.SyncRule) error {
	if err := c.ISyncRule.Save(ctx, rule); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedSyncRuleRepository) invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, syncRuleKey).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to invalidate cached sync rule")
	}
}
