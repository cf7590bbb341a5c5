package cache

import (
	"context"
	"encoding/json"
	"time"

	"sales_coach_backend/internal/model"
	"sales_coach_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache 多实例部署时共享快照，保鲜时间交给键过期。
// Redis 故障按缓存未命中处理，读取方会直接重算。
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*model.MetricsSnapshot, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Log.Warn("metrics cache read failed", zap.Error(err))
		return nil, false
	}

	return c.decode(key, val)
}

// decode 解析不了的条目按未命中处理，等待过期或被覆盖
func (c *RedisCache) decode(key, val string) (*model.MetricsSnapshot, bool) {
	var snapshot model.MetricsSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		logger.Log.Warn("metrics cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &snapshot, true
}

func (c *RedisCache) Set(ctx context.Context, key string, snapshot *model.MetricsSnapshot) {
	val, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		logger.Log.Warn("metrics cache write failed", zap.Error(err))
	}
}
