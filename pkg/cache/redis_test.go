package cache

import (
	"context"
	"testing"
	"time"

	"sales_coach_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	// 1 端口不会有服务监听，所有命令立刻拨号失败
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

// Redis 故障按未命中处理，读取方直接重算，不往上抛错
func TestRedisCacheUnavailableIsMiss(t *testing.T) {
	c := NewRedisCache(unreachableClient(t), time.Minute)
	ctx := context.Background()
	key := model.GradeFilter{AgentID: 7}.CacheKey()

	got, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.Nil(t, got)

	// 写失败同样静默，不能拖垮提交主流程
	c.Set(ctx, key, &model.MetricsSnapshot{TotalGrades: 1})

	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestRedisCacheClosedClientIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	require.NoError(t, client.Close())

	c := NewRedisCache(client, time.Minute)
	_, ok := c.Get(context.Background(), "grade_metrics:{}")
	assert.False(t, ok)
}

func TestRedisCacheCorruptEntryIsMiss(t *testing.T) {
	c := NewRedisCache(nil, time.Minute)

	got, ok := c.decode("grade_metrics:{}", "{not json")
	assert.False(t, ok)
	assert.Nil(t, got)

	decoded, ok := c.decode("grade_metrics:{}", `{"totalGrades":3,"averageScore":81.5}`)
	require.True(t, ok)
	assert.Equal(t, 3, decoded.TotalGrades)
	assert.InDelta(t, 81.5, decoded.AverageScore, 1e-9)
}

func TestRedisCacheDefaultTTL(t *testing.T) {
	c := NewRedisCache(nil, 0)
	assert.Equal(t, DefaultTTL, c.ttl)
}
