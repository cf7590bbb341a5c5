package cache

import (
	"context"
	"testing"
	"time"

	"sales_coach_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMemoryCacheHitWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)}
	c := NewMemoryCacheWithClock(5*time.Minute, clock.Now)
	ctx := context.Background()

	snapshot := &model.MetricsSnapshot{TotalGrades: 3, AverageScore: 75, CachedAt: clock.Now()}
	c.Set(ctx, "k", snapshot)

	clock.Advance(4 * time.Minute)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	// 窗口内必须返回同一个缓存对象，而不是等价副本
	assert.Same(t, snapshot, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)}
	c := NewMemoryCacheWithClock(5*time.Minute, clock.Now)
	ctx := context.Background()

	c.Set(ctx, "k", &model.MetricsSnapshot{TotalGrades: 1})

	clock.Advance(5 * time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(5 * time.Minute)
	_, ok := c.Get(context.Background(), "absent")
	assert.False(t, ok)
}

func TestMemoryCacheKeysIsolated(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)}
	c := NewMemoryCacheWithClock(5*time.Minute, clock.Now)
	ctx := context.Background()

	a := &model.MetricsSnapshot{TotalGrades: 1}
	b := &model.MetricsSnapshot{TotalGrades: 2}
	c.Set(ctx, "a", a)
	c.Set(ctx, "b", b)

	got, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Same(t, a, got)

	got, ok = c.Get(ctx, "b")
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestMemoryCacheSetTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)}
	c := NewMemoryCacheWithClock(5*time.Minute, clock.Now)
	ctx := context.Background()

	c.Set(ctx, "k", &model.MetricsSnapshot{TotalGrades: 1})
	clock.Advance(2 * time.Minute)

	// 收紧 TTL 后，已有条目按新窗口判定
	c.SetTTL(time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheKeyCanonical(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	a := model.GradeFilter{AgentID: 7, StartDate: &start}
	b := model.GradeFilter{StartDate: &start, AgentID: 7}

	// 字段赋值顺序不影响键
	assert.Equal(t, a.CacheKey(), b.CacheKey())

	c := model.GradeFilter{AgentID: 8, StartDate: &start}
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())

	// 空筛选也有稳定键
	assert.Equal(t, model.GradeFilter{}.CacheKey(), model.GradeFilter{}.CacheKey())
}
