package cache

import (
	"context"
	"sync"
	"time"

	"sales_coach_backend/internal/model"
)

// DefaultTTL 指标快照的默认保鲜时间。窗口内新提交的成绩不会出现在
// 缓存读取里，到期后才可见——这是接受的陈旧度取舍，不做写失效。
const DefaultTTL = 5 * time.Minute

// SnapshotCache 按筛选键缓存指标快照。条目新鲜度只由年龄决定。
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*model.MetricsSnapshot, bool)
	Set(ctx context.Context, key string, snapshot *model.MetricsSnapshot)
}

type memoryEntry struct {
	snapshot *model.MetricsSnapshot
	cachedAt time.Time
}

// MemoryCache 进程内的键->快照表。通过构造注入 TTL 和时钟，
// 测试可以控制时间并隔离状态。
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCacheWithClock(ttl, time.Now)
}

func NewMemoryCacheWithClock(ttl time.Duration, now func() time.Time) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*model.MetricsSnapshot, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	ttl := c.ttl
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.cachedAt) >= ttl {
		return nil, false
	}
	return entry.snapshot, true
}

func (c *MemoryCache) Set(ctx context.Context, key string, snapshot *model.MetricsSnapshot) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{snapshot: snapshot, cachedAt: c.now()}
	c.mu.Unlock()
}

// SetTTL 配置热更新时调整保鲜时间，已有条目按新 TTL 重新判定
func (c *MemoryCache) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()
}
