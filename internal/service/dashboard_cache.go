package service

import (
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/yuqie6/LearnPulse/internal/analytics"
)

// dashboardCache 按 (用户, 窗口, 日期) 缓存汇总结果；写入活动/技能后按用户失效。
// gens 为每个用户的失效代数，加载期间发生失效的结果不会写回。
type dashboardCache struct {
	entries *lru.Cache
	ttl     time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

type cachedDashboard struct {
	dash *analytics.Dashboard
	at   time.Time
}

// newDashboardCache size<=0 时返回 nil（不缓存）
func newDashboardCache(size int, ttl time.Duration) *dashboardCache {
	if size <= 0 {
		return nil
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil
	}
	return &dashboardCache{entries: entries, ttl: ttl, gens: make(map[string]uint64)}
}

func cacheKey(userID string, windowDays int, now time.Time) string {
	return userID + "|" + strconv.Itoa(windowDays) + "|" + analytics.DateKey(now)
}

// generation 在加载数据前读取，随 put 一并传回
func (c *dashboardCache) generation(userID string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID]
}

func (c *dashboardCache) get(key string, now time.Time) (*analytics.Dashboard, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	entry := v.(cachedDashboard)
	if c.ttl > 0 && now.Sub(entry.at) > c.ttl {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.dash, true
}

// put 仅当 userID 的代数仍为 gen 时写入
func (c *dashboardCache) put(key, userID string, gen uint64, dash *analytics.Dashboard, now time.Time) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[userID] != gen {
		return
	}
	c.entries.Add(key, cachedDashboard{dash: dash, at: now})
}

// invalidateUser 删除该用户的全部缓存
func (c *dashboardCache) invalidateUser(userID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[userID]++
	prefix := userID + "|"
	for _, k := range c.entries.Keys() {
		if key, ok := k.(string); ok && strings.HasPrefix(key, prefix) {
			c.entries.Remove(k)
		}
	}
}

func (c *dashboardCache) purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
}
