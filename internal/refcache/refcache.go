// 包 refcache：参考集合的 Redis 读穿缓存
package refcache

import (
	"context"
	"encoding/json"
	"time"

	"poi-api/internal/logger"
	"poi-api/internal/metrics"
	"poi-api/internal/poi"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "poi:refset:"

// 文档注释：在任意 poi.Source 前加一层 Redis 缓存
// 背景：参考集合每次请求都要完整加载，数据库来源时开销最大；集合只读，按 TTL 过期即可。
// 约束：Redis 不可用或缓存内容损坏时回退到底层来源，不视为加载失败；rc 为 nil 时直接透传。
type CachedSource struct {
	rc   *redis.Client
	next poi.Source
	key  string
	ttl  time.Duration
}

func New(rc *redis.Client, next poi.Source, name string, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedSource{rc: rc, next: next, key: keyPrefix + name, ttl: ttl}
}

// Key 返回缓存键
func (c *CachedSource) Key() string { return c.key }

func (c *CachedSource) Load(ctx context.Context) ([]poi.PointOfInterest, error) {
	if c.rc == nil {
		return c.next.Load(ctx)
	}
	l := logger.FromContext(ctx)
	if s, err := c.rc.Get(ctx, c.key).Result(); err == nil && s != "" {
		if pts, derr := poi.DecodePOIs([]byte(s)); derr == nil {
			metrics.RefCacheHitsTotal.Inc()
			l.Debug("refcache_hit", "key", c.key, "count", len(pts))
			return pts, nil
		} else {
			l.Warn("refcache_decode_error", "key", c.key, "err", derr)
		}
	} else if err != nil && err != redis.Nil {
		l.Warn("refcache_get_error", "key", c.key, "err", err)
	}
	metrics.RefCacheMissesTotal.Inc()
	pts, err := c.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(pts); err == nil {
		if err := c.rc.Set(ctx, c.key, b, c.ttl).Err(); err != nil {
			l.Warn("refcache_set_error", "key", c.key, "err", err)
		}
	}
	return pts, nil
}

// Invalidate 删除缓存，导入新参考集合后调用
func (c *CachedSource) Invalidate(ctx context.Context) error {
	if c.rc == nil {
		return nil
	}
	return c.rc.Del(ctx, c.key).Err()
}
