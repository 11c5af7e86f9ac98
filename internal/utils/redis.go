// 包 utils：外部连接工具（Postgres/Redis），统一从配置构建客户端
package utils

import (
	"poi-api/internal/config"
	"poi-api/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedis：按配置构建 Redis 客户端；enabled 为 false 时返回 nil
// 约束：不在此处 Ping，调用方决定是否探活
func OpenRedis(enabled bool, rc config.RedisConfig) *redis.Client {
	if !enabled {
		return nil
	}
	logger.L().Debug("redis_config", "addr", rc.Addr(), "db", rc.DB)
	return redis.NewClient(&redis.Options{Addr: rc.Addr(), Password: rc.Password, DB: rc.DB})
}
