package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisTokenBlacklist Redis令牌黑名单实现，带本地缓存加速查询
type RedisTokenBlacklist struct {
	redis      *redis.Client
	localCache map[string]time.Time
	mutex      sync.RWMutex
	ctx        context.Context
}

var (
	redisBlacklist     *RedisTokenBlacklist
	redisBlacklistOnce sync.Once
)

const (
	blacklistKeyPrefix = "jwt:blacklist:"
	// 本地缓存同步间隔
	localCacheSyncInterval = 5 * time.Minute
	// 本地缓存最大条目数
	maxLocalCacheSize = 10000
)

// GetRedisTokenBlacklist 获取Redis令牌黑名单单例
func GetRedisTokenBlacklist() *RedisTokenBlacklist {
	redisBlacklistOnce.Do(func() {
		redisBlacklist = &RedisTokenBlacklist{
			redis:      database.GetRedis(),
			localCache: make(map[string]time.Time),
			ctx:        context.Background(),
		}
		go redisBlacklist.syncLocalCache()
	})
	return redisBlacklist
}

// AddToBlacklist 将令牌添加到黑名单
func (b *RedisTokenBlacklist) AddToBlacklist(token string, expireAt time.Time) error {
	duration := time.Until(expireAt)
	if duration <= 0 {
		return nil // 已过期的令牌无需添加
	}

	key := blacklistKeyPrefix + token
	if err := b.redis.Set(b.ctx, key, "1", duration).Err(); err != nil {
		logger.Error("添加令牌到Redis黑名单失败", zap.Error(err))
		return fmt.Errorf("添加令牌到黑名单失败: %w", err)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	// 控制本地缓存大小
	if len(b.localCache) >= maxLocalCacheSize {
		b.cleanupLocalCacheUnsafe()
	}

	b.localCache[token] = expireAt
	return nil
}

// IsBlacklisted 检查令牌是否在黑名单中
func (b *RedisTokenBlacklist) IsBlacklisted(token string) bool {
	// 优先查本地缓存
	b.mutex.RLock()
	expireAt, exists := b.localCache[token]
	b.mutex.RUnlock()

	if exists {
		if time.Now().After(expireAt) {
			b.mutex.Lock()
			delete(b.localCache, token)
			b.mutex.Unlock()
		} else {
			return true
		}
	}

	key := blacklistKeyPrefix + token
	result, err := b.redis.Exists(b.ctx, key).Result()
	if err != nil {
		logger.Error("检查Redis黑名单失败", zap.Error(err))
		// Redis异常时仅依赖本地缓存
		return false
	}

	if result > 0 {
		ttl := b.redis.TTL(b.ctx, key).Val()
		if ttl > 0 {
			b.mutex.Lock()
			b.localCache[token] = time.Now().Add(ttl)
			b.mutex.Unlock()
		}
		return true
	}

	return false
}

// syncLocalCache 定期清理本地缓存
func (b *RedisTokenBlacklist) syncLocalCache() {
	ticker := time.NewTicker(localCacheSyncInterval)
	defer ticker.Stop()

	for range ticker.C {
		b.mutex.Lock()
		b.cleanupLocalCacheUnsafe()
		b.mutex.Unlock()
	}
}

// cleanupLocalCacheUnsafe 清理本地缓存中的过期令牌（调用方持锁）
func (b *RedisTokenBlacklist) cleanupLocalCacheUnsafe() {
	now := time.Now()
	for token, expireAt := range b.localCache {
		if now.After(expireAt) {
			delete(b.localCache, token)
		}
	}
}
