package database

import (
	"context"
	"fmt"

	"github.com/nsxzhou1114/manga-api/internal/config"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis 全局Redis客户端实例
var Redis *redis.Client

// InitRedis 初始化Redis连接
func InitRedis() (*redis.Client, error) {
	cfg := config.GlobalConfig.Redis

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接redis失败: %v", err)
	}

	logger.Info("redis连接成功", zap.String("addr", cfg.Addr()))
	Redis = client
	return client, nil
}

// GetRedis 获取Redis客户端实例，未初始化时返回nil
func GetRedis() *redis.Client {
	return Redis
}
