package auth

import "time"

// BlacklistInterface 黑名单接口
type BlacklistInterface interface {
	// AddToBlacklist 将令牌添加到黑名单
	AddToBlacklist(token string, expireAt time.Time) error

	// IsBlacklisted 检查令牌是否在黑名单中
	IsBlacklisted(token string) bool
}

// BlacklistType 黑名单类型
type BlacklistType string

const (
	// MemoryBlacklist 内存黑名单
	MemoryBlacklist BlacklistType = "memory"
	// RedisBlacklist Redis黑名单（带本地缓存）
	RedisBlacklist BlacklistType = "redis"
)

var activeBlacklist BlacklistInterface

// InitBlacklist 根据类型初始化黑名单实现
func InitBlacklist(blacklistType BlacklistType) {
	switch blacklistType {
	case RedisBlacklist:
		activeBlacklist = GetRedisTokenBlacklist()
	default:
		activeBlacklist = GetTokenBlacklist()
	}
}

// Blacklist 获取当前黑名单实例，未初始化时退回内存实现
func Blacklist() BlacklistInterface {
	if activeBlacklist == nil {
		activeBlacklist = GetTokenBlacklist()
	}
	return activeBlacklist
}
