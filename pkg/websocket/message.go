package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Envelope 推送消息信封
type Envelope struct {
	Type      string      `json:"type"`            // notification comment report pong
	Topic     string      `json:"topic,omitempty"` // 主题推送时携带，如 comments:12:3
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
	MessageID string      `json:"message_id,omitempty"`
}

// ToJSON 将消息转换为JSON
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MessageStore 离线消息存储接口
type MessageStore interface {
	StoreOfflineMessage(ctx context.Context, userID uint, msg *Envelope) error
	GetOfflineMessages(ctx context.Context, userID uint) ([]*Envelope, error)
	ClearOfflineMessages(ctx context.Context, userID uint) error
}

// RedisMessageStore Redis离线消息存储实现
type RedisMessageStore struct {
	redis  *redis.Client
	prefix string
}

// NewRedisMessageStore 创建Redis消息存储实例
func NewRedisMessageStore(redis *redis.Client) *RedisMessageStore {
	return &RedisMessageStore{
		redis:  redis,
		prefix: "offline_messages:",
	}
}

// StoreOfflineMessage 存储离线消息
func (s *RedisMessageStore) StoreOfflineMessage(ctx context.Context, userID uint, msg *Envelope) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	key := s.getKey(userID)
	pipe := s.redis.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.Expire(ctx, key, 7*24*time.Hour) // 消息保存7天
	pipe.LTrim(ctx, key, 0, 99)           // 最多保存100条消息

	_, err = pipe.Exec(ctx)
	return err
}

// GetOfflineMessages 获取离线消息，按时间从旧到新返回
func (s *RedisMessageStore) GetOfflineMessages(ctx context.Context, userID uint) ([]*Envelope, error) {
	key := s.getKey(userID)
	data, err := s.redis.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]*Envelope, 0, len(data))
	// LPush写入，列表头是最新一条
	for i := len(data) - 1; i >= 0; i-- {
		var msg Envelope
		if err := json.Unmarshal([]byte(data[i]), &msg); err != nil {
			continue
		}
		messages = append(messages, &msg)
	}

	return messages, nil
}

// ClearOfflineMessages 清除离线消息
func (s *RedisMessageStore) ClearOfflineMessages(ctx context.Context, userID uint) error {
	return s.redis.Del(ctx, s.getKey(userID)).Err()
}

// getKey 获取Redis键名
func (s *RedisMessageStore) getKey(userID uint) string {
	return fmt.Sprintf("%s%d", s.prefix, userID)
}
