package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// 事件频道
const (
	ChannelReportNew = "events:report:new"
)

// Bus 事件总线接口
type Bus interface {
	// Publish 向频道发布事件
	Publish(ctx context.Context, channel string, payload interface{}) error

	// Subscribe 订阅频道，返回的通道在ctx取消后关闭
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

var (
	defaultBus Bus
	busMutex   sync.RWMutex
)

// SetDefault 设置默认事件总线
func SetDefault(bus Bus) {
	busMutex.Lock()
	defaultBus = bus
	busMutex.Unlock()
}

// Default 获取默认事件总线，未设置时退回内存实现
func Default() Bus {
	busMutex.RLock()
	bus := defaultBus
	busMutex.RUnlock()

	if bus == nil {
		busMutex.Lock()
		if defaultBus == nil {
			defaultBus = NewMemoryBus()
		}
		bus = defaultBus
		busMutex.Unlock()
	}
	return bus
}

// RedisBus 基于Redis发布订阅的事件总线
type RedisBus struct {
	redis *redis.Client
}

// NewRedisBus 创建Redis事件总线
func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{redis: client}
}

// Publish 向频道发布事件
func (b *RedisBus) Publish(ctx context.Context, channel string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	return b.redis.Publish(ctx, channel, data).Err()
}

// Subscribe 订阅频道
func (b *RedisBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	sub := b.redis.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("订阅频道失败: %w", err)
	}

	out := make(chan []byte, 32)
	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
					// 消费方处理过慢，丢弃该条
				}
			}
		}
	}()

	return out, nil
}

// MemoryBus 进程内事件总线，用于单机部署和测试
type MemoryBus struct {
	mutex       sync.RWMutex
	subscribers map[string][]chan []byte
}

// NewMemoryBus 创建内存事件总线
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		subscribers: make(map[string][]chan []byte),
	}
}

// Publish 向频道发布事件
func (b *MemoryBus) Publish(ctx context.Context, channel string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	b.mutex.RLock()
	defer b.mutex.RUnlock()

	for _, sub := range b.subscribers[channel] {
		select {
		case sub <- data:
		default:
		}
	}
	return nil
}

// Subscribe 订阅频道
func (b *MemoryBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte, 32)

	b.mutex.Lock()
	b.subscribers[channel] = append(b.subscribers[channel], ch)
	b.mutex.Unlock()

	go func() {
		<-ctx.Done()
		b.mutex.Lock()
		subs := b.subscribers[channel]
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[channel] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		b.mutex.Unlock()
		close(ch)
	}()

	return ch, nil
}
