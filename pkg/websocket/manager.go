package websocket

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Manager WebSocket连接管理器
type Manager struct {
	clients    map[uint]*Client            // 用户ID->连接映射
	topics     map[string]map[uint]*Client // 主题->订阅连接映射
	store      MessageStore                // 离线消息存储
	register   chan *Client
	unregister chan *Client
	logger     *zap.SugaredLogger
	ctx        context.Context
	cancel     context.CancelFunc
	mutex      sync.RWMutex
}

var (
	manager     *Manager
	managerOnce sync.Once
)

// GetManager 获取WebSocket管理器单例
func GetManager() *Manager {
	managerOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		manager = &Manager{
			clients:    make(map[uint]*Client),
			topics:     make(map[string]map[uint]*Client),
			register:   make(chan *Client, 32),
			unregister: make(chan *Client, 32),
			logger:     logger.GetSugaredLogger(),
			ctx:        ctx,
			cancel:     cancel,
		}
	})
	return manager
}

// Initialize 初始化管理器
func (m *Manager) Initialize(store MessageStore) {
	m.store = store
	go m.run()
}

// Shutdown 关闭管理器
func (m *Manager) Shutdown() {
	m.logger.Info("正在关闭WebSocket管理器...")
	m.cancel()

	m.mutex.Lock()
	for _, client := range m.clients {
		client.Close()
	}
	m.clients = make(map[uint]*Client)
	m.topics = make(map[string]map[uint]*Client)
	m.mutex.Unlock()

	m.logger.Info("WebSocket管理器已关闭")
}

// run 运行管理器主循环
func (m *Manager) run() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case client := <-m.register:
			m.handleRegister(client)
		case client := <-m.unregister:
			m.handleUnregister(client)
		case <-ticker.C:
			m.cleanInactiveConnections()
		}
	}
}

// handleRegister 处理客户端注册
func (m *Manager) handleRegister(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// 同一用户只保留一个连接
	if old, exists := m.clients[client.UserID]; exists {
		m.removeFromTopicsUnsafe(old)
		old.Close()
	}

	m.clients[client.UserID] = client
	m.logger.Infof("用户 %d 已连接，当前在线用户数: %d", client.UserID, len(m.clients))

	// 补发离线消息
	go m.sendOfflineMessages(client)
}

// handleUnregister 处理客户端注销
func (m *Manager) handleUnregister(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if c, exists := m.clients[client.UserID]; exists && c == client {
		delete(m.clients, client.UserID)
		m.removeFromTopicsUnsafe(client)
		m.logger.Infof("用户 %d 已断开连接，当前在线用户数: %d", client.UserID, len(m.clients))
	}
}

// removeFromTopicsUnsafe 将连接从所有主题移除（调用方持锁）
func (m *Manager) removeFromTopicsUnsafe(client *Client) {
	for topic, subs := range m.topics {
		if c, ok := subs[client.UserID]; ok && c == client {
			delete(subs, client.UserID)
			if len(subs) == 0 {
				delete(m.topics, topic)
			}
		}
	}
}

// cleanInactiveConnections 清理不活跃的连接
func (m *Manager) cleanInactiveConnections() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	timeout := 5 * time.Minute
	for userID, client := range m.clients {
		if !client.IsActive(timeout) {
			m.removeFromTopicsUnsafe(client)
			client.Close()
			delete(m.clients, userID)
			m.logger.Infof("清理不活跃连接：用户 %d", userID)
		}
	}
}

// Subscribe 将客户端订阅到主题
func (m *Manager) Subscribe(client *Client, topic string) {
	if topic == "" {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	subs, ok := m.topics[topic]
	if !ok {
		subs = make(map[uint]*Client)
		m.topics[topic] = subs
	}
	subs[client.UserID] = client
}

// Unsubscribe 取消客户端的主题订阅
func (m *Manager) Unsubscribe(client *Client, topic string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if subs, ok := m.topics[topic]; ok {
		if c, exists := subs[client.UserID]; exists && c == client {
			delete(subs, client.UserID)
			if len(subs) == 0 {
				delete(m.topics, topic)
			}
		}
	}
}

// Broadcast 向主题的所有在线订阅者推送消息，离线订阅者不补发
func (m *Manager) Broadcast(topic string, msgType string, payload interface{}) error {
	message := &Envelope{
		Type:      msgType,
		Topic:     topic,
		Data:      payload,
		Timestamp: time.Now().Unix(),
		MessageID: fmt.Sprintf("topic_%d", time.Now().UnixNano()),
	}

	data, err := message.ToJSON()
	if err != nil {
		return err
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.topics[topic] {
		// 连接已关闭或发送缓冲已满时跳过该订阅者
		client.TrySend(data)
	}

	return nil
}

// SendToUser 发送消息给指定用户，离线或发送失败时存为离线消息
func (m *Manager) SendToUser(ctx context.Context, userID uint, msgType string, payload interface{}) error {
	message := &Envelope{
		Type:      msgType,
		Data:      payload,
		Timestamp: time.Now().Unix(),
		MessageID: fmt.Sprintf("%d_%d", userID, time.Now().UnixNano()),
	}

	data, err := message.ToJSON()
	if err != nil {
		return err
	}

	m.mutex.RLock()
	client, online := m.clients[userID]
	m.mutex.RUnlock()

	if !online || !client.TrySend(data) {
		return m.storeOffline(ctx, userID, message)
	}
	return nil
}

// SendToUsers 批量发送消息
func (m *Manager) SendToUsers(ctx context.Context, userIDs []uint, msgType string, payload interface{}) error {
	for _, userID := range userIDs {
		if err := m.SendToUser(ctx, userID, msgType, payload); err != nil {
			m.logger.Errorf("发送消息给用户 %d 失败: %v", userID, err)
		}
	}
	return nil
}

// storeOffline 存储离线消息，未配置存储时直接丢弃
func (m *Manager) storeOffline(ctx context.Context, userID uint, msg *Envelope) error {
	if m.store == nil {
		return nil
	}
	return m.store.StoreOfflineMessage(ctx, userID, msg)
}

// sendOfflineMessages 补发离线消息
func (m *Manager) sendOfflineMessages(client *Client) {
	if m.store == nil {
		return
	}

	messages, err := m.store.GetOfflineMessages(m.ctx, client.UserID)
	if err != nil {
		m.logger.Errorf("获取离线消息失败: %v", err)
		return
	}

	if len(messages) == 0 {
		return
	}

	for _, msg := range messages {
		data, err := msg.ToJSON()
		if err != nil {
			continue
		}

		if !client.TrySend(data) {
			// 发送失败，保留剩余消息
			return
		}
	}

	m.store.ClearOfflineMessages(m.ctx, client.UserID)
}

// HandleWebSocket 处理WebSocket连接升级
func (m *Manager) HandleWebSocket(c *gin.Context, userID uint) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		m.logger.Errorf("WebSocket升级失败: %v", err)
		return
	}

	client := NewClient(userID, conn, m)

	m.register <- client

	go client.readPump()
	go client.writePump()
}

// IsUserOnline 检查用户是否在线
func (m *Manager) IsUserOnline(userID uint) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, exists := m.clients[userID]
	return exists && !client.isClosed()
}

// GetOnlineUsers 获取在线用户列表
func (m *Manager) GetOnlineUsers() []uint {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	users := make([]uint, 0, len(m.clients))
	for userID, client := range m.clients {
		if !client.isClosed() {
			users = append(users, userID)
		}
	}
	return users
}
