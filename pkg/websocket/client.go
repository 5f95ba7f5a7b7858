package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client 表示一个WebSocket客户端连接
type Client struct {
	ID         string
	UserID     uint
	Conn       *websocket.Conn
	Send       chan []byte
	manager    *Manager
	lastActive time.Time
	closed     bool
	closeMutex sync.RWMutex
}

// NewClient 创建新的客户端实例
func NewClient(userID uint, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:         generateConnID(userID),
		UserID:     userID,
		Conn:       conn,
		Send:       make(chan []byte, 256),
		manager:    manager,
		lastActive: time.Now(),
	}
}

// readPump 处理从客户端读取消息
func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.updateActivity()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		c.updateActivity()
		if len(message) > 0 {
			c.handleMessage(message)
		}
	}
}

// writePump 处理向客户端发送消息
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.writeMessage(message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage 处理接收到的消息
func (c *Client) handleMessage(message []byte) {
	var msg struct {
		Type  string `json:"type"`
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}

	switch msg.Type {
	case "ping":
		c.handlePing()
	case "subscribe":
		c.manager.Subscribe(c, msg.Topic)
	case "unsubscribe":
		c.manager.Unsubscribe(c, msg.Topic)
	}
}

// handlePing 处理ping消息
func (c *Client) handlePing() {
	response := Envelope{
		Type:      "pong",
		Timestamp: time.Now().Unix(),
	}

	if data, err := json.Marshal(response); err == nil {
		c.TrySend(data)
	}
}

// TrySend 尝试向发送缓冲写入消息，连接已关闭或缓冲已满时返回false
// 持读锁期间Close无法关闭通道，不会写入已关闭的通道
func (c *Client) TrySend(message []byte) bool {
	c.closeMutex.RLock()
	defer c.closeMutex.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// isClosed 检查连接是否已关闭
func (c *Client) isClosed() bool {
	c.closeMutex.RLock()
	defer c.closeMutex.RUnlock()
	return c.closed
}

// writeMessage 发送消息到客户端
func (c *Client) writeMessage(message []byte) error {
	c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.Conn.WriteMessage(websocket.TextMessage, message)
}

// Close 关闭客户端连接
func (c *Client) Close() {
	c.closeMutex.Lock()
	defer c.closeMutex.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
		c.Conn.Close()
	}
}

// updateActivity 更新最后活跃时间
func (c *Client) updateActivity() {
	c.closeMutex.Lock()
	c.lastActive = time.Now()
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.closeMutex.Unlock()
}

// IsActive 检查客户端是否活跃
func (c *Client) IsActive(timeout time.Duration) bool {
	c.closeMutex.RLock()
	defer c.closeMutex.RUnlock()
	return !c.closed && time.Since(c.lastActive) < timeout
}

// generateConnID 生成连接ID
func generateConnID(userID uint) string {
	return fmt.Sprintf("%d_%d", userID, time.Now().UnixNano())
}
