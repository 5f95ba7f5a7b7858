package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
	"github.com/nsxzhou1114/manga-api/pkg/auth"
	"github.com/nsxzhou1114/manga-api/pkg/response"
	"github.com/nsxzhou1114/manga-api/pkg/websocket"
)

// WebSocketController WebSocket连接控制器
type WebSocketController struct{}

func NewWebSocketController() *WebSocketController {
	return &WebSocketController{}
}

// Connect 建立WebSocket连接
// 浏览器的WebSocket无法设置请求头，令牌通过查询参数传递
func (ctrl *WebSocketController) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Unauthorized(c, "请先登录", nil)
		return
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		response.Unauthorized(c, "无效的令牌", err)
		return
	}

	// 只接受访问令牌
	if claims.Type != auth.AccessToken {
		response.Unauthorized(c, "使用了错误类型的令牌", nil)
		return
	}

	websocket.GetManager().HandleWebSocket(c, claims.UserID)
}

// Online 查询用户是否在线
func (ctrl *WebSocketController) Online(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "请先登录", nil)
		return
	}

	response.Success(c, "获取成功", gin.H{
		"online": websocket.GetManager().IsUserOnline(userID),
	})
}
