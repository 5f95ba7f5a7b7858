package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/pkg/auth"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// JWTAuth JWT认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Unauthorized(c, "Authorization格式错误", nil)
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			logger.Warnf("无效的令牌: %v", err)
			response.Unauthorized(c, "无效的令牌", err)
			c.Abort()
			return
		}

		// 只接受访问令牌
		if claims.Type != auth.AccessToken {
			logger.Warnf("使用了错误类型的令牌: %v", claims.Type)
			response.Unauthorized(c, "使用了错误类型的令牌", nil)
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Set("tokenID", claims.TokenID)
		c.Next()
	}
}

// AdminAuth 管理员认证中间件
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		JWTAuth()(c)
		if c.IsAborted() {
			return
		}

		role, exists := c.Get("userRole")
		if !exists {
			response.Unauthorized(c, "未授权", nil)
			c.Abort()
			return
		}

		if role != "admin" {
			response.Forbidden(c, "需要管理员权限", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth 可选的JWT认证中间件
// 不阻止未认证的访问，token有效时把用户信息写入上下文
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil || claims.Type != auth.AccessToken {
			c.Next()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Set("tokenID", claims.TokenID)
		c.Next()
	}
}

// GetUserID 从上下文中获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserRole 从上下文中获取用户角色
func GetUserRole(c *gin.Context) (string, bool) {
	userRole, exists := c.Get("userRole")
	if !exists {
		return "", false
	}
	return userRole.(string), true
}
