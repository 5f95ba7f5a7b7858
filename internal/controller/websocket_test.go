package controller

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nsxzhou1114/manga-api/internal/config"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/pkg/auth"
	ws "github.com/nsxzhou1114/manga-api/pkg/websocket"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{
			SecretKey:            "test-secret",
			AccessExpireSeconds:  3600,
			RefreshExpireSeconds: 86400,
			Issuer:               "manga-api-test",
		},
	}
	logger.InitLogger(&config.LogConfig{Level: "error"})
	ws.GetManager().Initialize(nil)
	os.Exit(m.Run())
}

func TestWebSocketConnectTokenQuery(t *testing.T) {
	ctrl := NewWebSocketController()
	router := gin.New()
	router.GET("/ws", ctrl.Connect)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	// 缺少令牌
	if _, resp, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Fatal("缺少令牌时应拒绝连接")
	} else if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("缺少令牌应返回401")
	}

	// 非法令牌
	if _, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=not-a-token", nil); err == nil {
		t.Fatal("非法令牌应拒绝连接")
	} else if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("非法令牌应返回401")
	}

	pair, err := auth.GenerateTokenPair(77, "user")
	if err != nil {
		t.Fatalf("生成令牌对失败: %v", err)
	}

	// 刷新令牌不能建立连接
	if _, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token="+pair.RefreshToken, nil); err == nil {
		t.Fatal("刷新令牌应拒绝连接")
	} else if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("刷新令牌应返回401")
	}

	// 访问令牌通过查询参数建立连接
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+pair.AccessToken, nil)
	if err != nil {
		t.Fatalf("携带访问令牌建立连接失败: %v", err)
	}
	defer conn.Close()

	// 注册经由管理器主循环异步完成
	deadline := time.Now().Add(2 * time.Second)
	for !ws.GetManager().IsUserOnline(77) {
		if time.Now().After(deadline) {
			t.Fatal("等待连接注册超时")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
