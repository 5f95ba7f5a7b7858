package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nsxzhou1114/manga-api/internal/config"
	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/internal/model"
	"github.com/nsxzhou1114/manga-api/internal/router"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/auth"
	"github.com/nsxzhou1114/manga-api/pkg/events"
	"github.com/nsxzhou1114/manga-api/pkg/websocket"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "manga-api",
	Short: "漫画阅读API服务",
	Long:  `漫画阅读平台的API服务，提供目录、书架、章节评论订阅、内容举报和实时推送`,
}

// serveCmd 启动服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "配置文件路径")
	rootCmd.AddCommand(serveCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// initializeSystem 初始化系统
func initializeSystem() error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("配置初始化失败: %v", err)
	}

	if err := logger.Init(); err != nil {
		return fmt.Errorf("日志初始化失败: %v", err)
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("MySQL数据库连接失败")
	}

	if err := model.InitTables(db); err != nil {
		return fmt.Errorf("初始化数据库表失败: %v", err)
	}

	if _, err := database.InitRedis(); err != nil {
		return fmt.Errorf("Redis连接失败: %v", err)
	}

	// 令牌黑名单走Redis，支持多实例部署
	auth.InitBlacklist(auth.RedisBlacklist)

	// 举报事件走Redis发布订阅
	events.SetDefault(events.NewRedisBus(database.GetRedis()))

	// WebSocket管理器，离线消息存Redis
	websocket.GetManager().Initialize(websocket.NewRedisMessageStore(database.GetRedis()))

	return nil
}

// startCronJobs 启动定时任务
func startCronJobs() *cron.Cron {
	c := cron.New()

	// 每天凌晨3点清理30天前的已读通知
	if _, err := c.AddFunc("0 3 * * *", func() {
		if _, err := service.NewNotificationService().CleanupReadNotifications(30); err != nil {
			logger.Errorf("清理过期通知失败: %v", err)
		}
	}); err != nil {
		logger.Errorf("注册通知清理任务失败: %v", err)
	}

	c.Start()
	return c
}

// startServer 启动HTTP服务
func startServer() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	cronJobs := startCronJobs()

	r := router.SetupRouter()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.GlobalConfig.App.Port),
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("HTTP服务启动失败", zap.Error(err))
		}
	}()

	logger.Info("服务已启动", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("关闭服务...")

	cronJobs.Stop()
	websocket.GetManager().Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Fatal("服务关闭异常", zap.Error(err))
	}

	logger.Info("服务已关闭")
}
