package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/config"
	"github.com/nsxzhou1114/manga-api/internal/controller"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
)

// SetupRouter 初始化路由
func SetupRouter() *gin.Engine {
	cfg := config.GetConfig()

	if cfg.App.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(corsMiddleware(cfg))

	// 本地存储的图片由服务直接托管
	if cfg.Storage.Type != "cos" && cfg.Storage.Local.Path != "" {
		r.Static(cfg.Storage.Local.URLPrefix, cfg.Storage.Local.Path)
	}

	userCtrl := controller.NewUserController()
	mangaCtrl := controller.NewMangaController()
	chapterCtrl := controller.NewChapterController()
	libraryCtrl := controller.NewLibraryController()
	commentCtrl := controller.NewCommentController()
	notificationCtrl := controller.NewNotificationController()
	reportCtrl := controller.NewReportController()
	imageCtrl := controller.NewImageController()
	metadataCtrl := controller.NewMetadataController()
	wsCtrl := controller.NewWebSocketController()

	api := r.Group("/api/v1")
	{
		// 认证
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", userCtrl.Register)
			authGroup.POST("/login", userCtrl.Login)
			authGroup.POST("/refresh", userCtrl.RefreshToken)
			authGroup.POST("/logout", middleware.JWTAuth(), userCtrl.Logout)
		}

		// 个人资料
		userGroup := api.Group("/user", middleware.JWTAuth())
		{
			userGroup.GET("/profile", userCtrl.GetProfile)
			userGroup.PUT("/profile", userCtrl.UpdateProfile)
			userGroup.PUT("/password", userCtrl.ChangePassword)
		}

		// 目录浏览无需登录
		mangaGroup := api.Group("/mangas")
		{
			mangaGroup.GET("", mangaCtrl.List)
			mangaGroup.GET("/:id", mangaCtrl.Get)
			mangaGroup.GET("/:id/chapters", chapterCtrl.List)
			mangaGroup.GET("/:id/chapters/:number", chapterCtrl.Get)
			mangaGroup.GET("/:id/comments", commentCtrl.List)

			// 目录维护需要登录，权限在服务层校验
			mangaGroup.POST("", middleware.JWTAuth(), mangaCtrl.Create)
			mangaGroup.PUT("/:id", middleware.JWTAuth(), mangaCtrl.Update)
			mangaGroup.DELETE("/:id", middleware.JWTAuth(), mangaCtrl.Delete)
			mangaGroup.POST("/:id/chapters", middleware.JWTAuth(), chapterCtrl.Create)
			mangaGroup.PUT("/:id/chapters/:number", middleware.JWTAuth(), chapterCtrl.Update)
			mangaGroup.DELETE("/:id/chapters/:number", middleware.JWTAuth(), chapterCtrl.Delete)
		}

		// 分类
		genreGroup := api.Group("/genres")
		{
			genreGroup.GET("", mangaCtrl.ListGenres)
			genreGroup.POST("", middleware.AdminAuth(), mangaCtrl.CreateGenre)
		}

		// 书架
		libraryGroup := api.Group("/library", middleware.JWTAuth())
		{
			libraryGroup.GET("", libraryCtrl.List)
			libraryGroup.PUT("", libraryCtrl.Upsert)
			libraryGroup.GET("/:mangaId", libraryCtrl.Get)
			libraryGroup.DELETE("/:mangaId", libraryCtrl.Remove)
		}

		// 评论与订阅
		commentGroup := api.Group("/comments", middleware.JWTAuth())
		{
			commentGroup.POST("", commentCtrl.Create)
			commentGroup.DELETE("/:id", commentCtrl.Delete)
			commentGroup.POST("/subscribe", commentCtrl.Subscribe)
			commentGroup.POST("/unsubscribe", commentCtrl.Unsubscribe)
			commentGroup.GET("/subscription", commentCtrl.SubscriptionStatus)
		}

		// 通知
		notificationGroup := api.Group("/notifications", middleware.JWTAuth())
		{
			notificationGroup.GET("", notificationCtrl.List)
			notificationGroup.GET("/unread-count", notificationCtrl.UnreadCount)
			notificationGroup.PUT("/read", notificationCtrl.MarkRead)
			notificationGroup.PUT("/read-all", notificationCtrl.MarkAllRead)
		}

		// 举报
		reportGroup := api.Group("/reports", middleware.JWTAuth())
		{
			reportGroup.POST("", reportCtrl.Create)
			reportGroup.GET("/mine", reportCtrl.ListMine)
			reportGroup.GET("", middleware.AdminAuth(), reportCtrl.List)
			reportGroup.PUT("/:id/status", middleware.AdminAuth(), reportCtrl.UpdateStatus)
		}

		// 管理员通知
		adminGroup := api.Group("/admin", middleware.AdminAuth())
		{
			adminGroup.GET("/notifications", reportCtrl.AdminNotifications)
			adminGroup.PUT("/notifications/read", reportCtrl.MarkAdminNotificationsRead)
		}

		// 图片上传
		imageGroup := api.Group("/images", middleware.JWTAuth())
		{
			imageGroup.POST("", imageCtrl.Upload)
			imageGroup.DELETE("/:id", imageCtrl.Delete)
		}

		// 外部元数据
		api.GET("/metadata/search", middleware.JWTAuth(), metadataCtrl.Search)

		// WebSocket连接自行校验查询参数中的令牌
		api.GET("/ws", wsCtrl.Connect)
		api.GET("/ws/online", middleware.JWTAuth(), wsCtrl.Online)
	}

	return r
}

// corsMiddleware 跨域中间件
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(cfg.App.Cors.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.App.Cors.AllowOrigins
		corsConfig.AllowCredentials = cfg.App.Cors.AllowCredentials
	} else {
		// 允许所有来源时不能同时携带凭证
		corsConfig.AllowAllOrigins = true
	}
	if len(cfg.App.Cors.AllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.App.Cors.AllowMethods
	}
	if len(cfg.App.Cors.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.App.Cors.AllowHeaders
	}
	return cors.New(corsConfig)
}
