package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// NotificationController 通知控制器
type NotificationController struct {
	notificationService *service.NotificationService
}

func NewNotificationController() *NotificationController {
	return &NotificationController{
		notificationService: service.NewNotificationService(),
	}
}

// List 分页获取通知
func (ctrl *NotificationController) List(c *gin.Context) {
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	notifications, total, err := ctrl.notificationService.GetNotifications(userID, &req)
	if err != nil {
		response.InternalServerError(c, "查询失败", err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	response.SuccessPage(c, "获取成功", notifications, page, pageSize, total)
}

// UnreadCount 获取未读数量
func (ctrl *NotificationController) UnreadCount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	count, err := ctrl.notificationService.GetUnreadCount(userID)
	if err != nil {
		response.InternalServerError(c, "查询失败", err)
		return
	}

	response.Success(c, "获取成功", gin.H{"count": count})
}

// MarkRead 标记通知已读
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	updated, err := ctrl.notificationService.MarkAsRead(userID, req.IDs)
	if err != nil {
		response.InternalServerError(c, "标记失败", err)
		return
	}

	response.Success(c, "标记成功", gin.H{"updated": updated})
}

// MarkAllRead 标记全部通知已读
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	updated, err := ctrl.notificationService.MarkAllAsRead(userID)
	if err != nil {
		response.InternalServerError(c, "标记失败", err)
		return
	}

	response.Success(c, "标记成功", gin.H{"updated": updated})
}
