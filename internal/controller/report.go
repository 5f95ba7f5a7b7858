package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// ReportController 举报控制器
type ReportController struct {
	reportService *service.ReportService
}

func NewReportController() *ReportController {
	return &ReportController{
		reportService: service.NewReportService(),
	}
}

// Create 提交举报
func (ctrl *ReportController) Create(c *gin.Context) {
	var req dto.ReportCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	report, err := ctrl.reportService.CreateReport(userID, &req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "举报已提交", report)
}

// List 获取举报列表（管理员）
func (ctrl *ReportController) List(c *gin.Context) {
	var req dto.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	role, _ := middleware.GetUserRole(c)

	reports, total, err := ctrl.reportService.GetReports(role, &req)
	if err != nil {
		response.Forbidden(c, err.Error(), err)
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

	response.SuccessPage(c, "获取成功", reports, page, pageSize, total)
}

// ListMine 获取自己提交的举报
func (ctrl *ReportController) ListMine(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	userID, _ := middleware.GetUserID(c)

	reports, total, err := ctrl.reportService.GetMyReports(userID, page, pageSize)
	if err != nil {
		response.InternalServerError(c, "查询失败", err)
		return
	}

	response.SuccessPage(c, "获取成功", reports, page, pageSize, total)
}

// UpdateStatus 更新举报状态（管理员）
func (ctrl *ReportController) UpdateStatus(c *gin.Context) {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的举报ID", err)
		return
	}

	var req dto.ReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	role, _ := middleware.GetUserRole(c)

	report, err := ctrl.reportService.UpdateStatus(role, uint(reportID), req.Status)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "更新成功", report)
}

// AdminNotifications 获取管理员通知（管理员）
func (ctrl *ReportController) AdminNotifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	unread := c.Query("unread") == "true"

	role, _ := middleware.GetUserRole(c)

	notifications, total, err := ctrl.reportService.GetAdminNotifications(role, page, pageSize, unread)
	if err != nil {
		response.Forbidden(c, err.Error(), err)
		return
	}

	response.SuccessPage(c, "获取成功", notifications, page, pageSize, total)
}

// MarkAdminNotificationsRead 标记管理员通知已读（管理员）
func (ctrl *ReportController) MarkAdminNotificationsRead(c *gin.Context) {
	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	role, _ := middleware.GetUserRole(c)

	updated, err := ctrl.reportService.MarkAdminNotificationsRead(role, req.IDs)
	if err != nil {
		response.Forbidden(c, err.Error(), err)
		return
	}

	response.Success(c, "标记成功", gin.H{"updated": updated})
}
