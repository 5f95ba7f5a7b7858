package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// CommentController 评论控制器
type CommentController struct {
	commentService *service.CommentService
}

func NewCommentController() *CommentController {
	return &CommentController{
		commentService: service.NewCommentService(),
	}
}

// Create 发表评论
func (ctrl *CommentController) Create(c *gin.Context) {
	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	comment, err := ctrl.commentService.CreateComment(userID, &req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "评论成功", comment)
}

// List 分页获取章节评论
func (ctrl *CommentController) List(c *gin.Context) {
	var req dto.CommentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	comments, total, err := ctrl.commentService.GetComments(&req)
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

	response.SuccessPage(c, "获取成功", comments, page, pageSize, total)
}

// Delete 删除评论
func (ctrl *CommentController) Delete(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的评论ID", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	if err := ctrl.commentService.DeleteComment(userID, role, uint(commentID)); err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "删除成功", nil)
}

// Subscribe 订阅章节评论
func (ctrl *CommentController) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	if err := ctrl.commentService.Subscribe(userID, &req); err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "订阅成功", nil)
}

// Unsubscribe 取消订阅章节评论
func (ctrl *CommentController) Unsubscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	if err := ctrl.commentService.Unsubscribe(userID, &req); err != nil {
		response.InternalServerError(c, "取消订阅失败", err)
		return
	}

	response.Success(c, "已取消订阅", nil)
}

// SubscriptionStatus 查询订阅状态
func (ctrl *CommentController) SubscriptionStatus(c *gin.Context) {
	mangaID, err := strconv.ParseUint(c.Query("manga_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的漫画ID", err)
		return
	}
	chapter, err := strconv.Atoi(c.Query("chapter"))
	if err != nil || chapter < 1 {
		response.BadRequest(c, "无效的章节号", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	subscribed, err := ctrl.commentService.IsSubscribed(userID, uint(mangaID), chapter)
	if err != nil {
		response.InternalServerError(c, "查询失败", err)
		return
	}

	response.Success(c, "获取成功", gin.H{"subscribed": subscribed})
}
