package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// LibraryController 书架控制器
type LibraryController struct {
	libraryService *service.LibraryService
}

func NewLibraryController() *LibraryController {
	return &LibraryController{
		libraryService: service.NewLibraryService(),
	}
}

// Upsert 写入书架进度
func (ctrl *LibraryController) Upsert(c *gin.Context) {
	var req dto.LibraryUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	entry, err := ctrl.libraryService.Upsert(userID, &req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "保存成功", entry)
}

// List 获取书架列表
func (ctrl *LibraryController) List(c *gin.Context) {
	var req dto.LibraryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	entries, total, err := ctrl.libraryService.GetList(userID, &req)
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

	response.SuccessPage(c, "获取成功", entries, page, pageSize, total)
}

// Get 获取某部漫画的进度
func (ctrl *LibraryController) Get(c *gin.Context) {
	mangaID, err := strconv.ParseUint(c.Param("mangaId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的漫画ID", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	entry, err := ctrl.libraryService.GetEntry(userID, uint(mangaID))
	if err != nil {
		response.NotFound(c, err.Error(), err)
		return
	}

	response.Success(c, "获取成功", entry)
}

// Remove 从书架移除漫画
func (ctrl *LibraryController) Remove(c *gin.Context) {
	mangaID, err := strconv.ParseUint(c.Param("mangaId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的漫画ID", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	if err := ctrl.libraryService.Remove(userID, uint(mangaID)); err != nil {
		response.NotFound(c, err.Error(), err)
		return
	}

	response.Success(c, "移除成功", nil)
}
