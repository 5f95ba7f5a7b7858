package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// ChapterController 章节控制器
type ChapterController struct {
	chapterService *service.ChapterService
}

func NewChapterController() *ChapterController {
	return &ChapterController{
		chapterService: service.NewChapterService(),
	}
}

// parseMangaID 解析路径中的漫画ID
func parseMangaID(c *gin.Context) (uint, bool) {
	mangaID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的漫画ID", err)
		return 0, false
	}
	return uint(mangaID), true
}

// parseChapterNumber 解析路径中的章节号
func parseChapterNumber(c *gin.Context) (int, bool) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		response.BadRequest(c, "无效的章节号", err)
		return 0, false
	}
	return number, true
}

// Create 创建章节
func (ctrl *ChapterController) Create(c *gin.Context) {
	mangaID, ok := parseMangaID(c)
	if !ok {
		return
	}

	var req dto.ChapterCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	chapter, err := ctrl.chapterService.CreateChapter(userID, role, mangaID, &req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "创建成功", chapter)
}

// Update 更新章节
func (ctrl *ChapterController) Update(c *gin.Context) {
	mangaID, ok := parseMangaID(c)
	if !ok {
		return
	}
	number, ok := parseChapterNumber(c)
	if !ok {
		return
	}

	var req dto.ChapterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	chapter, err := ctrl.chapterService.UpdateChapter(userID, role, mangaID, number, &req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "更新成功", chapter)
}

// Delete 删除章节
func (ctrl *ChapterController) Delete(c *gin.Context) {
	mangaID, ok := parseMangaID(c)
	if !ok {
		return
	}
	number, ok := parseChapterNumber(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	if err := ctrl.chapterService.DeleteChapter(userID, role, mangaID, number); err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "删除成功", nil)
}

// Get 获取章节详情
func (ctrl *ChapterController) Get(c *gin.Context) {
	mangaID, ok := parseMangaID(c)
	if !ok {
		return
	}
	number, ok := parseChapterNumber(c)
	if !ok {
		return
	}

	chapter, err := ctrl.chapterService.GetChapter(mangaID, number)
	if err != nil {
		response.NotFound(c, err.Error(), err)
		return
	}

	response.Success(c, "获取成功", chapter)
}

// List 获取漫画的章节列表
func (ctrl *ChapterController) List(c *gin.Context) {
	mangaID, ok := parseMangaID(c)
	if !ok {
		return
	}

	chapters, err := ctrl.chapterService.GetChapterList(mangaID)
	if err != nil {
		response.NotFound(c, err.Error(), err)
		return
	}

	response.Success(c, "获取成功", chapters)
}
