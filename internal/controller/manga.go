package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// MangaController 漫画目录控制器
type MangaController struct {
	mangaService *service.MangaService
}

func NewMangaController() *MangaController {
	return &MangaController{
		mangaService: service.NewMangaService(),
	}
}

// Create 创建漫画
func (ctrl *MangaController) Create(c *gin.Context) {
	var req dto.MangaCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	manga, err := ctrl.mangaService.CreateManga(userID, role, &req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "创建成功", manga)
}

// Update 更新漫画
func (ctrl *MangaController) Update(c *gin.Context) {
	mangaID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的漫画ID", err)
		return
	}

	var req dto.MangaUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	manga, err := ctrl.mangaService.UpdateManga(userID, role, uint(mangaID), &req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "更新成功", manga)
}

// Delete 删除漫画
func (ctrl *MangaController) Delete(c *gin.Context) {
	mangaID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的漫画ID", err)
		return
	}

	role, _ := middleware.GetUserRole(c)

	if err := ctrl.mangaService.DeleteManga(role, uint(mangaID)); err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "删除成功", nil)
}

// Get 获取漫画详情
func (ctrl *MangaController) Get(c *gin.Context) {
	mangaID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的漫画ID", err)
		return
	}

	manga, err := ctrl.mangaService.GetMangaByID(uint(mangaID))
	if err != nil {
		response.NotFound(c, err.Error(), err)
		return
	}

	response.Success(c, "获取成功", manga)
}

// List 分页查询漫画列表
func (ctrl *MangaController) List(c *gin.Context) {
	var req dto.MangaListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	mangas, total, err := ctrl.mangaService.GetMangaList(&req)
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

	response.SuccessPage(c, "获取成功", mangas, page, pageSize, total)
}

// CreateGenre 创建分类
func (ctrl *MangaController) CreateGenre(c *gin.Context) {
	var req dto.GenreCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	role, _ := middleware.GetUserRole(c)

	genre, err := ctrl.mangaService.CreateGenre(role, &req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "创建成功", genre)
}

// ListGenres 获取全部分类
func (ctrl *MangaController) ListGenres(c *gin.Context) {
	genres, err := ctrl.mangaService.GetGenreList()
	if err != nil {
		response.InternalServerError(c, "查询失败", err)
		return
	}

	response.Success(c, "获取成功", genres)
}
