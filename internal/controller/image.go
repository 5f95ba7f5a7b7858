package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// ImageController 图片上传控制器
type ImageController struct {
	imageService *service.ImageService
}

func NewImageController() *ImageController {
	return &ImageController{
		imageService: service.NewImageService(),
	}
}

// Upload 上传图片，bucket取avatar/cover/page
func (ctrl *ImageController) Upload(c *gin.Context) {
	bucket := c.PostForm("bucket")
	if bucket == "" {
		bucket = c.Query("bucket")
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请选择要上传的文件", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	img, err := ctrl.imageService.Upload(userID, role, bucket, file)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "上传成功", img)
}

// Delete 删除图片
func (ctrl *ImageController) Delete(c *gin.Context) {
	imageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的图片ID", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	if err := ctrl.imageService.Delete(userID, role, uint(imageID)); err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "删除成功", nil)
}
