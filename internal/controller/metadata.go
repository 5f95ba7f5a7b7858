package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// MetadataController 外部元数据控制器
type MetadataController struct {
	metadataService *service.MetadataService
}

func NewMetadataController() *MetadataController {
	return &MetadataController{
		metadataService: service.NewMetadataService(),
	}
}

// Search 按标题检索外部元数据
func (ctrl *MetadataController) Search(c *gin.Context) {
	var req dto.MetadataSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	results, err := ctrl.metadataService.Search(c.Request.Context(), &req)
	if err != nil {
		response.InternalServerError(c, "查询外部元数据失败", err)
		return
	}

	response.Success(c, "获取成功", results)
}
