package dto

// CommentCreateRequest 发表评论请求
type CommentCreateRequest struct {
	MangaID uint   `json:"manga_id" binding:"required"`
	Chapter int    `json:"chapter" binding:"required,min=1"`
	Content string `json:"content" binding:"required,max=2000"`
}

// CommentListRequest 评论列表查询请求
type CommentListRequest struct {
	MangaID  uint `form:"manga_id" binding:"required"`
	Chapter  int  `form:"chapter" binding:"required,min=1"`
	Page     int  `form:"page" binding:"omitempty,min=1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SubscribeRequest 订阅章节评论请求
type SubscribeRequest struct {
	MangaID uint `json:"manga_id" binding:"required"`
	Chapter int  `json:"chapter" binding:"required,min=1"`
}
