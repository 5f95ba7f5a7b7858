package dto

// LibraryUpsertRequest 更新书架进度请求，同一(用户,漫画)只保留一行
type LibraryUpsertRequest struct {
	MangaID        uint   `json:"manga_id" binding:"required"`
	Status         string `json:"status" binding:"omitempty,oneof=reading completed plan dropped"`
	CurrentChapter int    `json:"current_chapter" binding:"gte=0"`
}

// LibraryListRequest 书架列表查询请求
type LibraryListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=reading completed plan dropped"`
}
