package dto

// ReportCreateRequest 提交内容举报请求
type ReportCreateRequest struct {
	MangaID     uint   `json:"manga_id" binding:"required"`
	Chapter     int    `json:"chapter" binding:"required,min=1"`
	IssueType   string `json:"issue_type" binding:"required,oneof=unreadable missing_pages wrong_order other"`
	Description string `json:"description" binding:"max=2000"`
}

// ReportListRequest 举报列表查询请求
type ReportListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending in_progress resolved rejected"`
	MangaID  uint   `form:"manga_id"`
}

// ReportStatusRequest 更新举报状态请求
type ReportStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress resolved rejected"`
}
