package dto

// NotificationListRequest 通知列表查询请求
type NotificationListRequest struct {
	Page     int  `form:"page" binding:"omitempty,min=1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100"`
	Unread   bool `form:"unread"`
}

// MarkReadRequest 标记已读请求
type MarkReadRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}
