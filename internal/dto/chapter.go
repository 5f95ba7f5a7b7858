package dto

// ChapterCreateRequest 创建章节请求
type ChapterCreateRequest struct {
	Number int      `json:"number" binding:"required,min=1"`
	Title  string   `json:"title" binding:"max=200"`
	Pages  []string `json:"pages" binding:"required,min=1"`
}

// ChapterUpdateRequest 更新章节请求
type ChapterUpdateRequest struct {
	Title string   `json:"title" binding:"max=200"`
	Pages []string `json:"pages"`
}
