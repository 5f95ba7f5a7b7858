package dto

// MangaCreateRequest 创建漫画请求
type MangaCreateRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Author      string  `json:"author" binding:"max=100"`
	Description string  `json:"description"`
	Cover       string  `json:"cover" binding:"max=255"`
	Status      string  `json:"status" binding:"omitempty,oneof=ongoing completed"`
	Rating      float64 `json:"rating" binding:"gte=0,lte=10"`
	GenreIDs    []uint  `json:"genre_ids"`
}

// MangaUpdateRequest 更新漫画请求
type MangaUpdateRequest struct {
	Title       string   `json:"title" binding:"omitempty,max=200"`
	Author      string   `json:"author" binding:"max=100"`
	Description string   `json:"description"`
	Cover       string   `json:"cover" binding:"max=255"`
	Status      string   `json:"status" binding:"omitempty,oneof=ongoing completed"`
	Rating      *float64 `json:"rating" binding:"omitempty,gte=0,lte=10"`
	GenreIDs    []uint   `json:"genre_ids"`
}

// MangaListRequest 漫画列表查询请求
type MangaListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword  string `form:"keyword"`
	GenreID  uint   `form:"genre_id"`
	Status   string `form:"status" binding:"omitempty,oneof=ongoing completed"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=created_at rating title"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// GenreCreateRequest 创建分类请求
type GenreCreateRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}
