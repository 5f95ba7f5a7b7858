package dto

// MetadataSearchRequest 外部元数据检索请求
type MetadataSearchRequest struct {
	Query string `form:"q" binding:"required,max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=25"`
}

// MangaMetadata 外部元数据检索结果
type MangaMetadata struct {
	MalID    int      `json:"mal_id"`
	Title    string   `json:"title"`
	Synopsis string   `json:"synopsis"`
	Cover    string   `json:"cover"`
	Score    float64  `json:"score"`
	Status   string   `json:"status"`
	Genres   []string `json:"genres"`
}
