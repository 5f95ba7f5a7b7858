package model

// Chapter 章节模型，页图按顺序存为JSON数组
type Chapter struct {
	Base
	MangaID uint     `gorm:"type:int(11);not null;uniqueIndex:idx_manga_number,priority:1" json:"manga_id"`
	Number  int      `gorm:"type:int(11);not null;uniqueIndex:idx_manga_number,priority:2" json:"number"`
	Title   string   `gorm:"type:varchar(255)" json:"title"`
	Pages   []string `gorm:"type:text;serializer:json" json:"pages"`

	// 关联
	Manga Manga `gorm:"foreignKey:MangaID" json:"manga,omitempty"`
}

// TableName 指定表名
func (Chapter) TableName() string {
	return "chapters"
}
