package model

// LibraryEntry 用户书架条目，每个(用户,漫画)组合只有一行
type LibraryEntry struct {
	Base
	UserID         uint   `gorm:"type:int(11);not null;uniqueIndex:idx_user_manga,priority:1" json:"user_id"`
	MangaID        uint   `gorm:"type:int(11);not null;uniqueIndex:idx_user_manga,priority:2;index" json:"manga_id"`
	Status         string `gorm:"type:varchar(20);not null;default:'reading'" json:"status"` // reading completed plan dropped
	CurrentChapter int    `gorm:"type:int(11);not null;default:0" json:"current_chapter"`

	// 关联
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Manga Manga `gorm:"foreignKey:MangaID" json:"manga,omitempty"`
}

// TableName 指定表名
func (LibraryEntry) TableName() string {
	return "library_entries"
}
