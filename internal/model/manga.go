package model

// Manga 漫画模型
type Manga struct {
	Base
	Title       string   `gorm:"type:varchar(255);not null;index" json:"title"`
	Author      string   `gorm:"type:varchar(100)" json:"author"`
	Description string   `gorm:"type:text" json:"description"`
	Cover       string   `gorm:"type:varchar(255)" json:"cover"`
	Status      string   `gorm:"type:varchar(20);not null;default:'ongoing';index" json:"status"` // ongoing completed
	Rating      float64  `gorm:"type:decimal(4,2);not null;default:0" json:"rating"`              // 约定范围[0,10]，不做存储层约束
	CreatorID   uint     `gorm:"type:int(11);not null;index" json:"creator_id"`
	Genres      []*Genre `gorm:"many2many:manga_genres;" json:"genres,omitempty"`

	// 关联
	Creator  User      `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Chapters []Chapter `gorm:"foreignKey:MangaID" json:"chapters,omitempty"`
}

// TableName 指定表名
func (Manga) TableName() string {
	return "mangas"
}

// Genre 题材模型
type Genre struct {
	Base
	Name string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
}

// TableName 指定表名
func (Genre) TableName() string {
	return "genres"
}
