package model

// Comment 章节评论模型
// Chapter只记录章节号，不对章节行做外键校验
type Comment struct {
	Base
	MangaID uint   `gorm:"type:int(11);not null;index:idx_manga_chapter,priority:1" json:"manga_id"`
	Chapter int    `gorm:"type:int(11);not null;index:idx_manga_chapter,priority:2" json:"chapter"`
	UserID  uint   `gorm:"type:int(11);not null;index" json:"user_id"`
	Content string `gorm:"type:text;not null" json:"content"`

	// 关联
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Manga Manga `gorm:"foreignKey:MangaID" json:"manga,omitempty"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}

// CommentSubscription 评论订阅模型，(用户,漫画,章节)组合唯一
type CommentSubscription struct {
	Base
	UserID  uint `gorm:"type:int(11);not null;uniqueIndex:idx_sub_tuple,priority:1" json:"user_id"`
	MangaID uint `gorm:"type:int(11);not null;uniqueIndex:idx_sub_tuple,priority:2" json:"manga_id"`
	Chapter int  `gorm:"type:int(11);not null;uniqueIndex:idx_sub_tuple,priority:3" json:"chapter"`

	// 关联
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (CommentSubscription) TableName() string {
	return "comment_subscriptions"
}

// CommentNotification 评论通知模型，只为评论作者之外的订阅者创建
type CommentNotification struct {
	Base
	UserID    uint `gorm:"type:int(11);not null;index" json:"user_id"` // 接收者
	CommentID uint `gorm:"type:int(11);not null;index" json:"comment_id"`
	IsRead    int  `gorm:"type:tinyint(1);not null;default:0;index" json:"is_read"` // 0=未读 1=已读

	// 关联
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comment Comment `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
}

// TableName 指定表名
func (CommentNotification) TableName() string {
	return "comment_notifications"
}
