package model

// 图片逻辑桶
const (
	ImageBucketAvatar = "avatar"
	ImageBucketCover  = "cover"
	ImageBucketPage   = "page"
)

// Image 图片对象记录，对象名由服务端生成
type Image struct {
	Base
	URL         string `gorm:"type:varchar(255);not null" json:"url"`
	Path        string `gorm:"type:varchar(255);not null" json:"path"`
	Filename    string `gorm:"type:varchar(255)" json:"filename"`
	Size        int    `gorm:"type:int(11);not null;default:0" json:"size"`
	MimeType    string `gorm:"type:varchar(100)" json:"mime_type"`
	UserID      uint   `gorm:"type:int(11);not null;index" json:"user_id"`
	Bucket      string `gorm:"type:varchar(20);not null;index" json:"bucket"` // avatar cover page
	StorageType string `gorm:"type:varchar(20);not null;default:'local'" json:"storage_type"`

	// 关联
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Image) TableName() string {
	return "images"
}
