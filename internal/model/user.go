package model

import (
	"time"
)

// User 用户模型
type User struct {
	Base
	Username    string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	Password    string    `gorm:"type:varchar(100);not null" json:"-"`
	Email       string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	Avatar      string    `gorm:"type:varchar(255)" json:"avatar"`
	Nickname    string    `gorm:"type:varchar(50)" json:"nickname"`
	Role        string    `gorm:"type:varchar(20);not null;default:'user'" json:"role"` // user admin
	Status      int       `gorm:"type:tinyint(2);not null;default:1" json:"status"`     // 0=禁用 1=正常
	LastLoginAt time.Time `json:"last_login_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
