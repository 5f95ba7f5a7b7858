package model

import (
	"time"
)

// 举报问题类型，闭合枚举，存储层和服务层统一校验
const (
	ReportIssueUnreadable   = "unreadable"
	ReportIssueMissingPages = "missing_pages"
	ReportIssueWrongOrder   = "wrong_order"
	ReportIssueOther        = "other"
)

// 举报处理状态
const (
	ReportStatusPending    = "pending"
	ReportStatusInProgress = "in_progress"
	ReportStatusResolved   = "resolved"
	ReportStatusRejected   = "rejected"
)

// MangaReport 内容问题举报模型
type MangaReport struct {
	Base
	MangaID     uint       `gorm:"type:int(11);not null;index" json:"manga_id"`
	Chapter     int        `gorm:"type:int(11);not null" json:"chapter"`
	ReporterID  uint       `gorm:"type:int(11);not null;index" json:"reporter_id"`
	IssueType   string     `gorm:"type:varchar(20);not null" json:"issue_type"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ResolvedAt  *time.Time `json:"resolved_at"`

	// 关联
	Manga    Manga `gorm:"foreignKey:MangaID" json:"manga,omitempty"`
	Reporter User  `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
}

// TableName 指定表名
func (MangaReport) TableName() string {
	return "manga_reports"
}

// AdminNotification 管理员通知模型，每条举报对应一行
type AdminNotification struct {
	Base
	Type     string `gorm:"type:varchar(20);not null;index" json:"type"` // report
	ReportID *uint  `gorm:"type:int(11);index" json:"report_id"`
	Payload  string `gorm:"type:text" json:"payload"` // 举报字段快照，JSON
	IsRead   int    `gorm:"type:tinyint(1);not null;default:0;index" json:"is_read"`

	// 关联
	Report *MangaReport `gorm:"foreignKey:ReportID" json:"report,omitempty"`
}

// TableName 指定表名
func (AdminNotification) TableName() string {
	return "admin_notifications"
}
