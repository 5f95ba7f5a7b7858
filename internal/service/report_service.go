package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/internal/model"
	"github.com/nsxzhou1114/manga-api/pkg/events"
	"github.com/nsxzhou1114/manga-api/pkg/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	reportService     *ReportService
	reportServiceOnce sync.Once
)

// ReportService 内容举报服务
type ReportService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewReportService() *ReportService {
	reportServiceOnce.Do(func() {
		reportService = &ReportService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return reportService
}

// 举报状态允许的流转
var reportTransitions = map[string][]string{
	model.ReportStatusPending:    {model.ReportStatusInProgress, model.ReportStatusRejected},
	model.ReportStatusInProgress: {model.ReportStatusResolved},
}

// validIssueTypes 闭合的问题类型集合
var validIssueTypes = map[string]bool{
	model.ReportIssueUnreadable:   true,
	model.ReportIssueMissingPages: true,
	model.ReportIssueWrongOrder:   true,
	model.ReportIssueOther:        true,
}

// reportPayload 管理员通知携带的举报字段快照
type reportPayload struct {
	ReportID    uint   `json:"report_id"`
	MangaID     uint   `json:"manga_id"`
	Chapter     int    `json:"chapter"`
	ReporterID  uint   `json:"reporter_id"`
	IssueType   string `json:"issue_type"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// CreateReport 提交举报并在同一事务内生成管理员通知
// 通知写入失败时整体回滚，不会出现有举报无通知的状态
func (s *ReportService) CreateReport(userID uint, req *dto.ReportCreateRequest) (*model.MangaReport, error) {
	if !validIssueTypes[req.IssueType] {
		return nil, errors.New("不支持的问题类型")
	}

	var count int64
	if err := s.db.Model(&model.Chapter{}).
		Where("manga_id = ? AND number = ?", req.MangaID, req.Chapter).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("章节不存在")
	}

	report := &model.MangaReport{
		MangaID:     req.MangaID,
		Chapter:     req.Chapter,
		ReporterID:  userID,
		IssueType:   req.IssueType,
		Description: req.Description,
		Status:      model.ReportStatusPending,
	}

	var payload reportPayload
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}

		payload = reportPayload{
			ReportID:    report.ID,
			MangaID:     report.MangaID,
			Chapter:     report.Chapter,
			ReporterID:  report.ReporterID,
			IssueType:   report.IssueType,
			Description: report.Description,
			Status:      report.Status,
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("序列化举报快照失败: %w", err)
		}

		notification := &model.AdminNotification{
			Type:     "report",
			ReportID: &report.ID,
			Payload:  string(data),
		}
		return tx.Create(notification).Error
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后才发布事件和推送
	go s.publishReport(payload)

	return report, nil
}

// publishReport 发布新举报事件并向在线管理员推送
func (s *ReportService) publishReport(payload reportPayload) {
	ctx := context.Background()

	if err := events.Default().Publish(ctx, events.ChannelReportNew, payload); err != nil {
		s.logger.Errorf("发布举报事件失败: %v", err)
	}

	var adminIDs []uint
	if err := s.db.Model(&model.User{}).Where("role = ?", "admin").Pluck("id", &adminIDs).Error; err != nil {
		s.logger.Errorf("查询管理员列表失败: %v", err)
		return
	}
	if len(adminIDs) == 0 {
		return
	}

	if err := websocket.GetManager().SendToUsers(ctx, adminIDs, "report", payload); err != nil {
		s.logger.Errorf("推送举报通知失败: %v", err)
	}
}

// UpdateStatus 更新举报状态，仅管理员可用，只允许既定的状态流转
func (s *ReportService) UpdateStatus(role string, reportID uint, newStatus string) (*model.MangaReport, error) {
	if role != "admin" {
		return nil, errors.New("没有权限处理举报")
	}

	var report model.MangaReport
	if err := s.db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("举报不存在")
		}
		return nil, err
	}

	allowed := false
	for _, next := range reportTransitions[report.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("不允许从 %s 变更为 %s", report.Status, newStatus)
	}

	updates := map[string]interface{}{
		"status": newStatus,
	}
	// 只有终结为resolved时才记录处理时间
	if newStatus == model.ReportStatusResolved {
		now := time.Now()
		updates["resolved_at"] = &now
	} else {
		updates["resolved_at"] = nil
	}

	if err := s.db.Model(&report).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.First(&report, reportID).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReports 分页获取举报列表，仅管理员可用
func (s *ReportService) GetReports(role string, req *dto.ReportListRequest) ([]model.MangaReport, int64, error) {
	if role != "admin" {
		return nil, 0, errors.New("没有权限查看举报列表")
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.Model(&model.MangaReport{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.MangaID > 0 {
		query = query.Where("manga_id = ?", req.MangaID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []model.MangaReport
	if err := query.Preload("Reporter").Preload("Manga").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// GetMyReports 获取用户自己提交的举报
func (s *ReportService) GetMyReports(userID uint, page, pageSize int) ([]model.MangaReport, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.Model(&model.MangaReport{}).Where("reporter_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []model.MangaReport
	if err := query.Preload("Manga").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// GetAdminNotifications 分页获取管理员通知，仅管理员可用
func (s *ReportService) GetAdminNotifications(role string, page, pageSize int, unread bool) ([]model.AdminNotification, int64, error) {
	if role != "admin" {
		return nil, 0, errors.New("没有权限查看管理员通知")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.Model(&model.AdminNotification{})
	if unread {
		query = query.Where("is_read = ?", 0)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []model.AdminNotification
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// MarkAdminNotificationsRead 标记管理员通知已读，重复标记为空操作
func (s *ReportService) MarkAdminNotificationsRead(role string, ids []uint) (int64, error) {
	if role != "admin" {
		return 0, errors.New("没有权限操作管理员通知")
	}

	result := s.db.Model(&model.AdminNotification{}).
		Where("id IN ? AND is_read = ?", ids, 0).
		Update("is_read", 1)
	return result.RowsAffected, result.Error
}
