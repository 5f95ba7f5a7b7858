package service

import (
	"sync"
	"time"

	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	notificationService     *NotificationService
	notificationServiceOnce sync.Once
)

// NotificationService 评论通知服务
type NotificationService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewNotificationService() *NotificationService {
	notificationServiceOnce.Do(func() {
		notificationService = &NotificationService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return notificationService
}

// GetNotifications 分页获取用户通知
func (s *NotificationService) GetNotifications(userID uint, req *dto.NotificationListRequest) ([]model.CommentNotification, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.Model(&model.CommentNotification{}).Where("user_id = ?", userID)
	if req.Unread {
		query = query.Where("is_read = ?", 0)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []model.CommentNotification
	if err := query.Preload("Comment").Preload("Comment.User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// GetUnreadCount 获取未读通知数量
func (s *NotificationService) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.CommentNotification{}).
		Where("user_id = ? AND is_read = ?", userID, 0).
		Count(&count).Error
	return count, err
}

// MarkAsRead 标记通知已读，重复标记为空操作，只能标记自己的通知
func (s *NotificationService) MarkAsRead(userID uint, ids []uint) (int64, error) {
	result := s.db.Model(&model.CommentNotification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, ids, 0).
		Update("is_read", 1)
	return result.RowsAffected, result.Error
}

// MarkAllAsRead 标记全部通知已读
func (s *NotificationService) MarkAllAsRead(userID uint) (int64, error) {
	result := s.db.Model(&model.CommentNotification{}).
		Where("user_id = ? AND is_read = ?", userID, 0).
		Update("is_read", 1)
	return result.RowsAffected, result.Error
}

// CleanupReadNotifications 清理指定天数前的已读通知，定时任务调用
func (s *NotificationService) CleanupReadNotifications(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := s.db.Where("is_read = ? AND updated_at < ?", 1, cutoff).
		Delete(&model.CommentNotification{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		s.logger.Infof("已清理 %d 条过期通知", result.RowsAffected)
	}
	return result.RowsAffected, result.Error
}
