package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/internal/model"
	"github.com/nsxzhou1114/manga-api/pkg/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	commentService     *CommentService
	commentServiceOnce sync.Once
)

// CommentService 章节评论与订阅服务
type CommentService struct {
	db        *gorm.DB
	logger    *zap.SugaredLogger
	sanitizer *bluemonday.Policy
}

func NewCommentService() *CommentService {
	commentServiceOnce.Do(func() {
		commentService = &CommentService{
			db:        database.GetDB(),
			logger:    logger.GetSugaredLogger(),
			sanitizer: bluemonday.StrictPolicy(),
		}
	})
	return commentService
}

// CommentTopic 章节评论的推送主题
func CommentTopic(mangaID uint, chapter int) string {
	return fmt.Sprintf("comments:%d:%d", mangaID, chapter)
}

// CreateComment 发表评论并在同一事务内为订阅者生成通知
// 任何一步失败整体回滚，不会出现有评论无通知的状态
func (s *CommentService) CreateComment(userID uint, req *dto.CommentCreateRequest) (*model.Comment, error) {
	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" {
		return nil, errors.New("评论内容不能为空")
	}

	// 评论只冗余记录章节号，不校验章节行是否存在
	var count int64
	if err := s.db.Model(&model.Manga{}).Where("id = ?", req.MangaID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("漫画不存在")
	}

	comment := &model.Comment{
		MangaID: req.MangaID,
		Chapter: req.Chapter,
		UserID:  userID,
		Content: content,
	}

	var recipients []uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		// 订阅者扣除评论作者本人
		if err := tx.Model(&model.CommentSubscription{}).
			Where("manga_id = ? AND chapter = ? AND user_id != ?", req.MangaID, req.Chapter, userID).
			Pluck("user_id", &recipients).Error; err != nil {
			return err
		}

		if len(recipients) == 0 {
			return nil
		}

		notifications := make([]model.CommentNotification, 0, len(recipients))
		for _, recipient := range recipients {
			notifications = append(notifications, model.CommentNotification{
				UserID:    recipient,
				CommentID: comment.ID,
			})
		}
		return tx.Create(&notifications).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(comment, comment.ID).Error; err != nil {
		return nil, err
	}

	// 事务提交后才推送
	go s.pushComment(comment, recipients)

	return comment, nil
}

// pushComment 推送新评论到主题订阅者，并给订阅通知的接收者单独推送
func (s *CommentService) pushComment(comment *model.Comment, recipients []uint) {
	ctx := context.Background()
	manager := websocket.GetManager()

	topic := CommentTopic(comment.MangaID, comment.Chapter)
	if err := manager.Broadcast(topic, "comment", comment); err != nil {
		s.logger.Errorf("推送评论到主题 %s 失败: %v", topic, err)
	}

	if len(recipients) > 0 {
		if err := manager.SendToUsers(ctx, recipients, "notification", comment); err != nil {
			s.logger.Errorf("推送评论通知失败: %v", err)
		}
	}
}

// GetComments 分页获取章节评论，按时间倒序
func (s *CommentService) GetComments(req *dto.CommentListRequest) ([]model.Comment, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.Model(&model.Comment{}).
		Where("manga_id = ? AND chapter = ?", req.MangaID, req.Chapter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// DeleteComment 删除评论，仅作者或管理员可用
func (s *CommentService) DeleteComment(userID uint, role string, commentID uint) error {
	var comment model.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("评论不存在")
		}
		return err
	}

	if role != "admin" && comment.UserID != userID {
		return errors.New("没有权限删除该评论")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&model.CommentNotification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}

// Subscribe 订阅章节评论，重复订阅不报错也不产生新行
func (s *CommentService) Subscribe(userID uint, req *dto.SubscribeRequest) error {
	var count int64
	if err := s.db.Model(&model.Manga{}).Where("id = ?", req.MangaID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("漫画不存在")
	}

	sub := model.CommentSubscription{
		UserID:  userID,
		MangaID: req.MangaID,
		Chapter: req.Chapter,
	}
	return s.db.Where("user_id = ? AND manga_id = ? AND chapter = ?", userID, req.MangaID, req.Chapter).
		FirstOrCreate(&sub).Error
}

// Unsubscribe 取消订阅，未订阅时为空操作
func (s *CommentService) Unsubscribe(userID uint, req *dto.SubscribeRequest) error {
	return s.db.Where("user_id = ? AND manga_id = ? AND chapter = ?", userID, req.MangaID, req.Chapter).
		Delete(&model.CommentSubscription{}).Error
}

// IsSubscribed 查询用户是否订阅了章节评论
func (s *CommentService) IsSubscribed(userID, mangaID uint, chapter int) (bool, error) {
	var count int64
	if err := s.db.Model(&model.CommentSubscription{}).
		Where("user_id = ? AND manga_id = ? AND chapter = ?", userID, mangaID, chapter).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
