package service

import (
	"errors"
	"sync"

	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	libraryService     *LibraryService
	libraryServiceOnce sync.Once
)

// LibraryService 用户书架服务
type LibraryService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewLibraryService() *LibraryService {
	libraryServiceOnce.Do(func() {
		libraryService = &LibraryService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return libraryService
}

// Upsert 写入书架进度，同一(用户,漫画)只保留一行
func (s *LibraryService) Upsert(userID uint, req *dto.LibraryUpsertRequest) (*model.LibraryEntry, error) {
	var count int64
	if err := s.db.Model(&model.Manga{}).Where("id = ?", req.MangaID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("漫画不存在")
	}

	var entry model.LibraryEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND manga_id = ?", userID, req.MangaID).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = model.LibraryEntry{
				UserID:         userID,
				MangaID:        req.MangaID,
				Status:         req.Status,
				CurrentChapter: req.CurrentChapter,
			}
			if entry.Status == "" {
				entry.Status = "reading"
			}
			return tx.Create(&entry).Error
		}
		if err != nil {
			return err
		}

		if req.Status != "" {
			entry.Status = req.Status
		}
		entry.CurrentChapter = req.CurrentChapter
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// GetList 获取用户书架，只返回本人的条目
func (s *LibraryService) GetList(userID uint, req *dto.LibraryListRequest) ([]model.LibraryEntry, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.Model(&model.LibraryEntry{}).Where("user_id = ?", userID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.LibraryEntry
	if err := query.Preload("Manga").
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// GetEntry 获取用户对某部漫画的进度
func (s *LibraryService) GetEntry(userID, mangaID uint) (*model.LibraryEntry, error) {
	var entry model.LibraryEntry
	if err := s.db.Where("user_id = ? AND manga_id = ?", userID, mangaID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("书架中没有该漫画")
		}
		return nil, err
	}
	return &entry, nil
}

// Remove 从书架移除漫画
func (s *LibraryService) Remove(userID, mangaID uint) error {
	result := s.db.Where("user_id = ? AND manga_id = ?", userID, mangaID).Delete(&model.LibraryEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("书架中没有该漫画")
	}
	return nil
}
