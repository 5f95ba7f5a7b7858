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
	chapterService     *ChapterService
	chapterServiceOnce sync.Once
)

// ChapterService 章节服务
type ChapterService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewChapterService() *ChapterService {
	chapterServiceOnce.Do(func() {
		chapterService = &ChapterService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return chapterService
}

// canManage 检查用户是否可以管理该漫画的章节
func (s *ChapterService) canManage(userID uint, role string, manga *model.Manga) bool {
	return role == "admin" || manga.CreatorID == userID
}

// CreateChapter 创建章节，同一漫画内章节号唯一
func (s *ChapterService) CreateChapter(userID uint, role string, mangaID uint, req *dto.ChapterCreateRequest) (*model.Chapter, error) {
	var manga model.Manga
	if err := s.db.First(&manga, mangaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("漫画不存在")
		}
		return nil, err
	}

	if !s.canManage(userID, role, &manga) {
		return nil, errors.New("没有权限管理该漫画的章节")
	}

	var count int64
	if err := s.db.Model(&model.Chapter{}).
		Where("manga_id = ? AND number = ?", mangaID, req.Number).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("章节号已存在")
	}

	chapter := &model.Chapter{
		MangaID: mangaID,
		Number:  req.Number,
		Title:   req.Title,
		Pages:   req.Pages,
	}

	if err := s.db.Create(chapter).Error; err != nil {
		return nil, err
	}

	return chapter, nil
}

// UpdateChapter 更新章节
func (s *ChapterService) UpdateChapter(userID uint, role string, mangaID uint, number int, req *dto.ChapterUpdateRequest) (*model.Chapter, error) {
	var manga model.Manga
	if err := s.db.First(&manga, mangaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("漫画不存在")
		}
		return nil, err
	}

	if !s.canManage(userID, role, &manga) {
		return nil, errors.New("没有权限管理该漫画的章节")
	}

	chapter, err := s.GetChapter(mangaID, number)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Title != "" {
		chapter.Title = req.Title
		changed = true
	}
	if req.Pages != nil {
		if len(req.Pages) == 0 {
			return nil, errors.New("章节页面不能为空")
		}
		chapter.Pages = req.Pages
		changed = true
	}

	if changed {
		if err := s.db.Save(chapter).Error; err != nil {
			return nil, err
		}
	}

	return chapter, nil
}

// DeleteChapter 删除章节
func (s *ChapterService) DeleteChapter(userID uint, role string, mangaID uint, number int) error {
	var manga model.Manga
	if err := s.db.First(&manga, mangaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("漫画不存在")
		}
		return err
	}

	if !s.canManage(userID, role, &manga) {
		return errors.New("没有权限管理该漫画的章节")
	}

	result := s.db.Where("manga_id = ? AND number = ?", mangaID, number).Delete(&model.Chapter{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("章节不存在")
	}
	return nil
}

// GetChapter 获取指定章节
func (s *ChapterService) GetChapter(mangaID uint, number int) (*model.Chapter, error) {
	var chapter model.Chapter
	if err := s.db.Where("manga_id = ? AND number = ?", mangaID, number).First(&chapter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("章节不存在")
		}
		return nil, err
	}
	return &chapter, nil
}

// GetChapterList 获取漫画的章节列表，按章节号升序
func (s *ChapterService) GetChapterList(mangaID uint) ([]model.Chapter, error) {
	var count int64
	if err := s.db.Model(&model.Manga{}).Where("id = ?", mangaID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("漫画不存在")
	}

	var chapters []model.Chapter
	if err := s.db.Where("manga_id = ?", mangaID).Order("number ASC").Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}
