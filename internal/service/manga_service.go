package service

import (
	"errors"
	"strings"
	"sync"

	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	mangaService     *MangaService
	mangaServiceOnce sync.Once
)

// MangaService 漫画目录服务
type MangaService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewMangaService() *MangaService {
	mangaServiceOnce.Do(func() {
		mangaService = &MangaService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return mangaService
}

// CreateManga 创建漫画，仅管理员可用
func (s *MangaService) CreateManga(userID uint, role string, req *dto.MangaCreateRequest) (*model.Manga, error) {
	if role != "admin" {
		return nil, errors.New("没有权限创建漫画")
	}

	var count int64
	if err := s.db.Model(&model.Manga{}).Where("title = ?", req.Title).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("同名漫画已存在")
	}

	status := req.Status
	if status == "" {
		status = "ongoing"
	}

	manga := &model.Manga{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Cover:       req.Cover,
		Status:      status,
		Rating:      req.Rating,
		CreatorID:   userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(manga).Error; err != nil {
			return err
		}
		if len(req.GenreIDs) > 0 {
			var genres []model.Genre
			if err := tx.Where("id IN ?", req.GenreIDs).Find(&genres).Error; err != nil {
				return err
			}
			if len(genres) != len(req.GenreIDs) {
				return errors.New("包含不存在的分类")
			}
			if err := tx.Model(manga).Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetMangaByID(manga.ID)
}

// UpdateManga 更新漫画，仅管理员或创建者可用
func (s *MangaService) UpdateManga(userID uint, role string, mangaID uint, req *dto.MangaUpdateRequest) (*model.Manga, error) {
	manga, err := s.GetMangaByID(mangaID)
	if err != nil {
		return nil, err
	}

	if role != "admin" && manga.CreatorID != userID {
		return nil, errors.New("没有权限修改该漫画")
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Author != "" {
		updates["author"] = req.Author
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Cover != "" {
		updates["cover"] = req.Cover
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(manga).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.GenreIDs != nil {
			var genres []model.Genre
			if err := tx.Where("id IN ?", req.GenreIDs).Find(&genres).Error; err != nil {
				return err
			}
			if len(genres) != len(req.GenreIDs) {
				return errors.New("包含不存在的分类")
			}
			if err := tx.Model(manga).Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetMangaByID(mangaID)
}

// DeleteManga 删除漫画及其章节，仅管理员可用
func (s *MangaService) DeleteManga(role string, mangaID uint) error {
	if role != "admin" {
		return errors.New("没有权限删除漫画")
	}

	manga, err := s.GetMangaByID(mangaID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("manga_id = ?", mangaID).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Model(manga).Association("Genres").Clear(); err != nil {
			return err
		}
		return tx.Delete(manga).Error
	})
}

// GetMangaByID 获取漫画详情
func (s *MangaService) GetMangaByID(id uint) (*model.Manga, error) {
	var manga model.Manga
	if err := s.db.Preload("Genres").First(&manga, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("漫画不存在")
		}
		return nil, err
	}
	return &manga, nil
}

// GetMangaList 分页查询漫画列表
func (s *MangaService) GetMangaList(req *dto.MangaListRequest) ([]model.Manga, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query := s.db.Model(&model.Manga{})

	if req.Keyword != "" {
		kw := "%" + req.Keyword + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", kw, kw)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.GenreID > 0 {
		query = query.Joins("JOIN manga_genres ON manga_genres.manga_id = mangas.id").
			Where("manga_genres.genre_id = ?", req.GenreID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := "created_at"
	if req.SortBy != "" {
		orderBy = req.SortBy
	}
	order := "DESC"
	if req.Order != "" {
		order = strings.ToUpper(req.Order)
	}

	var mangas []model.Manga
	if err := query.Preload("Genres").
		Order(orderBy + " " + order).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&mangas).Error; err != nil {
		return nil, 0, err
	}

	return mangas, total, nil
}

// CreateGenre 创建分类，仅管理员可用
func (s *MangaService) CreateGenre(role string, req *dto.GenreCreateRequest) (*model.Genre, error) {
	if role != "admin" {
		return nil, errors.New("没有权限创建分类")
	}

	var count int64
	if err := s.db.Model(&model.Genre{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("分类已存在")
	}

	genre := &model.Genre{Name: req.Name}
	if err := s.db.Create(genre).Error; err != nil {
		return nil, err
	}
	return genre, nil
}

// GetGenreList 获取全部分类
func (s *MangaService) GetGenreList() ([]model.Genre, error) {
	var genres []model.Genre
	if err := s.db.Order("name ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}
