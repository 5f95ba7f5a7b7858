package service

import (
	"testing"

	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/model"
)

func TestCreateMangaPermission(t *testing.T) {
	resetTables(t)
	svc := NewMangaService()

	user := createTestUser(t, "viewer", "user")
	admin := createTestUser(t, "chief", "admin")

	if _, err := svc.CreateManga(user.ID, "user", &dto.MangaCreateRequest{Title: "蜡笔小新"}); err == nil {
		t.Errorf("普通用户创建漫画应被拒绝")
	}

	manga, err := svc.CreateManga(admin.ID, "admin", &dto.MangaCreateRequest{
		Title:  "蜡笔小新",
		Author: "臼井仪人",
	})
	if err != nil {
		t.Fatalf("管理员创建漫画失败: %v", err)
	}
	if manga.Status != "ongoing" {
		t.Errorf("缺省状态应为ongoing，实际 %s", manga.Status)
	}
	if manga.CreatorID != admin.ID {
		t.Errorf("创建者应为当前用户")
	}

	// 同名漫画
	if _, err := svc.CreateManga(admin.ID, "admin", &dto.MangaCreateRequest{Title: "蜡笔小新"}); err == nil {
		t.Errorf("同名漫画应被拒绝")
	}
}

func TestCreateMangaWithGenres(t *testing.T) {
	resetTables(t)
	svc := NewMangaService()

	admin := createTestUser(t, "curator", "admin")
	g1, err := svc.CreateGenre("admin", &dto.GenreCreateRequest{Name: "少年"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	g2, err := svc.CreateGenre("admin", &dto.GenreCreateRequest{Name: "冒险"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}

	manga, err := svc.CreateManga(admin.ID, "admin", &dto.MangaCreateRequest{
		Title:    "猎人",
		GenreIDs: []uint{g1.ID, g2.ID},
	})
	if err != nil {
		t.Fatalf("创建漫画失败: %v", err)
	}
	if len(manga.Genres) != 2 {
		t.Errorf("漫画应关联2个分类，实际 %d", len(manga.Genres))
	}

	// 不存在的分类
	if _, err := svc.CreateManga(admin.ID, "admin", &dto.MangaCreateRequest{
		Title:    "猎人2",
		GenreIDs: []uint{g1.ID, 999},
	}); err == nil {
		t.Errorf("不存在的分类应被拒绝")
	}
}

func TestUpdateMangaPermission(t *testing.T) {
	resetTables(t)
	svc := NewMangaService()

	creator := createTestUser(t, "maker", "user")
	other := createTestUser(t, "passerby", "user")
	manga := createTestManga(t, "乱马", creator.ID)

	// 非创建者非管理员
	if _, err := svc.UpdateManga(other.ID, "user", manga.ID, &dto.MangaUpdateRequest{Title: "乱马1/2"}); err == nil {
		t.Errorf("非创建者修改应被拒绝")
	}

	// 创建者可以修改自己的漫画
	updated, err := svc.UpdateManga(creator.ID, "user", manga.ID, &dto.MangaUpdateRequest{Title: "乱马1/2"})
	if err != nil {
		t.Fatalf("创建者修改失败: %v", err)
	}
	if updated.Title != "乱马1/2" {
		t.Errorf("标题未更新: %s", updated.Title)
	}
}

func TestDeleteMangaCascade(t *testing.T) {
	resetTables(t)
	svc := NewMangaService()

	creator := createTestUser(t, "cleaner", "user")
	manga := createTestManga(t, "幽游白书", creator.ID)
	createTestChapter(t, manga.ID, 1)
	createTestChapter(t, manga.ID, 2)

	// 创建者也不能删除，仅管理员
	if err := svc.DeleteManga("user", manga.ID); err == nil {
		t.Errorf("非管理员删除漫画应被拒绝")
	}

	if err := svc.DeleteManga("admin", manga.ID); err != nil {
		t.Fatalf("管理员删除漫画失败: %v", err)
	}

	var chapterCount int64
	testDB.Model(&model.Chapter{}).Where("manga_id = ?", manga.ID).Count(&chapterCount)
	if chapterCount != 0 {
		t.Errorf("删除漫画应级联删除章节，剩余 %d 条", chapterCount)
	}
	if _, err := svc.GetMangaByID(manga.ID); err == nil {
		t.Errorf("漫画应已删除")
	}
}

func TestMangaListFilters(t *testing.T) {
	resetTables(t)
	svc := NewMangaService()

	admin := createTestUser(t, "librarian", "admin")
	genre, err := svc.CreateGenre("admin", &dto.GenreCreateRequest{Name: "运动"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}

	if _, err := svc.CreateManga(admin.ID, "admin", &dto.MangaCreateRequest{
		Title:    "足球小将",
		Status:   "completed",
		GenreIDs: []uint{genre.ID},
	}); err != nil {
		t.Fatalf("创建漫画失败: %v", err)
	}
	if _, err := svc.CreateManga(admin.ID, "admin", &dto.MangaCreateRequest{
		Title:  "网球王子",
		Status: "ongoing",
	}); err != nil {
		t.Fatalf("创建漫画失败: %v", err)
	}

	// 关键词过滤
	list, total, err := svc.GetMangaList(&dto.MangaListRequest{Keyword: "足球"})
	if err != nil {
		t.Fatalf("关键词查询失败: %v", err)
	}
	if total != 1 || list[0].Title != "足球小将" {
		t.Errorf("关键词过滤结果错误: total=%d", total)
	}

	// 状态过滤
	_, total, err = svc.GetMangaList(&dto.MangaListRequest{Status: "ongoing"})
	if err != nil {
		t.Fatalf("状态查询失败: %v", err)
	}
	if total != 1 {
		t.Errorf("状态过滤应返回1条，实际 %d", total)
	}

	// 分类过滤
	_, total, err = svc.GetMangaList(&dto.MangaListRequest{GenreID: genre.ID})
	if err != nil {
		t.Fatalf("分类查询失败: %v", err)
	}
	if total != 1 {
		t.Errorf("分类过滤应返回1条，实际 %d", total)
	}
}

func TestCreateGenreDuplicate(t *testing.T) {
	resetTables(t)
	svc := NewMangaService()

	if _, err := svc.CreateGenre("user", &dto.GenreCreateRequest{Name: "恋爱"}); err == nil {
		t.Errorf("普通用户创建分类应被拒绝")
	}
	if _, err := svc.CreateGenre("admin", &dto.GenreCreateRequest{Name: "恋爱"}); err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	if _, err := svc.CreateGenre("admin", &dto.GenreCreateRequest{Name: "恋爱"}); err == nil {
		t.Errorf("重复分类应被拒绝")
	}
}
