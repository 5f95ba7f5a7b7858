package service

import (
	"testing"

	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/model"
)

func TestLibraryUpsertSingleRow(t *testing.T) {
	resetTables(t)
	svc := NewLibraryService()

	user := createTestUser(t, "shelf", "user")
	manga := createTestManga(t, "棋魂", user.ID)

	entry, err := svc.Upsert(user.ID, &dto.LibraryUpsertRequest{
		MangaID:        manga.ID,
		CurrentChapter: 1,
	})
	if err != nil {
		t.Fatalf("写入书架失败: %v", err)
	}
	if entry.Status != "reading" {
		t.Errorf("默认状态应为reading，实际 %s", entry.Status)
	}

	// 重复写入只更新，不新增
	entry, err = svc.Upsert(user.ID, &dto.LibraryUpsertRequest{
		MangaID:        manga.ID,
		Status:         "completed",
		CurrentChapter: 12,
	})
	if err != nil {
		t.Fatalf("更新书架失败: %v", err)
	}
	if entry.Status != "completed" || entry.CurrentChapter != 12 {
		t.Errorf("书架条目未更新: %+v", entry)
	}

	var count int64
	testDB.Model(&model.LibraryEntry{}).
		Where("user_id = ? AND manga_id = ?", user.ID, manga.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("同一(用户,漫画)应只有1行，实际 %d 行", count)
	}
}

func TestLibraryUpsertUnknownManga(t *testing.T) {
	resetTables(t)
	svc := NewLibraryService()

	user := createTestUser(t, "ghost", "user")

	if _, err := svc.Upsert(user.ID, &dto.LibraryUpsertRequest{MangaID: 999}); err == nil {
		t.Errorf("漫画不存在时应报错")
	}
}

func TestLibraryListOnlyOwn(t *testing.T) {
	resetTables(t)
	svc := NewLibraryService()

	alice := createTestUser(t, "alice", "user")
	bob := createTestUser(t, "bob", "user")
	m1 := createTestManga(t, "漫画A", alice.ID)
	m2 := createTestManga(t, "漫画B", alice.ID)

	if _, err := svc.Upsert(alice.ID, &dto.LibraryUpsertRequest{MangaID: m1.ID}); err != nil {
		t.Fatalf("写入书架失败: %v", err)
	}
	if _, err := svc.Upsert(alice.ID, &dto.LibraryUpsertRequest{MangaID: m2.ID}); err != nil {
		t.Fatalf("写入书架失败: %v", err)
	}
	if _, err := svc.Upsert(bob.ID, &dto.LibraryUpsertRequest{MangaID: m1.ID}); err != nil {
		t.Fatalf("写入书架失败: %v", err)
	}

	entries, total, err := svc.GetList(alice.ID, &dto.LibraryListRequest{})
	if err != nil {
		t.Fatalf("查询书架失败: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Errorf("alice的书架应有2条，实际 %d 条", total)
	}
	for _, e := range entries {
		if e.UserID != alice.ID {
			t.Errorf("书架列表混入他人条目")
		}
	}
}

func TestLibraryRemove(t *testing.T) {
	resetTables(t)
	svc := NewLibraryService()

	user := createTestUser(t, "remover", "user")
	manga := createTestManga(t, "浪客行", user.ID)

	if _, err := svc.Upsert(user.ID, &dto.LibraryUpsertRequest{MangaID: manga.ID}); err != nil {
		t.Fatalf("写入书架失败: %v", err)
	}

	if err := svc.Remove(user.ID, manga.ID); err != nil {
		t.Fatalf("移除失败: %v", err)
	}
	if err := svc.Remove(user.ID, manga.ID); err == nil {
		t.Errorf("重复移除应报错")
	}
	if _, err := svc.GetEntry(user.ID, manga.ID); err == nil {
		t.Errorf("移除后不应再查到条目")
	}
}
