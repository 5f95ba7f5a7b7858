package service

import (
	"testing"

	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/model"
)

func subscribeChapter(t *testing.T, svc *CommentService, userID, mangaID uint, chapter int) {
	t.Helper()
	if err := svc.Subscribe(userID, &dto.SubscribeRequest{MangaID: mangaID, Chapter: chapter}); err != nil {
		t.Fatalf("订阅失败: %v", err)
	}
}

func TestCreateCommentFanOut(t *testing.T) {
	resetTables(t)
	svc := NewCommentService()

	author := createTestUser(t, "author", "user")
	reader1 := createTestUser(t, "reader1", "user")
	reader2 := createTestUser(t, "reader2", "user")
	manga := createTestManga(t, "灌篮高手", author.ID)
	createTestChapter(t, manga.ID, 1)

	// 作者自己和两个读者都订阅了第1话
	subscribeChapter(t, svc, author.ID, manga.ID, 1)
	subscribeChapter(t, svc, reader1.ID, manga.ID, 1)
	subscribeChapter(t, svc, reader2.ID, manga.ID, 1)

	comment, err := svc.CreateComment(author.ID, &dto.CommentCreateRequest{
		MangaID: manga.ID,
		Chapter: 1,
		Content: "名场面",
	})
	if err != nil {
		t.Fatalf("发表评论失败: %v", err)
	}

	// 通知只发给作者之外的订阅者
	var notifications []model.CommentNotification
	if err := testDB.Where("comment_id = ?", comment.ID).Find(&notifications).Error; err != nil {
		t.Fatalf("查询通知失败: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("期望2条通知，实际 %d 条", len(notifications))
	}
	recipients := map[uint]bool{}
	for _, n := range notifications {
		if n.IsRead != 0 {
			t.Errorf("新通知应为未读")
		}
		recipients[n.UserID] = true
	}
	if recipients[author.ID] {
		t.Errorf("评论作者不应收到通知")
	}
	if !recipients[reader1.ID] || !recipients[reader2.ID] {
		t.Errorf("订阅者应收到通知: %v", recipients)
	}
}

func TestCreateCommentNoSubscribers(t *testing.T) {
	resetTables(t)
	svc := NewCommentService()

	author := createTestUser(t, "solo", "user")
	manga := createTestManga(t, "海贼王", author.ID)
	createTestChapter(t, manga.ID, 3)

	comment, err := svc.CreateComment(author.ID, &dto.CommentCreateRequest{
		MangaID: manga.ID,
		Chapter: 3,
		Content: "第一条评论",
	})
	if err != nil {
		t.Fatalf("发表评论失败: %v", err)
	}

	var count int64
	testDB.Model(&model.CommentNotification{}).Where("comment_id = ?", comment.ID).Count(&count)
	if count != 0 {
		t.Fatalf("无订阅者时不应产生通知，实际 %d 条", count)
	}
}

func TestCreateCommentUnknownChapterNumber(t *testing.T) {
	resetTables(t)
	svc := NewCommentService()

	author := createTestUser(t, "early", "user")
	manga := createTestManga(t, "葬送的芙莉莲", author.ID)

	// 评论只记录章节号，允许评论尚未上架的章节
	comment, err := svc.CreateComment(author.ID, &dto.CommentCreateRequest{
		MangaID: manga.ID,
		Chapter: 120,
		Content: "等更新",
	})
	if err != nil {
		t.Fatalf("评论未上架章节失败: %v", err)
	}
	if comment.Chapter != 120 {
		t.Errorf("章节号记录错误: %d", comment.Chapter)
	}
}

func TestCreateCommentValidation(t *testing.T) {
	resetTables(t)
	svc := NewCommentService()

	author := createTestUser(t, "writer", "user")
	manga := createTestManga(t, "进击的巨人", author.ID)
	createTestChapter(t, manga.ID, 1)

	tests := []struct {
		name    string
		mangaID uint
		chapter int
		content string
	}{
		{"空内容", manga.ID, 1, "   "},
		{"纯HTML内容", manga.ID, 1, "<script>alert(1)</script>"},
		{"漫画不存在", 999, 1, "好看"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateComment(author.ID, &dto.CommentCreateRequest{
				MangaID: tt.mangaID,
				Chapter: tt.chapter,
				Content: tt.content,
			})
			if err == nil {
				t.Errorf("期望返回错误")
			}
		})
	}
}

func TestSubscribeIdempotent(t *testing.T) {
	resetTables(t)
	svc := NewCommentService()

	user := createTestUser(t, "dup", "user")
	manga := createTestManga(t, "火影忍者", user.ID)
	createTestChapter(t, manga.ID, 1)

	subscribeChapter(t, svc, user.ID, manga.ID, 1)
	subscribeChapter(t, svc, user.ID, manga.ID, 1)

	var count int64
	testDB.Model(&model.CommentSubscription{}).
		Where("user_id = ? AND manga_id = ? AND chapter = ?", user.ID, manga.ID, 1).
		Count(&count)
	if count != 1 {
		t.Fatalf("重复订阅应只保留一行，实际 %d 行", count)
	}

	subscribed, err := svc.IsSubscribed(user.ID, manga.ID, 1)
	if err != nil {
		t.Fatalf("查询订阅状态失败: %v", err)
	}
	if !subscribed {
		t.Errorf("应处于订阅状态")
	}
}

func TestUnsubscribeNoop(t *testing.T) {
	resetTables(t)
	svc := NewCommentService()

	user := createTestUser(t, "nobody", "user")
	manga := createTestManga(t, "死神", user.ID)
	createTestChapter(t, manga.ID, 1)

	// 未订阅时取消订阅不报错
	if err := svc.Unsubscribe(user.ID, &dto.SubscribeRequest{MangaID: manga.ID, Chapter: 1}); err != nil {
		t.Fatalf("取消订阅不应报错: %v", err)
	}

	subscribeChapter(t, svc, user.ID, manga.ID, 1)
	if err := svc.Unsubscribe(user.ID, &dto.SubscribeRequest{MangaID: manga.ID, Chapter: 1}); err != nil {
		t.Fatalf("取消订阅失败: %v", err)
	}

	subscribed, err := svc.IsSubscribed(user.ID, manga.ID, 1)
	if err != nil {
		t.Fatalf("查询订阅状态失败: %v", err)
	}
	if subscribed {
		t.Errorf("取消后不应处于订阅状态")
	}
}

func TestDeleteCommentPermission(t *testing.T) {
	resetTables(t)
	svc := NewCommentService()

	author := createTestUser(t, "owner", "user")
	other := createTestUser(t, "other", "user")
	admin := createTestUser(t, "root", "admin")
	manga := createTestManga(t, "钢之炼金术师", author.ID)
	createTestChapter(t, manga.ID, 1)

	comment, err := svc.CreateComment(author.ID, &dto.CommentCreateRequest{
		MangaID: manga.ID,
		Chapter: 1,
		Content: "等价交换",
	})
	if err != nil {
		t.Fatalf("发表评论失败: %v", err)
	}

	if err := svc.DeleteComment(other.ID, "user", comment.ID); err == nil {
		t.Errorf("非作者删除评论应被拒绝")
	}
	if err := svc.DeleteComment(admin.ID, "admin", comment.ID); err != nil {
		t.Errorf("管理员删除评论失败: %v", err)
	}

	var count int64
	testDB.Model(&model.Comment{}).Where("id = ?", comment.ID).Count(&count)
	if count != 0 {
		t.Errorf("评论应已删除")
	}
}
