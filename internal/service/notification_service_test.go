package service

import (
	"testing"
	"time"

	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/model"
)

func createTestNotification(t *testing.T, userID, commentID uint, isRead int) *model.CommentNotification {
	t.Helper()
	n := &model.CommentNotification{
		UserID:    userID,
		CommentID: commentID,
		IsRead:    isRead,
	}
	if err := testDB.Create(n).Error; err != nil {
		t.Fatalf("创建测试通知失败: %v", err)
	}
	return n
}

func TestMarkAsReadIdempotent(t *testing.T) {
	resetTables(t)
	svc := NewNotificationService()

	user := createTestUser(t, "ntf", "user")
	n1 := createTestNotification(t, user.ID, 1, 0)
	n2 := createTestNotification(t, user.ID, 2, 0)

	updated, err := svc.MarkAsRead(user.ID, []uint{n1.ID, n2.ID})
	if err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	if updated != 2 {
		t.Errorf("首次标记应更新2行，实际 %d", updated)
	}

	// 重复标记为空操作
	updated, err = svc.MarkAsRead(user.ID, []uint{n1.ID, n2.ID})
	if err != nil {
		t.Fatalf("重复标记失败: %v", err)
	}
	if updated != 0 {
		t.Errorf("重复标记应更新0行，实际 %d", updated)
	}
}

func TestMarkAsReadOnlyOwn(t *testing.T) {
	resetTables(t)
	svc := NewNotificationService()

	owner := createTestUser(t, "mine", "user")
	stranger := createTestUser(t, "theirs", "user")
	n := createTestNotification(t, owner.ID, 1, 0)

	// 他人无法标记别人的通知
	updated, err := svc.MarkAsRead(stranger.ID, []uint{n.ID})
	if err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	if updated != 0 {
		t.Errorf("不应标记他人的通知，实际更新 %d 行", updated)
	}

	count, err := svc.GetUnreadCount(owner.ID)
	if err != nil {
		t.Fatalf("查询未读数失败: %v", err)
	}
	if count != 1 {
		t.Errorf("通知应仍为未读，未读数 %d", count)
	}
}

func TestUnreadCountAndList(t *testing.T) {
	resetTables(t)
	svc := NewNotificationService()

	user := createTestUser(t, "lister", "user")
	createTestNotification(t, user.ID, 1, 0)
	createTestNotification(t, user.ID, 2, 0)
	createTestNotification(t, user.ID, 3, 1)

	count, err := svc.GetUnreadCount(user.ID)
	if err != nil {
		t.Fatalf("查询未读数失败: %v", err)
	}
	if count != 2 {
		t.Errorf("未读数应为2，实际 %d", count)
	}

	unread, total, err := svc.GetNotifications(user.ID, &dto.NotificationListRequest{Unread: true})
	if err != nil {
		t.Fatalf("查询未读通知失败: %v", err)
	}
	if total != 2 || len(unread) != 2 {
		t.Errorf("未读列表应有2条，实际 %d 条", total)
	}

	all, total, err := svc.GetNotifications(user.ID, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("查询全部通知失败: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Errorf("全部列表应有3条，实际 %d 条", total)
	}
}

func TestMarkAllAsRead(t *testing.T) {
	resetTables(t)
	svc := NewNotificationService()

	user := createTestUser(t, "all", "user")
	createTestNotification(t, user.ID, 1, 0)
	createTestNotification(t, user.ID, 2, 0)
	createTestNotification(t, user.ID, 3, 1)

	updated, err := svc.MarkAllAsRead(user.ID)
	if err != nil {
		t.Fatalf("全部标记已读失败: %v", err)
	}
	if updated != 2 {
		t.Errorf("应更新2行，实际 %d", updated)
	}

	count, err := svc.GetUnreadCount(user.ID)
	if err != nil {
		t.Fatalf("查询未读数失败: %v", err)
	}
	if count != 0 {
		t.Errorf("未读数应为0，实际 %d", count)
	}
}

func TestCleanupReadNotifications(t *testing.T) {
	resetTables(t)
	svc := NewNotificationService()

	user := createTestUser(t, "cleanup", "user")
	old := createTestNotification(t, user.ID, 1, 1)
	fresh := createTestNotification(t, user.ID, 2, 1)
	unread := createTestNotification(t, user.ID, 3, 0)

	// 把一条已读通知改成40天前
	oldTime := time.Now().AddDate(0, 0, -40)
	if err := testDB.Model(&model.CommentNotification{}).Where("id = ?", old.ID).
		Update("updated_at", oldTime).Error; err != nil {
		t.Fatalf("修改通知时间失败: %v", err)
	}

	deleted, err := svc.CleanupReadNotifications(30)
	if err != nil {
		t.Fatalf("清理通知失败: %v", err)
	}
	if deleted != 1 {
		t.Errorf("应清理1条，实际 %d", deleted)
	}

	var remain []model.CommentNotification
	testDB.Find(&remain)
	if len(remain) != 2 {
		t.Fatalf("应剩余2条通知，实际 %d", len(remain))
	}
	for _, n := range remain {
		if n.ID != fresh.ID && n.ID != unread.ID {
			t.Errorf("保留了错误的通知: %d", n.ID)
		}
	}
}
