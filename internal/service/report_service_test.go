package service

import (
	"encoding/json"
	"testing"

	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/model"
)

func TestCreateReportCreatesAdminNotification(t *testing.T) {
	resetTables(t)
	svc := NewReportService()

	reporter := createTestUser(t, "reporter", "user")
	manga := createTestManga(t, "暗杀教室", reporter.ID)
	createTestChapter(t, manga.ID, 2)

	report, err := svc.CreateReport(reporter.ID, &dto.ReportCreateRequest{
		MangaID:     manga.ID,
		Chapter:     2,
		IssueType:   model.ReportIssueMissingPages,
		Description: "缺了后半话",
	})
	if err != nil {
		t.Fatalf("提交举报失败: %v", err)
	}
	if report.Status != model.ReportStatusPending {
		t.Errorf("新举报状态应为pending，实际 %s", report.Status)
	}

	var notifications []model.AdminNotification
	if err := testDB.Where("report_id = ?", report.ID).Find(&notifications).Error; err != nil {
		t.Fatalf("查询管理员通知失败: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("每条举报应产生1条管理员通知，实际 %d 条", len(notifications))
	}

	n := notifications[0]
	if n.Type != "report" {
		t.Errorf("通知类型应为report，实际 %s", n.Type)
	}
	if n.IsRead != 0 {
		t.Errorf("新通知应为未读")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(n.Payload), &payload); err != nil {
		t.Fatalf("解析通知快照失败: %v", err)
	}
	if uint(payload["manga_id"].(float64)) != manga.ID {
		t.Errorf("快照manga_id不匹配")
	}
	if payload["issue_type"] != model.ReportIssueMissingPages {
		t.Errorf("快照issue_type不匹配: %v", payload["issue_type"])
	}
}

func TestCreateReportInvalidInput(t *testing.T) {
	resetTables(t)
	svc := NewReportService()

	reporter := createTestUser(t, "checker", "user")
	manga := createTestManga(t, "工作细胞", reporter.ID)
	createTestChapter(t, manga.ID, 1)

	tests := []struct {
		name      string
		chapter   int
		issueType string
	}{
		{"非法问题类型", 1, "spoiler"},
		{"章节不存在", 42, model.ReportIssueUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateReport(reporter.ID, &dto.ReportCreateRequest{
				MangaID:   manga.ID,
				Chapter:   tt.chapter,
				IssueType: tt.issueType,
			})
			if err == nil {
				t.Errorf("期望返回错误")
			}

			var count int64
			testDB.Model(&model.AdminNotification{}).Count(&count)
			if count != 0 {
				t.Errorf("失败的举报不应留下管理员通知")
			}
		})
	}
}

func TestReportStatusTransitions(t *testing.T) {
	resetTables(t)
	svc := NewReportService()

	reporter := createTestUser(t, "flow", "user")
	manga := createTestManga(t, "排球少年", reporter.ID)
	createTestChapter(t, manga.ID, 1)

	report, err := svc.CreateReport(reporter.ID, &dto.ReportCreateRequest{
		MangaID:   manga.ID,
		Chapter:   1,
		IssueType: model.ReportIssueWrongOrder,
	})
	if err != nil {
		t.Fatalf("提交举报失败: %v", err)
	}

	// pending不能直接resolved
	if _, err := svc.UpdateStatus("admin", report.ID, model.ReportStatusResolved); err == nil {
		t.Errorf("pending直接变resolved应被拒绝")
	}

	updated, err := svc.UpdateStatus("admin", report.ID, model.ReportStatusInProgress)
	if err != nil {
		t.Fatalf("pending变in_progress失败: %v", err)
	}
	if updated.ResolvedAt != nil {
		t.Errorf("in_progress不应设置resolved_at")
	}

	// in_progress不能rejected
	if _, err := svc.UpdateStatus("admin", report.ID, model.ReportStatusRejected); err == nil {
		t.Errorf("in_progress变rejected应被拒绝")
	}

	updated, err = svc.UpdateStatus("admin", report.ID, model.ReportStatusResolved)
	if err != nil {
		t.Fatalf("in_progress变resolved失败: %v", err)
	}
	if updated.ResolvedAt == nil {
		t.Errorf("resolved应设置resolved_at")
	}

	// 终态后不能再流转
	if _, err := svc.UpdateStatus("admin", report.ID, model.ReportStatusInProgress); err == nil {
		t.Errorf("resolved后不应允许再流转")
	}
}

func TestReportRejectFromPending(t *testing.T) {
	resetTables(t)
	svc := NewReportService()

	reporter := createTestUser(t, "rej", "user")
	manga := createTestManga(t, "银魂", reporter.ID)
	createTestChapter(t, manga.ID, 1)

	report, err := svc.CreateReport(reporter.ID, &dto.ReportCreateRequest{
		MangaID:   manga.ID,
		Chapter:   1,
		IssueType: model.ReportIssueOther,
	})
	if err != nil {
		t.Fatalf("提交举报失败: %v", err)
	}

	updated, err := svc.UpdateStatus("admin", report.ID, model.ReportStatusRejected)
	if err != nil {
		t.Fatalf("pending变rejected失败: %v", err)
	}
	if updated.ResolvedAt != nil {
		t.Errorf("rejected不应设置resolved_at")
	}
}

func TestReportPermissions(t *testing.T) {
	resetTables(t)
	svc := NewReportService()

	reporter := createTestUser(t, "plain", "user")
	manga := createTestManga(t, "家庭教师", reporter.ID)
	createTestChapter(t, manga.ID, 1)

	report, err := svc.CreateReport(reporter.ID, &dto.ReportCreateRequest{
		MangaID:   manga.ID,
		Chapter:   1,
		IssueType: model.ReportIssueUnreadable,
	})
	if err != nil {
		t.Fatalf("提交举报失败: %v", err)
	}

	if _, err := svc.UpdateStatus("user", report.ID, model.ReportStatusInProgress); err == nil {
		t.Errorf("普通用户处理举报应被拒绝")
	}
	if _, _, err := svc.GetReports("user", &dto.ReportListRequest{}); err == nil {
		t.Errorf("普通用户查看举报列表应被拒绝")
	}
	if _, _, err := svc.GetAdminNotifications("user", 1, 20, false); err == nil {
		t.Errorf("普通用户查看管理员通知应被拒绝")
	}

	// 举报人可以看到自己的举报
	mine, total, err := svc.GetMyReports(reporter.ID, 1, 20)
	if err != nil {
		t.Fatalf("查询自己的举报失败: %v", err)
	}
	if total != 1 || len(mine) != 1 {
		t.Errorf("举报人应能看到自己的1条举报，实际 %d 条", total)
	}
}

func TestMarkAdminNotificationsReadIdempotent(t *testing.T) {
	resetTables(t)
	svc := NewReportService()

	reporter := createTestUser(t, "again", "user")
	manga := createTestManga(t, "犬夜叉", reporter.ID)
	createTestChapter(t, manga.ID, 1)

	report, err := svc.CreateReport(reporter.ID, &dto.ReportCreateRequest{
		MangaID:   manga.ID,
		Chapter:   1,
		IssueType: model.ReportIssueOther,
	})
	if err != nil {
		t.Fatalf("提交举报失败: %v", err)
	}

	var n model.AdminNotification
	if err := testDB.Where("report_id = ?", report.ID).First(&n).Error; err != nil {
		t.Fatalf("查询管理员通知失败: %v", err)
	}

	updated, err := svc.MarkAdminNotificationsRead("admin", []uint{n.ID})
	if err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	if updated != 1 {
		t.Errorf("首次标记应更新1行，实际 %d", updated)
	}

	updated, err = svc.MarkAdminNotificationsRead("admin", []uint{n.ID})
	if err != nil {
		t.Fatalf("重复标记失败: %v", err)
	}
	if updated != 0 {
		t.Errorf("重复标记应更新0行，实际 %d", updated)
	}
}
