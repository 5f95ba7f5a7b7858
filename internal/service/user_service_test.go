package service

import (
	"testing"

	"github.com/nsxzhou1114/manga-api/internal/dto"
)

func TestRegisterDuplicate(t *testing.T) {
	resetTables(t)
	svc := NewUserService()

	_, pair, err := svc.Register(&dto.RegisterRequest{
		Username: "kenshin",
		Password: "password123",
		Email:    "kenshin@example.com",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Errorf("注册应返回令牌对")
	}

	// 重复用户名
	if _, _, err := svc.Register(&dto.RegisterRequest{
		Username: "kenshin",
		Password: "password123",
		Email:    "another@example.com",
	}); err == nil {
		t.Errorf("重复用户名应被拒绝")
	}

	// 重复邮箱
	if _, _, err := svc.Register(&dto.RegisterRequest{
		Username: "kaoru",
		Password: "password123",
		Email:    "kenshin@example.com",
	}); err == nil {
		t.Errorf("重复邮箱应被拒绝")
	}
}

func TestRegisterNicknameDefault(t *testing.T) {
	resetTables(t)
	svc := NewUserService()

	user, _, err := svc.Register(&dto.RegisterRequest{
		Username: "sanosuke",
		Password: "password123",
		Email:    "sano@example.com",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if user.Nickname != "sanosuke" {
		t.Errorf("昵称缺省应回落到用户名，实际 %s", user.Nickname)
	}
}

func TestLogin(t *testing.T) {
	resetTables(t)
	svc := NewUserService()

	if _, _, err := svc.Register(&dto.RegisterRequest{
		Username: "yahiko",
		Password: "password123",
		Email:    "yahiko@example.com",
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 用户名登录
	user, pair, err := svc.Login(&dto.LoginRequest{Username: "yahiko", Password: "password123"})
	if err != nil {
		t.Fatalf("用户名登录失败: %v", err)
	}
	if pair.AccessToken == "" {
		t.Errorf("登录应返回访问令牌")
	}
	if user.Username != "yahiko" {
		t.Errorf("返回了错误的用户: %s", user.Username)
	}

	// 邮箱登录
	if _, _, err := svc.Login(&dto.LoginRequest{Username: "yahiko@example.com", Password: "password123"}); err != nil {
		t.Fatalf("邮箱登录失败: %v", err)
	}

	// 密码错误
	if _, _, err := svc.Login(&dto.LoginRequest{Username: "yahiko", Password: "wrongpass"}); err == nil {
		t.Errorf("错误密码应被拒绝")
	}

	// 用户不存在
	if _, _, err := svc.Login(&dto.LoginRequest{Username: "nobody", Password: "password123"}); err == nil {
		t.Errorf("不存在的用户应被拒绝")
	}
}

func TestChangePassword(t *testing.T) {
	resetTables(t)
	svc := NewUserService()

	user, _, err := svc.Register(&dto.RegisterRequest{
		Username: "megumi",
		Password: "password123",
		Email:    "megumi@example.com",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 旧密码错误
	if err := svc.ChangePassword(user.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrongpass",
		NewPassword: "newpass456",
	}); err == nil {
		t.Errorf("旧密码错误应被拒绝")
	}

	if err := svc.ChangePassword(user.ID, &dto.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpass456",
	}); err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}

	// 新密码生效
	if _, _, err := svc.Login(&dto.LoginRequest{Username: "megumi", Password: "newpass456"}); err != nil {
		t.Errorf("新密码登录失败: %v", err)
	}
	if _, _, err := svc.Login(&dto.LoginRequest{Username: "megumi", Password: "password123"}); err == nil {
		t.Errorf("旧密码不应再可用")
	}
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	resetTables(t)
	svc := NewUserService()

	first, _, err := svc.Register(&dto.RegisterRequest{
		Username: "aoshi",
		Password: "password123",
		Email:    "aoshi@example.com",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if _, _, err := svc.Register(&dto.RegisterRequest{
		Username: "misao",
		Password: "password123",
		Email:    "misao@example.com",
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 占用他人邮箱
	if _, err := svc.UpdateProfile(first.ID, &dto.UpdateProfileRequest{
		Email: "misao@example.com",
	}); err == nil {
		t.Errorf("占用他人邮箱应被拒绝")
	}

	updated, err := svc.UpdateProfile(first.ID, &dto.UpdateProfileRequest{
		Nickname: "冰之剑客",
	})
	if err != nil {
		t.Fatalf("更新资料失败: %v", err)
	}
	if updated.Nickname != "冰之剑客" {
		t.Errorf("昵称未更新: %s", updated.Nickname)
	}
}
