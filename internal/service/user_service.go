package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/nsxzhou1114/manga-api/internal/database"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/logger"
	"github.com/nsxzhou1114/manga-api/internal/model"
	"github.com/nsxzhou1114/manga-api/pkg/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	userService     *UserService
	userServiceOnce sync.Once
)

// UserService 用户服务
type UserService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewUserService() *UserService {
	userServiceOnce.Do(func() {
		userService = &UserService{
			db:     database.GetDB(),
			logger: logger.GetSugaredLogger(),
		}
	})
	return userService
}

// Register 用户注册
func (s *UserService) Register(req *dto.RegisterRequest) (*model.User, *auth.TokenPair, error) {
	// 检查用户名是否已存在
	var count int64
	if err := s.db.Model(&model.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, errors.New("用户名已存在")
	}

	// 检查邮箱是否已存在
	if err := s.db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, errors.New("邮箱已存在")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = req.Username
	}

	user := &model.User{
		Username:    req.Username,
		Password:    string(hashedPassword),
		Email:       req.Email,
		Nickname:    nickname,
		Role:        "user",
		Status:      1, // 1 表示启用
		LastLoginAt: time.Now(),
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, nil, err
	}

	tokenPair, err := auth.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}

	return user, tokenPair, nil
}

// Login 用户登录
func (s *UserService) Login(req *dto.LoginRequest) (*model.User, *auth.TokenPair, error) {
	var user model.User
	query := s.db.Where("status = ?", 1) // 只查询状态正常的用户

	// 支持用户名或邮箱登录
	if strings.Contains(req.Username, "@") {
		query = query.Where("email = ?", req.Username)
	} else {
		query = query.Where("username = ?", req.Username)
	}

	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("用户不存在")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, errors.New("密码错误")
	}

	// 补齐缺省资料并更新最后登录时间
	updates := map[string]interface{}{
		"last_login_at": time.Now(),
	}
	if user.Nickname == "" {
		user.Nickname = user.Username
		updates["nickname"] = user.Username
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		s.logger.Warnf("更新用户登录信息失败: %v", err)
	}

	tokenPair, err := auth.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}

	return &user, tokenPair, nil
}

// RefreshToken 刷新访问令牌
func (s *UserService) RefreshToken(refreshToken string) (*auth.TokenPair, error) {
	return auth.RefreshAccessToken(refreshToken)
}

// Logout 用户登出
func (s *UserService) Logout(accessToken string, refreshToken string) error {
	if accessToken != "" {
		if err := auth.RevokeToken(accessToken); err != nil {
			s.logger.Warnf("撤销访问令牌失败: %v", err)
			// 继续处理刷新令牌
		}
	}

	if refreshToken != "" {
		if err := auth.RevokeToken(refreshToken); err != nil {
			s.logger.Warnf("撤销刷新令牌失败: %v", err)
			return err
		}
	}

	return nil
}

// GetUserByID 根据ID获取用户
func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新个人资料，仅允许本人修改
func (s *UserService) UpdateProfile(userID uint, req *dto.UpdateProfileRequest) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户不存在")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Nickname != "" {
		updates["nickname"] = req.Nickname
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if req.Email != "" && req.Email != user.Email {
		// 检查邮箱是否已被使用
		var count int64
		if err := s.db.Model(&model.User{}).Where("email = ? AND id != ?", req.Email, userID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.New("邮箱已被使用")
		}
		updates["email"] = req.Email
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := s.db.First(&user, userID).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

// ChangePassword 修改密码
func (s *UserService) ChangePassword(userID uint, req *dto.ChangePasswordRequest) error {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return errors.New("旧密码错误")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.Model(&user).Update("password", string(hashedPassword)).Error
}

// GenerateUserInfo 生成用户信息DTO
func (s *UserService) GenerateUserInfo(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Nickname: user.Nickname,
		Avatar:   user.Avatar,
		Role:     user.Role,
	}
}
