package controller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/manga-api/internal/dto"
	"github.com/nsxzhou1114/manga-api/internal/middleware"
	"github.com/nsxzhou1114/manga-api/internal/service"
	"github.com/nsxzhou1114/manga-api/pkg/response"
)

// UserController 用户控制器
type UserController struct {
	userService *service.UserService
}

func NewUserController() *UserController {
	return &UserController{
		userService: service.NewUserService(),
	}
}

// Register 用户注册
func (ctrl *UserController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	user, tokenPair, err := ctrl.userService.Register(&req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "注册成功", dto.LoginResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         *ctrl.userService.GenerateUserInfo(user),
	})
}

// Login 用户登录
func (ctrl *UserController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	user, tokenPair, err := ctrl.userService.Login(&req)
	if err != nil {
		response.Unauthorized(c, err.Error(), err)
		return
	}

	response.Success(c, "登录成功", dto.LoginResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         *ctrl.userService.GenerateUserInfo(user),
	})
}

// RefreshToken 刷新访问令牌
func (ctrl *UserController) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	tokenPair, err := ctrl.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		response.Unauthorized(c, "刷新令牌失败", err)
		return
	}

	response.Success(c, "刷新成功", tokenPair)
}

// Logout 用户登出
func (ctrl *UserController) Logout(c *gin.Context) {
	var req dto.RefreshTokenRequest
	// 刷新令牌可选
	_ = c.ShouldBindJSON(&req)

	accessToken := ""
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		accessToken = parts[1]
	}

	if err := ctrl.userService.Logout(accessToken, req.RefreshToken); err != nil {
		response.InternalServerError(c, "登出失败", err)
		return
	}

	response.Success(c, "登出成功", nil)
}

// GetProfile 获取当前用户资料
func (ctrl *UserController) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := ctrl.userService.GetUserByID(userID)
	if err != nil {
		response.NotFound(c, err.Error(), err)
		return
	}

	response.Success(c, "获取成功", ctrl.userService.GenerateUserInfo(user))
}

// UpdateProfile 更新当前用户资料
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	user, err := ctrl.userService.UpdateProfile(userID, &req)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "更新成功", ctrl.userService.GenerateUserInfo(user))
}

// ChangePassword 修改密码
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	userID, _ := middleware.GetUserID(c)

	if err := ctrl.userService.ChangePassword(userID, &req); err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	response.Success(c, "修改成功", nil)
}
