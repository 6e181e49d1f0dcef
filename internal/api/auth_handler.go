package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/char-sheet/internal/middleware"
	"github.com/wfunc/char-sheet/internal/service"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService  service.AuthService
	cookieName   string
	cookieSecure bool
	tokenExpiry  time.Duration
	dev          bool
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService service.AuthService, cookieName string, cookieSecure bool, tokenExpiry time.Duration, dev bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		tokenExpiry:  tokenExpiry,
		dev:          dev,
	}
}

// Signup 用户注册
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	// 字段缺失交给服务层统一报错
	_ = c.ShouldBindJSON(&req)

	user, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Login 用户登录，签发httpOnly cookie令牌
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, h.dev)
		return
	}

	c.SetCookie(h.cookieName, result.Token, int(h.tokenExpiry.Seconds()), "/", "", h.cookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"user": gin.H{
			"id":       result.User.ID,
			"username": result.User.Username,
		},
	})
}

// Logout 退出登录并清除cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", h.cookieSecure, true)
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

// Echo 登录状态探测
func (h *AuthHandler) Echo(c *gin.Context) {
	username, _ := middleware.GetUsername(c)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "You are logged in",
		"username": username,
	})
}
