package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/char-sheet/internal/errors"
	"github.com/wfunc/char-sheet/internal/utils"
)

// AuthMiddleware 认证中间件
type AuthMiddleware struct {
	jwtManager *utils.JWTManager
	cookieName string
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *utils.JWTManager, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		cookieName: cookieName,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			appErr := errors.New(errors.ErrAuthentication)
			c.AbortWithStatusJSON(appErr.HTTPStatus(), errors.NewErrorResponse(appErr, false))
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			appErr := errors.New(errors.ErrTokenInvalid).WithCause(err)
			c.AbortWithStatusJSON(appErr.HTTPStatus(), errors.NewErrorResponse(appErr, false))
			return
		}

		// 将用户信息存入上下文
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// extractToken 提取令牌：优先cookie，其次Authorization头
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return ""
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}

// GetUsername 从上下文获取用户名
func GetUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get("username")
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	return username, ok
}
