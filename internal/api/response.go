package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/char-sheet/internal/errors"
)

// respondError 将服务层错误转换为HTTP响应
func respondError(c *gin.Context, err error, includeDetails bool) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.Wrap(err, errors.ErrUnknown)
	}
	c.JSON(appErr.HTTPStatus(), errors.NewErrorResponse(appErr, includeDetails))
}

// parseUintParam 解析路径中的数字参数
func parseUintParam(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, errors.New(errors.ErrInvalidParam).
			WithMessage(name + " must be a number")
	}
	return uint(value), nil
}

// parseOptionalQueryInt 解析可选的数字查询参数，缺省时返回nil
func parseOptionalQueryInt(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New(errors.ErrInvalidParam).
			WithMessage(name + " must be a number")
	}
	return &value, nil
}

// respondMessage 纯消息成功响应
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
	})
}

// notFoundHandler 未匹配路由
func notFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": "Not found",
	})
}
