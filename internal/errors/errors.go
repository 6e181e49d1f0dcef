package errors

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode 错误码类型
type ErrorCode int

// 错误码定义（按模块分组）
const (
	// 通用错误 (1000-1999)
	ErrUnknown          ErrorCode = 1000
	ErrInvalidParam     ErrorCode = 1001
	ErrNotFound         ErrorCode = 1002
	ErrAlreadyExists    ErrorCode = 1003
	ErrPermissionDenied ErrorCode = 1004
	ErrTimeout          ErrorCode = 1005

	// 角色错误 (2000-2999)
	ErrCharacterNotFound ErrorCode = 2000
	ErrFeatureNotFound   ErrorCode = 2001
	ErrItemNotFound      ErrorCode = 2002
	ErrSpellSlotNotFound ErrorCode = 2003
	ErrNotOwner          ErrorCode = 2004

	// 资源计数错误 (3000-3999)
	ErrInvalidAmount      ErrorCode = 3000
	ErrAlreadyAtMinimum   ErrorCode = 3001
	ErrAlreadyAtMaximum   ErrorCode = 3002
	ErrExceedsAvailable   ErrorCode = 3003
	ErrExceedsCapacity    ErrorCode = 3004
	ErrExceedsHeadroom    ErrorCode = 3005
	ErrNotExpendable      ErrorCode = 3006
	ErrNotConsumable      ErrorCode = 3007

	// 数据校验错误 (4000-4999)
	ErrValidationFailed ErrorCode = 4000
	ErrMissingFields    ErrorCode = 4001

	// 数据库错误 (5000-5999)
	ErrDatabaseConnect ErrorCode = 5000
	ErrDatabaseQuery   ErrorCode = 5001
	ErrDatabaseInsert  ErrorCode = 5002
	ErrDatabaseUpdate  ErrorCode = 5003
	ErrDatabaseDelete  ErrorCode = 5004

	// 配置错误 (6000-6999)
	ErrConfigLoad     ErrorCode = 6000
	ErrConfigValidate ErrorCode = 6001

	// 安全错误 (7000-7999)
	ErrAuthentication ErrorCode = 7000
	ErrAuthorization  ErrorCode = 7001
	ErrTokenExpired   ErrorCode = 7002
	ErrTokenInvalid   ErrorCode = 7003
)

// 错误码消息映射（对外返回英文，与前端约定一致）
var errorMessages = map[ErrorCode]string{
	// 通用错误
	ErrUnknown:          "An unexpected error occurred",
	ErrInvalidParam:     "Invalid parameter",
	ErrNotFound:         "Resource not found",
	ErrAlreadyExists:    "Resource already exists",
	ErrPermissionDenied: "Permission denied",
	ErrTimeout:          "Operation timed out",

	// 角色错误
	ErrCharacterNotFound: "Character not found",
	ErrFeatureNotFound:   "Feature not found",
	ErrItemNotFound:      "Item not found",
	ErrSpellSlotNotFound: "Spell slot not found",
	ErrNotOwner:          "You are not authorized to modify this character",

	// 资源计数错误
	ErrInvalidAmount:    "Custom amount cannot be less than or equal to 0",
	ErrAlreadyAtMinimum: "Resource is already at 0",
	ErrAlreadyAtMaximum: "Resource is already at maximum",
	ErrExceedsAvailable: "Amount cannot be greater than the remaining count",
	ErrExceedsCapacity:  "Amount cannot be greater than the total",
	ErrExceedsHeadroom:  "Amount exceeds the missing slots",
	ErrNotExpendable:    "This feature is not expendable",
	ErrNotConsumable:    "This item is not consumable",

	// 数据校验错误
	ErrValidationFailed: "Invalid character data",
	ErrMissingFields:    "Missing required fields",

	// 数据库错误
	ErrDatabaseConnect: "Database connection failed",
	ErrDatabaseQuery:   "Database query failed",
	ErrDatabaseInsert:  "Database insert failed",
	ErrDatabaseUpdate:  "Database update failed",
	ErrDatabaseDelete:  "Database delete failed",

	// 配置错误
	ErrConfigLoad:     "Failed to load configuration",
	ErrConfigValidate: "Invalid configuration",

	// 安全错误
	ErrAuthentication: "No token, authorization denied",
	ErrAuthorization:  "You are not authorized to perform this action",
	ErrTokenExpired:   "Token has expired",
	ErrTokenInvalid:   "Token is not valid",
}

// AppError 应用错误结构
type AppError struct {
	Code    ErrorCode    `json:"code"`              // 错误码
	Message string       `json:"message"`           // 错误消息
	Details string       `json:"details,omitempty"` // 详细信息
	Errors  []string     `json:"errors,omitempty"`  // 校验错误列表
	Cause   error        `json:"-"`                 // 原始错误
	Stack   []StackFrame `json:"-"`                 // 调用栈
}

// StackFrame 调用栈帧
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithMessage 覆盖默认错误消息
func (e *AppError) WithMessage(message string) *AppError {
	e.Message = message
	return e
}

// WithErrors 附加校验错误列表
func (e *AppError) WithErrors(errs []string) *AppError {
	e.Errors = errs
	return e
}

// WithCause 添加原因错误
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	if cause != nil && e.Details == "" {
		e.Details = cause.Error()
	}
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, details ...string) *AppError {
	message, ok := errorMessages[code]
	if !ok {
		message = errorMessages[ErrUnknown]
	}

	err := &AppError{
		Code:    code,
		Message: message,
	}

	if len(details) > 0 {
		err.Details = strings.Join(details, "; ")
	}

	// 捕获调用栈
	err.captureStack(2)

	return err
}

// Newf 创建格式化的应用错误
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	details := fmt.Sprintf(format, args...)
	return New(code, details)
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, details ...string) *AppError {
	if err == nil {
		return nil
	}

	// 如果已经是AppError，保留原始错误码
	if appErr, ok := err.(*AppError); ok {
		if len(details) > 0 {
			appErr.Details = strings.Join(details, "; ") + "; " + appErr.Details
		}
		return appErr
	}

	appErr := New(code, details...)
	appErr.Cause = err
	if appErr.Details == "" {
		appErr.Details = err.Error()
	}

	return appErr
}

// Is 判断错误是否为指定错误码
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// GetCode 获取错误码
func GetCode(err error) ErrorCode {
	if err == nil {
		return 0
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}

	return ErrUnknown
}

// captureStack 捕获调用栈
func (e *AppError) captureStack(skip int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)

	if n > 0 {
		frames := runtime.CallersFrames(pcs[:n])
		for {
			frame, more := frames.Next()

			// 跳过runtime和本包的调用
			if strings.Contains(frame.Function, "runtime.") ||
				strings.Contains(frame.Function, "github.com/wfunc/char-sheet/internal/errors") {
				if !more {
					break
				}
				continue
			}

			e.Stack = append(e.Stack, StackFrame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			})

			if !more {
				break
			}

			// 只保留前10个栈帧
			if len(e.Stack) >= 10 {
				break
			}
		}
	}
}

// GetStack 获取格式化的调用栈
func (e *AppError) GetStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, frame := range e.Stack {
		builder.WriteString(fmt.Sprintf("%d. %s\n   %s:%d\n",
			i+1, frame.Function, frame.File, frame.Line))
	}

	return builder.String()
}

// HTTPStatus 返回对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code == ErrNotFound,
		e.Code == ErrCharacterNotFound,
		e.Code == ErrFeatureNotFound,
		e.Code == ErrItemNotFound,
		e.Code == ErrSpellSlotNotFound:
		return 404 // Not Found
	case e.Code == ErrPermissionDenied,
		e.Code == ErrNotOwner,
		e.Code == ErrAuthorization:
		return 403 // Forbidden
	case e.Code >= 3000 && e.Code <= 3999:
		return 400 // Bad Request（资源边界违规）
	case e.Code >= 4000 && e.Code <= 4999:
		return 400 // Bad Request（数据校验失败）
	case e.Code >= 1001 && e.Code <= 1003:
		return 400 // Bad Request
	case e.Code == ErrAuthentication,
		e.Code == ErrTokenExpired,
		e.Code == ErrTokenInvalid:
		return 401 // Unauthorized
	case e.Code >= 5000 && e.Code <= 5999:
		return 500 // Internal Server Error
	default:
		return 500 // Internal Server Error
	}
}

// ErrorResponse API错误响应结构
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Errors    []string  `json:"errors,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"`
	Code      ErrorCode `json:"-"`
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(err *AppError, includeDetails bool) *ErrorResponse {
	resp := &ErrorResponse{
		Success:   false,
		Message:   err.Message,
		Errors:    err.Errors,
		Timestamp: time.Now().Unix(),
		Code:      err.Code,
	}

	// 仅在开发模式下回显原始错误细节
	if includeDetails {
		resp.Details = err.Details
	}

	return resp
}
