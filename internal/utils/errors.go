package utils

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// ErrorKind 对外错误分类
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// FieldError 字段级错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError 带 HTTP 语义的业务错误
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationError 400，附带字段错误
func ValidationError(fields []FieldError) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Message: "Validation failed", Fields: fields}
}

// AuthenticationError 401，消息统一，不区分用户不存在与密码错误
func AuthenticationError(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Status: http.StatusUnauthorized, Message: message}
}

// AuthorizationError 403
func AuthorizationError(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Status: http.StatusForbidden, Message: message}
}

// NotFoundError 404
func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// DuplicateError 重复数据，400
func DuplicateError(message string) *AppError {
	return &AppError{Kind: KindConflict, Status: http.StatusBadRequest, Message: message}
}

// ConflictError 引用完整性冲突，409
func ConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Status: http.StatusConflict, Message: message}
}

// InternalError 500，err 只写日志
func InternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// Fail 把错误写成统一响应并中止后续处理。非 AppError 一律按 500 处理且不泄露细节。
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError("Internal server error", err)
	}

	if appErr.Kind == KindInternal {
		log.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(appErr.Status, Response{
		Code:    appErr.Status,
		Message: appErr.Message,
		Data:    nil,
		Success: false,
		Errors:  appErr.Fields,
	})
}
