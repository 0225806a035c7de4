package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)

// Kind 业务错误分类
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindFormat
)

// AppError 业务错误，携带分类、面向用户的消息以及字段级错误
type AppError struct {
	Kind    Kind
	Message string
	Fields  map[string]string // 字段名 -> 错误消息
	Details []string          // 额外说明，如导入时逐行错误
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Details) > 0 {
		return strings.Join(e.Details, "; ")
	}
	for _, msg := range e.Fields {
		return msg
	}
	return "请求错误"
}

// Messages 返回全部面向用户的错误消息，用于页面flash
func (e *AppError) Messages() []string {
	var msgs []string
	if e.Message != "" {
		msgs = append(msgs, e.Message)
	}
	for _, msg := range e.Fields {
		msgs = append(msgs, msg)
	}
	msgs = append(msgs, e.Details...)
	return msgs
}

func Validation(message string, fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func Format(message string, details ...string) *AppError {
	return &AppError{Kind: KindFormat, Message: message, Details: details}
}

// As 取出错误链上的 *AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind 判断错误是否为指定分类
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// HTTPStatus 错误到HTTP状态码的映射，唯一性冲突同校验错误一样返回400
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation, KindConflict, KindFormat:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
