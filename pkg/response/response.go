package response

import (
	"net/http"

	"schoolms/pkg/errors"
	"schoolms/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorBody 统一错误返回格式
type ErrorBody struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details []string          `json:"details,omitempty"`
}

// ========== 基础返回方法 ==========

// Success 成功返回，直接输出数据本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error 通用错误返回
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

// FromError 按业务错误分类输出，未知错误记录日志后统一返回500
func FromError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		logger.GetLogger().Errorf("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		ServerError(c, "服务器内部错误")
		return
	}
	c.JSON(errors.HTTPStatus(appErr), ErrorBody{
		Error:   appErr.Error(),
		Fields:  appErr.Fields,
		Details: appErr.Details,
	})
}

// ========== HTTP错误快捷方法 ==========

func BadRequest(c *gin.Context, message string) {
	Error(c, errors.CodeInvalidParam, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, errors.CodeUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, errors.CodeForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, errors.CodeNotFound, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, errors.CodeServerError, message)
}
