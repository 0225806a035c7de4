package middleware

import (
	"net/http"
	"strings"

	"schoolms/pkg/logger"
	"schoolms/pkg/response"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 错误处理中间件 - 主要处理panic
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.GetLogger().WithField("path", c.Request.URL.Path).Errorf("Panic recovered: %v", err)
				if strings.HasPrefix(c.Request.URL.Path, "/api") {
					response.ServerError(c, "服务器内部错误")
				} else {
					c.String(http.StatusInternalServerError, "服务器内部错误")
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}

// BodyLimit 限制请求体大小
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
