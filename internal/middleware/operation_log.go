package middleware

import (
	"net/http"
	"strings"

	"schoolms/internal/services"

	"github.com/gin-gonic/gin"
)

// OperationLog 记录成功的写操作
func OperationLog(logs *services.OperationLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		p := CurrentPrincipal(c)
		if p == nil {
			return
		}

		path := c.Request.URL.Path
		userID := p.ID
		logs.Record(services.LogEntry{
			UserID:      &userID,
			Action:      actionName(method, path),
			Resource:    resourceName(path),
			Description: p.Username + " " + method + " " + path,
			IPAddress:   c.ClientIP(),
			Method:      method,
			Path:        path,
		})
	}
}

// resourceName 路径中的资源名，/api/students/3 -> students
func resourceName(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 1 && parts[0] == "api" {
		parts = parts[1:]
	}
	return parts[0]
}

// actionName 操作名：DELETE/PUT 直接对应，POST 取路径最后一段（new、edit、delete、import 等），集合路径视为 create
func actionName(method, path string) string {
	switch method {
	case http.MethodDelete:
		return "delete"
	case http.MethodPut, http.MethodPatch:
		return "update"
	}
	last := path[strings.LastIndex(path, "/")+1:]
	if last == "" || last == resourceName(path) || strings.Trim(last, "0123456789") == "" {
		return "create"
	}
	return last
}
