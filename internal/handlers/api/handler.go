// Package api JSON接口处理器
package api

import (
	"strconv"

	"schoolms/internal/middleware"
	"schoolms/internal/services"
	"schoolms/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler 接口处理器
type Handler struct {
	svc *services.Container
}

func NewHandler(svc *services.Container) *Handler {
	return &Handler{svc: svc}
}

// paramID 路径中的ID，非法时返回404
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c, "资源不存在")
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) uint {
	if p := middleware.CurrentPrincipal(c); p != nil {
		return p.ID
	}
	return 0
}

// queryID 查询参数中的可选ID
func queryID(c *gin.Context, key string) *uint {
	id, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}
