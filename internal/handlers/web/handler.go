// Package web 页面路由处理器
package web

import (
	"net/http"
	"strconv"
	"strings"

	"schoolms/internal/authz"
	"schoolms/internal/middleware"
	"schoolms/internal/services"
	apperrors "schoolms/pkg/errors"
	"schoolms/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler 页面处理器
type Handler struct {
	svc      *services.Container
	sessions *middleware.SessionStore
}

func NewHandler(svc *services.Container, sessions *middleware.SessionStore) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// render 渲染页面，附带导航菜单、当前用户和一次性提示
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	p := middleware.CurrentPrincipal(c)
	data["Principal"] = p
	data["Menu"] = authz.FilterMenu(authz.DefaultMenu(), p)
	data["Flashes"] = h.sessions.Flashes(c)
	data["Path"] = c.Request.URL.Path
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	c.HTML(status, name, data)
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	h.render(c, status, "error.html", gin.H{
		"Title":   strconv.Itoa(status),
		"Status":  status,
		"Message": message,
	})
}

// redirect 带提示跳转
func (h *Handler) redirect(c *gin.Context, location, category, message string) {
	if message != "" {
		h.sessions.AddFlash(c, category, message)
	}
	c.Redirect(http.StatusFound, location)
}

// fail 处理非表单错误：不存在/无权限渲染错误页，其他业务错误提示后跳转，未知错误500
func (h *Handler) fail(c *gin.Context, err error, back string) {
	appErr, ok := apperrors.As(err)
	if !ok {
		logger.GetLogger().WithField("path", c.Request.URL.Path).Errorf("request failed: %v", err)
		h.renderError(c, http.StatusInternalServerError, "服务器内部错误")
		return
	}
	switch appErr.Kind {
	case apperrors.KindNotFound:
		h.renderError(c, http.StatusNotFound, appErr.Message)
	case apperrors.KindForbidden:
		h.renderError(c, http.StatusForbidden, appErr.Message)
	default:
		h.redirect(c, back, "danger", strings.Join(appErr.Messages(), "；"))
	}
}

// formFailed 表单提交失败时补充重新渲染所需的数据。返回 false 表示已按 fail 处理
func (h *Handler) formFailed(c *gin.Context, err error, data gin.H) (int, bool) {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Kind == apperrors.KindForbidden {
		h.fail(c, err, c.Request.URL.Path)
		return 0, false
	}
	if appErr.Fields != nil {
		data["Errors"] = appErr.Fields
	}
	if appErr.Message != "" {
		data["Error"] = appErr.Message
	} else if len(appErr.Details) > 0 {
		data["Error"] = strings.Join(appErr.Details, "；")
	}
	if len(appErr.Details) > 0 && appErr.Message != "" {
		data["Details"] = appErr.Details
	}
	return apperrors.HTTPStatus(err), true
}

// paramID 路径中的 :id，非法时渲染404
func (h *Handler) paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		h.renderError(c, http.StatusNotFound, "页面不存在")
		return 0, false
	}
	return uint(id), true
}

// queryID 查询参数中的可选ID
func queryID(c *gin.Context, key string) *uint {
	return parseID(c.Query(key))
}

// formIDs 表单中的多选ID
func formIDs(c *gin.Context, key string) []uint {
	var ids []uint
	for _, raw := range c.PostFormArray(key) {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// prefixedValues 读取 <prefix><学生ID> 形式的批量字段
func prefixedValues(c *gin.Context, prefix string) map[uint]string {
	_ = c.Request.ParseForm()
	values := make(map[uint]string)
	for key, vals := range c.Request.PostForm {
		if !strings.HasPrefix(key, prefix) || len(vals) == 0 {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(key, prefix), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		values[uint(id)] = vals[0]
	}
	return values
}

func currentUserID(c *gin.Context) uint {
	if p := middleware.CurrentPrincipal(c); p != nil {
		return p.ID
	}
	return 0
}

func parseID(raw string) *uint {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}
