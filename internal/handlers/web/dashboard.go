package web

import (
	"net/http"

	"schoolms/internal/forms"

	"github.com/gin-gonic/gin"
)

// Dashboard 首页
func (h *Handler) Dashboard(c *gin.Context) {
	h.renderDashboard(c, http.StatusOK, gin.H{"Form": &forms.TodoForm{}})
}

func (h *Handler) renderDashboard(c *gin.Context, status int, data gin.H) {
	dashboard, err := h.svc.Dashboard.Load(currentUserID(c))
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	data["Title"] = "仪表盘"
	data["Data"] = dashboard
	h.render(c, status, "dashboard.html", data)
}

// AddTodo 首页添加待办
func (h *Handler) AddTodo(c *gin.Context) {
	var form forms.TodoForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseTodo(&form)
	if err == nil {
		_, err = h.svc.Todos.Create(currentUserID(c), in)
	}
	if err != nil {
		data := gin.H{"Form": &form}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderDashboard(c, status, data)
		}
		return
	}
	h.redirect(c, "/", "success", "待办已添加")
}

// CompleteTodo 完成待办
func (h *Handler) CompleteTodo(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Todos.Complete(currentUserID(c), id); err != nil {
		h.fail(c, err, "/")
		return
	}
	h.redirect(c, "/", "success", "待办已完成")
}
