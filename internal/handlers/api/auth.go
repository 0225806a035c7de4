package api

import (
	"schoolms/internal/forms"
	"schoolms/pkg/logger"
	"schoolms/pkg/response"

	"github.com/gin-gonic/gin"
)

// LoginResponse 登录返回
type LoginResponse struct {
	Token    string   `json:"token"`
	UserID   uint     `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Login 用户名密码换取访问令牌
func (h *Handler) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}
	if err := forms.ParseLogin(&form); err != nil {
		response.FromError(c, err)
		return
	}
	user, err := h.svc.Users.Authenticate(form.Username, form.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	token, err := h.svc.Auth.IssueAPIToken(user)
	if err != nil {
		response.FromError(c, err)
		return
	}
	logger.WithUser(user.ID, user.Username).Info("api token issued")
	response.Success(c, LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.RoleNames(),
	})
}
