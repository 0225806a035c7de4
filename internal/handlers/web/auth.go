package web

import (
	"net/http"

	"schoolms/internal/forms"
	"schoolms/internal/middleware"
	"schoolms/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LoginPage 登录页，已登录时直接跳转
func (h *Handler) LoginPage(c *gin.Context) {
	if middleware.CurrentPrincipal(c) != nil {
		c.Redirect(http.StatusFound, middleware.SafeNext(c.Query("next")))
		return
	}
	h.render(c, http.StatusOK, "auth_login.html", gin.H{
		"Title": "登录",
		"Form":  &forms.LoginForm{},
		"Next":  c.Query("next"),
	})
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var form forms.LoginForm
	_ = c.ShouldBind(&form)
	next := c.PostForm("next")
	data := gin.H{"Title": "登录", "Form": &form, "Next": next}

	if err := forms.ParseLogin(&form); err != nil {
		if status, ok := h.formFailed(c, err, data); ok {
			h.render(c, status, "auth_login.html", data)
		}
		return
	}
	user, err := h.svc.Users.Authenticate(form.Username, form.Password)
	if err != nil {
		if status, ok := h.formFailed(c, err, data); ok {
			h.render(c, status, "auth_login.html", data)
		}
		return
	}

	if err := h.sessions.Login(c, user.ID, form.Remember != ""); err != nil {
		h.fail(c, err, "/auth/login")
		return
	}
	logger.WithUser(user.ID, user.Username).Info("user logged in")
	if user.FirstLogin {
		h.redirect(c, "/auth/first-login", "warning", "首次登录请先设置新密码")
		return
	}
	h.redirect(c, middleware.SafeNext(next), "success", "登录成功")
}

// Logout 退出登录
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		h.fail(c, err, "/")
		return
	}
	h.redirect(c, "/auth/login", "info", "您已退出登录")
}

// RegisterPage 注册页
func (h *Handler) RegisterPage(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, &forms.RegisterForm{}, gin.H{})
}

func (h *Handler) renderRegister(c *gin.Context, status int, form *forms.RegisterForm, data gin.H) {
	roles, err := h.svc.Users.RegistrableRoles()
	if err != nil {
		h.fail(c, err, "/auth/login")
		return
	}
	data["Title"] = "注册"
	data["Form"] = form
	data["Roles"] = roles
	h.render(c, status, "auth_register.html", data)
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var form forms.RegisterForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseRegister(&form)
	if err == nil {
		_, err = h.svc.Users.Register(in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderRegister(c, status, &form, data)
		}
		return
	}
	h.redirect(c, "/auth/login", "success", "注册成功，请登录")
}

// ForgotPage 找回密码页
func (h *Handler) ForgotPage(c *gin.Context) {
	h.render(c, http.StatusOK, "auth_forgot.html", gin.H{"Title": "找回密码", "Form": &forms.ForgotForm{}})
}

// Forgot 生成重置链接。系统不发邮件，链接直接显示在页面上
func (h *Handler) Forgot(c *gin.Context) {
	var form forms.ForgotForm
	_ = c.ShouldBind(&form)
	data := gin.H{"Title": "找回密码", "Form": &form}

	err := forms.ParseForgot(&form)
	var token string
	if err == nil {
		token, err = h.svc.Auth.ForgotPassword(form.Email)
	}
	if err != nil {
		if status, ok := h.formFailed(c, err, data); ok {
			h.render(c, status, "auth_forgot.html", data)
		}
		return
	}
	data["ResetLink"] = "/auth/reset/" + token
	h.render(c, http.StatusOK, "auth_forgot.html", data)
}

// ResetPage 重置密码页
func (h *Handler) ResetPage(c *gin.Context) {
	h.render(c, http.StatusOK, "auth_password.html", gin.H{
		"Title":  "重置密码",
		"Action": "/auth/reset/" + c.Param("token"),
	})
}

// Reset 重置密码
func (h *Handler) Reset(c *gin.Context) {
	var form forms.NewPasswordForm
	_ = c.ShouldBind(&form)
	form.Token = c.Param("token")
	data := gin.H{"Title": "重置密码", "Action": "/auth/reset/" + form.Token}

	err := forms.ParseNewPassword(&form)
	if err == nil {
		err = h.svc.Auth.ResetPassword(form.Token, form.Password)
	}
	if err != nil {
		if status, ok := h.formFailed(c, err, data); ok {
			h.render(c, status, "auth_password.html", data)
		}
		return
	}
	h.redirect(c, "/auth/login", "success", "密码已重置，请使用新密码登录")
}

// FirstLoginPage 首次登录设置密码
func (h *Handler) FirstLoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "auth_password.html", gin.H{
		"Title":  "设置新密码",
		"Hint":   "首次登录，请设置新的登录密码",
		"Action": "/auth/first-login",
	})
}

// FirstLogin 保存首次登录密码
func (h *Handler) FirstLogin(c *gin.Context) {
	var form forms.NewPasswordForm
	_ = c.ShouldBind(&form)
	data := gin.H{"Title": "设置新密码", "Action": "/auth/first-login"}

	err := forms.ParseNewPassword(&form)
	if err == nil {
		err = h.svc.Users.CompleteFirstLogin(currentUserID(c), form.Password)
	}
	if err != nil {
		if status, ok := h.formFailed(c, err, data); ok {
			h.render(c, status, "auth_password.html", data)
		}
		return
	}
	h.redirect(c, "/", "success", "密码设置成功")
}
