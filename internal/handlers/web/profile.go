package web

import (
	"net/http"

	"schoolms/internal/forms"
	"schoolms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) renderProfile(c *gin.Context, status int, form *forms.ProfileForm, data gin.H) {
	p := middleware.CurrentPrincipal(c)
	user, err := h.svc.Users.GetByID(p.ID)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	if form == nil {
		form = &forms.ProfileForm{Email: user.Email, Phone: user.Phone}
	}
	announcements, err := h.svc.Announcements.VisibleTo(p.Roles)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	student, err := h.svc.Students.GetByUserID(p.ID)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	if _, ok := data["PasswordForm"]; !ok {
		data["PasswordForm"] = &forms.ChangePasswordForm{}
	}
	data["Title"] = "个人中心"
	data["User"] = user
	data["Student"] = student
	data["Form"] = form
	data["Announcements"] = announcements
	h.render(c, status, "profile.html", data)
}

// Profile 个人信息
func (h *Handler) Profile(c *gin.Context) {
	h.renderProfile(c, http.StatusOK, nil, gin.H{})
}

// UpdateProfile 修改邮箱、电话和头像
func (h *Handler) UpdateProfile(c *gin.Context) {
	var form forms.ProfileForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseProfile(&form)
	if err == nil {
		in.AvatarPath, err = h.saveAvatar(c)
	}
	if err == nil {
		_, err = h.svc.Users.UpdateProfile(currentUserID(c), in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderProfile(c, status, &form, data)
		}
		return
	}
	h.redirect(c, "/profile/info", "success", "个人信息已更新")
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	var form forms.ChangePasswordForm
	_ = c.ShouldBind(&form)
	err := forms.ParseChangePassword(&form)
	if err == nil {
		err = h.svc.Users.ChangePassword(currentUserID(c), form.OldPassword, form.NewPassword)
	}
	if err != nil {
		data := gin.H{"PasswordForm": &forms.ChangePasswordForm{}}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderProfile(c, status, nil, data)
		}
		return
	}
	h.redirect(c, "/profile/info", "success", "密码已修改")
}

// Messages 站内消息
func (h *Handler) Messages(c *gin.Context) {
	uid := currentUserID(c)
	unread, err := h.svc.Messages.ListByUser(uid, false, 0)
	if err != nil {
		h.fail(c, err, "/profile/info")
		return
	}
	read, err := h.svc.Messages.ListByUser(uid, true, 50)
	if err != nil {
		h.fail(c, err, "/profile/info")
		return
	}
	h.render(c, http.StatusOK, "profile_messages.html", gin.H{"Title": "站内消息", "Unread": unread, "Read": read})
}

// MarkMessageRead 标记已读
func (h *Handler) MarkMessageRead(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Messages.MarkRead(currentUserID(c), id); err != nil {
		h.fail(c, err, "/profile/messages")
		return
	}
	h.redirect(c, "/profile/messages", "", "")
}
