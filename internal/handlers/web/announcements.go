package web

import (
	"fmt"
	"net/http"

	"schoolms/internal/forms"
	"schoolms/internal/models"

	"github.com/gin-gonic/gin"
)

// ListAnnouncements 公告列表，置顶在前
func (h *Handler) ListAnnouncements(c *gin.Context) {
	announcements, err := h.svc.Announcements.List()
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "announcements_list.html", gin.H{"Title": "通知公告", "Announcements": announcements})
}

func (h *Handler) renderAnnouncementForm(c *gin.Context, status int, form *forms.AnnouncementForm, data gin.H) {
	roles, err := h.svc.Roles.List()
	if err != nil {
		h.fail(c, err, "/announcements")
		return
	}
	selected := make(map[string]bool, len(form.TargetRoles))
	for _, r := range form.TargetRoles {
		selected[r] = true
	}
	data["Title"] = "发布公告"
	data["Form"] = form
	data["Roles"] = roles
	data["Selected"] = selected
	data["TargetAll"] = models.TargetAll
	h.render(c, status, "announcements_form.html", data)
}

// NewAnnouncementPage 发布公告页
func (h *Handler) NewAnnouncementPage(c *gin.Context) {
	h.renderAnnouncementForm(c, http.StatusOK, &forms.AnnouncementForm{TargetRoles: []string{models.TargetAll}}, gin.H{})
}

// CreateAnnouncement 发布公告
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	var form forms.AnnouncementForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseAnnouncement(&form)
	var announcement *models.Announcement
	if err == nil {
		announcement, err = h.svc.Announcements.Create(currentUserID(c), in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderAnnouncementForm(c, status, &form, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/announcements/%d", announcement.ID), "success", "公告已发布")
}

// ShowAnnouncement 公告详情
func (h *Handler) ShowAnnouncement(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	announcement, err := h.svc.Announcements.GetByID(id)
	if err != nil {
		h.fail(c, err, "/announcements")
		return
	}
	h.render(c, http.StatusOK, "announcements_detail.html", gin.H{"Title": announcement.Title, "Announcement": announcement})
}
