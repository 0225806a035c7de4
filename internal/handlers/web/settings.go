package web

import (
	"fmt"
	"net/http"

	"schoolms/internal/forms"
	"schoolms/internal/models"

	"github.com/gin-gonic/gin"
)

// ========== 用户与角色分配 ==========

// ListUsers 用户列表及角色分配
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.Users.List()
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	roles, err := h.svc.Roles.List()
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "settings_users.html", gin.H{"Title": "用户管理", "Users": users, "Roles": roles})
}

// AssignUserRoles 设置用户角色
func (h *Handler) AssignUserRoles(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.svc.Users.AssignRoles(id, formIDs(c, "role_ids"))
	if err != nil {
		h.fail(c, err, "/settings/users")
		return
	}
	h.redirect(c, "/settings/users", "success", fmt.Sprintf("已更新 %s 的角色", user.Username))
}

// ToggleUser 启用或禁用账号，不能禁用自己
func (h *Handler) ToggleUser(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if id == currentUserID(c) {
		h.redirect(c, "/settings/users", "warning", "不能禁用当前登录的账号")
		return
	}
	user, err := h.svc.Users.GetByID(id)
	if err != nil {
		h.fail(c, err, "/settings/users")
		return
	}
	if err := h.svc.Users.SetActive(id, !user.IsActive); err != nil {
		h.fail(c, err, "/settings/users")
		return
	}
	state := "启用"
	if user.IsActive {
		state = "禁用"
	}
	h.redirect(c, "/settings/users", "success", fmt.Sprintf("已%s账号 %s", state, user.Username))
}

// ========== 角色管理 ==========

// ListRoles 角色列表
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.svc.Roles.List()
	if err != nil {
		h.fail(c, err, "/settings")
		return
	}
	h.render(c, http.StatusOK, "settings_roles.html", gin.H{"Title": "角色管理", "Roles": roles})
}

func (h *Handler) renderRoleForm(c *gin.Context, status int, form *forms.RoleForm, role *models.Role, granted map[uint]bool, data gin.H) {
	groups, err := h.svc.Permissions.GroupByCategory()
	if err != nil {
		h.fail(c, err, "/settings/roles")
		return
	}
	data["Form"] = form
	data["Groups"] = []gin.H{
		{"Label": "菜单权限", "Permissions": groups[models.CategoryMenu]},
		{"Label": "操作权限", "Permissions": groups[models.CategoryAction]},
	}
	data["Granted"] = granted
	if role == nil {
		data["Title"] = "新增角色"
		data["Action"] = "/settings/roles/new"
	} else {
		data["Title"] = "编辑角色"
		data["Action"] = fmt.Sprintf("/settings/roles/%d/edit", role.ID)
	}
	h.render(c, status, "settings_role_form.html", data)
}

func grantedSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// NewRolePage 新增角色页
func (h *Handler) NewRolePage(c *gin.Context) {
	h.renderRoleForm(c, http.StatusOK, &forms.RoleForm{}, nil, map[uint]bool{}, gin.H{})
}

// CreateRole 新增角色并设置权限
func (h *Handler) CreateRole(c *gin.Context) {
	var form forms.RoleForm
	_ = c.ShouldBind(&form)
	permissionIDs := formIDs(c, "permission_ids")
	in, err := forms.ParseRole(&form)
	var role *models.Role
	if err == nil {
		role, err = h.svc.Roles.Create(in)
	}
	if err == nil {
		_, err = h.svc.Roles.AssignPermissions(role.ID, permissionIDs)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderRoleForm(c, status, &form, nil, grantedSet(permissionIDs), data)
		}
		return
	}
	h.redirect(c, "/settings/roles", "success", "角色已创建")
}

// EditRolePage 编辑角色页
func (h *Handler) EditRolePage(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	role, err := h.svc.Roles.GetByID(id)
	if err != nil {
		h.fail(c, err, "/settings/roles")
		return
	}
	ids := make([]uint, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		ids = append(ids, p.ID)
	}
	form := &forms.RoleForm{Name: role.Name, Description: role.Description}
	h.renderRoleForm(c, http.StatusOK, form, role, grantedSet(ids), gin.H{})
}

// UpdateRole 保存角色名称与权限
func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	role, err := h.svc.Roles.GetByID(id)
	if err != nil {
		h.fail(c, err, "/settings/roles")
		return
	}
	var form forms.RoleForm
	_ = c.ShouldBind(&form)
	permissionIDs := formIDs(c, "permission_ids")
	in, err := forms.ParseRole(&form)
	if err == nil {
		_, err = h.svc.Roles.Update(id, in)
	}
	if err == nil {
		_, err = h.svc.Roles.AssignPermissions(id, permissionIDs)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderRoleForm(c, status, &form, role, grantedSet(permissionIDs), data)
		}
		return
	}
	h.redirect(c, "/settings/roles", "success", "角色已更新")
}

// DeleteRole 删除角色
func (h *Handler) DeleteRole(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Roles.Delete(id); err != nil {
		h.fail(c, err, "/settings/roles")
		return
	}
	h.redirect(c, "/settings/roles", "success", "角色已删除")
}

// ========== 系统参数 ==========

func (h *Handler) renderParameters(c *gin.Context, status int, form *forms.SettingForm, data gin.H) {
	settings, err := h.svc.Settings.List()
	if err != nil {
		h.fail(c, err, "/settings")
		return
	}
	data["Title"] = "系统参数"
	data["Settings"] = settings
	data["Form"] = form
	h.render(c, status, "settings_parameters.html", data)
}

// Parameters 系统参数列表
func (h *Handler) Parameters(c *gin.Context) {
	h.renderParameters(c, http.StatusOK, &forms.SettingForm{}, gin.H{})
}

// SaveParameter 新增或修改参数
func (h *Handler) SaveParameter(c *gin.Context) {
	var form forms.SettingForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseSetting(&form)
	if err == nil {
		_, err = h.svc.Settings.Save(in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderParameters(c, status, &form, data)
		}
		return
	}
	h.redirect(c, "/settings/parameters", "success", "参数已保存")
}

// ========== 数据备份 ==========

// Backups 备份列表
func (h *Handler) Backups(c *gin.Context) {
	backups, err := h.svc.Backups.List()
	if err != nil {
		h.fail(c, err, "/settings")
		return
	}
	h.render(c, http.StatusOK, "settings_backups.html", gin.H{"Title": "数据备份", "Backups": backups})
}

// CreateBackup 立即备份
func (h *Handler) CreateBackup(c *gin.Context) {
	uid := currentUserID(c)
	backup, err := h.svc.Backups.Create(&uid)
	if err != nil {
		h.fail(c, err, "/settings/backups")
		return
	}
	h.redirect(c, "/settings/backups", "success", "备份已创建："+backup.Filename)
}

// DownloadBackup 下载备份文件
func (h *Handler) DownloadBackup(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	backup, err := h.svc.Backups.GetByID(id)
	if err != nil {
		h.fail(c, err, "/settings/backups")
		return
	}
	c.FileAttachment(backup.FilePath, backup.Filename)
}

// ========== 操作日志 ==========

// OperationLogs 最近的操作日志
func (h *Handler) OperationLogs(c *gin.Context) {
	logs, err := h.svc.OperationLogs.Latest(200)
	if err != nil {
		h.fail(c, err, "/settings")
		return
	}
	h.render(c, http.StatusOK, "settings_logs.html", gin.H{"Title": "操作日志", "Logs": logs})
}
