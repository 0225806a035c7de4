package authz

import "schoolms/internal/models"

// MenuItem 导航菜单节点。Permission 为空表示公开；没有子节点的是叶子节点
type MenuItem struct {
	Label      string
	Endpoint   string
	Icon       string
	Permission string
	Children   []MenuItem
}

// IsGroup 是否为分组节点
func (m MenuItem) IsGroup() bool {
	return len(m.Children) > 0
}

var defaultMenu = []MenuItem{
	{Label: "仪表盘", Endpoint: "/", Icon: "ri-dashboard-line", Permission: models.PermDashboardView},
	{Label: "学生管理", Endpoint: "/students", Icon: "ri-user-3-line", Permission: models.PermStudentsManage},
	{Label: "班级管理", Endpoint: "/classes", Icon: "ri-team-line", Permission: models.PermClassesManage},
	{Label: "教师管理", Endpoint: "/teachers", Icon: "ri-user-star-line", Permission: models.PermTeachersManage},
	{Label: "课程中心", Icon: "ri-booklet-line", Permission: models.PermCoursesManage, Children: []MenuItem{
		{Label: "课程列表", Endpoint: "/courses", Permission: models.PermCoursesManage},
		{Label: "新增课程", Endpoint: "/courses/new", Permission: models.PermCoursesManage},
	}},
	{Label: "成绩管理", Icon: "ri-bar-chart-2-line", Permission: models.PermGradesManage, Children: []MenuItem{
		{Label: "成绩录入", Endpoint: "/grades/entry", Permission: models.PermGradesManage},
		{Label: "成绩查询", Endpoint: "/grades/search", Permission: models.PermGradesManage},
		{Label: "成绩统计", Endpoint: "/grades/statistics", Permission: models.PermGradesManage},
	}},
	{Label: "考勤管理", Icon: "ri-time-line", Permission: models.PermAttendanceManage, Children: []MenuItem{
		{Label: "考勤签到", Endpoint: "/attendance/check", Permission: models.PermAttendanceManage},
		{Label: "考勤统计", Endpoint: "/attendance/statistics", Permission: models.PermAttendanceManage},
		{Label: "请假管理", Endpoint: "/attendance/leaves", Permission: models.PermAttendanceManage},
	}},
	{Label: "通知公告", Endpoint: "/announcements", Icon: "ri-notification-3-line"},
	{Label: "个人中心", Icon: "ri-user-settings-line", Children: []MenuItem{
		{Label: "账号信息", Endpoint: "/profile/info"},
		{Label: "修改密码", Endpoint: "/profile/password"},
		{Label: "消息通知", Endpoint: "/profile/messages"},
	}},
	{Label: "系统设置", Icon: "ri-settings-3-line", Permission: models.PermSettingsManage, Children: []MenuItem{
		{Label: "用户权限", Endpoint: "/settings/users", Permission: models.PermSettingsManage},
		{Label: "系统参数", Endpoint: "/settings/parameters", Permission: models.PermSettingsManage},
		{Label: "数据备份", Endpoint: "/settings/backups", Permission: models.PermSettingsManage},
		{Label: "操作日志", Endpoint: "/settings/logs", Permission: models.PermSettingsManage},
	}},
}

// DefaultMenu 返回静态导航树的副本
func DefaultMenu() []MenuItem {
	return cloneMenu(defaultMenu)
}

// FilterMenu 按主体权限裁剪菜单，返回新树，保持原有顺序且不修改输入。
// 权限不满足的节点直接丢弃，不再检查其子节点；分组节点过滤后若没有子节点也会被丢弃。
func FilterMenu(items []MenuItem, p *Principal) []MenuItem {
	result := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.Permission != "" && !HasPermission(p, item.Permission) {
			continue
		}
		if len(item.Children) == 0 {
			result = append(result, item)
			continue
		}
		children := FilterMenu(item.Children, p)
		if len(children) == 0 {
			continue
		}
		item.Children = children
		result = append(result, item)
	}
	return result
}

func cloneMenu(items []MenuItem) []MenuItem {
	if items == nil {
		return nil
	}
	out := make([]MenuItem, len(items))
	for i, item := range items {
		out[i] = item
		out[i].Children = cloneMenu(item.Children)
	}
	return out
}
