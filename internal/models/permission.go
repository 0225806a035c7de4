package models

// Permission 权限模型
type Permission struct {
	BaseModel
	Code     string `gorm:"uniqueIndex;size:100;not null" json:"code"` // 权限代码，如 "students.manage"
	Name     string `gorm:"size:100;not null" json:"name"`             // 权限名称，如 "学生管理"
	Category string `gorm:"size:50;not null" json:"category"`          // menu 或 action
}

// 权限分类
const (
	CategoryMenu   = "menu"
	CategoryAction = "action"
)

// 权限代码常量
const (
	PermDashboardView       = "dashboard.view"
	PermStudentsManage      = "students.manage"
	PermClassesManage       = "classes.manage"
	PermTeachersManage      = "teachers.manage"
	PermCoursesManage       = "courses.manage"
	PermGradesManage        = "grades.manage"
	PermAttendanceManage    = "attendance.manage"
	PermAnnouncementsManage = "announcements.manage"
	PermProfileView         = "profile.view"
	PermSettingsManage      = "settings.manage"
	PermStudentsExport      = "students.export"
	PermStudentsImport      = "students.import"
	PermGradesExport        = "grades.export"
)

// DefaultPermissions 系统内置权限
func DefaultPermissions() []Permission {
	return []Permission{
		{Code: PermDashboardView, Name: "查看仪表盘", Category: CategoryMenu},
		{Code: PermStudentsManage, Name: "学生管理", Category: CategoryMenu},
		{Code: PermClassesManage, Name: "班级管理", Category: CategoryMenu},
		{Code: PermTeachersManage, Name: "教师管理", Category: CategoryMenu},
		{Code: PermCoursesManage, Name: "课程管理", Category: CategoryMenu},
		{Code: PermGradesManage, Name: "成绩管理", Category: CategoryMenu},
		{Code: PermAttendanceManage, Name: "考勤管理", Category: CategoryMenu},
		{Code: PermAnnouncementsManage, Name: "公告管理", Category: CategoryMenu},
		{Code: PermProfileView, Name: "个人中心", Category: CategoryMenu},
		{Code: PermSettingsManage, Name: "系统设置", Category: CategoryMenu},
		{Code: PermStudentsExport, Name: "学生导出", Category: CategoryAction},
		{Code: PermStudentsImport, Name: "学生导入", Category: CategoryAction},
		{Code: PermGradesExport, Name: "成绩导出", Category: CategoryAction},
	}
}

// DefaultRoleGrants 内置角色及其权限，管理员拥有全部权限
func DefaultRoleGrants() map[string][]string {
	all := make([]string, 0, 13)
	for _, p := range DefaultPermissions() {
		all = append(all, p.Code)
	}
	return map[string][]string{
		RoleAdmin: all,
		RoleTeacher: {
			PermDashboardView, PermStudentsManage, PermClassesManage, PermCoursesManage,
			PermGradesManage, PermAttendanceManage, PermAnnouncementsManage, PermProfileView,
			PermStudentsExport, PermStudentsImport, PermGradesExport,
		},
		RoleStudent: {PermDashboardView, PermProfileView, PermAnnouncementsManage},
	}
}
