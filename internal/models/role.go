package models

// Role 角色模型
type Role struct {
	BaseModel
	Name        string `gorm:"unique;size:50;not null" json:"name"` // 角色名称，如 "教师"
	Description string `gorm:"size:255" json:"description"`

	// 关联关系
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"many2many:user_roles;" json:"-"`
}

// 系统预定义角色名称
const (
	RoleAdmin   = "管理员"
	RoleTeacher = "教师"
	RoleStudent = "学生"
)

// HasPermission 角色是否包含指定权限码（需预加载Permissions）
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}
