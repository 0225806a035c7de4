package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"unique;not null;size:80"`
	Email        string     `json:"email" gorm:"unique;not null;size:120"`
	Phone        string     `json:"phone" gorm:"size:20"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	AvatarPath   string     `json:"avatar_path" gorm:"size:255"`
	IsActive     bool       `json:"is_active" gorm:"not null"`
	FirstLogin   bool       `json:"first_login" gorm:"not null"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	ResetToken   *string    `json:"-" gorm:"size:512"`

	// 多对多关联
	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// SetPassword 设置密码 - 数据操作方法
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码 - 数据操作方法
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RoleNames 已加载角色的名称
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole 是否拥有指定角色（需预加载Roles）
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
