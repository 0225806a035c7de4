package models

import "strings"

// TargetAll 公告面向全部角色
const TargetAll = "all"

// Announcement 通知公告
type Announcement struct {
	BaseModel
	Title       string `gorm:"size:150;not null" json:"title"`
	Content     string `gorm:"type:text;not null" json:"content"`
	AuthorID    *uint  `json:"author_id"`
	TargetRoles string `gorm:"size:255;not null;default:all" json:"target_roles"` // "all" 或逗号分隔的角色名
	IsPinned    bool   `gorm:"not null;default:false" json:"is_pinned"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// VisibleTo 公告是否对拥有给定角色之一的用户可见
func (a *Announcement) VisibleTo(roleNames []string) bool {
	if a.TargetRoles == "" || a.TargetRoles == TargetAll {
		return true
	}
	for _, target := range strings.Split(a.TargetRoles, ",") {
		target = strings.TrimSpace(target)
		for _, name := range roleNames {
			if target == name {
				return true
			}
		}
	}
	return false
}
