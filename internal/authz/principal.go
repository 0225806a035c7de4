// Package authz 权限判定与菜单过滤
package authz

import (
	"sort"

	"schoolms/internal/models"
)

// Principal 当前请求的登录主体；nil 表示未登录
type Principal struct {
	ID         uint
	Username   string
	Email      string
	FirstLogin bool
	Roles      []string

	permissions map[string]struct{}
}

// NewPrincipal 由已预加载 Roles.Permissions 的用户构建主体，权限为各角色权限的并集
func NewPrincipal(user *models.User) *Principal {
	p := &Principal{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstLogin:  user.FirstLogin,
		Roles:       user.RoleNames(),
		permissions: make(map[string]struct{}),
	}
	for _, role := range user.Roles {
		for _, perm := range role.Permissions {
			p.permissions[perm.Code] = struct{}{}
		}
	}
	return p
}

// NewPrincipalWithCodes 由缓存的权限码构建主体
func NewPrincipalWithCodes(user *models.User, codes []string) *Principal {
	p := &Principal{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstLogin:  user.FirstLogin,
		Roles:       user.RoleNames(),
		permissions: make(map[string]struct{}, len(codes)),
	}
	for _, code := range codes {
		p.permissions[code] = struct{}{}
	}
	return p
}

// HasPermission 主体的任一角色包含该权限码时返回true；精确匹配，区分大小写
func HasPermission(p *Principal, code string) bool {
	if p == nil {
		return false
	}
	_, ok := p.permissions[code]
	return ok
}

// Can 方法形式，供模板调用
func (p *Principal) Can(code string) bool {
	return HasPermission(p, code)
}

// HasRole 是否拥有指定角色
func (p *Principal) HasRole(name string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// Permissions 排序后的权限码
func (p *Principal) Permissions() []string {
	if p == nil {
		return nil
	}
	codes := make([]string, 0, len(p.permissions))
	for code := range p.permissions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
