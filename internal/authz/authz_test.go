package authz

import (
	"testing"

	"schoolms/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func role(name string, codes ...string) models.Role {
	r := models.Role{Name: name}
	for _, c := range codes {
		r.Permissions = append(r.Permissions, models.Permission{Code: c})
	}
	return r
}

func principalWith(roles ...models.Role) *Principal {
	return NewPrincipal(&models.User{BaseModel: models.BaseModel{ID: 1}, Username: "u", Roles: roles})
}

func labels(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestHasPermission(t *testing.T) {
	p := principalWith(
		role("教师", models.PermGradesManage),
		role("班主任", models.PermClassesManage, models.PermGradesManage),
	)

	tests := []struct {
		name string
		p    *Principal
		code string
		want bool
	}{
		{"nil principal", nil, models.PermGradesManage, false},
		{"first role", p, models.PermGradesManage, true},
		{"second role", p, models.PermClassesManage, true},
		{"missing", p, models.PermSettingsManage, false},
		{"case sensitive", p, "Grades.Manage", false},
		{"no prefix match", p, "grades", false},
		{"empty code", p, "", false},
		{"no roles", principalWith(), models.PermGradesManage, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.p, tt.code))
		})
	}
}

func TestAddingRoleNeverRemovesPermission(t *testing.T) {
	base := []models.Role{role("a", models.PermStudentsManage), role("b", models.PermGradesManage)}
	extra := role("c", models.PermSettingsManage, models.PermStudentsManage)

	before := principalWith(base...)
	after := principalWith(append(base, extra)...)

	for _, perm := range models.DefaultPermissions() {
		if HasPermission(before, perm.Code) {
			assert.True(t, HasPermission(after, perm.Code), perm.Code)
		}
	}
	assert.True(t, HasPermission(after, models.PermSettingsManage))
	assert.Equal(t, []string{models.PermGradesManage, models.PermSettingsManage, models.PermStudentsManage}, after.Permissions())
}

func TestFilterMenuByRole(t *testing.T) {
	grants := models.DefaultRoleGrants()

	tests := []struct {
		name string
		p    *Principal
		want []string
	}{
		{"anonymous", nil, []string{"通知公告", "个人中心"}},
		{"student", principalWith(role(models.RoleStudent, grants[models.RoleStudent]...)),
			[]string{"仪表盘", "通知公告", "个人中心"}},
		{"teacher", principalWith(role(models.RoleTeacher, grants[models.RoleTeacher]...)),
			[]string{"仪表盘", "学生管理", "班级管理", "课程中心", "成绩管理", "考勤管理", "通知公告", "个人中心"}},
		{"admin", principalWith(role(models.RoleAdmin, grants[models.RoleAdmin]...)),
			[]string{"仪表盘", "学生管理", "班级管理", "教师管理", "课程中心", "成绩管理", "考勤管理", "通知公告", "个人中心", "系统设置"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, labels(FilterMenu(DefaultMenu(), tt.p)))
		})
	}
}

func TestFilterMenuGroups(t *testing.T) {
	p := principalWith(role("r", "a"))

	tree := []MenuItem{
		{Label: "locked group", Permission: "x", Children: []MenuItem{{Label: "public child"}}},
		{Label: "emptied group", Children: []MenuItem{{Label: "needs x", Permission: "x"}}},
		{Label: "mixed", Children: []MenuItem{
			{Label: "needs a", Permission: "a"},
			{Label: "needs x", Permission: "x"},
			{Label: "nested", Children: []MenuItem{{Label: "deep x", Permission: "x"}}},
		}},
		{Label: "empty children", Children: []MenuItem{}},
		{Label: "leaf a", Permission: "a"},
	}

	got := FilterMenu(tree, p)
	require.Equal(t, []string{"mixed", "empty children", "leaf a"}, labels(got))
	assert.Equal(t, []string{"needs a"}, labels(got[0].Children))
}

func TestFilterMenuDoesNotMutateInput(t *testing.T) {
	input := DefaultMenu()
	snapshot := DefaultMenu()

	_ = FilterMenu(input, nil)
	_ = FilterMenu(input, principalWith(role("r", models.PermGradesManage)))

	assert.Equal(t, snapshot, input)
}

// 对菜单权限码的所有子集检查：保留的节点都有权限，保留的分组都非空
func TestFilterMenuInvariants(t *testing.T) {
	var codes []string
	for _, perm := range models.DefaultPermissions() {
		if perm.Category == models.CategoryMenu {
			codes = append(codes, perm.Code)
		}
	}

	var check func(t *testing.T, items []MenuItem, p *Principal)
	check = func(t *testing.T, items []MenuItem, p *Principal) {
		for _, it := range items {
			if it.Permission != "" {
				require.True(t, HasPermission(p, it.Permission), it.Label)
			}
			require.True(t, it.Endpoint != "" || it.IsGroup(), "childless group %s", it.Label)
			if it.IsGroup() {
				check(t, it.Children, p)
			}
		}
	}
	for mask := 0; mask < 1<<len(codes); mask++ {
		var granted []string
		for i, c := range codes {
			if mask&(1<<i) != 0 {
				granted = append(granted, c)
			}
		}
		p := principalWith(role("r", granted...))
		check(t, FilterMenu(DefaultMenu(), p), p)
	}
}
