package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("Admin@123"))
	assert.NotEqual(t, "Admin@123", u.PasswordHash)
	assert.True(t, u.CheckPassword("Admin@123"))
	assert.False(t, u.CheckPassword("admin@123"))
}

func TestAnnouncementVisibleTo(t *testing.T) {
	tests := []struct {
		target string
		roles  []string
		want   bool
	}{
		{"all", nil, true},
		{"", []string{RoleStudent}, true},
		{"教师,管理员", []string{RoleStudent}, false},
		{"教师, 学生", []string{RoleStudent}, true},
		{"教师", []string{RoleStudent, RoleTeacher}, true},
	}
	for _, tt := range tests {
		a := &Announcement{TargetRoles: tt.target}
		assert.Equal(t, tt.want, a.VisibleTo(tt.roles), "target=%q roles=%v", tt.target, tt.roles)
	}
}

func TestDefaultRoleGrants(t *testing.T) {
	grants := DefaultRoleGrants()
	assert.Len(t, grants[RoleAdmin], len(DefaultPermissions()))
	assert.NotContains(t, grants[RoleTeacher], PermTeachersManage)
	assert.NotContains(t, grants[RoleTeacher], PermSettingsManage)
	assert.ElementsMatch(t, []string{PermDashboardView, PermProfileView, PermAnnouncementsManage}, grants[RoleStudent])
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2010-05-01")
	require.NoError(t, err)
	assert.Equal(t, "2010-05-01", FormatDate(d))

	_, err = ParseDate("2010/05/01")
	assert.Error(t, err)
}
