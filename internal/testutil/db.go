// Package testutil 测试用的内存数据库
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"schoolms/internal/database"
	"schoolms/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB 每个测试一个独立的内存SQLite库，已完成迁移
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// SeedRBAC 写入内置权限和角色，返回角色名到角色的映射
func SeedRBAC(t *testing.T, db *gorm.DB) map[string]*models.Role {
	t.Helper()
	perms := models.DefaultPermissions()
	require.NoError(t, db.Create(&perms).Error)
	byCode := make(map[string]models.Permission, len(perms))
	for _, p := range perms {
		byCode[p.Code] = p
	}

	roles := make(map[string]*models.Role)
	for name, codes := range models.DefaultRoleGrants() {
		role := &models.Role{Name: name}
		for _, code := range codes {
			role.Permissions = append(role.Permissions, byCode[code])
		}
		require.NoError(t, db.Create(role).Error)
		roles[name] = role
	}
	return roles
}

// CreateUser 创建一个启用状态的用户并绑定角色
func CreateUser(t *testing.T, db *gorm.DB, username, password string, roles ...*models.Role) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", IsActive: true}
	require.NoError(t, u.SetPassword(password))
	for _, r := range roles {
		u.Roles = append(u.Roles, *r)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
