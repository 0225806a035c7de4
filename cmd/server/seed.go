package main

import (
	"fmt"

	"schoolms/internal/models"
	"schoolms/pkg/logger"

	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "Admin@123"
)

// seedData 初始化种子数据，可重复执行
func seedData(db *gorm.DB) error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	// 1. 初始化权限
	byCode, err := initializePermissions(db)
	if err != nil {
		return fmt.Errorf("初始化权限失败: %v", err)
	}

	// 2. 创建内置角色
	roles, err := initializeRoles(db, byCode)
	if err != nil {
		return fmt.Errorf("初始化角色失败: %v", err)
	}

	// 3. 创建默认管理员用户
	if err := createDefaultAdmin(db, roles[models.RoleAdmin]); err != nil {
		return fmt.Errorf("创建默认管理员失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// initializePermissions 按权限码补齐内置权限
func initializePermissions(db *gorm.DB) (map[string]models.Permission, error) {
	byCode := make(map[string]models.Permission)
	for _, perm := range models.DefaultPermissions() {
		p := perm
		if err := db.Where(models.Permission{Code: p.Code}).
			Attrs(models.Permission{Name: p.Name, Category: p.Category}).
			FirstOrCreate(&p).Error; err != nil {
			return nil, err
		}
		byCode[p.Code] = p
	}
	return byCode, nil
}

// initializeRoles 创建缺失的内置角色；已存在的角色保留管理员调整过的权限
func initializeRoles(db *gorm.DB, byCode map[string]models.Permission) (map[string]*models.Role, error) {
	roles := make(map[string]*models.Role)
	for name, codes := range models.DefaultRoleGrants() {
		var existing []models.Role
		if err := db.Where("name = ?", name).Limit(1).Find(&existing).Error; err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			roles[name] = &existing[0]
			continue
		}

		role := &models.Role{Name: name, Description: "系统内置角色"}
		for _, code := range codes {
			role.Permissions = append(role.Permissions, byCode[code])
		}
		if err := db.Create(role).Error; err != nil {
			return nil, err
		}
		logger.GetLogger().Infof("内置角色 %s 创建成功", name)
		roles[name] = role
	}
	return roles, nil
}

// createDefaultAdmin 创建默认管理员，首次登录须修改密码
func createDefaultAdmin(db *gorm.DB, adminRole *models.Role) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", defaultAdminUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.GetLogger().Info("默认管理员已存在，跳过创建")
		return nil
	}

	admin := &models.User{
		Username:   defaultAdminUsername,
		Email:      defaultAdminEmail,
		IsActive:   true,
		FirstLogin: true,
		Roles:      []models.Role{*adminRole},
	}
	if err := admin.SetPassword(defaultAdminPassword); err != nil {
		return err
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Infof("默认管理员创建成功（用户名: %s）", defaultAdminUsername)
	return nil
}
