package services

import (
	"context"

	"schoolms/internal/models"
	"schoolms/pkg/cache"
	apperrors "schoolms/pkg/errors"
	"schoolms/pkg/logger"

	"gorm.io/gorm"
)

// RoleInput 角色参数
type RoleInput struct {
	Name        string
	Description string
}

type RoleService struct {
	db    *gorm.DB
	cache cache.PermissionCache
}

func NewRoleService(db *gorm.DB, permCache cache.PermissionCache) *RoleService {
	return &RoleService{db: db, cache: permCache}
}

// ========== 基础CRUD方法 ==========

// List 全部角色（含权限），按名称排序
func (s *RoleService) List() ([]models.Role, error) {
	var roles []models.Role
	err := s.db.Preload("Permissions").Order("name ASC").Find(&roles).Error
	return roles, err
}

// GetByID 根据ID获取角色
func (s *RoleService) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	if err := s.db.Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, notFound(err, "角色不存在")
	}
	return &role, nil
}

// Create 创建角色
func (s *RoleService) Create(in RoleInput) (*models.Role, error) {
	taken, err := exists(s.db, &models.Role{}, "name", in.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("角色名称已存在")
	}

	role := &models.Role{Name: in.Name, Description: in.Description}
	if err := s.db.Create(role).Error; err != nil {
		return nil, commitError(err, "角色名称已存在")
	}
	return role, nil
}

// Update 更新角色，名称仅在变化且与其他角色冲突时拒绝
func (s *RoleService) Update(id uint, in RoleInput) (*models.Role, error) {
	role, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Name != role.Name {
		taken, err := exists(s.db, &models.Role{}, "name", in.Name, role.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("角色名称已存在")
		}
	}

	role.Name = in.Name
	role.Description = in.Description
	if err := s.db.Model(role).Updates(map[string]interface{}{
		"name":        role.Name,
		"description": role.Description,
	}).Error; err != nil {
		return nil, commitError(err, "角色名称已存在")
	}
	return role, nil
}

// Delete 删除角色；仍有用户持有该角色时拒绝
func (s *RoleService) Delete(id uint) error {
	role, err := s.GetByID(id)
	if err != nil {
		return err
	}
	holders := s.db.Model(role).Association("Users").Count()
	if holders > 0 {
		return apperrors.Conflict("该角色仍有用户在使用，无法删除")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(role).Association("Permissions").Clear(); err != nil {
			return err
		}
		return tx.Delete(role).Error
	})
}

// ========== 权限管理方法 ==========

// AssignPermissions 替换角色的权限集合
func (s *RoleService) AssignPermissions(roleID uint, permissionIDs []uint) (*models.Role, error) {
	role, err := s.GetByID(roleID)
	if err != nil {
		return nil, err
	}

	permissions := []models.Permission{}
	if len(permissionIDs) > 0 {
		if err := s.db.Where("id IN ?", permissionIDs).Find(&permissions).Error; err != nil {
			return nil, err
		}
	}
	association := s.db.Model(role).Association("Permissions")
	if len(permissions) == 0 {
		err = association.Clear()
	} else {
		err = association.Replace(permissions)
	}
	if err != nil {
		return nil, err
	}

	s.invalidateHolders(role)
	return s.GetByID(roleID)
}

// invalidateHolders 角色权限变化后清除持有者的缓存
func (s *RoleService) invalidateHolders(role *models.Role) {
	if s.cache == nil {
		return
	}
	var userIDs []uint
	if err := s.db.Table("user_roles").Where("role_id = ?", role.ID).Pluck("user_id", &userIDs).Error; err != nil {
		logger.GetLogger().Warnf("load role holders failed: %v", err)
		return
	}
	if err := s.cache.Invalidate(context.Background(), userIDs...); err != nil {
		logger.GetLogger().Warnf("invalidate permission cache failed: %v", err)
	}
}

type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// List 全部权限，按分类、代码排序
func (s *PermissionService) List() ([]models.Permission, error) {
	var permissions []models.Permission
	err := s.db.Order("category DESC, code ASC").Find(&permissions).Error
	return permissions, err
}

// GroupByCategory 按分类分组
func (s *PermissionService) GroupByCategory() (map[string][]models.Permission, error) {
	permissions, err := s.List()
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]models.Permission)
	for _, p := range permissions {
		groups[p.Category] = append(groups[p.Category], p)
	}
	return groups, nil
}
