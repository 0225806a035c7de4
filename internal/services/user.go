package services

import (
	"context"
	"errors"
	"time"

	"schoolms/internal/models"
	"schoolms/pkg/cache"
	apperrors "schoolms/pkg/errors"
	"schoolms/pkg/logger"

	"gorm.io/gorm"
)

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Email    string
	Password string
	RoleName string
}

// ProfileInput 个人信息
type ProfileInput struct {
	Email      string
	Phone      string
	AvatarPath string
}

type UserService struct {
	db    *gorm.DB
	cache cache.PermissionCache
}

// NewUserService permCache 可为 nil
func NewUserService(db *gorm.DB, permCache cache.PermissionCache) *UserService {
	return &UserService{db: db, cache: permCache}
}

// ========== 查询方法 ==========

// GetByID 根据ID获取用户（含角色）
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").First(&user, id).Error
	if err != nil {
		return nil, notFound(err, "用户不存在")
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, notFound(err, "用户不存在")
	}
	return &user, nil
}

// List 全部用户，按用户名排序
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	err := s.db.Preload("Roles").Order("username ASC").Find(&users).Error
	return users, err
}

// RegistrableRoles 自助注册可选的角色，管理员角色只能由管理员分配
func (s *UserService) RegistrableRoles() ([]models.Role, error) {
	var roles []models.Role
	err := s.db.Where("name <> ?", models.RoleAdmin).Order("name ASC").Find(&roles).Error
	return roles, err
}

// ========== 账号方法 ==========

// Register 注册新用户，首次登录需修改密码
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", in.Username, in.Email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.Conflict("用户名或邮箱已被占用")
	}

	if in.RoleName == models.RoleAdmin {
		return nil, apperrors.Validation("所选角色不存在，请联系管理员", nil)
	}
	var role models.Role
	if err := s.db.Where("name = ?", in.RoleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("所选角色不存在，请联系管理员", nil)
		}
		return nil, err
	}

	user := &models.User{
		Username:   in.Username,
		Email:      in.Email,
		IsActive:   true,
		FirstLogin: true,
		Roles:      []models.Role{role},
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, commitError(err, "用户名或邮箱已被占用")
	}
	return user, nil
}

// Authenticate 校验用户名密码，成功后记录登录时间
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil || !user.CheckPassword(password) {
		return nil, apperrors.Unauthorized("用户名或密码错误")
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("账号已被禁用")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword 修改密码，需验证原密码
func (s *UserService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return apperrors.Validation("", map[string]string{"old_password": "原密码错误"})
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.db.Model(user).Update("password_hash", user.PasswordHash).Error
}

// CompleteFirstLogin 首次登录设置新密码
func (s *UserService) CompleteFirstLogin(userID uint, newPassword string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.db.Model(user).Updates(map[string]interface{}{
		"password_hash": user.PasswordHash,
		"first_login":   false,
	}).Error
}

// UpdateProfile 更新邮箱、电话和头像；邮箱不能与其他用户重复
func (s *UserService) UpdateProfile(userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if in.Email != user.Email {
		taken, err := exists(s.db, &models.User{}, "email", in.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("邮箱已被占用")
		}
	}

	updates := map[string]interface{}{"email": in.Email, "phone": in.Phone}
	if in.AvatarPath != "" {
		updates["avatar_path"] = in.AvatarPath
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, commitError(err, "邮箱已被占用")
	}
	return s.GetByID(userID)
}

// SetActive 启用或禁用账号
func (s *UserService) SetActive(userID uint, active bool) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("用户不存在")
	}
	return nil
}

// ========== 角色管理方法 ==========

// AssignRoles 替换用户的角色，不存在的角色ID被忽略
func (s *UserService) AssignRoles(userID uint, roleIDs []uint) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	roles := []models.Role{}
	if len(roleIDs) > 0 {
		if err := s.db.Where("id IN ?", roleIDs).Find(&roles).Error; err != nil {
			return nil, err
		}
	}
	association := s.db.Model(user).Association("Roles")
	if len(roles) == 0 {
		err = association.Clear()
	} else {
		err = association.Replace(roles)
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return s.GetByID(userID)
}

func (s *UserService) invalidate(userIDs ...uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.Background(), userIDs...); err != nil {
		logger.GetLogger().Warnf("invalidate permission cache failed: %v", err)
	}
}
