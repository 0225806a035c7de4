package services

import (
	"context"
	"errors"

	"schoolms/internal/authz"
	"schoolms/internal/models"
	"schoolms/pkg/cache"
	"schoolms/pkg/logger"

	"gorm.io/gorm"
)

// PrincipalService 按用户ID构建请求主体，可选Redis缓存权限码
type PrincipalService struct {
	db    *gorm.DB
	cache cache.PermissionCache
}

func NewPrincipalService(db *gorm.DB, permCache cache.PermissionCache) *PrincipalService {
	return &PrincipalService{db: db, cache: permCache}
}

// Load 返回主体；用户不存在或已禁用时返回 nil, nil
func (s *PrincipalService) Load(ctx context.Context, userID uint) (*authz.Principal, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}

	if s.cache != nil {
		codes, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			logger.GetLogger().Warnf("read permission cache failed: %v", err)
		} else if ok {
			return authz.NewPrincipalWithCodes(&user, codes), nil
		}
	}

	if err := s.db.WithContext(ctx).Preload("Roles.Permissions").First(&user, userID).Error; err != nil {
		return nil, err
	}
	principal := authz.NewPrincipal(&user)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, principal.Permissions()); err != nil {
			logger.GetLogger().Warnf("write permission cache failed: %v", err)
		}
	}
	return principal, nil
}
