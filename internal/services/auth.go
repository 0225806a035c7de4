package services

import (
	"errors"
	"time"

	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"
	"schoolms/pkg/jwt"

	"gorm.io/gorm"
)

const invalidResetToken = "重置链接无效或已过期"

// AuthService 重置密码与接口令牌
type AuthService struct {
	db          *gorm.DB
	jwtManager  *jwt.JWTManager
	resetMaxAge time.Duration
}

func NewAuthService(db *gorm.DB, jwtManager *jwt.JWTManager, resetMaxAge time.Duration) *AuthService {
	return &AuthService{db: db, jwtManager: jwtManager, resetMaxAge: resetMaxAge}
}

// ForgotPassword 为邮箱对应用户生成重置令牌，同时保存在用户记录上
func (s *AuthService) ForgotPassword(email string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", notFound(err, "未找到对应邮箱的用户")
	}

	token, err := s.jwtManager.IssueToken(user.ID, jwt.PurposePasswordReset)
	if err != nil {
		return "", err
	}
	if err := s.db.Model(&user).Update("reset_token", token).Error; err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword 校验令牌后设置新密码。令牌须与用户记录上保存的一致，成功后清除保存的令牌
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if token == "" {
		return apperrors.Validation(invalidResetToken, nil)
	}
	userID, err := s.jwtManager.VerifyPurposeToken(token, s.resetMaxAge, jwt.PurposePasswordReset)
	if err != nil {
		return apperrors.Validation(invalidResetToken, nil)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Validation(invalidResetToken, nil)
		}
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	// 条件更新保证同一令牌只能成功使用一次
	result := s.db.Model(&models.User{}).
		Where("id = ? AND reset_token = ?", user.ID, token).
		Updates(map[string]interface{}{
			"password_hash": user.PasswordHash,
			"reset_token":   nil,
			"first_login":   false,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.Validation(invalidResetToken, nil)
	}
	return nil
}

// IssueAPIToken 为已认证用户签发接口访问令牌
func (s *AuthService) IssueAPIToken(user *models.User) (string, error) {
	return s.jwtManager.GenerateToken(user.ID, user.Username)
}

// VerifyAPIToken 校验接口访问令牌，返回用户ID
func (s *AuthService) VerifyAPIToken(token string) (uint, error) {
	claims, err := s.jwtManager.VerifyToken(token)
	if err != nil {
		return 0, apperrors.Unauthorized("Token无效或已过期")
	}
	return claims.UserID, nil
}
