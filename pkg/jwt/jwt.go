package jwt

import (
	"errors"
	"sync"
	"time"

	"schoolms/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// PurposePasswordReset 重置密码令牌用途
const PurposePasswordReset = "password-reset"

// ErrInvalidToken 令牌无效，签名错误、用途不符、过期都归为此错误
var ErrInvalidToken = errors.New("令牌无效或已过期")

// nowFunc 便于测试替换当前时间
var nowFunc = time.Now

// JWTClaims API访问令牌声明
type JWTClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// PurposeClaims 一次性用途令牌声明（如重置密码）
type PurposeClaims struct {
	UserID  uint   `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTManager JWT管理器
type JWTManager struct {
	secretKey     string
	tokenDuration time.Duration
}

// NewJWTManager 创建JWT管理器
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
	}
}

// GenerateToken 生成API访问令牌
func (manager *JWTManager) GenerateToken(userID uint, username string) (string, error) {
	now := nowFunc()
	claims := JWTClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(manager.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "schoolms",
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(manager.secretKey))
}

// VerifyToken 验证API访问令牌
func (manager *JWTManager) VerifyToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if err := manager.parse(tokenString, claims); err != nil {
		return nil, err
	}
	// 用途令牌没有过期时间，不能当作访问令牌使用
	if claims.ExpiresAt == nil || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueToken 生成带用途的签名令牌，只记录签发时间，有效期在校验时指定
func (manager *JWTManager) IssueToken(userID uint, purpose string) (string, error) {
	claims := PurposeClaims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(nowFunc()),
			Issuer:   "schoolms",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(manager.secretKey))
}

// VerifyPurposeToken 校验用途令牌，返回用户ID；任何失败都只返回 ErrInvalidToken
func (manager *JWTManager) VerifyPurposeToken(tokenString string, maxAge time.Duration, purpose string) (uint, error) {
	claims := &PurposeClaims{}
	if err := manager.parse(tokenString, claims); err != nil {
		return 0, ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.IssuedAt == nil || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	age := nowFunc().Sub(claims.IssuedAt.Time)
	if age < 0 || age > maxAge {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func (manager *JWTManager) parse(tokenString string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			// 验证签名方法
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("意外的签名方法")
			}
			return []byte(manager.secretKey), nil
		},
		jwt.WithTimeFunc(nowFunc),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	return err
}

// 单例实现
var (
	defaultManager *JWTManager
	once           sync.Once
)

// GetJWTManager 获取全局JWT管理器实例
func GetJWTManager() *JWTManager {
	once.Do(func() {
		cfg := config.GetConfig()
		tokenDuration, err := time.ParseDuration(cfg.JWT.TokenDuration)
		if err != nil {
			tokenDuration = 24 * time.Hour
		}
		defaultManager = NewJWTManager(cfg.JWT.SecretKey, tokenDuration)
	})
	return defaultManager
}
