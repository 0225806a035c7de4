package middleware

import (
	"net/http"
	"strings"

	"schoolms/internal/authz"
	"schoolms/internal/services"
	"schoolms/pkg/jwt"
	"schoolms/pkg/logger"
	"schoolms/pkg/response"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// 首次登录未改密码时仍可访问的路径
var firstLoginExempt = []string{"/auth/first-login", "/auth/logout", "/static/", "/uploads/"}

// AuthMiddleware 认证与权限中间件
type AuthMiddleware struct {
	sessions   *SessionStore
	principals *services.PrincipalService
	jwtManager *jwt.JWTManager
}

func NewAuthMiddleware(sessions *SessionStore, principals *services.PrincipalService, jwtManager *jwt.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		principals: principals,
		jwtManager: jwtManager,
	}
}

// CurrentPrincipal 当前请求的主体，未登录为 nil
func CurrentPrincipal(c *gin.Context) *authz.Principal {
	if value, ok := c.Get(principalKey); ok {
		if p, ok := value.(*authz.Principal); ok {
			return p
		}
	}
	return nil
}

// SetPrincipal 写入当前请求的主体
func SetPrincipal(c *gin.Context, p *authz.Principal) {
	c.Set(principalKey, p)
	if p != nil {
		c.Set("user_id", p.ID)
		c.Set("username", p.Username)
	}
}

// LoadPrincipal 从 Bearer 令牌或会话cookie解析当前用户，不拦截请求
func (m *AuthMiddleware) LoadPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := m.sessions.UserID(c)

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			claims, err := m.jwtManager.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err == nil {
				userID = claims.UserID
			}
		}

		if userID != 0 {
			p, err := m.principals.Load(c.Request.Context(), userID)
			if err != nil {
				logger.GetLogger().Errorf("load principal failed: %v", err)
			}
			if p != nil {
				SetPrincipal(c, p)
			}
		}
		c.Next()
	}
}

// RequireLogin 页面：未登录跳转到登录页并带上原地址
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentPrincipal(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission 页面：缺少权限返回403页面
func (m *AuthMiddleware) RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.HasPermission(CurrentPrincipal(c), code) {
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"Title":   "403",
				"Status":  http.StatusForbidden,
				"Message": "您没有权限访问该页面",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// FirstLoginGuard 首次登录的用户必须先设置新密码，接口请求返回403
func (m *AuthMiddleware) FirstLoginGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil || !p.FirstLogin {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range firstLoginExempt {
			if path == prefix || strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		if strings.HasPrefix(path, "/api/") {
			response.Forbidden(c, "首次登录请先在页面设置新密码")
			c.Abort()
			return
		}
		c.Redirect(http.StatusFound, "/auth/first-login")
		c.Abort()
	}
}

// APIRequireLogin 接口：未登录返回401
func (m *AuthMiddleware) APIRequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentPrincipal(c) == nil {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// APIRequirePermission 接口：缺少权限返回403
func (m *AuthMiddleware) APIRequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.HasPermission(CurrentPrincipal(c), code) {
			response.Forbidden(c, "权限不足：需要 "+code+" 权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

var nextEscaper = strings.NewReplacer("%", "%25", "&", "%26", "#", "%23", "+", "%2B", " ", "%20")

// LoginURL 登录页地址，next 为登录后返回的站内路径
func LoginURL(next string) string {
	if next == "" || next == "/" {
		return "/auth/login"
	}
	return "/auth/login?next=" + nextEscaper.Replace(next)
}

// SafeNext 只接受站内路径，防止跳转到外部站点
func SafeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/"
}
