package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"schoolms/internal/authz"
	"schoolms/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/auth/login", LoginURL(""))
	assert.Equal(t, "/auth/login", LoginURL("/"))
	assert.Equal(t, "/auth/login?next=/students", LoginURL("/students"))
	assert.Equal(t, "/auth/login?next=/grades/search?class_id=1%26term=2024", LoginURL("/grades/search?class_id=1&term=2024"))
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/students", "/students"},
		{"/grades/search?term=2024", "/grades/search?term=2024"},
		{"", "/"},
		{"https://evil.example.com", "/"},
		{"//evil.example.com", "/"},
		{"/\\evil.example.com", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeNext(tt.next), tt.next)
	}
}

func TestActionAndResourceName(t *testing.T) {
	assert.Equal(t, "students", resourceName("/api/students/3"))
	assert.Equal(t, "students", resourceName("/students/3/edit"))
	assert.Equal(t, "settings", resourceName("/settings/roles/new"))

	assert.Equal(t, "delete", actionName(http.MethodDelete, "/api/students/3"))
	assert.Equal(t, "update", actionName(http.MethodPut, "/api/students/3"))
	assert.Equal(t, "edit", actionName(http.MethodPost, "/students/3/edit"))
	assert.Equal(t, "create", actionName(http.MethodPost, "/api/students/"))
	assert.Equal(t, "create", actionName(http.MethodPost, "/api/students"))
	assert.Equal(t, "students", actionName(http.MethodPost, "/classes/3/students"))
	assert.Equal(t, "import", actionName(http.MethodPost, "/students/import"))
}

func TestRequirePermission(t *testing.T) {
	m := &AuthMiddleware{}
	withPrincipal := func(p *authz.Principal) gin.HandlerFunc {
		return func(c *gin.Context) {
			SetPrincipal(c, p)
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }

	teacher := authz.NewPrincipalWithCodes(&models.User{BaseModel: models.BaseModel{ID: 2}, Username: "t"}, []string{models.PermGradesManage})

	r := gin.New()
	r.GET("/anon", m.APIRequireLogin(), ok)
	r.GET("/grades", withPrincipal(teacher), m.APIRequirePermission(models.PermGradesManage), ok)
	r.GET("/settings", withPrincipal(teacher), m.APIRequirePermission(models.PermSettingsManage), ok)
	r.GET("/page", m.RequireLogin(), ok)

	cases := map[string]int{
		"/anon":     http.StatusUnauthorized,
		"/grades":   http.StatusOK,
		"/settings": http.StatusForbidden,
		"/page":     http.StatusFound,
	}
	for path, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestFirstLoginGuard(t *testing.T) {
	m := &AuthMiddleware{}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		SetPrincipal(c, &authz.Principal{ID: 1, Username: "new", FirstLogin: true})
		c.Next()
	})
	r.Use(m.FirstLoginGuard())
	r.GET("/students", func(c *gin.Context) { c.String(http.StatusOK, "students") })
	r.GET("/auth/first-login", func(c *gin.Context) { c.String(http.StatusOK, "form") })
	r.GET("/api/students", func(c *gin.Context) { c.String(http.StatusOK, "students") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/first-login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/first-login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/students", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestSessionFlashes(t *testing.T) {
	store := NewSessionStore("secret", time.Hour, false)

	r := gin.New()
	r.GET("/set", func(c *gin.Context) {
		require.NoError(t, store.Login(c, 7, true))
		store.AddFlash(c, "success", "保存成功")
		c.Status(http.StatusNoContent)
	})
	r.GET("/get", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": store.UserID(c), "flashes": store.Flashes(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[len(cookies)-1])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"user":7`)
	assert.Contains(t, w.Body.String(), "保存成功")
	assert.Contains(t, w.Body.String(), `"Category":"success"`)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(4))
	r.POST("/", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
