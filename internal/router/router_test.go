package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"schoolms/internal/middleware"
	"schoolms/internal/models"
	"schoolms/internal/services"
	"schoolms/internal/testutil"
	"schoolms/pkg/config"
	"schoolms/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	engine *gin.Engine
	db     *gorm.DB
	roles  map[string]*models.Role
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{
			SecretKey:           "test-secret",
			UploadDir:           t.TempDir(),
			MaxUploadSize:       1 << 20,
			SessionLifetime:     time.Hour,
			BackupDir:           t.TempDir(),
			PasswordResetMaxAge: time.Hour,
		},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		},
	}
	db := testutil.NewDB(t)
	roles := testutil.SeedRBAC(t, db)
	jwtManager := jwt.NewJWTManager(cfg.App.SecretKey, time.Hour)
	svc := services.NewContainer(db, cfg, jwtManager, nil)
	sessions := middleware.NewSessionStore(cfg.App.SecretKey, cfg.App.SessionLifetime, false)

	engine, err := SetupRouter(cfg, svc, sessions, jwtManager)
	require.NoError(t, err)
	return &testApp{engine: engine, db: db, roles: roles}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) apiToken(t *testing.T, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := a.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func bearer(method, path, token string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestPageRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/students?page=2", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login?next=/students?page=2", w.Header().Get("Location"))
}

func TestAPIRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/api/students", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestAPIRejectsInvalidToken(t *testing.T) {
	app := newTestApp(t)
	w := app.do(bearer(http.MethodGet, "/api/students", "not-a-token", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPILoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "admin", "Admin@123", app.roles[models.RoleAdmin])

	body := []byte(`{"username":"admin","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := app.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIStudentCRUD(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "admin", "Admin@123", app.roles[models.RoleAdmin])
	require.NoError(t, app.db.Create(&models.Classroom{Name: "高一(1)班"}).Error)
	token := app.apiToken(t, "admin", "Admin@123")

	payload := []byte(`{"student_number":"S001","name":"张三","gender":"男","date_of_birth":"2008-05-01",` +
		`"class_name":"高一(1)班","email":"s001@example.com","phone":"13800000000"}`)
	w := app.do(bearer(http.MethodPost, "/api/students", token, payload))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID            uint   `json:"id"`
		StudentNumber string `json:"student_number"`
		DateOfBirth   string `json:"date_of_birth"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "S001", created.StudentNumber)
	assert.Equal(t, "2008-05-01", created.DateOfBirth)

	w = app.do(bearer(http.MethodPost, "/api/students", token, payload))
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate student number")
	assert.JSONEq(t, `{"error":"学号已存在"}`, w.Body.String())

	w = app.do(bearer(http.MethodGet, "/api/students", token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "S001")

	path := "/api/students/" + jsonNumber(created.ID)
	w = app.do(bearer(http.MethodDelete, path, token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(bearer(http.MethodGet, path, token, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIStudentUpdateKeepsGuardian(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "admin", "Admin@123", app.roles[models.RoleAdmin])
	class := &models.Classroom{Name: "高一(1)班"}
	require.NoError(t, app.db.Create(class).Error)
	dob, err := models.ParseDate("2008-05-01")
	require.NoError(t, err)
	student := &models.Student{
		StudentNumber: "S001", Name: "张三", Gender: "男", DateOfBirth: dob, ClassID: &class.ID,
		Email: "s001@example.com", Phone: "13800000000", GuardianName: "张父", GuardianPhone: "13900000000",
	}
	require.NoError(t, app.db.Create(student).Error)
	token := app.apiToken(t, "admin", "Admin@123")

	payload := []byte(`{"student_number":"S001","name":"张三丰","gender":"男","date_of_birth":"2008-05-01",` +
		`"class_id":` + jsonNumber(class.ID) + `,"email":"s001@example.com","phone":"13800000000"}`)
	w := app.do(bearer(http.MethodPut, "/api/students/"+jsonNumber(student.ID), token, payload))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved models.Student
	require.NoError(t, app.db.First(&saved, student.ID).Error)
	assert.Equal(t, "张三丰", saved.Name)
	assert.Equal(t, "张父", saved.GuardianName)
	assert.Equal(t, "13900000000", saved.GuardianPhone)
}

func TestAPIStudentValidation(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "admin", "Admin@123", app.roles[models.RoleAdmin])
	token := app.apiToken(t, "admin", "Admin@123")

	w := app.do(bearer(http.MethodPost, "/api/students", token, []byte(`{"name":"张三"}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "student_number")
	assert.Contains(t, body.Fields, "email")
}

func TestAPIPermissionDenied(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "stu", "Student@1", app.roles[models.RoleStudent])
	token := app.apiToken(t, "stu", "Student@1")

	w := app.do(bearer(http.MethodGet, "/api/students", token, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 公告只需登录
	w = app.do(bearer(http.MethodGet, "/api/announcements", token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIUnknownRoute(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestCORSPreflightOnlyForAPI(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/students", nil)
	req.Header.Set("Origin", "http://example.org")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := app.do(req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.Header.Set("Origin", "http://example.org")
	w = app.do(req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// webLogin 表单登录，返回会话cookie
func webLogin(t *testing.T, app *testApp, username, password, next string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}, "next": {next}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return app.do(req)
}

func withCookies(req *http.Request, w *httptest.ResponseRecorder) *http.Request {
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestWebLoginFlow(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "teacher", "Teacher@1", app.roles[models.RoleTeacher])

	w := webLogin(t, app, "teacher", "Teacher@1", "/grades/search")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/grades/search", w.Header().Get("Location"))
	require.NotEmpty(t, w.Result().Cookies())

	// 已登录访问登录页直接跳回
	req := withCookies(httptest.NewRequest(http.MethodGet, "/auth/login?next=/courses", nil), w)
	w2 := app.do(req)
	assert.Equal(t, http.StatusFound, w2.Code)
	assert.Equal(t, "/courses", w2.Header().Get("Location"))

	// 教师没有系统设置权限
	req = withCookies(httptest.NewRequest(http.MethodGet, "/settings/users", nil), w)
	w3 := app.do(req)
	assert.Equal(t, http.StatusForbidden, w3.Code)
	assert.Contains(t, w3.Body.String(), "403")
}

func TestWebLoginRejectsExternalNext(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "teacher", "Teacher@1", app.roles[models.RoleTeacher])

	w := webLogin(t, app, "teacher", "Teacher@1", "//evil.example.com")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestWebLoginFailureRendersForm(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "teacher", "Teacher@1", app.roles[models.RoleTeacher])

	w := webLogin(t, app, "teacher", "wrong", "")
	assert.NotEqual(t, http.StatusFound, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
}

func TestFirstLoginGuard(t *testing.T) {
	app := newTestApp(t)
	u := testutil.CreateUser(t, app.db, "newbie", "Newbie@1", app.roles[models.RoleTeacher])
	require.NoError(t, app.db.Model(u).Update("first_login", true).Error)

	w := webLogin(t, app, "newbie", "Newbie@1", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/first-login", w.Header().Get("Location"))

	req := withCookies(httptest.NewRequest(http.MethodGet, "/courses", nil), w)
	w2 := app.do(req)
	assert.Equal(t, http.StatusFound, w2.Code)
	assert.Equal(t, "/auth/first-login", w2.Header().Get("Location"))
}

func TestSectionRedirects(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "admin", "Admin@123", app.roles[models.RoleAdmin])
	w := webLogin(t, app, "admin", "Admin@123", "")
	require.Equal(t, http.StatusFound, w.Code)

	for from, to := range map[string]string{
		"/grades":     "/grades/search",
		"/attendance": "/attendance/check",
		"/profile":    "/profile/info",
		"/settings":   "/settings/users",
	} {
		req := withCookies(httptest.NewRequest(http.MethodGet, from, nil), w)
		got := app.do(req)
		assert.Equal(t, http.StatusFound, got.Code, from)
		assert.Equal(t, to, got.Header().Get("Location"), from)
	}
}

func TestStaticAssets(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
