package router

import (
	"net/http"
	"strings"
	"time"

	"schoolms/internal/handlers/api"
	"schoolms/internal/handlers/web"
	"schoolms/internal/middleware"
	"schoolms/internal/models"
	"schoolms/internal/services"
	"schoolms/internal/views"
	"schoolms/pkg/config"
	"schoolms/pkg/jwt"
	"schoolms/pkg/response"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc *services.Container, sessions *middleware.SessionStore, jwtManager *jwt.JWTManager) (*gin.Engine, error) {
	router := gin.New()

	tmpl, err := views.Load()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	// 中间件
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.BodyLimit(cfg.App.MaxUploadSize))
	// CORS 只作用于 /api，挂在全局以便处理预检请求
	router.Use(apiOnly(middleware.SetupCORS(cfg.CORS)))

	router.StaticFS("/static", http.FS(views.Static()))
	router.Static("/uploads", cfg.App.UploadDir)

	auth := middleware.NewAuthMiddleware(sessions, svc.Principals, jwtManager)
	router.Use(auth.LoadPrincipal())
	router.Use(auth.FirstLoginGuard())
	router.Use(middleware.OperationLog(svc.OperationLogs))

	registerWebRoutes(router, web.NewHandler(svc, sessions), auth)
	registerAPIRoutes(router, api.NewHandler(svc), auth)

	router.NoRoute(func(c *gin.Context) {
		if isAPI(c) {
			response.NotFound(c, "接口不存在")
			return
		}
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Title": "404", "Status": http.StatusNotFound, "Message": "页面不存在"})
	})
	return router, nil
}

// 注册页面路由
func registerWebRoutes(router *gin.Engine, h *web.Handler, auth *middleware.AuthMiddleware) {
	// 无需登录
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/login", h.LoginPage)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/logout", h.Logout)
		authGroup.GET("/register", h.RegisterPage)
		authGroup.POST("/register", h.Register)
		authGroup.GET("/forgot", h.ForgotPage)
		authGroup.POST("/forgot", h.Forgot)
		authGroup.GET("/reset/:token", h.ResetPage)
		authGroup.POST("/reset/:token", h.Reset)

		authGroup.GET("/first-login", auth.RequireLogin(), h.FirstLoginPage)
		authGroup.POST("/first-login", auth.RequireLogin(), h.FirstLogin)
	}

	// 以下均需登录
	site := router.Group("", auth.RequireLogin())

	dashboard := site.Group("", auth.RequirePermission(models.PermDashboardView))
	{
		dashboard.GET("/", h.Dashboard)
		dashboard.POST("/", h.AddTodo)
		dashboard.POST("/todos/:id/complete", h.CompleteTodo)
	}

	students := site.Group("/students", auth.RequirePermission(models.PermStudentsManage))
	{
		students.GET("", h.ListStudents)
		students.GET("/new", h.NewStudentPage)
		students.POST("/new", h.CreateStudent)
		students.GET("/export", auth.RequirePermission(models.PermStudentsExport), h.ExportStudents)
		students.GET("/import", auth.RequirePermission(models.PermStudentsImport), h.ImportStudentsPage)
		students.POST("/import", auth.RequirePermission(models.PermStudentsImport), h.ImportStudents)
		students.GET("/:id", h.ShowStudent)
		students.GET("/:id/edit", h.EditStudentPage)
		students.POST("/:id/edit", h.UpdateStudent)
		students.POST("/:id/delete", h.DeleteStudent)
	}

	classes := site.Group("/classes", auth.RequirePermission(models.PermClassesManage))
	{
		classes.GET("", h.ListClasses)
		classes.GET("/new", h.NewClassPage)
		classes.POST("/new", h.CreateClass)
		classes.GET("/:id", h.ShowClass)
		classes.GET("/:id/edit", h.EditClassPage)
		classes.POST("/:id/edit", h.UpdateClass)
		classes.POST("/:id/delete", h.DeleteClass)
		classes.POST("/:id/students", h.AssignClassStudents)
	}

	teachers := site.Group("/teachers", auth.RequirePermission(models.PermTeachersManage))
	{
		teachers.GET("", h.ListTeachers)
		teachers.GET("/new", h.NewTeacherPage)
		teachers.POST("/new", h.CreateTeacher)
		teachers.GET("/:id", h.ShowTeacher)
		teachers.GET("/:id/edit", h.EditTeacherPage)
		teachers.POST("/:id/edit", h.UpdateTeacher)
		teachers.POST("/:id/delete", h.DeleteTeacher)
	}

	courses := site.Group("/courses", auth.RequirePermission(models.PermCoursesManage))
	{
		courses.GET("", h.ListCourses)
		courses.GET("/new", h.NewCoursePage)
		courses.POST("/new", h.CreateCourse)
		courses.GET("/:id", h.ShowCourse)
		courses.GET("/:id/edit", h.EditCoursePage)
		courses.POST("/:id/edit", h.UpdateCourse)
		courses.POST("/:id/delete", h.DeleteCourse)
		courses.POST("/:id/schedules", h.AddCourseSchedule)
		courses.POST("/:id/schedules/:scheduleID/delete", h.DeleteCourseSchedule)
		courses.POST("/:id/students", h.AssignCourseStudents)
	}

	grades := site.Group("/grades", auth.RequirePermission(models.PermGradesManage))
	{
		grades.GET("", redirectTo("/grades/search"))
		grades.GET("/search", h.ListGrades)
		grades.GET("/entry", h.GradeEntryPage)
		grades.POST("/entry", h.SaveGrades)
		grades.GET("/statistics", h.GradeStatistics)
		grades.GET("/export", auth.RequirePermission(models.PermGradesExport), h.ExportGrades)
	}

	// 请假只需登录：学生提交，审批在服务层校验考勤管理权限
	leaves := site.Group("/attendance/leaves")
	{
		leaves.GET("", h.ListLeaves)
		leaves.POST("", h.CreateLeave)
		leaves.POST("/:id/review", auth.RequirePermission(models.PermAttendanceManage), h.ReviewLeave)
	}

	attendance := site.Group("/attendance", auth.RequirePermission(models.PermAttendanceManage))
	{
		attendance.GET("", redirectTo("/attendance/check"))
		attendance.GET("/check", h.AttendanceCheckPage)
		attendance.POST("/check", h.SaveAttendance)
		attendance.GET("/statistics", h.AttendanceStatistics)
	}

	announcements := site.Group("/announcements")
	{
		announcements.GET("", h.ListAnnouncements)
		announcements.GET("/new", auth.RequirePermission(models.PermAnnouncementsManage), h.NewAnnouncementPage)
		announcements.POST("/new", auth.RequirePermission(models.PermAnnouncementsManage), h.CreateAnnouncement)
		announcements.GET("/:id", h.ShowAnnouncement)
	}

	profile := site.Group("/profile")
	{
		profile.GET("", redirectTo("/profile/info"))
		profile.GET("/info", h.Profile)
		profile.POST("/info", h.UpdateProfile)
		profile.GET("/password", h.Profile)
		profile.POST("/password", h.ChangePassword)
		profile.GET("/messages", h.Messages)
		profile.POST("/messages/:id/read", h.MarkMessageRead)
	}

	settings := site.Group("/settings", auth.RequirePermission(models.PermSettingsManage))
	{
		settings.GET("", redirectTo("/settings/users"))
		settings.GET("/users", h.ListUsers)
		settings.POST("/users/:id/roles", h.AssignUserRoles)
		settings.POST("/users/:id/toggle", h.ToggleUser)
		settings.GET("/roles", h.ListRoles)
		settings.GET("/roles/new", h.NewRolePage)
		settings.POST("/roles/new", h.CreateRole)
		settings.GET("/roles/:id/edit", h.EditRolePage)
		settings.POST("/roles/:id/edit", h.UpdateRole)
		settings.POST("/roles/:id/delete", h.DeleteRole)
		settings.GET("/parameters", h.Parameters)
		settings.POST("/parameters", h.SaveParameter)
		settings.GET("/backups", h.Backups)
		settings.POST("/backups", h.CreateBackup)
		settings.GET("/backups/:id/download", h.DownloadBackup)
		settings.GET("/logs", h.OperationLogs)
	}
}

// 注册JSON接口路由
func registerAPIRoutes(router *gin.Engine, h *api.Handler, auth *middleware.AuthMiddleware) {
	apiGroup := router.Group("/api")
	{
		// 健康检查接口
		apiGroup.GET("/health", healthCheck)
		apiGroup.POST("/auth/login", h.Login)

		secured := apiGroup.Group("", auth.APIRequireLogin())

		students := secured.Group("/students", auth.APIRequirePermission(models.PermStudentsManage))
		{
			students.GET("", h.ListStudents)
			students.POST("", h.CreateStudent)
			students.GET("/:id", h.GetStudent)
			students.PUT("/:id", h.UpdateStudent)
			students.DELETE("/:id", h.DeleteStudent)
		}

		secured.GET("/classes", auth.APIRequirePermission(models.PermClassesManage), h.ListClasses)
		secured.GET("/courses", auth.APIRequirePermission(models.PermCoursesManage), h.ListCourses)
		secured.GET("/grades", auth.APIRequirePermission(models.PermGradesManage), h.ListGrades)
		secured.GET("/attendance", auth.APIRequirePermission(models.PermAttendanceManage), h.ListAttendance)
		secured.GET("/announcements", h.ListAnnouncements)
		secured.GET("/dashboard/summary", h.DashboardSummary)
		secured.POST("/todos", h.CreateTodo)
	}
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func apiOnly(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAPI(c) {
			handler(c)
			return
		}
		c.Next()
	}
}

func redirectTo(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, location)
	}
}

func healthCheck(c *gin.Context) {
	response.Success(c, gin.H{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "schoolms",
	})
}
