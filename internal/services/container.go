package services

import (
	"schoolms/pkg/cache"
	"schoolms/pkg/config"
	"schoolms/pkg/jwt"

	"gorm.io/gorm"
)

// Container 处理器共用的服务集合
type Container struct {
	Users         *UserService
	Auth          *AuthService
	Principals    *PrincipalService
	Roles         *RoleService
	Permissions   *PermissionService
	Students      *StudentService
	Classes       *ClassroomService
	Teachers      *TeacherService
	Courses       *CourseService
	Grades        *GradeService
	Attendance    *AttendanceService
	Leaves        *LeaveService
	Announcements *AnnouncementService
	Todos         *TodoService
	Messages      *MessageService
	Settings      *SettingService
	Backups       *BackupService
	OperationLogs *OperationLogService
	Uploads       *UploadService
	Dashboard     *DashboardService
}

// NewContainer permCache 可为 nil
func NewContainer(db *gorm.DB, cfg *config.Config, jwtManager *jwt.JWTManager, permCache cache.PermissionCache) *Container {
	return &Container{
		Users:         NewUserService(db, permCache),
		Auth:          NewAuthService(db, jwtManager, cfg.App.PasswordResetMaxAge),
		Principals:    NewPrincipalService(db, permCache),
		Roles:         NewRoleService(db, permCache),
		Permissions:   NewPermissionService(db),
		Students:      NewStudentService(db),
		Classes:       NewClassroomService(db),
		Teachers:      NewTeacherService(db),
		Courses:       NewCourseService(db),
		Grades:        NewGradeService(db),
		Attendance:    NewAttendanceService(db),
		Leaves:        NewLeaveService(db),
		Announcements: NewAnnouncementService(db),
		Todos:         NewTodoService(db),
		Messages:      NewMessageService(db),
		Settings:      NewSettingService(db),
		Backups:       NewBackupService(db, cfg.App.BackupDir),
		OperationLogs: NewOperationLogService(db),
		Uploads:       NewUploadService(db, cfg.App.UploadDir),
		Dashboard:     NewDashboardService(db),
	}
}
