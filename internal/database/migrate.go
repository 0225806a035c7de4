package database

import (
	"schoolms/internal/models"
	"schoolms/pkg/logger"

	"gorm.io/gorm"
)

// AutoMigrate 迁移全部模型，测试中也直接使用
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.Teacher{},
		&models.Classroom{},
		&models.Student{},
		&models.Course{},
		&models.CourseSchedule{},
		&models.GradeRecord{},
		&models.AttendanceRecord{},
		&models.LeaveRequest{},
		&models.Announcement{},
		&models.TodoItem{},
		&models.SystemMessage{},
		// 系统设置
		&models.SystemSetting{},
		&models.DataBackup{},
		&models.OperationLog{},
		&models.UploadedFile{},
	)
}

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	if err := AutoMigrate(DB); err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")
	return nil
}
