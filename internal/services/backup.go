package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"schoolms/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snapshot 备份文件内容
type Snapshot struct {
	CreatedAt     time.Time                 `json:"created_at"`
	Classrooms    []models.Classroom        `json:"classrooms"`
	Teachers      []models.Teacher          `json:"teachers"`
	Students      []models.Student          `json:"students"`
	Courses       []models.Course           `json:"courses"`
	Schedules     []models.CourseSchedule   `json:"course_schedules"`
	Grades        []models.GradeRecord      `json:"grade_records"`
	Attendance    []models.AttendanceRecord `json:"attendance_records"`
	Leaves        []models.LeaveRequest     `json:"leave_requests"`
	Announcements []models.Announcement     `json:"announcements"`
	Settings      []models.SystemSetting    `json:"system_settings"`
}

type BackupService struct {
	db  *gorm.DB
	dir string
}

func NewBackupService(db *gorm.DB, dir string) *BackupService {
	return &BackupService{db: db, dir: dir}
}

// List 备份记录，最新在前
func (s *BackupService) List() ([]models.DataBackup, error) {
	var backups []models.DataBackup
	err := s.db.Preload("Creator").Order("created_at DESC, id DESC").Find(&backups).Error
	return backups, err
}

// Create 导出业务数据为 JSON 文件并记录
func (s *BackupService) Create(creatorID *uint) (*models.DataBackup, error) {
	snapshot, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建备份目录失败: %w", err)
	}
	filename := fmt.Sprintf("backup_%s_%s.json", snapshot.CreatedAt.Format("20060102150405"), uuid.New().String())
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("写入备份文件失败: %w", err)
	}

	backup := &models.DataBackup{
		Filename:  filename,
		FilePath:  path,
		Size:      int64(len(data)),
		CreatedBy: creatorID,
	}
	if err := s.db.Create(backup).Error; err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return backup, nil
}

// GetByID 备份记录，文件已不存在时视为不存在
func (s *BackupService) GetByID(id uint) (*models.DataBackup, error) {
	var backup models.DataBackup
	if err := s.db.First(&backup, id).Error; err != nil {
		return nil, notFound(err, "备份不存在")
	}
	if _, err := os.Stat(backup.FilePath); err != nil {
		return nil, notFound(gorm.ErrRecordNotFound, "备份文件不存在")
	}
	return &backup, nil
}

func (s *BackupService) snapshot() (*Snapshot, error) {
	snap := &Snapshot{CreatedAt: time.Now()}
	targets := []interface{}{
		&snap.Classrooms, &snap.Teachers, &snap.Students, &snap.Courses, &snap.Schedules,
		&snap.Grades, &snap.Attendance, &snap.Leaves, &snap.Announcements,
	}
	for _, target := range targets {
		if err := s.db.Order("id ASC").Find(target).Error; err != nil {
			return nil, err
		}
	}
	if err := s.db.Order("key ASC").Find(&snap.Settings).Error; err != nil {
		return nil, err
	}
	return snap, nil
}
