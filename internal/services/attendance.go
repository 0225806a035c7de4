package services

import (
	"fmt"
	"strings"
	"time"

	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AttendanceBatch 一次考勤登记，Statuses/Remarks 以学生ID为键
type AttendanceBatch struct {
	CourseID *uint
	Date     datatypes.Date
	Statuses map[uint]string
	Remarks  map[uint]string
}

// StatusCount 按状态计数
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ClassAttendanceStat 班级考勤统计
type ClassAttendanceStat struct {
	ClassID   uint             `json:"class_id"`
	ClassName string           `json:"class_name"`
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"by_status"`
}

type AttendanceService struct {
	db *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{db: db}
}

// ValidStatus 是否为合法考勤状态
func ValidStatus(status string) bool {
	for _, s := range models.AttendanceStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *AttendanceService) keyScope(tx *gorm.DB, courseID *uint, date datatypes.Date) *gorm.DB {
	query := tx.Where("record_date = ?", date)
	if courseID == nil {
		return query.Where("course_id IS NULL")
	}
	return query.Where("course_id = ?", *courseID)
}

// Existing 指定课程和日期已登记的考勤，以学生ID为键
func (s *AttendanceService) Existing(courseID *uint, date datatypes.Date) (map[uint]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := s.keyScope(s.db, courseID, date).Find(&records).Error; err != nil {
		return nil, err
	}
	byStudent := make(map[uint]models.AttendanceRecord, len(records))
	for _, r := range records {
		byStudent[r.StudentID] = r
	}
	return byStudent, nil
}

// BatchSave 批量登记考勤。未选择状态的学生跳过；状态非法时整批拒绝；
// 其余按 (学生, 课程, 日期) 在一个事务中更新或新增
func (s *AttendanceService) BatchSave(batch AttendanceBatch) (int, error) {
	if batch.CourseID != nil {
		var count int64
		if err := s.db.Model(&models.Course{}).Where("id = ?", *batch.CourseID).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, apperrors.NotFound("课程不存在")
		}
	}

	statuses := make(map[uint]string, len(batch.Statuses))
	invalid := make(map[string]string)
	for studentID, status := range batch.Statuses {
		status = strings.TrimSpace(status)
		if status == "" {
			continue
		}
		if !ValidStatus(status) {
			invalid[fmt.Sprintf("status_%d", studentID)] = "考勤状态无效"
			continue
		}
		statuses[studentID] = status
	}
	if len(invalid) > 0 {
		return 0, apperrors.Validation("存在无效的考勤状态，本次登记未保存", invalid)
	}
	if len(statuses) == 0 {
		return 0, nil
	}
	ids := make([]uint, 0, len(statuses))
	for studentID := range statuses {
		ids = append(ids, studentID)
	}
	missing, err := unknownStudents(s.db, ids, "status_")
	if err != nil {
		return 0, err
	}
	if len(missing) > 0 {
		return 0, apperrors.Validation("存在不存在的学生，本次登记未保存", missing)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for studentID, status := range statuses {
			remarks := strings.TrimSpace(batch.Remarks[studentID])
			var records []models.AttendanceRecord
			if err := s.keyScope(tx, batch.CourseID, batch.Date).
				Where("student_id = ?", studentID).
				Limit(1).Find(&records).Error; err != nil {
				return err
			}
			if len(records) > 0 {
				if err := tx.Model(&records[0]).Updates(map[string]interface{}{
					"status":  status,
					"remarks": remarks,
				}).Error; err != nil {
					return err
				}
				continue
			}
			record := &models.AttendanceRecord{
				StudentID:  studentID,
				CourseID:   batch.CourseID,
				RecordDate: batch.Date,
				Status:     status,
				Remarks:    remarks,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(statuses), nil
}

// StatusCounts 按状态统计，since 非零时只统计该日期之后的记录
func (s *AttendanceService) StatusCounts(since time.Time) ([]StatusCount, error) {
	query := s.db.Model(&models.AttendanceRecord{}).Select("status, COUNT(*) AS count")
	if !since.IsZero() {
		query = query.Where("record_date >= ?", datatypes.Date(since))
	}
	var counts []StatusCount
	err := query.Group("status").Order("status ASC").Scan(&counts).Error
	return counts, err
}

// ClassStatistics 各班级考勤统计
func (s *AttendanceService) ClassStatistics() ([]ClassAttendanceStat, error) {
	type row struct {
		ClassID   uint
		ClassName string
		Status    string
		Count     int64
	}
	var rows []row
	if err := s.db.Model(&models.AttendanceRecord{}).
		Select("classrooms.id AS class_id, classrooms.name AS class_name, attendance_records.status AS status, COUNT(*) AS count").
		Joins("JOIN students ON students.id = attendance_records.student_id").
		Joins("JOIN classrooms ON classrooms.id = students.class_id").
		Group("classrooms.id, classrooms.name, attendance_records.status").
		Order("classrooms.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	var stats []ClassAttendanceStat
	index := make(map[uint]int)
	for _, r := range rows {
		i, ok := index[r.ClassID]
		if !ok {
			i = len(stats)
			index[r.ClassID] = i
			stats = append(stats, ClassAttendanceStat{ClassID: r.ClassID, ClassName: r.ClassName, ByStatus: map[string]int64{}})
		}
		stats[i].ByStatus[r.Status] += r.Count
		stats[i].Total += r.Count
	}
	return stats, nil
}

// Recent 最近的考勤记录（日期倒序）
func (s *AttendanceService) Recent(limit int) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := s.db.Preload("Student").Preload("Course").
		Order("record_date DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
