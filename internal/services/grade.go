package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"
	"schoolms/pkg/excel"

	"gorm.io/gorm"
)

// GradeBatch 一次成绩录入。Scores/Remarks 以学生ID为键，值为表单原始输入
type GradeBatch struct {
	CourseID       uint
	Term           string
	AssessmentType string
	Scores         map[uint]string
	Remarks        map[uint]string
}

// GradeFilter 成绩查询条件
type GradeFilter struct {
	ClassID  *uint
	CourseID *uint
	Term     string
	Keyword  string
}

// CourseGradeStat 课程成绩统计
type CourseGradeStat struct {
	CourseID   uint    `json:"course_id"`
	CourseName string  `json:"course_name"`
	Average    float64 `json:"average"`
	Max        float64 `json:"max"`
	Count      int64   `json:"count"`
}

// ClassGradeStat 班级平均分
type ClassGradeStat struct {
	ClassID   uint    `json:"class_id"`
	ClassName string  `json:"class_name"`
	Average   float64 `json:"average"`
}

type GradeService struct {
	db *gorm.DB
}

func NewGradeService(db *gorm.DB) *GradeService {
	return &GradeService{db: db}
}

// Existing 指定课程、学期、考核类型下已录入的成绩，以学生ID为键
func (s *GradeService) Existing(courseID uint, term, assessmentType string) (map[uint]models.GradeRecord, error) {
	var records []models.GradeRecord
	if err := s.db.Where("course_id = ? AND term = ? AND assessment_type = ?", courseID, term, assessmentType).
		Find(&records).Error; err != nil {
		return nil, err
	}
	byStudent := make(map[uint]models.GradeRecord, len(records))
	for _, r := range records {
		byStudent[r.StudentID] = r
	}
	return byStudent, nil
}

// BatchSave 批量保存成绩。空值跳过；任一成绩不是0到100之间的数字时整批拒绝；
// 其余按 (学生, 课程, 学期, 考核类型) 在一个事务中更新或新增
func (s *GradeService) BatchSave(batch GradeBatch) (int, error) {
	var course models.Course
	if err := s.db.First(&course, batch.CourseID).Error; err != nil {
		return 0, notFound(err, "课程不存在")
	}
	if batch.Term == "" {
		batch.Term = models.DefaultTerm
	}
	if batch.AssessmentType == "" {
		batch.AssessmentType = models.DefaultAssessmentType
	}

	scores := make(map[uint]float64, len(batch.Scores))
	invalid := make(map[string]string)
	for studentID, raw := range batch.Scores {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil || score < 0 || score > 100 {
			invalid[fmt.Sprintf("score_%d", studentID)] = "成绩必须是0到100之间的数字"
			continue
		}
		scores[studentID] = score
	}
	if len(invalid) > 0 {
		return 0, apperrors.Validation("存在无效成绩，本次录入未保存", invalid)
	}
	if len(scores) == 0 {
		return 0, nil
	}
	ids := make([]uint, 0, len(scores))
	for studentID := range scores {
		ids = append(ids, studentID)
	}
	missing, err := unknownStudents(s.db, ids, "score_")
	if err != nil {
		return 0, err
	}
	if len(missing) > 0 {
		return 0, apperrors.Validation("存在不存在的学生，本次录入未保存", missing)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for studentID, score := range scores {
			remark := strings.TrimSpace(batch.Remarks[studentID])
			var records []models.GradeRecord
			if err := tx.Where("student_id = ? AND course_id = ? AND term = ? AND assessment_type = ?",
				studentID, batch.CourseID, batch.Term, batch.AssessmentType).
				Limit(1).Find(&records).Error; err != nil {
				return err
			}
			if len(records) > 0 {
				if err := tx.Model(&records[0]).Updates(map[string]interface{}{
					"score":       score,
					"remark":      remark,
					"recorded_at": now,
				}).Error; err != nil {
					return err
				}
				continue
			}
			record := &models.GradeRecord{
				StudentID:      studentID,
				CourseID:       batch.CourseID,
				Term:           batch.Term,
				AssessmentType: batch.AssessmentType,
				Score:          score,
				Remark:         remark,
				RecordedAt:     now,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, commitError(err, "成绩记录已存在，请刷新后重试")
	}
	return len(scores), nil
}

// Search 按条件查询成绩，最新录入在前
func (s *GradeService) Search(filter GradeFilter) ([]models.GradeRecord, error) {
	query := s.db.Model(&models.GradeRecord{}).
		Joins("JOIN students ON students.id = grade_records.student_id").
		Preload("Student.Classroom").Preload("Course")
	if filter.ClassID != nil {
		query = query.Where("students.class_id = ?", *filter.ClassID)
	}
	if filter.CourseID != nil {
		query = query.Where("grade_records.course_id = ?", *filter.CourseID)
	}
	if filter.Term != "" {
		query = query.Where("grade_records.term = ?", filter.Term)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := likePattern(keyword)
		query = query.Where("LOWER(students.name) LIKE ? OR LOWER(students.student_number) LIKE ?", pattern, pattern)
	}

	var records []models.GradeRecord
	err := query.Order("grade_records.recorded_at DESC, grade_records.id DESC").Find(&records).Error
	return records, err
}

// Terms 已有成绩的学期
func (s *GradeService) Terms() ([]string, error) {
	var terms []string
	err := s.db.Model(&models.GradeRecord{}).Distinct("term").Order("term DESC").Pluck("term", &terms).Error
	return terms, err
}

// CourseStatistics 各课程平均分与最高分，limit>0 时只取前 limit 门（按平均分降序）
func (s *GradeService) CourseStatistics(limit int) ([]CourseGradeStat, error) {
	query := s.db.Model(&models.GradeRecord{}).
		Select("courses.id AS course_id, courses.name AS course_name, AVG(grade_records.score) AS average, " +
			"MAX(grade_records.score) AS max, COUNT(grade_records.id) AS count").
		Joins("JOIN courses ON courses.id = grade_records.course_id").
		Group("courses.id, courses.name").
		Order("average DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var stats []CourseGradeStat
	err := query.Scan(&stats).Error
	return stats, err
}

// ClassStatistics 各班级平均分
func (s *GradeService) ClassStatistics() ([]ClassGradeStat, error) {
	var stats []ClassGradeStat
	err := s.db.Model(&models.GradeRecord{}).
		Select("classrooms.id AS class_id, classrooms.name AS class_name, AVG(grade_records.score) AS average").
		Joins("JOIN students ON students.id = grade_records.student_id").
		Joins("JOIN classrooms ON classrooms.id = students.class_id").
		Group("classrooms.id, classrooms.name").
		Order("classrooms.name ASC").
		Scan(&stats).Error
	return stats, err
}

// ExportRows 导出符合条件的成绩
func (s *GradeService) ExportRows(filter GradeFilter) ([]excel.GradeRow, error) {
	records, err := s.Search(filter)
	if err != nil {
		return nil, err
	}
	rows := make([]excel.GradeRow, 0, len(records))
	for _, r := range records {
		row := excel.GradeRow{
			Term:           r.Term,
			AssessmentType: r.AssessmentType,
			Score:          r.Score,
			RecordedAt:     r.RecordedAt,
		}
		if r.Student != nil {
			row.StudentNumber = r.Student.StudentNumber
			row.StudentName = r.Student.Name
		}
		if r.Course != nil {
			row.Course = r.Course.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}
