package services

import (
	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const courseCodeTaken = "课程代码已存在"

// CourseInput 课程参数
type CourseInput struct {
	Code        string
	Name        string
	Credit      float64
	Description string
	ClassroomID *uint
	TeacherID   *uint
}

// ScheduleInput 课程时间参数，weekday 0 表示周一
type ScheduleInput struct {
	Weekday   int
	StartTime datatypes.Time
	EndTime   datatypes.Time
	Location  string
}

// CourseFilter 课程筛选
type CourseFilter struct {
	TeacherID   *uint
	ClassroomID *uint
}

type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

// List 课程列表（按名称）
func (s *CourseService) List(filter CourseFilter) ([]models.Course, error) {
	query := s.db.Preload("Teacher").Preload("Classroom")
	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}
	if filter.ClassroomID != nil {
		query = query.Where("classroom_id = ?", *filter.ClassroomID)
	}
	var courses []models.Course
	err := query.Order("name ASC").Find(&courses).Error
	return courses, err
}

// GetByID 获取课程，附课程表与选课学生
func (s *CourseService) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	err := s.db.Preload("Teacher").Preload("Classroom").
		Preload("Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("weekday ASC, start_time ASC") }).
		Preload("Students", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&course, id).Error
	if err != nil {
		return nil, notFound(err, "课程不存在")
	}
	return &course, nil
}

// Create 创建课程
func (s *CourseService) Create(in CourseInput) (*models.Course, error) {
	taken, err := exists(s.db, &models.Course{}, "code", in.Code, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict(courseCodeTaken)
	}

	course := &models.Course{
		Code:        in.Code,
		Name:        in.Name,
		Credit:      in.Credit,
		Description: in.Description,
		ClassroomID: in.ClassroomID,
		TeacherID:   in.TeacherID,
	}
	if err := s.db.Create(course).Error; err != nil {
		return nil, commitError(err, courseCodeTaken)
	}
	return course, nil
}

// Update 更新课程
func (s *CourseService) Update(id uint, in CourseInput) (*models.Course, error) {
	course, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Code != course.Code {
		taken, err := exists(s.db, &models.Course{}, "code", in.Code, course.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict(courseCodeTaken)
		}
	}

	if err := s.db.Model(&models.Course{BaseModel: models.BaseModel{ID: course.ID}}).Updates(map[string]interface{}{
		"code":         in.Code,
		"name":         in.Name,
		"credit":       in.Credit,
		"description":  in.Description,
		"classroom_id": in.ClassroomID,
		"teacher_id":   in.TeacherID,
	}).Error; err != nil {
		return nil, commitError(err, courseCodeTaken)
	}
	return s.GetByID(id)
}

// Delete 删除课程及其课程表、选课、成绩与考勤
func (s *CourseService) Delete(id uint) error {
	course, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(course).Association("Students").Clear(); err != nil {
			return err
		}
		for _, model := range []interface{}{&models.CourseSchedule{}, &models.GradeRecord{}, &models.AttendanceRecord{}} {
			if err := tx.Where("course_id = ?", course.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Course{}, course.ID).Error
	})
}

// Count 课程数量
func (s *CourseService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.Course{}).Count(&count).Error
	return count, err
}

// ========== 课程表 ==========

// AddSchedule 添加上课时间
func (s *CourseService) AddSchedule(courseID uint, in ScheduleInput) (*models.CourseSchedule, error) {
	if _, err := s.GetByID(courseID); err != nil {
		return nil, err
	}
	schedule := &models.CourseSchedule{
		CourseID:  courseID,
		Weekday:   in.Weekday,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Location:  in.Location,
	}
	if err := s.db.Create(schedule).Error; err != nil {
		return nil, err
	}
	return schedule, nil
}

// Schedules 课程的上课时间
func (s *CourseService) Schedules(courseID uint) ([]models.CourseSchedule, error) {
	var schedules []models.CourseSchedule
	err := s.db.Where("course_id = ?", courseID).Order("weekday ASC, start_time ASC").Find(&schedules).Error
	return schedules, err
}

// DeleteSchedule 删除上课时间
func (s *CourseService) DeleteSchedule(courseID, scheduleID uint) error {
	result := s.db.Where("id = ? AND course_id = ?", scheduleID, courseID).Delete(&models.CourseSchedule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("课程时间不存在")
	}
	return nil
}

// ========== 选课 ==========

// AssignStudents 替换课程的选课学生
func (s *CourseService) AssignStudents(courseID uint, studentIDs []uint) error {
	course, err := s.GetByID(courseID)
	if err != nil {
		return err
	}
	students := []models.Student{}
	if len(studentIDs) > 0 {
		if err := s.db.Where("id IN ?", studentIDs).Find(&students).Error; err != nil {
			return err
		}
	}
	association := s.db.Model(&models.Course{BaseModel: models.BaseModel{ID: course.ID}}).Association("Students")
	if len(students) == 0 {
		return association.Clear()
	}
	return association.Replace(students)
}

// Students 课程的选课学生（按姓名）
func (s *CourseService) Students(courseID uint) ([]models.Student, error) {
	course, err := s.GetByID(courseID)
	if err != nil {
		return nil, err
	}
	return course.Students, nil
}
