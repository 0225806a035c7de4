package services

import (
	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const employeeNumberTaken = "工号已存在"

// TeacherInput 教师参数
type TeacherInput struct {
	EmployeeNumber    string
	Name              string
	Gender            string
	Email             string
	Phone             string
	ProfessionalTitle string
	HireDate          *datatypes.Date
}

type TeacherService struct {
	db *gorm.DB
}

func NewTeacherService(db *gorm.DB) *TeacherService {
	return &TeacherService{db: db}
}

// List 教师列表（按姓名）
func (s *TeacherService) List() ([]models.Teacher, error) {
	var teachers []models.Teacher
	err := s.db.Order("name ASC").Find(&teachers).Error
	return teachers, err
}

// GetByID 获取教师，附任教课程和所带班级
func (s *TeacherService) GetByID(id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	err := s.db.
		Preload("Courses", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("ManagedClasses", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&teacher, id).Error
	if err != nil {
		return nil, notFound(err, "教师不存在")
	}
	return &teacher, nil
}

// Create 创建教师
func (s *TeacherService) Create(in TeacherInput) (*models.Teacher, error) {
	taken, err := exists(s.db, &models.Teacher{}, "employee_number", in.EmployeeNumber, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict(employeeNumberTaken)
	}

	teacher := &models.Teacher{
		EmployeeNumber:    in.EmployeeNumber,
		Name:              in.Name,
		Gender:            in.Gender,
		Email:             in.Email,
		Phone:             in.Phone,
		ProfessionalTitle: in.ProfessionalTitle,
		HireDate:          in.HireDate,
	}
	if err := s.db.Create(teacher).Error; err != nil {
		return nil, commitError(err, employeeNumberTaken)
	}
	return teacher, nil
}

// Update 更新教师
func (s *TeacherService) Update(id uint, in TeacherInput) (*models.Teacher, error) {
	teacher, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.EmployeeNumber != teacher.EmployeeNumber {
		taken, err := exists(s.db, &models.Teacher{}, "employee_number", in.EmployeeNumber, teacher.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict(employeeNumberTaken)
		}
	}

	if err := s.db.Model(teacher).Updates(map[string]interface{}{
		"employee_number":    in.EmployeeNumber,
		"name":               in.Name,
		"gender":             in.Gender,
		"email":              in.Email,
		"phone":              in.Phone,
		"professional_title": in.ProfessionalTitle,
		"hire_date":          in.HireDate,
	}).Error; err != nil {
		return nil, commitError(err, employeeNumberTaken)
	}
	return s.GetByID(id)
}

// Delete 删除教师，同时解除班主任与任课关系
func (s *TeacherService) Delete(id uint) error {
	teacher, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Classroom{}).Where("head_teacher_id = ?", teacher.ID).
			Update("head_teacher_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Course{}).Where("teacher_id = ?", teacher.ID).
			Update("teacher_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Teacher{}, teacher.ID).Error
	})
}

// Count 教师人数
func (s *TeacherService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.Teacher{}).Count(&count).Error
	return count, err
}
