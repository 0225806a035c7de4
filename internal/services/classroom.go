package services

import (
	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"gorm.io/gorm"
)

const classNameTaken = "班级名称已存在"

// ClassroomInput 班级参数
type ClassroomInput struct {
	Name          string
	GradeLevel    string
	Description   string
	HeadTeacherID *uint
}

// ClassroomSummary 班级列表项
type ClassroomSummary struct {
	models.Classroom
	StudentCount int64 `json:"student_count"`
}

type ClassroomService struct {
	db *gorm.DB
}

func NewClassroomService(db *gorm.DB) *ClassroomService {
	return &ClassroomService{db: db}
}

// List 班级列表（按名称），附学生人数
func (s *ClassroomService) List() ([]ClassroomSummary, error) {
	var classes []models.Classroom
	if err := s.db.Preload("HeadTeacher").Order("name ASC").Find(&classes).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		ClassID uint
		Total   int64
	}
	var counts []countRow
	if err := s.db.Model(&models.Student{}).
		Select("class_id, COUNT(*) AS total").
		Where("class_id IS NOT NULL").
		Group("class_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byClass := make(map[uint]int64, len(counts))
	for _, row := range counts {
		byClass[row.ClassID] = row.Total
	}

	result := make([]ClassroomSummary, 0, len(classes))
	for _, c := range classes {
		result = append(result, ClassroomSummary{Classroom: c, StudentCount: byClass[c.ID]})
	}
	return result, nil
}

// All 班级下拉选项
func (s *ClassroomService) All() ([]models.Classroom, error) {
	var classes []models.Classroom
	err := s.db.Order("name ASC").Find(&classes).Error
	return classes, err
}

// GetByID 根据ID获取班级
func (s *ClassroomService) GetByID(id uint) (*models.Classroom, error) {
	var class models.Classroom
	if err := s.db.Preload("HeadTeacher").First(&class, id).Error; err != nil {
		return nil, notFound(err, "班级不存在")
	}
	return &class, nil
}

// FindByName 按名称查找班级，不存在时返回 nil
func (s *ClassroomService) FindByName(name string) (*models.Classroom, error) {
	var classes []models.Classroom
	if err := s.db.Where("name = ?", name).Limit(1).Find(&classes).Error; err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, nil
	}
	return &classes[0], nil
}

// Create 创建班级
func (s *ClassroomService) Create(in ClassroomInput) (*models.Classroom, error) {
	taken, err := exists(s.db, &models.Classroom{}, "name", in.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict(classNameTaken)
	}

	class := &models.Classroom{
		Name:          in.Name,
		GradeLevel:    in.GradeLevel,
		Description:   in.Description,
		HeadTeacherID: in.HeadTeacherID,
	}
	if err := s.db.Create(class).Error; err != nil {
		return nil, commitError(err, classNameTaken)
	}
	return class, nil
}

// Update 更新班级
func (s *ClassroomService) Update(id uint, in ClassroomInput) (*models.Classroom, error) {
	class, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Name != class.Name {
		taken, err := exists(s.db, &models.Classroom{}, "name", in.Name, class.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict(classNameTaken)
		}
	}

	if err := s.db.Model(class).Updates(map[string]interface{}{
		"name":            in.Name,
		"grade_level":     in.GradeLevel,
		"description":     in.Description,
		"head_teacher_id": in.HeadTeacherID,
	}).Error; err != nil {
		return nil, commitError(err, classNameTaken)
	}
	return s.GetByID(id)
}

// Delete 删除班级；班级仍有学生时拒绝
func (s *ClassroomService) Delete(id uint) error {
	class, err := s.GetByID(id)
	if err != nil {
		return err
	}
	var count int64
	if err := s.db.Model(&models.Student{}).Where("class_id = ?", class.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("班级中仍有学生，无法删除")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Course{}).Where("classroom_id = ?", class.ID).
			Update("classroom_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(class).Error
	})
}

// Students 班级学生（按姓名）
func (s *ClassroomService) Students(classID uint) ([]models.Student, error) {
	var students []models.Student
	err := s.db.Where("class_id = ?", classID).Order("name ASC").Find(&students).Error
	return students, err
}

// AssignStudents 设置班级成员：未选中的原成员移出班级，选中的学生移入
func (s *ClassroomService) AssignStudents(classID uint, studentIDs []uint) error {
	if _, err := s.GetByID(classID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		detach := tx.Model(&models.Student{}).Where("class_id = ?", classID)
		if len(studentIDs) > 0 {
			detach = detach.Where("id NOT IN ?", studentIDs)
		}
		if err := detach.Update("class_id", nil).Error; err != nil {
			return err
		}
		if len(studentIDs) == 0 {
			return nil
		}
		return tx.Model(&models.Student{}).Where("id IN ?", studentIDs).Update("class_id", classID).Error
	})
}
