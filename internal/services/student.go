package services

import (
	"fmt"
	"strings"

	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"
	"schoolms/pkg/excel"
	"schoolms/pkg/pagination"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const studentNumberTaken = "学号已存在"

// StudentInput 学生参数。ClassID 优先；为空时按 ClassName 解析班级
type StudentInput struct {
	StudentNumber string
	Name          string
	Gender        string
	DateOfBirth   datatypes.Date
	ClassID       *uint
	ClassName     string
	Email         string
	Phone         string
	Address       string
	GuardianName  string
	GuardianPhone string
	AvatarPath    string
	KeepGuardian  bool // 接口输入不含监护人字段，更新时保留原值
}

// StudentFilter 学生列表筛选条件
type StudentFilter struct {
	Keyword string
	ClassID *uint
	Gender  string
}

// ImportResult 导入结果
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type StudentService struct {
	db *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

// List 分页查询学生，按学号排序
func (s *StudentService) List(filter StudentFilter, page *pagination.PageParams) ([]models.Student, *pagination.PageInfo, error) {
	query := s.db.Model(&models.Student{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := likePattern(keyword)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(student_number) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.ClassID != nil {
		query = query.Where("class_id = ?", *filter.ClassID)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var students []models.Student
	if err := query.Preload("Classroom").
		Order("student_number ASC").
		Scopes(page.Scope()).
		Find(&students).Error; err != nil {
		return nil, nil, err
	}
	return students, pagination.NewPageInfo(page.Page, page.PageSize, total), nil
}

// GetByID 获取学生
func (s *StudentService) GetByID(id uint) (*models.Student, error) {
	var student models.Student
	if err := s.db.Preload("Classroom").First(&student, id).Error; err != nil {
		return nil, notFound(err, "学生不存在")
	}
	return &student, nil
}

// GetByUserID 当前登录用户对应的学生档案，没有时返回 nil
func (s *StudentService) GetByUserID(userID uint) (*models.Student, error) {
	var students []models.Student
	if err := s.db.Where("user_id = ?", userID).Limit(1).Find(&students).Error; err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, nil
	}
	return &students[0], nil
}

// FindByClass 班级学生（按姓名）
func (s *StudentService) FindByClass(classID uint) ([]models.Student, error) {
	var students []models.Student
	err := s.db.Where("class_id = ?", classID).Order("name ASC").Find(&students).Error
	return students, err
}

// All 全部学生（按学号）
func (s *StudentService) All() ([]models.Student, error) {
	var students []models.Student
	err := s.db.Order("student_number ASC").Find(&students).Error
	return students, err
}

// Create 创建学生
func (s *StudentService) Create(in StudentInput) (*models.Student, error) {
	classID, err := s.resolveClass(in)
	if err != nil {
		return nil, err
	}
	taken, err := exists(s.db, &models.Student{}, "student_number", in.StudentNumber, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict(studentNumberTaken)
	}

	student := &models.Student{
		StudentNumber: in.StudentNumber,
		Name:          in.Name,
		Gender:        in.Gender,
		DateOfBirth:   in.DateOfBirth,
		ClassID:       classID,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		GuardianName:  in.GuardianName,
		GuardianPhone: in.GuardianPhone,
		AvatarPath:    in.AvatarPath,
	}
	if err := s.db.Create(student).Error; err != nil {
		return nil, commitError(err, studentNumberTaken)
	}
	return s.GetByID(student.ID)
}

// Update 更新学生；学号未变化时不做唯一性检查，头像为空时保留原值
func (s *StudentService) Update(id uint, in StudentInput) (*models.Student, error) {
	student, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	classID, err := s.resolveClass(in)
	if err != nil {
		return nil, err
	}
	if in.StudentNumber != student.StudentNumber {
		taken, err := exists(s.db, &models.Student{}, "student_number", in.StudentNumber, student.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict(studentNumberTaken)
		}
	}

	values := map[string]interface{}{
		"student_number": in.StudentNumber,
		"name":           in.Name,
		"gender":         in.Gender,
		"date_of_birth":  in.DateOfBirth,
		"class_id":       classID,
		"email":          in.Email,
		"phone":          in.Phone,
		"address":        in.Address,
	}
	if !in.KeepGuardian {
		values["guardian_name"] = in.GuardianName
		values["guardian_phone"] = in.GuardianPhone
	}
	if in.AvatarPath != "" {
		values["avatar_path"] = in.AvatarPath
	}
	if err := s.db.Model(student).Updates(values).Error; err != nil {
		return nil, commitError(err, studentNumberTaken)
	}
	return s.GetByID(id)
}

// Delete 删除学生及其选课、成绩、考勤和请假记录
func (s *StudentService) Delete(id uint) error {
	student, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(student).Association("Courses").Clear(); err != nil {
			return err
		}
		for _, model := range []interface{}{&models.GradeRecord{}, &models.AttendanceRecord{}, &models.LeaveRequest{}} {
			if err := tx.Where("student_id = ?", student.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Student{}, student.ID).Error
	})
}

// Count 学生人数
func (s *StudentService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.Student{}).Count(&count).Error
	return count, err
}

// resolveClass 确定学生所在班级
func (s *StudentService) resolveClass(in StudentInput) (*uint, error) {
	if in.ClassID != nil {
		var count int64
		if err := s.db.Model(&models.Classroom{}).Where("id = ?", *in.ClassID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, apperrors.Validation("所选班级不存在", map[string]string{"class_id": "所选班级不存在"})
		}
		return in.ClassID, nil
	}
	if in.ClassName == "" {
		return nil, nil
	}
	var classes []models.Classroom
	if err := s.db.Where("name = ?", in.ClassName).Limit(1).Find(&classes).Error; err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, apperrors.Validation("班级不存在", map[string]string{"class_name": "班级不存在"})
	}
	return &classes[0].ID, nil
}

// ========== 导入导出 ==========

// ExportRows 导出全部学生，班级名称通过关联查询得到
func (s *StudentService) ExportRows() ([]excel.StudentRow, error) {
	var students []models.Student
	if err := s.db.Preload("Classroom").Order("student_number ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	rows := make([]excel.StudentRow, 0, len(students))
	for i := range students {
		st := &students[i]
		rows = append(rows, excel.StudentRow{
			StudentNumber: st.StudentNumber,
			Name:          st.Name,
			Gender:        st.Gender,
			DateOfBirth:   st.BirthDate(),
			ClassName:     st.ClassName(),
			Email:         st.Email,
			Phone:         st.Phone,
			Address:       st.Address,
		})
	}
	return rows, nil
}

// Import 在一个事务中导入学生。无学号或学号已存在（库中或文件前面出现过）的行跳过并计数；
// 任一待导入行缺少必填项或日期无效时整个文件被拒绝
func (s *StudentService) Import(rows []excel.StudentRow) (*ImportResult, error) {
	var existing []string
	if err := s.db.Model(&models.Student{}).Pluck("student_number", &existing).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing)+len(rows))
	for _, number := range existing {
		seen[number] = true
	}

	classes, err := s.classIDsByName()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	var pending []models.Student
	var details []string
	for _, row := range rows {
		if row.StudentNumber == "" || seen[row.StudentNumber] {
			result.Skipped++
			continue
		}
		seen[row.StudentNumber] = true

		if missing := missingImportFields(row); len(missing) > 0 {
			details = append(details, fmt.Sprintf("第%d行: 缺少%s", row.Line, strings.Join(missing, "、")))
			continue
		}
		dob, err := models.ParseDate(row.DateOfBirth)
		if err != nil {
			details = append(details, fmt.Sprintf("第%d行: 出生日期格式错误（%s）", row.Line, row.DateOfBirth))
			continue
		}

		student := models.Student{
			StudentNumber: row.StudentNumber,
			Name:          row.Name,
			Gender:        row.Gender,
			DateOfBirth:   dob,
			Email:         row.Email,
			Phone:         row.Phone,
			Address:       row.Address,
		}
		if id, ok := classes[row.ClassName]; ok {
			classID := id
			student.ClassID = &classID
		}
		pending = append(pending, student)
	}
	if len(details) > 0 {
		return nil, apperrors.Format("导入失败，文件中存在无效数据", details...)
	}
	if len(pending) == 0 {
		return result, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&pending, 100).Error
	})
	if err != nil {
		return nil, commitError(err, studentNumberTaken)
	}
	result.Created = len(pending)
	return result, nil
}

func (s *StudentService) classIDsByName() (map[string]uint, error) {
	var classes []models.Classroom
	if err := s.db.Select("id", "name").Find(&classes).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]uint, len(classes))
	for _, c := range classes {
		byName[c.Name] = c.ID
	}
	return byName, nil
}

func missingImportFields(row excel.StudentRow) []string {
	var missing []string
	for _, f := range []struct{ label, value string }{
		{"姓名", row.Name},
		{"性别", row.Gender},
		{"出生日期", row.DateOfBirth},
		{"邮箱", row.Email},
		{"联系电话", row.Phone},
	} {
		if f.value == "" {
			missing = append(missing, f.label)
		}
	}
	return missing
}
