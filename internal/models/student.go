package models

import "gorm.io/datatypes"

// Student 学生档案
type Student struct {
	BaseModel
	UserID         *uint           `gorm:"index" json:"user_id"`
	StudentNumber  string          `gorm:"unique;size:20;not null" json:"student_number"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	Gender         string          `gorm:"size:10;not null" json:"gender"`
	DateOfBirth    datatypes.Date  `gorm:"not null" json:"date_of_birth"`
	ClassID        *uint           `gorm:"index" json:"class_id"`
	Email          string          `gorm:"size:120;not null" json:"email"`
	Phone          string          `gorm:"size:20;not null" json:"phone"`
	Address        string          `gorm:"size:255" json:"address"`
	GuardianName   string          `gorm:"size:100" json:"guardian_name"`
	GuardianPhone  string          `gorm:"size:20" json:"guardian_phone"`
	AvatarPath     string          `gorm:"size:255" json:"avatar_path"`
	EnrollmentDate *datatypes.Date `json:"enrollment_date"`

	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Classroom *Classroom `gorm:"foreignKey:ClassID" json:"classroom,omitempty"`
	Courses   []Course   `gorm:"many2many:course_students;" json:"-"`
}

// BirthDate 出生日期字符串
func (s *Student) BirthDate() string {
	return FormatDate(s.DateOfBirth)
}

// ClassName 所在班级名称，未分班时为空
func (s *Student) ClassName() string {
	if s.Classroom == nil {
		return ""
	}
	return s.Classroom.Name
}
