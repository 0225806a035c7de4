package models

import "gorm.io/datatypes"

// Teacher 教师档案
type Teacher struct {
	BaseModel
	UserID            *uint           `gorm:"index" json:"user_id"`
	EmployeeNumber    string          `gorm:"unique;size:20;not null" json:"employee_number"`
	Name              string          `gorm:"size:100;not null" json:"name"`
	Gender            string          `gorm:"size:10" json:"gender"`
	Email             string          `gorm:"size:120" json:"email"`
	Phone             string          `gorm:"size:20" json:"phone"`
	ProfessionalTitle string          `gorm:"size:100" json:"professional_title"`
	HireDate          *datatypes.Date `json:"hire_date"`

	User           *User       `gorm:"foreignKey:UserID" json:"-"`
	Courses        []Course    `gorm:"foreignKey:TeacherID" json:"courses,omitempty"`
	ManagedClasses []Classroom `gorm:"foreignKey:HeadTeacherID" json:"managed_classes,omitempty"`
}

// HireDateString 入职日期字符串，未填写时为空
func (t *Teacher) HireDateString() string {
	if t.HireDate == nil {
		return ""
	}
	return FormatDate(*t.HireDate)
}
