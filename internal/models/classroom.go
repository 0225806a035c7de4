package models

// Classroom 班级
type Classroom struct {
	BaseModel
	Name          string `gorm:"unique;size:100;not null" json:"name"`
	GradeLevel    string `gorm:"size:20" json:"grade_level"`
	Description   string `gorm:"size:255" json:"description"`
	HeadTeacherID *uint  `gorm:"index" json:"head_teacher_id"`

	HeadTeacher *Teacher  `gorm:"foreignKey:HeadTeacherID" json:"head_teacher,omitempty"`
	Students    []Student `gorm:"foreignKey:ClassID" json:"students,omitempty"`
}
