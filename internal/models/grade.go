package models

import "time"

// GradeRecord 成绩记录，(学生, 课程, 学期, 考核类型) 唯一
type GradeRecord struct {
	BaseModel
	StudentID      uint      `gorm:"not null;uniqueIndex:idx_grade_key" json:"student_id"`
	CourseID       uint      `gorm:"not null;uniqueIndex:idx_grade_key" json:"course_id"`
	Term           string    `gorm:"size:20;not null;uniqueIndex:idx_grade_key" json:"term"`
	AssessmentType string    `gorm:"size:50;not null;uniqueIndex:idx_grade_key" json:"assessment_type"`
	Score          float64   `gorm:"not null" json:"score"`
	Remark         string    `gorm:"size:255" json:"remark"`
	RecordedAt     time.Time `json:"recorded_at"`

	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Course  *Course  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// 成绩录入默认值
const (
	DefaultTerm           = "2023-2024"
	DefaultAssessmentType = "期末"
)
