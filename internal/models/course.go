package models

import "gorm.io/datatypes"

// Course 课程
type Course struct {
	BaseModel
	Code        string  `gorm:"unique;size:20;not null" json:"code"`
	Name        string  `gorm:"size:120;not null" json:"name"`
	Credit      float64 `gorm:"not null;default:0" json:"credit"`
	Description string  `gorm:"type:text" json:"description"`
	ClassroomID *uint   `gorm:"index" json:"classroom_id"`
	TeacherID   *uint   `gorm:"index" json:"teacher_id"`

	Classroom *Classroom       `gorm:"foreignKey:ClassroomID" json:"classroom,omitempty"`
	Teacher   *Teacher         `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Students  []Student        `gorm:"many2many:course_students;" json:"students,omitempty"`
	Schedules []CourseSchedule `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
}

// CourseSchedule 课程表条目，weekday 0 表示周一
type CourseSchedule struct {
	BaseModel
	CourseID  uint           `gorm:"not null;index" json:"course_id"`
	Weekday   int            `gorm:"not null" json:"weekday"`
	StartTime datatypes.Time `gorm:"not null" json:"start_time"`
	EndTime   datatypes.Time `gorm:"not null" json:"end_time"`
	Location  string         `gorm:"size:100" json:"location"`
}

// WeekdayNames 周一到周日
var WeekdayNames = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// WeekdayName 星期名称
func (s *CourseSchedule) WeekdayName() string {
	if s.Weekday < 0 || s.Weekday >= len(WeekdayNames) {
		return ""
	}
	return WeekdayNames[s.Weekday]
}
