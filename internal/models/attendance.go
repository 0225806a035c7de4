package models

import (
	"time"

	"gorm.io/datatypes"
)

// 考勤状态
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
	AttendanceLeave   = "Leave"
	AttendanceLate    = "Late"
)

// AttendanceStatuses 合法的考勤状态
var AttendanceStatuses = []string{AttendancePresent, AttendanceAbsent, AttendanceLeave, AttendanceLate}

// AttendanceRecord 考勤记录
type AttendanceRecord struct {
	BaseModel
	StudentID  uint           `gorm:"not null;index" json:"student_id"`
	CourseID   *uint          `gorm:"index" json:"course_id"`
	RecordDate datatypes.Date `gorm:"not null;index" json:"record_date"`
	Status     string         `gorm:"size:20;not null" json:"status"`
	Remarks    string         `gorm:"size:255" json:"remarks"`

	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Course  *Course  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// 请假状态
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// LeaveRequest 学生请假申请
type LeaveRequest struct {
	BaseModel
	StudentID  uint           `gorm:"not null;index" json:"student_id"`
	StartDate  datatypes.Date `gorm:"not null" json:"start_date"`
	EndDate    datatypes.Date `gorm:"not null" json:"end_date"`
	Reason     string         `gorm:"size:255" json:"reason"`
	Status     string         `gorm:"size:20;not null;default:pending" json:"status"`
	ApproverID *uint          `json:"approver_id"`
	ReviewedAt *time.Time     `json:"reviewed_at"`

	Student  *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Approver *User    `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
}
