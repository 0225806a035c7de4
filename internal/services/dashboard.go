package services

import (
	"time"

	"schoolms/internal/models"

	"gorm.io/gorm"
)

// DashboardSummary 首页统计
type DashboardSummary struct {
	Students int64 `json:"students"`
	Classes  int64 `json:"classes"`
	Teachers int64 `json:"teachers"`
	Courses  int64 `json:"courses"`
}

// DashboardData 首页展示数据
type DashboardData struct {
	Summary          DashboardSummary
	Announcements    []models.Announcement
	Todos            []models.TodoItem
	Messages         []models.SystemMessage
	CourseAverages   []CourseGradeStat
	AttendanceCounts []StatusCount
}

type DashboardService struct {
	db            *gorm.DB
	announcements *AnnouncementService
	todos         *TodoService
	messages      *MessageService
	grades        *GradeService
	attendance    *AttendanceService
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{
		db:            db,
		announcements: NewAnnouncementService(db),
		todos:         NewTodoService(db),
		messages:      NewMessageService(db),
		grades:        NewGradeService(db),
		attendance:    NewAttendanceService(db),
	}
}

// Summary 学生、班级、教师、课程数量，教师数量以教师档案计
func (s *DashboardService) Summary() (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	counters := []struct {
		model  interface{}
		target *int64
	}{
		{&models.Student{}, &summary.Students},
		{&models.Classroom{}, &summary.Classes},
		{&models.Teacher{}, &summary.Teachers},
		{&models.Course{}, &summary.Courses},
	}
	for _, c := range counters {
		if err := s.db.Model(c.model).Count(c.target).Error; err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// Load 首页数据
func (s *DashboardService) Load(userID uint) (*DashboardData, error) {
	summary, err := s.Summary()
	if err != nil {
		return nil, err
	}
	data := &DashboardData{Summary: *summary}

	if data.Announcements, err = s.announcements.Recent(5); err != nil {
		return nil, err
	}
	if data.Todos, err = s.todos.Pending(userID, 5); err != nil {
		return nil, err
	}
	if data.Messages, err = s.messages.ListByUser(userID, false, 5); err != nil {
		return nil, err
	}
	if data.CourseAverages, err = s.grades.CourseStatistics(6); err != nil {
		return nil, err
	}
	if data.AttendanceCounts, err = s.attendance.StatusCounts(time.Now().AddDate(0, 0, -30)); err != nil {
		return nil, err
	}
	return data, nil
}
