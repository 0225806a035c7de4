package api

import (
	"time"

	"schoolms/internal/forms"
	"schoolms/internal/middleware"
	"schoolms/internal/models"
	"schoolms/internal/services"
	"schoolms/pkg/response"

	"github.com/gin-gonic/gin"
)

// recentAttendanceLimit 考勤接口返回的最近记录条数
const recentAttendanceLimit = 200

// ListClasses 班级列表（含学生人数）
func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.svc.Classes.List()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, classes)
}

// CourseResponse 接口中的课程
type CourseResponse struct {
	ID          uint    `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Credit      float64 `json:"credit"`
	ClassroomID *uint   `json:"classroom_id"`
	TeacherID   *uint   `json:"teacher_id"`
	Teacher     string  `json:"teacher"`
	Classroom   string  `json:"classroom"`
}

// ListCourses 课程列表，可按 teacher_id、classroom_id 筛选
func (h *Handler) ListCourses(c *gin.Context) {
	filter := services.CourseFilter{TeacherID: queryID(c, "teacher_id"), ClassroomID: queryID(c, "classroom_id")}
	courses, err := h.svc.Courses.List(filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	result := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		item := CourseResponse{
			ID:          course.ID,
			Code:        course.Code,
			Name:        course.Name,
			Credit:      course.Credit,
			ClassroomID: course.ClassroomID,
			TeacherID:   course.TeacherID,
		}
		if course.Teacher != nil {
			item.Teacher = course.Teacher.Name
		}
		if course.Classroom != nil {
			item.Classroom = course.Classroom.Name
		}
		result = append(result, item)
	}
	response.Success(c, result)
}

// GradeResponse 接口中的成绩，附学生与课程名称
type GradeResponse struct {
	ID             uint    `json:"id"`
	StudentID      uint    `json:"student_id"`
	StudentNumber  string  `json:"student_number"`
	StudentName    string  `json:"student_name"`
	CourseID       uint    `json:"course_id"`
	CourseName     string  `json:"course_name"`
	Term           string  `json:"term"`
	AssessmentType string  `json:"assessment_type"`
	Score          float64 `json:"score"`
	Remark         string  `json:"remark"`
	RecordedAt     string  `json:"recorded_at"`
}

// ListGrades 成绩列表，支持 class_id、course_id、term、q 筛选
func (h *Handler) ListGrades(c *gin.Context) {
	records, err := h.svc.Grades.Search(services.GradeFilter{
		ClassID:  queryID(c, "class_id"),
		CourseID: queryID(c, "course_id"),
		Term:     c.Query("term"),
		Keyword:  c.Query("q"),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	result := make([]GradeResponse, 0, len(records))
	for _, r := range records {
		item := GradeResponse{
			ID:             r.ID,
			StudentID:      r.StudentID,
			CourseID:       r.CourseID,
			Term:           r.Term,
			AssessmentType: r.AssessmentType,
			Score:          r.Score,
			Remark:         r.Remark,
			RecordedAt:     r.RecordedAt.Format(time.RFC3339),
		}
		if r.Student != nil {
			item.StudentNumber = r.Student.StudentNumber
			item.StudentName = r.Student.Name
		}
		if r.Course != nil {
			item.CourseName = r.Course.Name
		}
		result = append(result, item)
	}
	response.Success(c, result)
}

// AttendanceResponse 接口中的考勤记录
type AttendanceResponse struct {
	ID          uint   `json:"id"`
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	CourseID    *uint  `json:"course_id"`
	CourseName  string `json:"course_name"`
	RecordDate  string `json:"record_date"`
	Status      string `json:"status"`
	Remarks     string `json:"remarks"`
}

// ListAttendance 最近的考勤记录
func (h *Handler) ListAttendance(c *gin.Context) {
	records, err := h.svc.Attendance.Recent(recentAttendanceLimit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	result := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		item := AttendanceResponse{
			ID:         r.ID,
			StudentID:  r.StudentID,
			CourseID:   r.CourseID,
			RecordDate: models.FormatDate(r.RecordDate),
			Status:     r.Status,
			Remarks:    r.Remarks,
		}
		if r.Student != nil {
			item.StudentName = r.Student.Name
		}
		if r.Course != nil {
			item.CourseName = r.Course.Name
		}
		result = append(result, item)
	}
	response.Success(c, result)
}

// ListAnnouncements 当前用户可见的公告
func (h *Handler) ListAnnouncements(c *gin.Context) {
	announcements, err := h.svc.Announcements.VisibleTo(middleware.CurrentPrincipal(c).Roles)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, announcements)
}

// DashboardSummary 学生、班级、教师、课程数量
func (h *Handler) DashboardSummary(c *gin.Context) {
	summary, err := h.svc.Dashboard.Summary()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, summary)
}

// CreateTodo 为当前用户添加待办
func (h *Handler) CreateTodo(c *gin.Context) {
	var form forms.TodoForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "请求体必须是JSON对象")
		return
	}
	in, err := forms.ParseTodo(&form)
	if err != nil {
		response.FromError(c, err)
		return
	}
	todo, err := h.svc.Todos.Create(currentUserID(c), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, todo)
}
