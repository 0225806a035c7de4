package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"schoolms/internal/authz"
	"schoolms/internal/forms"
	"schoolms/internal/middleware"
	"schoolms/internal/models"
	"schoolms/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// attendanceSheet 考勤登记表的选择条件
type attendanceSheet struct {
	ClassID  *uint
	CourseID *uint
	Date     string
}

func readAttendanceSheet(get func(string) string) attendanceSheet {
	sheet := attendanceSheet{
		ClassID:  parseID(get("class_id")),
		CourseID: parseID(get("course_id")),
		Date:     strings.TrimSpace(get("date")),
	}
	if sheet.Date == "" {
		sheet.Date = time.Now().Format("2006-01-02")
	}
	return sheet
}

func (h *Handler) renderAttendanceCheck(c *gin.Context, status int, sheet attendanceSheet, date datatypes.Date, statuses, remarks map[uint]string, data gin.H) {
	classes, err := h.svc.Classes.All()
	if err != nil {
		h.fail(c, err, "/attendance/check")
		return
	}
	courses, err := h.svc.Courses.List(services.CourseFilter{})
	if err != nil {
		h.fail(c, err, "/attendance/check")
		return
	}

	var students []models.Student
	if sheet.ClassID != nil {
		if students, err = h.svc.Students.FindByClass(*sheet.ClassID); err != nil {
			h.fail(c, err, "/attendance/check")
			return
		}
		if statuses == nil {
			existing, err := h.svc.Attendance.Existing(sheet.CourseID, date)
			if err != nil {
				h.fail(c, err, "/attendance/check")
				return
			}
			statuses = make(map[uint]string, len(existing))
			remarks = make(map[uint]string, len(existing))
			for id, r := range existing {
				statuses[id] = r.Status
				remarks[id] = r.Remarks
			}
		}
	}

	data["Title"] = "考勤登记"
	data["Classes"] = classes
	data["Courses"] = courses
	data["Sheet"] = sheet
	data["Students"] = students
	data["Statuses"] = statuses
	data["Remarks"] = remarks
	h.render(c, status, "attendance_check.html", data)
}

// AttendanceCheckPage 考勤登记表
func (h *Handler) AttendanceCheckPage(c *gin.Context) {
	sheet := readAttendanceSheet(c.Query)
	date, err := models.ParseDate(sheet.Date)
	if err != nil {
		sheet.Date = time.Now().Format("2006-01-02")
		date, _ = models.ParseDate(sheet.Date)
	}
	h.renderAttendanceCheck(c, http.StatusOK, sheet, date, nil, nil, gin.H{})
}

// SaveAttendance 保存考勤登记，未选择状态的学生不记录
func (h *Handler) SaveAttendance(c *gin.Context) {
	sheet := readAttendanceSheet(c.PostForm)
	if sheet.ClassID == nil {
		h.redirect(c, "/attendance/check", "warning", "请先选择班级")
		return
	}
	statuses := prefixedValues(c, "status_")
	remarks := prefixedValues(c, "remark_")
	date, err := models.ParseDate(sheet.Date)
	if err != nil {
		h.renderAttendanceCheck(c, http.StatusBadRequest, sheet, date, statuses, remarks, gin.H{
			"Error":  "日期格式错误",
			"Errors": map[string]string{"date": "日期格式应为 YYYY-MM-DD"},
		})
		return
	}

	saved, err := h.svc.Attendance.BatchSave(services.AttendanceBatch{
		CourseID: sheet.CourseID,
		Date:     date,
		Statuses: statuses,
		Remarks:  remarks,
	})
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderAttendanceCheck(c, status, sheet, date, statuses, remarks, data)
		}
		return
	}

	query := url.Values{}
	query.Set("class_id", fmt.Sprint(*sheet.ClassID))
	if sheet.CourseID != nil {
		query.Set("course_id", fmt.Sprint(*sheet.CourseID))
	}
	query.Set("date", sheet.Date)
	h.redirect(c, "/attendance/check?"+query.Encode(), "success", fmt.Sprintf("已保存 %d 条考勤记录", saved))
}

// AttendanceStatistics 考勤统计
func (h *Handler) AttendanceStatistics(c *gin.Context) {
	byStatus, err := h.svc.Attendance.StatusCounts(time.Time{})
	if err != nil {
		h.fail(c, err, "/attendance/check")
		return
	}
	byClass, err := h.svc.Attendance.ClassStatistics()
	if err != nil {
		h.fail(c, err, "/attendance/check")
		return
	}
	h.render(c, http.StatusOK, "attendance_statistics.html", gin.H{
		"Title":    "考勤统计",
		"ByStatus": byStatus,
		"ByClass":  byClass,
	})
}

// ========== 请假 ==========

func (h *Handler) renderLeaves(c *gin.Context, status int, form *forms.LeaveForm, data gin.H) {
	p := middleware.CurrentPrincipal(c)
	reviewer := authz.HasPermission(p, models.PermAttendanceManage)
	leaves, err := h.svc.Leaves.List(p.ID, reviewer)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	data["Title"] = "请假管理"
	data["Leaves"] = leaves
	data["Reviewer"] = reviewer
	data["Form"] = form
	h.render(c, status, "attendance_leaves.html", data)
}

// ListLeaves 审批人看到全部申请，学生只看到自己的
func (h *Handler) ListLeaves(c *gin.Context) {
	h.renderLeaves(c, http.StatusOK, &forms.LeaveForm{}, gin.H{})
}

// CreateLeave 学生提交请假
func (h *Handler) CreateLeave(c *gin.Context) {
	var form forms.LeaveForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseLeave(&form)
	if err == nil {
		_, err = h.svc.Leaves.Create(currentUserID(c), in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderLeaves(c, status, &form, data)
		}
		return
	}
	h.redirect(c, "/attendance/leaves", "success", "请假申请已提交")
}

// ReviewLeave 批准或驳回请假，需考勤管理权限
func (h *Handler) ReviewLeave(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	approve := c.PostForm("decision") == "approve"
	if _, err := h.svc.Leaves.Review(id, currentUserID(c), approve); err != nil {
		h.fail(c, err, "/attendance/leaves")
		return
	}
	message := "已驳回请假申请"
	if approve {
		message = "已批准请假申请"
	}
	h.redirect(c, "/attendance/leaves", "success", message)
}
