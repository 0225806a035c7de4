package web

import (
	"fmt"
	"net/http"

	"schoolms/internal/forms"
	"schoolms/internal/models"
	"schoolms/internal/services"

	"github.com/gin-gonic/gin"
)

// ListCourses 课程列表，可按教师、班级筛选
func (h *Handler) ListCourses(c *gin.Context) {
	filter := services.CourseFilter{TeacherID: queryID(c, "teacher_id"), ClassroomID: queryID(c, "classroom_id")}
	courses, err := h.svc.Courses.List(filter)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	teachers, err := h.svc.Teachers.List()
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	classes, err := h.svc.Classes.All()
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "courses_list.html", gin.H{
		"Title":       "课程中心",
		"Courses":     courses,
		"Teachers":    teachers,
		"Classes":     classes,
		"TeacherID":   c.Query("teacher_id"),
		"ClassroomID": c.Query("classroom_id"),
	})
}

func (h *Handler) renderCourseForm(c *gin.Context, status int, form *forms.CourseForm, course *models.Course, data gin.H) {
	teachers, err := h.svc.Teachers.List()
	if err != nil {
		h.fail(c, err, "/courses")
		return
	}
	classes, err := h.svc.Classes.All()
	if err != nil {
		h.fail(c, err, "/courses")
		return
	}
	data["Form"] = form
	data["Teachers"] = teachers
	data["Classes"] = classes
	if course == nil {
		data["Title"] = "新增课程"
		data["Action"] = "/courses/new"
	} else {
		data["Title"] = "编辑课程"
		data["Action"] = fmt.Sprintf("/courses/%d/edit", course.ID)
	}
	h.render(c, status, "courses_form.html", data)
}

// NewCoursePage 新增课程页
func (h *Handler) NewCoursePage(c *gin.Context) {
	h.renderCourseForm(c, http.StatusOK, &forms.CourseForm{Credit: "0"}, nil, gin.H{})
}

// CreateCourse 新增课程
func (h *Handler) CreateCourse(c *gin.Context) {
	var form forms.CourseForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseCourse(&form)
	var course *models.Course
	if err == nil {
		course, err = h.svc.Courses.Create(in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderCourseForm(c, status, &form, nil, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/courses/%d", course.ID), "success", "课程已创建")
}

func (h *Handler) renderCourseDetail(c *gin.Context, status int, id uint, data gin.H) {
	course, err := h.svc.Courses.GetByID(id)
	if err != nil {
		h.fail(c, err, "/courses")
		return
	}
	all, err := h.svc.Students.All()
	if err != nil {
		h.fail(c, err, "/courses")
		return
	}
	enrolled := make(map[uint]bool, len(course.Students))
	for _, s := range course.Students {
		enrolled[s.ID] = true
	}
	if _, ok := data["Form"]; !ok {
		data["Form"] = &forms.ScheduleForm{}
	}
	data["Title"] = course.Name
	data["Course"] = course
	data["AllStudents"] = all
	data["Enrolled"] = enrolled
	h.render(c, status, "courses_detail.html", data)
}

// ShowCourse 课程详情：课程表、选课学生
func (h *Handler) ShowCourse(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	h.renderCourseDetail(c, http.StatusOK, id, gin.H{})
}

// EditCoursePage 编辑课程页
func (h *Handler) EditCoursePage(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	course, err := h.svc.Courses.GetByID(id)
	if err != nil {
		h.fail(c, err, "/courses")
		return
	}
	form := &forms.CourseForm{
		Code:        course.Code,
		Name:        course.Name,
		Credit:      fmt.Sprint(course.Credit),
		Description: course.Description,
	}
	if course.ClassroomID != nil {
		form.ClassroomID = fmt.Sprint(*course.ClassroomID)
	}
	if course.TeacherID != nil {
		form.TeacherID = fmt.Sprint(*course.TeacherID)
	}
	h.renderCourseForm(c, http.StatusOK, form, course, gin.H{})
}

// UpdateCourse 保存课程
func (h *Handler) UpdateCourse(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	course, err := h.svc.Courses.GetByID(id)
	if err != nil {
		h.fail(c, err, "/courses")
		return
	}
	var form forms.CourseForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseCourse(&form)
	if err == nil {
		_, err = h.svc.Courses.Update(id, in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderCourseForm(c, status, &form, course, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/courses/%d", id), "success", "课程已更新")
}

// DeleteCourse 删除课程
func (h *Handler) DeleteCourse(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Courses.Delete(id); err != nil {
		h.fail(c, err, fmt.Sprintf("/courses/%d", id))
		return
	}
	h.redirect(c, "/courses", "success", "课程已删除")
}

// AddCourseSchedule 添加上课时间
func (h *Handler) AddCourseSchedule(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var form forms.ScheduleForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseSchedule(&form)
	if err == nil {
		_, err = h.svc.Courses.AddSchedule(id, in)
	}
	if err != nil {
		data := gin.H{"Form": &form}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderCourseDetail(c, status, id, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/courses/%d", id), "success", "上课时间已添加")
}

// DeleteCourseSchedule 删除上课时间
func (h *Handler) DeleteCourseSchedule(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	scheduleID, ok := h.paramID(c, "scheduleID")
	if !ok {
		return
	}
	if err := h.svc.Courses.DeleteSchedule(id, scheduleID); err != nil {
		h.fail(c, err, fmt.Sprintf("/courses/%d", id))
		return
	}
	h.redirect(c, fmt.Sprintf("/courses/%d", id), "success", "上课时间已删除")
}

// AssignCourseStudents 设置选课学生
func (h *Handler) AssignCourseStudents(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Courses.AssignStudents(id, formIDs(c, "student_ids")); err != nil {
		h.fail(c, err, fmt.Sprintf("/courses/%d", id))
		return
	}
	h.redirect(c, fmt.Sprintf("/courses/%d", id), "success", "选课学生已更新")
}
