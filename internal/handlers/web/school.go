package web

import (
	"fmt"
	"net/http"

	"schoolms/internal/forms"
	"schoolms/internal/models"

	"github.com/gin-gonic/gin"
)

// ========== 班级 ==========

// ListClasses 班级列表
func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.svc.Classes.List()
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "classes_list.html", gin.H{"Title": "班级管理", "Classes": classes})
}

func (h *Handler) renderClassForm(c *gin.Context, status int, form *forms.ClassroomForm, class *models.Classroom, data gin.H) {
	teachers, err := h.svc.Teachers.List()
	if err != nil {
		h.fail(c, err, "/classes")
		return
	}
	data["Form"] = form
	data["Teachers"] = teachers
	if class == nil {
		data["Title"] = "新增班级"
		data["Action"] = "/classes/new"
	} else {
		data["Title"] = "编辑班级"
		data["Action"] = fmt.Sprintf("/classes/%d/edit", class.ID)
	}
	h.render(c, status, "classes_form.html", data)
}

// NewClassPage 新增班级页
func (h *Handler) NewClassPage(c *gin.Context) {
	h.renderClassForm(c, http.StatusOK, &forms.ClassroomForm{}, nil, gin.H{})
}

// CreateClass 新增班级
func (h *Handler) CreateClass(c *gin.Context) {
	var form forms.ClassroomForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseClassroom(&form)
	var class *models.Classroom
	if err == nil {
		class, err = h.svc.Classes.Create(in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderClassForm(c, status, &form, nil, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/classes/%d", class.ID), "success", "班级已创建")
}

// ShowClass 班级详情，含学生名单与分配
func (h *Handler) ShowClass(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	class, err := h.svc.Classes.GetByID(id)
	if err != nil {
		h.fail(c, err, "/classes")
		return
	}
	members, err := h.svc.Classes.Students(id)
	if err != nil {
		h.fail(c, err, "/classes")
		return
	}
	all, err := h.svc.Students.All()
	if err != nil {
		h.fail(c, err, "/classes")
		return
	}
	h.render(c, http.StatusOK, "classes_detail.html", gin.H{
		"Title":       class.Name,
		"Class":       class,
		"Members":     members,
		"AllStudents": all,
	})
}

// EditClassPage 编辑班级页
func (h *Handler) EditClassPage(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	class, err := h.svc.Classes.GetByID(id)
	if err != nil {
		h.fail(c, err, "/classes")
		return
	}
	form := &forms.ClassroomForm{Name: class.Name, GradeLevel: class.GradeLevel, Description: class.Description}
	if class.HeadTeacherID != nil {
		form.HeadTeacherID = fmt.Sprint(*class.HeadTeacherID)
	}
	h.renderClassForm(c, http.StatusOK, form, class, gin.H{})
}

// UpdateClass 保存班级
func (h *Handler) UpdateClass(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	class, err := h.svc.Classes.GetByID(id)
	if err != nil {
		h.fail(c, err, "/classes")
		return
	}
	var form forms.ClassroomForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseClassroom(&form)
	if err == nil {
		_, err = h.svc.Classes.Update(id, in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderClassForm(c, status, &form, class, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/classes/%d", id), "success", "班级已更新")
}

// DeleteClass 删除班级
func (h *Handler) DeleteClass(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Classes.Delete(id); err != nil {
		h.fail(c, err, fmt.Sprintf("/classes/%d", id))
		return
	}
	h.redirect(c, "/classes", "success", "班级已删除")
}

// AssignClassStudents 设置班级学生
func (h *Handler) AssignClassStudents(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Classes.AssignStudents(id, formIDs(c, "student_ids")); err != nil {
		h.fail(c, err, fmt.Sprintf("/classes/%d", id))
		return
	}
	h.redirect(c, fmt.Sprintf("/classes/%d", id), "success", "班级学生已更新")
}

// ========== 教师 ==========

// ListTeachers 教师列表
func (h *Handler) ListTeachers(c *gin.Context) {
	teachers, err := h.svc.Teachers.List()
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "teachers_list.html", gin.H{"Title": "教师管理", "Teachers": teachers})
}

func (h *Handler) renderTeacherForm(c *gin.Context, status int, form *forms.TeacherForm, teacher *models.Teacher, data gin.H) {
	data["Form"] = form
	if teacher == nil {
		data["Title"] = "新增教师"
		data["Action"] = "/teachers/new"
	} else {
		data["Title"] = "编辑教师"
		data["Action"] = fmt.Sprintf("/teachers/%d/edit", teacher.ID)
	}
	h.render(c, status, "teachers_form.html", data)
}

// NewTeacherPage 新增教师页
func (h *Handler) NewTeacherPage(c *gin.Context) {
	h.renderTeacherForm(c, http.StatusOK, &forms.TeacherForm{}, nil, gin.H{})
}

// CreateTeacher 新增教师
func (h *Handler) CreateTeacher(c *gin.Context) {
	var form forms.TeacherForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseTeacher(&form)
	var teacher *models.Teacher
	if err == nil {
		teacher, err = h.svc.Teachers.Create(in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderTeacherForm(c, status, &form, nil, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/teachers/%d", teacher.ID), "success", "教师已创建")
}

// ShowTeacher 教师详情，含任教课程与所带班级
func (h *Handler) ShowTeacher(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	teacher, err := h.svc.Teachers.GetByID(id)
	if err != nil {
		h.fail(c, err, "/teachers")
		return
	}
	h.render(c, http.StatusOK, "teachers_detail.html", gin.H{"Title": teacher.Name, "Teacher": teacher})
}

// EditTeacherPage 编辑教师页
func (h *Handler) EditTeacherPage(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	teacher, err := h.svc.Teachers.GetByID(id)
	if err != nil {
		h.fail(c, err, "/teachers")
		return
	}
	form := &forms.TeacherForm{
		EmployeeNumber:    teacher.EmployeeNumber,
		Name:              teacher.Name,
		Gender:            teacher.Gender,
		Email:             teacher.Email,
		Phone:             teacher.Phone,
		ProfessionalTitle: teacher.ProfessionalTitle,
		HireDate:          teacher.HireDateString(),
	}
	h.renderTeacherForm(c, http.StatusOK, form, teacher, gin.H{})
}

// UpdateTeacher 保存教师
func (h *Handler) UpdateTeacher(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	teacher, err := h.svc.Teachers.GetByID(id)
	if err != nil {
		h.fail(c, err, "/teachers")
		return
	}
	var form forms.TeacherForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseTeacher(&form)
	if err == nil {
		_, err = h.svc.Teachers.Update(id, in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderTeacherForm(c, status, &form, teacher, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/teachers/%d", id), "success", "教师信息已更新")
}

// DeleteTeacher 删除教师
func (h *Handler) DeleteTeacher(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Teachers.Delete(id); err != nil {
		h.fail(c, err, "/teachers")
		return
	}
	h.redirect(c, "/teachers", "success", "教师已删除")
}
