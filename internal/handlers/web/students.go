package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"schoolms/internal/forms"
	"schoolms/internal/models"
	"schoolms/internal/services"
	"schoolms/pkg/excel"
	"schoolms/pkg/pagination"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListStudents 学生列表
func (h *Handler) ListStudents(c *gin.Context) {
	filter := services.StudentFilter{
		Keyword: c.Query("q"),
		ClassID: queryID(c, "class_id"),
		Gender:  c.Query("gender"),
	}
	students, info, err := h.svc.Students.List(filter, pagination.ParsePageParams(c, pagination.DefaultPageSize))
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	classes, err := h.svc.Classes.All()
	if err != nil {
		h.fail(c, err, "/")
		return
	}

	query := url.Values{}
	for _, key := range []string{"q", "class_id", "gender"} {
		if v := c.Query(key); v != "" {
			query.Set(key, v)
		}
	}
	pagerQuery := ""
	if len(query) > 0 {
		pagerQuery = "&" + query.Encode()
	}

	h.render(c, http.StatusOK, "students_list.html", gin.H{
		"Title":    "学生管理",
		"Students": students,
		"Pager":    gin.H{"Info": info, "Query": pagerQuery},
		"Classes":  classes,
		"Filter":   filter,
	})
}

func (h *Handler) renderStudentForm(c *gin.Context, status int, form *forms.StudentForm, student *models.Student, data gin.H) {
	classes, err := h.svc.Classes.All()
	if err != nil {
		h.fail(c, err, "/students")
		return
	}
	data["Form"] = form
	data["Classes"] = classes
	data["Student"] = student
	if student == nil {
		data["Title"] = "新增学生"
		data["Action"] = "/students/new"
	} else {
		data["Title"] = "编辑学生"
		data["Action"] = fmt.Sprintf("/students/%d/edit", student.ID)
	}
	h.render(c, status, "students_form.html", data)
}

// NewStudentPage 新增学生页
func (h *Handler) NewStudentPage(c *gin.Context) {
	h.renderStudentForm(c, http.StatusOK, &forms.StudentForm{}, nil, gin.H{})
}

// CreateStudent 新增学生
func (h *Handler) CreateStudent(c *gin.Context) {
	var form forms.StudentForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseStudent(&form)
	if err == nil {
		in.AvatarPath, err = h.saveAvatar(c)
	}
	var student *models.Student
	if err == nil {
		student, err = h.svc.Students.Create(in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderStudentForm(c, status, &form, nil, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/students/%d", student.ID), "success", "学生已创建")
}

// ShowStudent 学生详情
func (h *Handler) ShowStudent(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	student, err := h.svc.Students.GetByID(id)
	if err != nil {
		h.fail(c, err, "/students")
		return
	}
	h.render(c, http.StatusOK, "students_detail.html", gin.H{"Title": student.Name, "Student": student})
}

// EditStudentPage 编辑学生页
func (h *Handler) EditStudentPage(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	student, err := h.svc.Students.GetByID(id)
	if err != nil {
		h.fail(c, err, "/students")
		return
	}
	form := &forms.StudentForm{
		StudentNumber: student.StudentNumber,
		Name:          student.Name,
		Gender:        student.Gender,
		DateOfBirth:   student.BirthDate(),
		Email:         student.Email,
		Phone:         student.Phone,
		Address:       student.Address,
		GuardianName:  student.GuardianName,
		GuardianPhone: student.GuardianPhone,
	}
	if student.ClassID != nil {
		form.ClassID = fmt.Sprint(*student.ClassID)
	}
	h.renderStudentForm(c, http.StatusOK, form, student, gin.H{})
}

// UpdateStudent 保存学生
func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	student, err := h.svc.Students.GetByID(id)
	if err != nil {
		h.fail(c, err, "/students")
		return
	}

	var form forms.StudentForm
	_ = c.ShouldBind(&form)
	in, err := forms.ParseStudent(&form)
	if err == nil {
		in.AvatarPath, err = h.saveAvatar(c)
	}
	if err == nil {
		_, err = h.svc.Students.Update(id, in)
	}
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderStudentForm(c, status, &form, student, data)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/students/%d", id), "success", "学生信息已更新")
}

// DeleteStudent 删除学生
func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Students.Delete(id); err != nil {
		h.fail(c, err, "/students")
		return
	}
	h.redirect(c, "/students", "success", "学生已删除")
}

// saveAvatar 保存可选的头像上传，未上传返回空
func (h *Handler) saveAvatar(c *gin.Context) (string, error) {
	fh, err := c.FormFile("avatar")
	if err != nil || fh.Size == 0 {
		return "", nil
	}
	uid := currentUserID(c)
	return h.svc.Uploads.Save(fh, "avatars", &uid, services.ImageExtensions...)
}

// ExportStudents 导出学生Excel
func (h *Handler) ExportStudents(c *gin.Context) {
	rows, err := h.svc.Students.ExportRows()
	if err != nil {
		h.fail(c, err, "/students")
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="students.xlsx"`)
	if err := excel.WriteStudents(c.Writer, rows); err != nil {
		h.fail(c, err, "/students")
	}
}

// ImportStudentsPage 导入页
func (h *Handler) ImportStudentsPage(c *gin.Context) {
	h.render(c, http.StatusOK, "students_import.html", gin.H{"Title": "导入学生", "Columns": excel.StudentColumns})
}

// ImportStudents 导入学生Excel，文件有误时整体拒绝
func (h *Handler) ImportStudents(c *gin.Context) {
	data := gin.H{"Title": "导入学生", "Columns": excel.StudentColumns}
	fh, err := c.FormFile("file")
	if err != nil {
		data["Error"] = "请选择要导入的文件"
		h.render(c, http.StatusBadRequest, "students_import.html", data)
		return
	}
	file, err := fh.Open()
	if err != nil {
		h.fail(c, err, "/students/import")
		return
	}
	defer file.Close()

	rows, err := excel.ReadStudents(file)
	if err != nil {
		var missing *excel.MissingColumnsError
		if errors.As(err, &missing) {
			data["Error"] = missing.Error()
		} else {
			data["Error"] = "无法读取文件，请上传 .xlsx 格式的表格"
		}
		h.render(c, http.StatusBadRequest, "students_import.html", data)
		return
	}

	result, err := h.svc.Students.Import(rows)
	if err != nil {
		if status, ok := h.formFailed(c, err, data); ok {
			h.render(c, status, "students_import.html", data)
		}
		return
	}
	h.redirect(c, "/students", "success", fmt.Sprintf("导入完成：新增 %d 条，跳过 %d 条", result.Created, result.Skipped))
}
