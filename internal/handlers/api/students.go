package api

import (
	"schoolms/internal/forms"
	"schoolms/internal/models"
	"schoolms/pkg/response"

	"github.com/gin-gonic/gin"
)

// StudentResponse 接口中的学生
type StudentResponse struct {
	ID            uint   `json:"id"`
	StudentNumber string `json:"student_number"`
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	DateOfBirth   string `json:"date_of_birth"`
	ClassID       *uint  `json:"class_id"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

func toStudentResponse(s *models.Student) StudentResponse {
	return StudentResponse{
		ID:            s.ID,
		StudentNumber: s.StudentNumber,
		Name:          s.Name,
		Gender:        s.Gender,
		DateOfBirth:   s.BirthDate(),
		ClassID:       s.ClassID,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
	}
}

// ListStudents 全部学生，按学号排序
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.svc.Students.All()
	if err != nil {
		response.FromError(c, err)
		return
	}
	result := make([]StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, toStudentResponse(&students[i]))
	}
	response.Success(c, result)
}

// GetStudent 学生详情
func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	student, err := h.svc.Students.GetByID(id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toStudentResponse(student))
}

// CreateStudent 新增学生
func (h *Handler) CreateStudent(c *gin.Context) {
	var payload forms.StudentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "请求体必须是JSON对象")
		return
	}
	in, err := forms.ParseStudentPayload(&payload)
	if err != nil {
		response.FromError(c, err)
		return
	}
	student, err := h.svc.Students.Create(in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, toStudentResponse(student))
}

// UpdateStudent 修改学生
func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload forms.StudentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "请求体必须是JSON对象")
		return
	}
	in, err := forms.ParseStudentPayload(&payload)
	if err != nil {
		response.FromError(c, err)
		return
	}
	student, err := h.svc.Students.Update(id, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, toStudentResponse(student))
}

// DeleteStudent 删除学生
func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Students.Delete(id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "学生已删除"})
}
