package forms

import (
	"schoolms/internal/models"
	"schoolms/internal/services"
)

// StudentForm 页面学生表单
type StudentForm struct {
	StudentNumber string `form:"student_number" validate:"required,max=20" label:"学号"`
	Name          string `form:"name" validate:"required,max=100" label:"姓名"`
	Gender        string `form:"gender" validate:"required,max=10" label:"性别"`
	DateOfBirth   string `form:"date_of_birth" validate:"required,date" label:"出生日期"`
	ClassID       string `form:"class_id" validate:"required,numeric" label:"班级"`
	Email         string `form:"email" validate:"required,email,max=120" label:"邮箱"`
	Phone         string `form:"phone" validate:"required,max=20" label:"联系电话"`
	Address       string `form:"address" validate:"max=255" label:"地址"`
	GuardianName  string `form:"guardian_name" validate:"max=100" label:"监护人"`
	GuardianPhone string `form:"guardian_phone" validate:"max=20" label:"监护人电话"`
}

func ParseStudent(f *StudentForm) (services.StudentInput, error) {
	if err := Validate(f); err != nil {
		return services.StudentInput{}, err
	}
	dob, _ := models.ParseDate(f.DateOfBirth)
	return services.StudentInput{
		StudentNumber: f.StudentNumber,
		Name:          f.Name,
		Gender:        f.Gender,
		DateOfBirth:   dob,
		ClassID:       parseOptionalID(f.ClassID),
		Email:         f.Email,
		Phone:         f.Phone,
		Address:       f.Address,
		GuardianName:  f.GuardianName,
		GuardianPhone: f.GuardianPhone,
	}, nil
}

// StudentPayload 接口学生请求体，班级可按名称或ID指定
type StudentPayload struct {
	StudentNumber string `json:"student_number" validate:"required,max=20" label:"student_number"`
	Name          string `json:"name" validate:"required,max=100" label:"name"`
	Gender        string `json:"gender" validate:"required,max=10" label:"gender"`
	DateOfBirth   string `json:"date_of_birth" validate:"required,date" label:"date_of_birth"`
	ClassName     string `json:"class_name" validate:"required_without=ClassID,max=100" label:"class_name"`
	ClassID       *uint  `json:"class_id" label:"class_id"`
	Email         string `json:"email" validate:"required,email,max=120" label:"email"`
	Phone         string `json:"phone" validate:"required,max=20" label:"phone"`
	Address       string `json:"address" validate:"max=255" label:"address"`
}

func ParseStudentPayload(p *StudentPayload) (services.StudentInput, error) {
	if err := Validate(p); err != nil {
		return services.StudentInput{}, err
	}
	dob, _ := models.ParseDate(p.DateOfBirth)
	return services.StudentInput{
		StudentNumber: p.StudentNumber,
		Name:          p.Name,
		Gender:        p.Gender,
		DateOfBirth:   dob,
		ClassID:       p.ClassID,
		ClassName:     p.ClassName,
		Email:         p.Email,
		Phone:         p.Phone,
		Address:       p.Address,
		KeepGuardian:  true,
	}, nil
}
