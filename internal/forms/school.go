package forms

import (
	"strconv"

	"schoolms/internal/services"
)

// TeacherForm 教师
type TeacherForm struct {
	EmployeeNumber    string `form:"employee_number" validate:"required,max=20" label:"工号"`
	Name              string `form:"name" validate:"required,max=100" label:"姓名"`
	Gender            string `form:"gender" validate:"max=10" label:"性别"`
	Email             string `form:"email" validate:"omitempty,email,max=120" label:"邮箱"`
	Phone             string `form:"phone" validate:"max=20" label:"联系电话"`
	ProfessionalTitle string `form:"professional_title" validate:"max=100" label:"职称"`
	HireDate          string `form:"hire_date" validate:"omitempty,date" label:"入职日期"`
}

func ParseTeacher(f *TeacherForm) (services.TeacherInput, error) {
	if err := Validate(f); err != nil {
		return services.TeacherInput{}, err
	}
	return services.TeacherInput{
		EmployeeNumber:    f.EmployeeNumber,
		Name:              f.Name,
		Gender:            f.Gender,
		Email:             f.Email,
		Phone:             f.Phone,
		ProfessionalTitle: f.ProfessionalTitle,
		HireDate:          parseOptionalDate(f.HireDate),
	}, nil
}

// ClassroomForm 班级
type ClassroomForm struct {
	Name          string `form:"name" validate:"required,max=100" label:"班级名称"`
	GradeLevel    string `form:"grade_level" validate:"max=20" label:"年级"`
	Description   string `form:"description" validate:"max=255" label:"描述"`
	HeadTeacherID string `form:"head_teacher_id" validate:"omitempty,numeric" label:"班主任"`
}

func ParseClassroom(f *ClassroomForm) (services.ClassroomInput, error) {
	if err := Validate(f); err != nil {
		return services.ClassroomInput{}, err
	}
	return services.ClassroomInput{
		Name:          f.Name,
		GradeLevel:    f.GradeLevel,
		Description:   f.Description,
		HeadTeacherID: parseOptionalID(f.HeadTeacherID),
	}, nil
}

// CourseForm 课程
type CourseForm struct {
	Code        string `form:"code" validate:"required,max=20" label:"课程代码"`
	Name        string `form:"name" validate:"required,max=120" label:"课程名称"`
	Credit      string `form:"credit" validate:"omitempty,numeric" label:"学分"`
	Description string `form:"description" label:"课程简介"`
	ClassroomID string `form:"classroom_id" validate:"omitempty,numeric" label:"班级"`
	TeacherID   string `form:"teacher_id" validate:"omitempty,numeric" label:"任课教师"`
}

func ParseCourse(f *CourseForm) (services.CourseInput, error) {
	if err := Validate(f); err != nil {
		return services.CourseInput{}, err
	}
	var credit float64
	if f.Credit != "" {
		credit, _ = strconv.ParseFloat(f.Credit, 64)
	}
	if credit < 0 {
		return services.CourseInput{}, FieldError("credit", "学分不能为负数")
	}
	return services.CourseInput{
		Code:        f.Code,
		Name:        f.Name,
		Credit:      credit,
		Description: f.Description,
		ClassroomID: parseOptionalID(f.ClassroomID),
		TeacherID:   parseOptionalID(f.TeacherID),
	}, nil
}

// ScheduleForm 课程时间
type ScheduleForm struct {
	Weekday   string `form:"weekday" validate:"required,oneof=0 1 2 3 4 5 6" label:"星期"`
	StartTime string `form:"start_time" validate:"required,clock" label:"开始时间"`
	EndTime   string `form:"end_time" validate:"required,clock" label:"结束时间"`
	Location  string `form:"location" validate:"max=100" label:"上课地点"`
}

func ParseSchedule(f *ScheduleForm) (services.ScheduleInput, error) {
	if err := Validate(f); err != nil {
		return services.ScheduleInput{}, err
	}
	// HH:MM 定长，字符串比较即时间先后
	if f.StartTime >= f.EndTime {
		return services.ScheduleInput{}, FieldError("end_time", "结束时间必须晚于开始时间")
	}
	weekday, _ := strconv.Atoi(f.Weekday)
	return services.ScheduleInput{
		Weekday:   weekday,
		StartTime: parseClock(f.StartTime),
		EndTime:   parseClock(f.EndTime),
		Location:  f.Location,
	}, nil
}
