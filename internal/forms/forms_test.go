package forms

import (
	"testing"
	"time"

	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, apperrors.KindValidation, appErr.Kind)
	return appErr.Fields
}

func validStudentForm() *StudentForm {
	return &StudentForm{
		StudentNumber: " S001 ",
		Name:          "张三",
		Gender:        "男",
		DateOfBirth:   "2008-05-01",
		ClassID:       "3",
		Email:         "zs@example.com",
		Phone:         "13800000000",
	}
}

func TestParseStudent(t *testing.T) {
	in, err := ParseStudent(validStudentForm())
	require.NoError(t, err)
	assert.Equal(t, "S001", in.StudentNumber)
	require.NotNil(t, in.ClassID)
	assert.Equal(t, uint(3), *in.ClassID)
	assert.Equal(t, "2008-05-01", models.FormatDate(in.DateOfBirth))

	f := validStudentForm()
	f.Name = "  "
	f.DateOfBirth = "2008/05/01"
	f.Email = "not-an-email"
	fields := fieldsOf(t, func() error { _, err := ParseStudent(f); return err }())
	assert.Equal(t, "姓名不能为空", fields["name"])
	assert.Contains(t, fields["date_of_birth"], "YYYY-MM-DD")
	assert.Contains(t, fields, "email")
}

func TestParseStudentPayloadClassNameOrID(t *testing.T) {
	p := &StudentPayload{
		StudentNumber: "S002",
		Name:          "李四",
		Gender:        "女",
		DateOfBirth:   "2009-01-02",
		Email:         "ls@example.com",
		Phone:         "1",
	}
	fields := fieldsOf(t, func() error { _, err := ParseStudentPayload(p); return err }())
	assert.Contains(t, fields, "class_name")

	p.ClassName = "高一(1)班"
	in, err := ParseStudentPayload(p)
	require.NoError(t, err)
	assert.Equal(t, "高一(1)班", in.ClassName)
	assert.Nil(t, in.ClassID)

	id := uint(7)
	p.ClassName = ""
	p.ClassID = &id
	in, err = ParseStudentPayload(p)
	require.NoError(t, err)
	assert.Equal(t, &id, in.ClassID)
}

func TestParseRegisterPasswordMismatch(t *testing.T) {
	f := &RegisterForm{Username: "u", Email: "u@example.com", Password: "secret1", ConfirmPassword: "secret2"}
	fields := fieldsOf(t, func() error { _, err := ParseRegister(f); return err }())
	assert.Equal(t, "两次输入的密码不一致", fields["confirm_password"])

	f.ConfirmPassword = "secret1"
	in, err := ParseRegister(f)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, in.RoleName)
}

func TestPasswordsAreNotTrimmed(t *testing.T) {
	f := &NewPasswordForm{Password: " secret ", ConfirmPassword: " secret "}
	require.NoError(t, ParseNewPassword(f))
	assert.Equal(t, " secret ", f.Password)
}

func TestParseSchedule(t *testing.T) {
	in, err := ParseSchedule(&ScheduleForm{Weekday: "4", StartTime: "08:00", EndTime: "09:30", Location: "B201"})
	require.NoError(t, err)
	assert.Equal(t, 4, in.Weekday)
	assert.Equal(t, "08:00:00", in.StartTime.String())

	cases := []struct {
		name  string
		form  ScheduleForm
		field string
	}{
		{"weekday out of range", ScheduleForm{Weekday: "7", StartTime: "08:00", EndTime: "09:00"}, "weekday"},
		{"bad clock", ScheduleForm{Weekday: "1", StartTime: "8am", EndTime: "09:00"}, "start_time"},
		{"end before start", ScheduleForm{Weekday: "1", StartTime: "10:00", EndTime: "09:00"}, "end_time"},
		{"end equals start", ScheduleForm{Weekday: "1", StartTime: "10:00", EndTime: "10:00"}, "end_time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := tc.form
			fields := fieldsOf(t, func() error { _, err := ParseSchedule(&form); return err }())
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestParseCourseCredit(t *testing.T) {
	in, err := ParseCourse(&CourseForm{Code: "M1", Name: "数学"})
	require.NoError(t, err)
	assert.Zero(t, in.Credit)
	assert.Nil(t, in.TeacherID)

	_, err = ParseCourse(&CourseForm{Code: "M1", Name: "数学", Credit: "-1"})
	assert.Contains(t, fieldsOf(t, err), "credit")

	_, err = ParseCourse(&CourseForm{Code: "M1", Name: "数学", Credit: "abc"})
	assert.Contains(t, fieldsOf(t, err), "credit")
}

func TestParseLeaveDateOrder(t *testing.T) {
	in, err := ParseLeave(&LeaveForm{StartDate: "2024-05-01", EndDate: "2024-05-01"})
	require.NoError(t, err)
	assert.Equal(t, time.Time(in.StartDate), time.Time(in.EndDate))

	_, err = ParseLeave(&LeaveForm{StartDate: "2024-05-02", EndDate: "2024-05-01"})
	assert.Equal(t, "结束日期不能早于开始日期", fieldsOf(t, err)["end_date"])
}

func TestParseTodoAndAnnouncement(t *testing.T) {
	todo, err := ParseTodo(&TodoForm{Content: "批改作业", DueDate: "2024-06-01"})
	require.NoError(t, err)
	require.NotNil(t, todo.DueDate)

	_, err = ParseTodo(&TodoForm{})
	assert.Equal(t, "待办内容不能为空", fieldsOf(t, err)["content"])

	ann, err := ParseAnnouncement(&AnnouncementForm{Title: "t", Content: "c", IsPinned: "on"})
	require.NoError(t, err)
	assert.True(t, ann.IsPinned)
	ann, err = ParseAnnouncement(&AnnouncementForm{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.False(t, ann.IsPinned)
}
