package forms

import (
	"time"

	"schoolms/internal/models"
	"schoolms/internal/services"
)

// AnnouncementForm 公告
type AnnouncementForm struct {
	Title       string   `form:"title" validate:"required,max=150" label:"标题"`
	Content     string   `form:"content" validate:"required" label:"内容"`
	TargetRoles []string `form:"target_roles" label:"面向角色"`
	IsPinned    string   `form:"is_pinned"`
}

func ParseAnnouncement(f *AnnouncementForm) (services.AnnouncementInput, error) {
	if err := Validate(f); err != nil {
		return services.AnnouncementInput{}, err
	}
	return services.AnnouncementInput{
		Title:       f.Title,
		Content:     f.Content,
		TargetRoles: f.TargetRoles,
		IsPinned:    isChecked(f.IsPinned),
	}, nil
}

// TodoForm 待办，页面与接口共用
type TodoForm struct {
	Content string `form:"content" json:"content" validate:"required,max=255" label:"待办内容"`
	DueDate string `form:"due_date" json:"due_date" validate:"omitempty,date" label:"截止日期"`
}

func ParseTodo(f *TodoForm) (services.TodoInput, error) {
	if err := Validate(f); err != nil {
		return services.TodoInput{}, err
	}
	return services.TodoInput{Content: f.Content, DueDate: parseOptionalDate(f.DueDate)}, nil
}

// LeaveForm 请假申请
type LeaveForm struct {
	StartDate string `form:"start_date" validate:"required,date" label:"开始日期"`
	EndDate   string `form:"end_date" validate:"required,date" label:"结束日期"`
	Reason    string `form:"reason" validate:"max=255" label:"请假原因"`
}

func ParseLeave(f *LeaveForm) (services.LeaveInput, error) {
	if err := Validate(f); err != nil {
		return services.LeaveInput{}, err
	}
	start, _ := models.ParseDate(f.StartDate)
	end, _ := models.ParseDate(f.EndDate)
	if time.Time(start).After(time.Time(end)) {
		return services.LeaveInput{}, FieldError("end_date", "结束日期不能早于开始日期")
	}
	return services.LeaveInput{StartDate: start, EndDate: end, Reason: f.Reason}, nil
}

// SettingForm 系统参数
type SettingForm struct {
	Key         string `form:"key" validate:"required,max=100" label:"参数键"`
	Value       string `form:"value" label:"参数值"`
	Description string `form:"description" validate:"max=255" label:"说明"`
}

func ParseSetting(f *SettingForm) (services.SettingInput, error) {
	if err := Validate(f); err != nil {
		return services.SettingInput{}, err
	}
	return services.SettingInput{Key: f.Key, Value: f.Value, Description: f.Description}, nil
}
