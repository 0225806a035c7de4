package forms

import (
	"schoolms/internal/models"
	"schoolms/internal/services"
)

const passwordMismatch = "两次输入的密码不一致"

// LoginForm 登录表单
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required" label:"用户名"`
	Password string `form:"password" json:"password" validate:"required" label:"密码"`
	Remember string `form:"remember" json:"-"`
}

func ParseLogin(f *LoginForm) error {
	return Validate(f)
}

// RegisterForm 注册表单
type RegisterForm struct {
	Username        string `form:"username" validate:"required,max=80" label:"用户名"`
	Email           string `form:"email" validate:"required,email,max=120" label:"邮箱"`
	Password        string `form:"password" validate:"required,min=6" label:"密码"`
	ConfirmPassword string `form:"confirm_password" label:"确认密码"`
	Role            string `form:"role" label:"角色"`
}

func ParseRegister(f *RegisterForm) (services.RegisterInput, error) {
	if err := Validate(f); err != nil {
		return services.RegisterInput{}, err
	}
	if f.Password != f.ConfirmPassword {
		return services.RegisterInput{}, FieldError("confirm_password", passwordMismatch)
	}
	role := f.Role
	if role == "" {
		role = models.RoleStudent
	}
	return services.RegisterInput{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
		RoleName: role,
	}, nil
}

// ForgotForm 找回密码
type ForgotForm struct {
	Email string `form:"email" validate:"required,email" label:"邮箱"`
}

func ParseForgot(f *ForgotForm) error {
	return Validate(f)
}

// NewPasswordForm 设置新密码（重置密码、首次登录）
type NewPasswordForm struct {
	Token           string `form:"token"`
	Password        string `form:"password" validate:"required,min=6" label:"新密码"`
	ConfirmPassword string `form:"confirm_password" label:"确认密码"`
}

func ParseNewPassword(f *NewPasswordForm) error {
	if err := Validate(f); err != nil {
		return err
	}
	if f.Password != f.ConfirmPassword {
		return FieldError("confirm_password", passwordMismatch)
	}
	return nil
}

// ChangePasswordForm 修改密码
type ChangePasswordForm struct {
	OldPassword     string `form:"old_password" validate:"required" label:"原密码"`
	NewPassword     string `form:"new_password" validate:"required,min=6" label:"新密码"`
	ConfirmPassword string `form:"confirm_password" label:"确认密码"`
}

func ParseChangePassword(f *ChangePasswordForm) error {
	if err := Validate(f); err != nil {
		return err
	}
	if f.NewPassword != f.ConfirmPassword {
		return FieldError("confirm_password", passwordMismatch)
	}
	return nil
}

// ProfileForm 个人信息
type ProfileForm struct {
	Email string `form:"email" validate:"required,email,max=120" label:"邮箱"`
	Phone string `form:"phone" validate:"max=20" label:"联系电话"`
}

func ParseProfile(f *ProfileForm) (services.ProfileInput, error) {
	if err := Validate(f); err != nil {
		return services.ProfileInput{}, err
	}
	return services.ProfileInput{Email: f.Email, Phone: f.Phone}, nil
}

// RoleForm 角色
type RoleForm struct {
	Name        string `form:"name" validate:"required,max=50" label:"角色名称"`
	Description string `form:"description" validate:"max=255" label:"描述"`
}

func ParseRole(f *RoleForm) (services.RoleInput, error) {
	if err := Validate(f); err != nil {
		return services.RoleInput{}, err
	}
	return services.RoleInput{Name: f.Name, Description: f.Description}, nil
}
