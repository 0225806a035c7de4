// Package forms 请求输入结构及其校验，校验失败返回带字段信息的 AppError
package forms

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zhtranslations "github.com/go-playground/validator/v10/translations/zh"
	"gorm.io/datatypes"
)

var (
	validate *validator.Validate
	trans    ut.Translator
	initOnce sync.Once
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func engine() (*validator.Validate, ut.Translator) {
	initOnce.Do(func() {
		zhLocale := zh.New()
		uni := ut.New(zhLocale, zhLocale)
		trans, _ = uni.GetTranslator("zh")

		validate = validator.New()
		// 错误消息中使用中文字段名
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			return fld.Name
		})
		_ = zhtranslations.RegisterDefaultTranslations(validate, trans)

		_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(models.DateLayout, fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return clockPattern.MatchString(fl.Field().String())
		})

		registerTranslation("required", "{0}不能为空")
		registerTranslation("required_without", "{0}不能为空")
		registerTranslation("date", "{0}格式不正确，应为 YYYY-MM-DD")
		registerTranslation("clock", "{0}格式不正确，应为 HH:MM")
	})
	return validate, trans
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(tag, trans, func(t ut.Translator) error {
		return t.Add(tag, text, true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		msg, err := t.T(tag, fe.Field())
		if err != nil {
			return fe.Error()
		}
		return msg
	})
}

// Validate 校验结构体，返回 nil 或字段级的校验错误（键为表单字段名）
func Validate(obj interface{}) error {
	trimStrings(obj)

	v, t := engine()
	err := v.Struct(obj)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Validation("参数错误", nil)
	}

	typ := reflect.TypeOf(obj)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.StructField()
		if sf, ok := typ.FieldByName(fe.StructField()); ok {
			key = fieldKey(sf)
		}
		if _, exists := fields[key]; !exists {
			fields[key] = fe.Translate(t)
		}
	}
	return apperrors.Validation("", fields)
}

// FieldError 构造单字段校验错误
func FieldError(field, message string) error {
	return apperrors.Validation("", map[string]string{field: message})
}

func fieldKey(sf reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		if name := strings.Split(sf.Tag.Get(tag), ",")[0]; name != "" && name != "-" {
			return name
		}
	}
	return sf.Name
}

// trimStrings 去掉所有字符串字段首尾空白，密码字段除外
func trimStrings(obj interface{}) {
	val := reflect.ValueOf(obj)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return
	}
	val = val.Elem()
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		f := val.Field(i)
		if f.Kind() != reflect.String || !f.CanSet() {
			continue
		}
		if strings.Contains(strings.ToLower(typ.Field(i).Name), "password") {
			continue
		}
		f.SetString(strings.TrimSpace(f.String()))
	}
}

// ========== 解析辅助 ==========

func parseOptionalID(value string) *uint {
	if value == "" {
		return nil
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}

func parseOptionalDate(value string) *datatypes.Date {
	if value == "" {
		return nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return nil
	}
	return &d
}

func parseClock(value string) datatypes.Time {
	t, _ := time.Parse("15:04", value)
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0)
}

func isChecked(value string) bool {
	switch strings.ToLower(value) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}
