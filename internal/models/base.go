package models

import (
	"time"

	"gorm.io/datatypes"
)

// DateLayout 页面与接口中使用的日期格式
const DateLayout = "2006-01-02"

// BaseModel 基础模型，业务表不做软删除
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormatDate 格式化日期字段
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// ParseDate 解析 YYYY-MM-DD，按UTC零点存储
func ParseDate(value string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}
