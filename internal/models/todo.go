package models

import "gorm.io/datatypes"

// TodoItem 个人待办
type TodoItem struct {
	BaseModel
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Content     string          `gorm:"size:255;not null" json:"content"`
	DueDate     *datatypes.Date `json:"due_date"`
	IsCompleted bool            `gorm:"not null;default:false" json:"is_completed"`
}

// SystemMessage 站内消息
type SystemMessage struct {
	BaseModel
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Title  string `gorm:"size:150;not null" json:"title"`
	Body   string `gorm:"type:text;not null" json:"body"`
	IsRead bool   `gorm:"not null;default:false" json:"is_read"`
}
