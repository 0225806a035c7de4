package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemSetting 系统参数（键值对）
type SystemSetting struct {
	Key         string    `gorm:"primaryKey;size:100" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `gorm:"size:255" json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DataBackup 数据备份记录
type DataBackup struct {
	BaseModel
	Filename  string `gorm:"size:255;not null" json:"filename"`
	FilePath  string `gorm:"size:255;not null" json:"file_path"`
	Size      int64  `json:"size"`
	CreatedBy *uint  `json:"created_by"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

// OperationLog 操作日志
type OperationLog struct {
	BaseModel
	UserID      *uint          `gorm:"index" json:"user_id"`
	Action      string         `gorm:"size:100;not null" json:"action"`
	Resource    string         `gorm:"size:100" json:"resource"`
	Description string         `gorm:"size:255" json:"description"`
	IPAddress   string         `gorm:"size:45" json:"ip_address"`
	Detail      datatypes.JSON `json:"detail"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// UploadedFile 上传文件记录
type UploadedFile struct {
	BaseModel
	Filename   string `gorm:"size:255;not null" json:"filename"`
	StoredName string `gorm:"size:255;not null" json:"stored_name"`
	Subdir     string `gorm:"size:50" json:"subdir"`
	Size       int64  `json:"size"`
	UploaderID *uint  `json:"uploader_id"`
	FileType   string `gorm:"size:50" json:"file_type"`
}
