package services

import (
	"encoding/json"

	"schoolms/internal/models"
	"schoolms/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LogEntry 一条操作记录
type LogEntry struct {
	UserID      *uint
	Action      string
	Resource    string
	Description string
	IPAddress   string
	Method      string
	Path        string
}

type OperationLogService struct {
	db *gorm.DB
}

func NewOperationLogService(db *gorm.DB) *OperationLogService {
	return &OperationLogService{db: db}
}

// Record 记录操作日志，失败只写应用日志不影响业务
func (s *OperationLogService) Record(entry LogEntry) {
	detail, err := json.Marshal(map[string]string{
		"method": entry.Method,
		"path":   entry.Path,
	})
	if err != nil {
		detail = []byte("{}")
	}
	log := &models.OperationLog{
		UserID:      entry.UserID,
		Action:      entry.Action,
		Resource:    entry.Resource,
		Description: entry.Description,
		IPAddress:   entry.IPAddress,
		Detail:      datatypes.JSON(detail),
	}
	if err := s.db.Create(log).Error; err != nil {
		logger.GetLogger().WithField("action", entry.Action).Errorf("record operation log failed: %v", err)
	}
}

// Latest 最近的操作日志
func (s *OperationLogService) Latest(limit int) ([]models.OperationLog, error) {
	var logs []models.OperationLog
	err := s.db.Preload("User").Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
