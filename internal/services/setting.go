package services

import (
	"strings"

	"schoolms/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingInput 系统参数
type SettingInput struct {
	Key         string
	Value       string
	Description string
}

type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// List 全部参数（按键）
func (s *SettingService) List() ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := s.db.Order("key ASC").Find(&settings).Error
	return settings, err
}

// Get 读取参数值，不存在时返回默认值
func (s *SettingService) Get(key, defaultValue string) (string, error) {
	var settings []models.SystemSetting
	if err := s.db.Where("key = ?", key).Limit(1).Find(&settings).Error; err != nil {
		return "", err
	}
	if len(settings) == 0 {
		return defaultValue, nil
	}
	return settings[0].Value, nil
}

// Save 按键新增或更新参数
func (s *SettingService) Save(in SettingInput) (*models.SystemSetting, error) {
	setting := &models.SystemSetting{
		Key:         in.Key,
		Value:       strings.TrimSpace(in.Value),
		Description: in.Description,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}
