package services

import (
	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"gorm.io/gorm"
)

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Send 发送站内消息
func (s *MessageService) Send(userID uint, title, body string) (*models.SystemMessage, error) {
	message := &models.SystemMessage{UserID: userID, Title: title, Body: body}
	if err := s.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// ListByUser 用户消息，read 指定已读或未读，limit<=0 不限条数
func (s *MessageService) ListByUser(userID uint, read bool, limit int) ([]models.SystemMessage, error) {
	query := s.db.Where("user_id = ? AND is_read = ?", userID, read).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var messages []models.SystemMessage
	err := query.Find(&messages).Error
	return messages, err
}

// MarkRead 标记已读，只能操作自己的消息
func (s *MessageService) MarkRead(userID, messageID uint) error {
	var message models.SystemMessage
	if err := s.db.First(&message, messageID).Error; err != nil {
		return notFound(err, "消息不存在")
	}
	if message.UserID != userID {
		return apperrors.Forbidden("无权操作该消息")
	}
	return s.db.Model(&message).Update("is_read", true).Error
}
