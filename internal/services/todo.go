package services

import (
	"time"

	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TodoInput 待办参数
type TodoInput struct {
	Content string
	DueDate *datatypes.Date
}

// TodoCounts 待办统计
type TodoCounts struct {
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

type TodoService struct {
	db *gorm.DB
}

func NewTodoService(db *gorm.DB) *TodoService {
	return &TodoService{db: db}
}

// Create 新增待办
func (s *TodoService) Create(userID uint, in TodoInput) (*models.TodoItem, error) {
	todo := &models.TodoItem{UserID: userID, Content: in.Content, DueDate: in.DueDate}
	if err := s.db.Create(todo).Error; err != nil {
		return nil, err
	}
	return todo, nil
}

// Pending 未完成待办，按截止日期升序，无截止日期的排在最后
func (s *TodoService) Pending(userID uint, limit int) ([]models.TodoItem, error) {
	query := s.db.Where("user_id = ? AND is_completed = ?", userID, false).
		Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var todos []models.TodoItem
	err := query.Find(&todos).Error
	return todos, err
}

// Counts 待办数量
func (s *TodoService) Counts(userID uint) (*TodoCounts, error) {
	type row struct {
		IsCompleted bool
		Total       int64
	}
	var rows []row
	if err := s.db.Model(&models.TodoItem{}).
		Select("is_completed, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("is_completed").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := &TodoCounts{}
	for _, r := range rows {
		if r.IsCompleted {
			counts.Completed = r.Total
		} else {
			counts.Pending = r.Total
		}
	}
	return counts, nil
}

// Complete 标记完成，只能操作自己的待办
func (s *TodoService) Complete(userID, todoID uint) error {
	var todo models.TodoItem
	if err := s.db.First(&todo, todoID).Error; err != nil {
		return notFound(err, "待办不存在")
	}
	if todo.UserID != userID {
		return apperrors.Forbidden("无权操作该待办")
	}
	return s.db.Model(&todo).Updates(map[string]interface{}{
		"is_completed": true,
		"updated_at":   time.Now(),
	}).Error
}
