package services

import (
	"errors"
	"fmt"
	"strings"

	"schoolms/internal/models"

	apperrors "schoolms/pkg/errors"

	"gorm.io/gorm"
)

// isDuplicateKey 唯一约束冲突。postgres/sqlite 驱动在 TranslateError 下返回 ErrDuplicatedKey，其余按错误文本兜底
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505")
}

// commitError 提交阶段的唯一约束冲突转成与预检查相同的提示
func commitError(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return apperrors.Conflict(conflictMsg)
	}
	return err
}

// notFound 记录不存在时转成 NotFound 业务错误
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(msg)
	}
	return err
}

// exists 检查是否存在满足条件的记录，excludeID 非0时排除该记录本身
func exists(db *gorm.DB, model interface{}, column, value string, excludeID uint) (bool, error) {
	var count int64
	query := db.Model(model).Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// likePattern 构造模糊匹配串
func likePattern(keyword string) string {
	return "%" + strings.ToLower(keyword) + "%"
}

// unknownStudents 找出不存在的学生ID，按 <prefix><id> 作为字段名返回
func unknownStudents(db *gorm.DB, ids []uint, prefix string) (map[string]string, error) {
	var found []uint
	if err := db.Model(&models.Student{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	known := make(map[uint]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	missing := make(map[string]string)
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing[fmt.Sprintf("%s%d", prefix, id)] = "学生不存在"
		}
	}
	return missing, nil
}
