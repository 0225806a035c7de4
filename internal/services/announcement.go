package services

import (
	"strings"

	"schoolms/internal/models"

	"gorm.io/gorm"
)

// AnnouncementInput 公告参数，TargetRoles 为空表示面向全部
type AnnouncementInput struct {
	Title       string
	Content     string
	TargetRoles []string
	IsPinned    bool
}

type AnnouncementService struct {
	db *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

func (s *AnnouncementService) ordered() *gorm.DB {
	return s.db.Preload("Author").Order("is_pinned DESC, created_at DESC, id DESC")
}

// List 全部公告，置顶在前，其次按时间倒序
func (s *AnnouncementService) List() ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := s.ordered().Find(&announcements).Error
	return announcements, err
}

// Recent 最新的 limit 条公告
func (s *AnnouncementService) Recent(limit int) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := s.ordered().Limit(limit).Find(&announcements).Error
	return announcements, err
}

// VisibleTo 对拥有给定角色的用户可见的公告
func (s *AnnouncementService) VisibleTo(roleNames []string) ([]models.Announcement, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	visible := make([]models.Announcement, 0, len(all))
	for i := range all {
		if all[i].VisibleTo(roleNames) {
			visible = append(visible, all[i])
		}
	}
	return visible, nil
}

// GetByID 公告详情
func (s *AnnouncementService) GetByID(id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := s.db.Preload("Author").First(&announcement, id).Error; err != nil {
		return nil, notFound(err, "公告不存在")
	}
	return &announcement, nil
}

// Create 发布公告
func (s *AnnouncementService) Create(authorID uint, in AnnouncementInput) (*models.Announcement, error) {
	announcement := &models.Announcement{
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    &authorID,
		TargetRoles: joinTargets(in.TargetRoles),
		IsPinned:    in.IsPinned,
	}
	if err := s.db.Create(announcement).Error; err != nil {
		return nil, err
	}
	return announcement, nil
}

// joinTargets 面向角色存为逗号分隔；未选择或包含 all 时为 all
func joinTargets(roles []string) string {
	targets := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == models.TargetAll {
			return models.TargetAll
		}
		if r != "" {
			targets = append(targets, r)
		}
	}
	if len(targets) == 0 {
		return models.TargetAll
	}
	return strings.Join(targets, ",")
}
