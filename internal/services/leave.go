package services

import (
	"fmt"
	"time"

	"schoolms/internal/models"
	apperrors "schoolms/pkg/errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LeaveInput 请假申请参数
type LeaveInput struct {
	StartDate datatypes.Date
	EndDate   datatypes.Date
	Reason    string
}

type LeaveService struct {
	db *gorm.DB
}

func NewLeaveService(db *gorm.DB) *LeaveService {
	return &LeaveService{db: db}
}

// Create 学生提交请假申请，当前用户必须关联学生档案
func (s *LeaveService) Create(userID uint, in LeaveInput) (*models.LeaveRequest, error) {
	if time.Time(in.StartDate).After(time.Time(in.EndDate)) {
		return nil, apperrors.Validation("结束日期不能早于开始日期", map[string]string{"end_date": "结束日期不能早于开始日期"})
	}
	var students []models.Student
	if err := s.db.Where("user_id = ?", userID).Limit(1).Find(&students).Error; err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperrors.Forbidden("只有学生可以提交请假申请")
	}

	leave := &models.LeaveRequest{
		StudentID: students[0].ID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    in.Reason,
		Status:    models.LeavePending,
	}
	if err := s.db.Create(leave).Error; err != nil {
		return nil, err
	}
	return leave, nil
}

// List 请假列表，审批人看到全部，其他用户只看到本人的申请
func (s *LeaveService) List(userID uint, reviewer bool) ([]models.LeaveRequest, error) {
	query := s.db.Preload("Student").Preload("Approver").Order("leave_requests.created_at DESC, leave_requests.id DESC")
	if !reviewer {
		query = query.Joins("JOIN students ON students.id = leave_requests.student_id").
			Where("students.user_id = ?", userID)
	}
	var leaves []models.LeaveRequest
	err := query.Find(&leaves).Error
	return leaves, err
}

// Review 审批请假申请，并通知提交申请的学生
func (s *LeaveService) Review(leaveID, reviewerID uint, approve bool) (*models.LeaveRequest, error) {
	var leave models.LeaveRequest
	if err := s.db.Preload("Student").First(&leave, leaveID).Error; err != nil {
		return nil, notFound(err, "请假申请不存在")
	}
	if leave.Status != models.LeavePending {
		return nil, apperrors.Conflict("该请假申请已处理")
	}

	status, verdict := models.LeaveRejected, "已驳回"
	if approve {
		status, verdict = models.LeaveApproved, "已批准"
	}
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&leave).Updates(map[string]interface{}{
			"status":      status,
			"approver_id": reviewerID,
			"reviewed_at": now,
		}).Error; err != nil {
			return err
		}
		if leave.Student == nil || leave.Student.UserID == nil {
			return nil
		}
		message := &models.SystemMessage{
			UserID: *leave.Student.UserID,
			Title:  "请假申请" + verdict,
			Body: fmt.Sprintf("您 %s 至 %s 的请假申请%s。",
				models.FormatDate(leave.StartDate), models.FormatDate(leave.EndDate), verdict),
		}
		return tx.Create(message).Error
	})
	if err != nil {
		return nil, err
	}
	leave.Status = status
	leave.ApproverID = &reviewerID
	leave.ReviewedAt = &now
	return &leave, nil
}
