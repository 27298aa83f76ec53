package services

import (
	"context"
	"fmt"
	"time"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"
)

type NotificationService struct {
	repo repositories.NotificationRepository
	now  func() time.Time
}

func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

// TaskAssigned records a notification for the task's assignee. Failures are
// logged only; they never fail the task mutation.
func (s *NotificationService) TaskAssigned(ctx context.Context, task *models.Task) {
	if s == nil || task.AssignedTo == nil {
		return
	}
	notification := &models.Notification{
		MemberID:  task.AssignedTo.Hex(),
		TaskID:    task.ID.Hex(),
		Message:   fmt.Sprintf("You have been assigned to task %q", task.Title),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_CREATE_FAILED, Description: Could not notify member %s about task %s: %v",
			notification.MemberID, notification.TaskID, err)
		return
	}
	logging.Logger.Debugf("Event ID: NOTIFICATION_CREATED, Description: Member %s notified about task %s", notification.MemberID, notification.TaskID)
}

func (s *NotificationService) ListNotifications(ctx context.Context, claims *models.Claims) ([]models.Notification, error) {
	if err := requireAuthenticated(claims); err != nil {
		return nil, err
	}
	notifications, err := s.repo.ListByMember(ctx, claims.MemberID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, claims *models.Claims, id string) error {
	if err := requireAuthenticated(claims); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, claims.MemberID, id)
}
