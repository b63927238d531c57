package tasks

import (
	"context"
	"log"
	"time"

	"Foodloop-Backend/pkg/notification"

	"github.com/hibiken/asynq"
)

const TypeNotificationCleanup = "notification:cleanup"

// notificationRetention is how long read notifications are kept.
const notificationRetention = 30 * 24 * time.Hour

type NotificationTaskHandler struct {
	notificationSvc notification.NotificationService
}

func NewNotificationTaskHandler(notificationSvc notification.NotificationService) *NotificationTaskHandler {
	return &NotificationTaskHandler{notificationSvc: notificationSvc}
}

func (h *NotificationTaskHandler) HandleCleanup(ctx context.Context, t *asynq.Task) error {
	deleted, err := h.notificationSvc.CleanupOldNotifications(ctx, notificationRetention)
	if err != nil {
		log.Printf("notification cleanup failed: %v", err)
		return err
	}
	if deleted > 0 {
		log.Printf("deleted %d old notifications", deleted)
	}
	return nil
}
