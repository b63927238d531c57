package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetNotifications = "notifications retrieved successfully"
	MessageSuccessMarkRead         = "notification marked as read"
	MessageSuccessMarkAllRead      = "all notifications marked as read"

	MessageFailedGetNotifications = "failed to retrieve notifications"
	MessageFailedMarkRead         = "failed to mark notification as read"

	ErrNotificationNotFound = errors.New("notification not found")
)

type (
	Notification struct {
		ID               string     `json:"id"`
		NotificationType string     `json:"notification_type"`
		Title            string     `json:"title"`
		Message          string     `json:"message"`
		IsRead           bool       `json:"is_read"`
		ReadAt           *time.Time `json:"read_at,omitempty"`
		RelatedDonation  string     `json:"related_donation,omitempty"`
		CreatedAt        time.Time  `json:"created_at"`
	}

	UnreadCountResponse struct {
		Count int64 `json:"count"`
	}
)
