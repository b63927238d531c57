package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/entities"
	"Foodloop-Backend/internal/utils/cache"
	"Foodloop-Backend/pkg/nutrition"
	"Foodloop-Backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fanOutLimit caps how many compatible recipients get notified per new donation.
const fanOutLimit = 10

// fanOutCandidates is how many verified recipients are scanned for compatibility.
const fanOutCandidates = 100

type (
	NotificationService interface {
		Notify(ctx context.Context, userID uuid.UUID, notificationType, title, message string, relatedDonation *uuid.UUID)
		NotifyNewDonation(ctx context.Context, donation *entities.Donation) int
		NotifyDonationClaimed(ctx context.Context, donation *entities.Donation)
		NotifyDonationCompleted(ctx context.Context, donation *entities.Donation)
		NotifyDonationCancelled(ctx context.Context, donation *entities.Donation)
		NotifyRatingReceived(ctx context.Context, ratedUser uuid.UUID, raterName string, ratingValue int, donationID uuid.UUID)
		GetUserNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]domain.Notification, error)
		GetUnreadCount(ctx context.Context, userID string) (int64, error)
		MarkNotificationRead(ctx context.Context, notificationID string, userID string) error
		MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
		CleanupOldNotifications(ctx context.Context, olderThan time.Duration) (int64, error)
	}

	notificationService struct {
		notificationRepository NotificationRepository
		userRepository         user.UserRepository
		cacheManager           cache.CacheManager
	}
)

func NewNotificationService(
	notificationRepository NotificationRepository,
	userRepository user.UserRepository,
	cacheManager cache.CacheManager,
) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		userRepository:         userRepository,
		cacheManager:           cacheManager,
	}
}

// Notify stores an in-app notification. Failures are logged, never
// propagated, so notification delivery cannot break the calling flow.
func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, notificationType, title, message string, relatedDonation *uuid.UUID) {
	notification := &entities.Notification{
		UserID:           userID,
		NotificationType: notificationType,
		Title:            title,
		Message:          message,
		RelatedDonation:  relatedDonation,
	}

	if err := s.notificationRepository.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to create notification for user %s: %v", userID, err)
		return
	}
	s.cacheManager.InvalidateNotificationCount(ctx, userID.String())
}

func (s *notificationService) NotifyNewDonation(ctx context.Context, donation *entities.Donation) int {
	recipients, err := s.userRepository.FindVerifiedRecipients(ctx, fanOutCandidates)
	if err != nil {
		log.Printf("failed to load recipients for donation fan-out: %v", err)
		return 0
	}

	donationTags := decodeTags(donation.DietaryTags)
	notified := 0
	for _, recipient := range recipients {
		if notified >= fanOutLimit {
			break
		}
		if recipient.ID == donation.DonorID {
			continue
		}
		if !nutrition.Compatible(decodeTags(recipient.DietaryRestrictions), donationTags) {
			continue
		}
		s.Notify(ctx, recipient.ID, entities.NotificationNewDonation,
			"New donation near you",
			fmt.Sprintf("%q was just listed in the %s category", donation.Title, donation.FoodCategory),
			&donation.ID)
		notified++
	}
	return notified
}

func (s *notificationService) NotifyDonationClaimed(ctx context.Context, donation *entities.Donation) {
	recipientName := "A recipient"
	if donation.Recipient != nil {
		recipientName = donation.Recipient.Name
	}
	s.Notify(ctx, donation.DonorID, entities.NotificationDonationClaimed,
		"Your donation was claimed",
		fmt.Sprintf("%s claimed %q", recipientName, donation.Title),
		&donation.ID)
}

func (s *notificationService) NotifyDonationCompleted(ctx context.Context, donation *entities.Donation) {
	s.Notify(ctx, donation.DonorID, entities.NotificationDonationCompleted,
		"Donation completed",
		fmt.Sprintf("Pickup of %q is confirmed, thank you for sharing", donation.Title),
		&donation.ID)
	if donation.RecipientID != nil {
		s.Notify(ctx, *donation.RecipientID, entities.NotificationDonationCompleted,
			"Pickup confirmed",
			fmt.Sprintf("You picked up %q, enjoy your meal", donation.Title),
			&donation.ID)
	}
}

func (s *notificationService) NotifyDonationCancelled(ctx context.Context, donation *entities.Donation) {
	if donation.RecipientID == nil {
		return
	}
	s.Notify(ctx, *donation.RecipientID, entities.NotificationSystem,
		"Donation cancelled",
		fmt.Sprintf("%q was cancelled by the donor", donation.Title),
		&donation.ID)
}

func (s *notificationService) NotifyRatingReceived(ctx context.Context, ratedUser uuid.UUID, raterName string, ratingValue int, donationID uuid.UUID) {
	s.Notify(ctx, ratedUser, entities.NotificationRatingReceived,
		"You received a rating",
		fmt.Sprintf("%s rated you %d stars", raterName, ratingValue),
		&donationID)
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]domain.Notification, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, err := s.notificationRepository.GetUserNotifications(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Notification, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, toNotificationResponse(n))
	}
	return result, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	if count, ok := s.cacheManager.GetNotificationCount(ctx, userID); ok {
		return count, nil
	}

	count, err := s.notificationRepository.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.cacheManager.SetNotificationCount(ctx, userID, count)
	return count, nil
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	notification, err := s.notificationRepository.GetNotificationByID(ctx, notificationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrNotificationNotFound
		}
		return err
	}
	if notification.UserID.String() != userID {
		return domain.ErrNotificationNotFound
	}
	if notification.IsRead {
		return nil
	}

	if err := s.notificationRepository.MarkRead(ctx, notificationID, time.Now()); err != nil {
		return err
	}
	s.cacheManager.InvalidateNotificationCount(ctx, userID)
	return nil
}

func (s *notificationService) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.notificationRepository.MarkAllRead(ctx, userID, time.Now())
	if err != nil {
		return 0, err
	}
	s.cacheManager.InvalidateNotificationCount(ctx, userID)
	return updated, nil
}

func (s *notificationService) CleanupOldNotifications(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.notificationRepository.DeleteReadOlderThan(ctx, time.Now().Add(-olderThan))
}

func toNotificationResponse(n *entities.Notification) domain.Notification {
	resp := domain.Notification{
		ID:               n.ID.String(),
		NotificationType: n.NotificationType,
		Title:            n.Title,
		Message:          n.Message,
		IsRead:           n.IsRead,
		ReadAt:           n.ReadAt,
		CreatedAt:        n.CreatedAt,
	}
	if n.RelatedDonation != nil {
		resp.RelatedDonation = n.RelatedDonation.String()
	}
	return resp
}

func decodeTags(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}
