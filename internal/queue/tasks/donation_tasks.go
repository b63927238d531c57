package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"Foodloop-Backend/entities"
	"Foodloop-Backend/internal/utils/mailing"
	"Foodloop-Backend/pkg/donation"
	"Foodloop-Backend/pkg/notification"

	"github.com/hibiken/asynq"
)

const (
	TypeMarkExpired     = "donation:mark_expired"
	TypeExpiryReminders = "donation:expiry_reminders"
)

// reminderWindows are how far ahead of expiry a reminder goes out. The
// reminder sweep runs hourly, so each window covers one hour and a donation
// gets at most one reminder per window.
var reminderWindows = []time.Duration{
	time.Hour,
	6 * time.Hour,
	24 * time.Hour,
}

// DonationTaskHandler runs the periodic donation housekeeping tasks.
type DonationTaskHandler struct {
	donationRepo    donation.DonationRepository
	notificationSvc notification.NotificationService
}

func NewDonationTaskHandler(donationRepo donation.DonationRepository, notificationSvc notification.NotificationService) *DonationTaskHandler {
	return &DonationTaskHandler{donationRepo: donationRepo, notificationSvc: notificationSvc}
}

// HandleMarkExpired sweeps Available donations whose expiry passed into the
// Expired status. Claims racing with the sweep are safe: the claim path
// re-checks expiry under a row lock.
func (h *DonationTaskHandler) HandleMarkExpired(ctx context.Context, t *asynq.Task) error {
	expired, err := h.donationRepo.MarkExpiredDonations(ctx, time.Now())
	if err != nil {
		log.Printf("mark expired sweep failed: %v", err)
		return err
	}
	if expired > 0 {
		log.Printf("marked %d donations as expired", expired)
	}
	return nil
}

// HandleExpiryReminders notifies donors, and recipients of claimed
// donations, when expiry is 1, 6 or 24 hours away.
func (h *DonationTaskHandler) HandleExpiryReminders(ctx context.Context, t *asynq.Task) error {
	now := time.Now()
	for _, window := range reminderWindows {
		donations, err := h.donationRepo.GetDonationsExpiringBetween(ctx, now.Add(window-time.Hour), now.Add(window))
		if err != nil {
			log.Printf("expiry reminder lookup for %s window failed: %v", window, err)
			return err
		}
		for _, d := range donations {
			h.remind(ctx, d, window)
		}
	}
	return nil
}

func (h *DonationTaskHandler) remind(ctx context.Context, d *entities.Donation, window time.Duration) {
	message := fmt.Sprintf("%q expires in about %s", d.Title, formatWindow(window))

	h.notificationSvc.Notify(ctx, d.DonorID, entities.NotificationSystem, "Donation expiring soon", message, &d.ID)
	if d.Donor != nil {
		mailing.SendMailAsync(d.Donor.Email, "Donation expiring soon",
			fmt.Sprintf("Hi %s,\n\n%s. Consider extending the listing or arranging a pickup.\n\nFoodLoop", d.Donor.Name, message))
	}

	if d.Status != entities.DonationClaimed || d.RecipientID == nil {
		return
	}
	h.notificationSvc.Notify(ctx, *d.RecipientID, entities.NotificationSystem, "Pickup expiring soon", message, &d.ID)
	if d.Recipient != nil {
		mailing.SendMailAsync(d.Recipient.Email, "Pickup expiring soon",
			fmt.Sprintf("Hi %s,\n\n%s. Please pick it up before then.\n\nFoodLoop", d.Recipient.Name, message))
	}
}

func formatWindow(window time.Duration) string {
	if window < 2*time.Hour {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", int(window.Hours()))
}
