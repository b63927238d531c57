package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationDonationClaimed   = "donation_claimed"
	NotificationDonationCompleted = "donation_completed"
	NotificationNewDonation       = "new_donation"
	NotificationRatingReceived    = "rating_received"
	NotificationSystem            = "system"
)

type Notification struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID           uuid.UUID  `gorm:"index" json:"user_id"`
	NotificationType string     `gorm:"index" json:"notification_type"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	IsRead           bool       `gorm:"index" json:"is_read"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	RelatedDonation  *uuid.UUID `json:"related_donation,omitempty"`

	User     *User     `gorm:"foreignKey:UserID"`
	Donation *Donation `gorm:"foreignKey:RelatedDonation"`
	Timestamp
}

type EmailVerification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID  `gorm:"index" json:"user_id"`
	Token      uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"token"`
	ExpiresAt  time.Time  `gorm:"index" json:"expires_at"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
